// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"strings"
	"testing"
)

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	title := "My First Post " + salt()
	created, err := s.Create(title, "Hello from the test suite.", true, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, created.Slug) })

	if created.ID == 0 {
		t.Error("expected a nonzero id")
	}
	wantSlug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	if created.Slug != wantSlug {
		t.Errorf("Slug = %q, want %q", created.Slug, wantSlug)
	}
	if !created.Published {
		t.Error("Published should be true")
	}
	if created.Categories == nil || len(created.Categories) != 0 {
		t.Errorf("Categories = %v, want empty slice", created.Categories)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	bySlug, err := s.FindBySlug(created.Slug)
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if bySlug.ID != created.ID || bySlug.Title != title {
		t.Errorf("FindBySlug = %d %q, want %d %q", bySlug.ID, bySlug.Title, created.ID, title)
	}

	byID, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.Content != "Hello from the test suite." {
		t.Errorf("Content = %q", byID.Content)
	}
}

func TestPostStoreFindDraftBySlug(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	draft := mustCreatePost(t, db, s, "Unpublished Draft", false, nil)

	got, err := s.FindBySlug(draft.Slug)
	if err != nil {
		t.Fatalf("FindBySlug failed for draft: %v", err)
	}
	if got.Published {
		t.Error("draft should stay unpublished")
	}
}

func TestPostStoreCreateValidation(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	if _, err := s.Create("", "content", false, nil); !IsValidation(err) {
		t.Errorf("empty title error = %v, want ValidationError", err)
	}
	if _, err := s.Create("Has Title "+salt(), "  ", false, nil); !IsValidation(err) {
		t.Errorf("empty content error = %v, want ValidationError", err)
	}
	if _, err := s.Create("???", "content", false, nil); !IsValidation(err) {
		t.Errorf("punctuation title error = %v, want ValidationError", err)
	}
}

func TestPostStoreSlugConflict(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	title := "Conflicting Title " + salt()
	first, err := s.Create(title, "first body", false, nil)
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, first.Slug) })

	if _, err := s.Create(title, "second body", true, nil); !errors.Is(err, ErrSlugConflict) {
		t.Errorf("second Create error = %v, want ErrSlugConflict", err)
	}
}

func TestPostStoreCreateWithCategories(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	cats := NewCategoryStore(db)

	a := mustCreateCategory(t, db, cats, "Linked A")
	b := mustCreateCategory(t, db, cats, "Linked B")

	// Duplicate ids collapse to a single link.
	title := "Categorized Post " + salt()
	created, err := posts.Create(title, "body", true, []int{a.ID, b.ID, a.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, created.Slug) })

	got := categoryIDSet(created)
	if len(got) != 2 || !got[a.ID] || !got[b.ID] {
		t.Errorf("category set = %v, want {%d, %d}", got, a.ID, b.ID)
	}
}

func TestPostStoreCreateMissingCategoryRollsBack(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	title := "Orphan Candidate " + salt()
	_, err := s.Create(title, "body", false, []int{-1})
	if !errors.Is(err, ErrCategoryMissing) {
		t.Fatalf("Create error = %v, want ErrCategoryMissing", err)
	}

	// The post row must not survive the failed link.
	wantSlug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	if _, err := s.FindBySlug(wantSlug); !errors.Is(err, ErrNotFound) {
		t.Errorf("post persisted despite failed category link: %v", err)
	}
}

func TestPostStoreUpdatePartial(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	created := mustCreatePost(t, db, s, "Partial Update", false, nil)
	originalContent := created.Content

	// Title-only update re-derives the slug and keeps everything else.
	newTitle := "Renamed Post " + salt()
	updated, err := s.Update(created.ID, PostUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("title Update failed: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, updated.Slug) })

	wantSlug := strings.ToLower(strings.ReplaceAll(newTitle, " ", "-"))
	if updated.Slug != wantSlug {
		t.Errorf("Slug = %q, want %q", updated.Slug, wantSlug)
	}
	if updated.Content != originalContent {
		t.Errorf("Content changed on title-only update: %q", updated.Content)
	}
	if updated.Published {
		t.Error("Published changed on title-only update")
	}

	// Publish toggle leaves title and slug alone.
	published := true
	updated, err = s.Update(created.ID, PostUpdate{Published: &published})
	if err != nil {
		t.Fatalf("publish Update failed: %v", err)
	}
	if !updated.Published {
		t.Error("Published should be true")
	}
	if updated.Title != newTitle || updated.Slug != wantSlug {
		t.Errorf("publish toggle changed title/slug: %q %q", updated.Title, updated.Slug)
	}
}

func TestPostStoreUpdateNotFound(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	content := "new content"
	if _, err := s.Update(-1, PostUpdate{Content: &content}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(-1) error = %v, want ErrNotFound", err)
	}
}

func TestPostStoreUpdateReplacesCategorySet(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	cats := NewCategoryStore(db)

	a := mustCreateCategory(t, db, cats, "Set A")
	b := mustCreateCategory(t, db, cats, "Set B")
	c := mustCreateCategory(t, db, cats, "Set C")

	created := mustCreatePost(t, db, posts, "Replaceable Links", false, []int{a.ID, b.ID, c.ID})

	// {a, b, c} -> {a, b}: replacement, not merge.
	next := []int{a.ID, b.ID}
	updated, err := posts.Update(created.ID, PostUpdate{CategoryIDs: &next})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got := categoryIDSet(updated)
	if len(got) != 2 || !got[a.ID] || !got[b.ID] || got[c.ID] {
		t.Errorf("category set = %v, want {%d, %d}", got, a.ID, b.ID)
	}

	// Omitted set keeps links untouched.
	newContent := "content only"
	updated, err = posts.Update(created.ID, PostUpdate{Content: &newContent})
	if err != nil {
		t.Fatalf("content Update failed: %v", err)
	}
	if len(updated.Categories) != 2 {
		t.Errorf("omitted category set changed links: %v", categoryIDSet(updated))
	}

	// Explicit empty set clears all links.
	empty := []int{}
	updated, err = posts.Update(created.ID, PostUpdate{CategoryIDs: &empty})
	if err != nil {
		t.Fatalf("clearing Update failed: %v", err)
	}
	if len(updated.Categories) != 0 {
		t.Errorf("explicit empty set left links: %v", categoryIDSet(updated))
	}
}

func TestPostStoreUpdateMissingCategoryRollsBack(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	cats := NewCategoryStore(db)

	a := mustCreateCategory(t, db, cats, "Kept Link")
	created := mustCreatePost(t, db, posts, "Rollback Links", false, []int{a.ID})

	bad := []int{a.ID, -1}
	if _, err := posts.Update(created.ID, PostUpdate{CategoryIDs: &bad}); !errors.Is(err, ErrCategoryMissing) {
		t.Fatalf("Update error = %v, want ErrCategoryMissing", err)
	}

	// Prior links survive the rolled-back replacement.
	after, err := posts.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	got := categoryIDSet(after)
	if len(got) != 1 || !got[a.ID] {
		t.Errorf("category set = %v, want {%d}", got, a.ID)
	}
}

func TestPostStoreSetCategories(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	cats := NewCategoryStore(db)

	a := mustCreateCategory(t, db, cats, "Direct A")
	b := mustCreateCategory(t, db, cats, "Direct B")
	created := mustCreatePost(t, db, posts, "Direct Links", false, nil)

	if err := posts.SetCategories(created.ID, []int{a.ID, b.ID, b.ID}); err != nil {
		t.Fatalf("SetCategories failed: %v", err)
	}
	after, err := posts.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	got := categoryIDSet(after)
	if len(got) != 2 || !got[a.ID] || !got[b.ID] {
		t.Errorf("category set = %v, want {%d, %d}", got, a.ID, b.ID)
	}

	if err := posts.SetCategories(-1, []int{a.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCategories(-1) error = %v, want ErrNotFound", err)
	}
}

func TestPostStoreDelete(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	cats := NewCategoryStore(db)

	a := mustCreateCategory(t, db, cats, "Survivor")
	created := mustCreatePost(t, db, posts, "Doomed Post", true, []int{a.ID})

	if err := posts.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := posts.FindByID(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete error = %v, want ErrNotFound", err)
	}
	if err := posts.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}

	// Link rows cascade, the category itself stays.
	var links int
	if err := db.QueryRow(`SELECT COUNT(*) FROM posts_to_categories WHERE post_id = $1`, created.ID).Scan(&links); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("link rows survived post delete: %d", links)
	}
	if _, err := cats.FindByID(a.ID); err != nil {
		t.Errorf("category deleted alongside post: %v", err)
	}
}

func TestCategoryDeleteDetachesPosts(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	cats := NewCategoryStore(db)

	doomed := mustCreateCategory(t, db, cats, "Doomed Link")
	kept := mustCreateCategory(t, db, cats, "Kept After Cascade")
	created := mustCreatePost(t, db, posts, "Detached Post", true, []int{doomed.ID, kept.ID})

	if err := cats.Delete(doomed.ID); err != nil {
		t.Fatalf("Delete category failed: %v", err)
	}

	after, err := posts.FindByID(created.ID)
	if err != nil {
		t.Fatalf("post should survive category delete: %v", err)
	}
	got := categoryIDSet(after)
	if got[doomed.ID] {
		t.Error("deleted category still linked to post")
	}
	if !got[kept.ID] || len(got) != 1 {
		t.Errorf("category set = %v, want {%d}", got, kept.ID)
	}
}

func TestPostStoreCount(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	baseAll, err := s.Count(nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	published := true
	basePublished, err := s.Count(&published)
	if err != nil {
		t.Fatalf("Count(published) failed: %v", err)
	}

	mustCreatePost(t, db, s, "Counted Published", true, nil)
	mustCreatePost(t, db, s, "Counted Draft", false, nil)

	afterAll, _ := s.Count(nil)
	if afterAll != baseAll+2 {
		t.Errorf("Count = %d, want %d", afterAll, baseAll+2)
	}
	afterPublished, _ := s.Count(&published)
	if afterPublished != basePublished+1 {
		t.Errorf("Count(published) = %d, want %d", afterPublished, basePublished+1)
	}
}
