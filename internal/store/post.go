// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// PostStore handles all post-related database operations, including the
// post's many-to-many category links. Create and Update each run in a
// single transaction covering the post row and the full replacement of
// its link rows.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, content, slug, published, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a post by ID with its categories resolved.
// Returns ErrNotFound if absent.
func (s *PostStore) FindByID(id int) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if err := s.attachCategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySlug retrieves a post by slug with its categories resolved.
// Drafts are reachable by slug; visibility is the caller's concern.
// Returns ErrNotFound if absent.
func (s *PostStore) FindBySlug(postSlug string) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1`, postSlug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if err := s.attachCategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new post and establishes its category links in one
// transaction. If any link references a missing category the whole
// creation rolls back and ErrCategoryMissing is returned, leaving no
// orphaned post behind.
func (s *PostStore) Create(title, content string, published bool, categoryIDs []int) (*models.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	postSlug := slug.Generate(title)
	if postSlug == "" {
		return nil, &ValidationError{Field: "title", Reason: "produces an empty slug"}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO posts (title, content, slug, published)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns,
		title, content, postSlug, published,
	)
	p, err := scanPost(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create post %q: %w", postSlug, ErrSlugConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := replaceCategories(tx, p.ID, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}

	if err := s.attachCategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

// PostUpdate carries the fields of a partial post update. Nil fields keep
// their prior value. CategoryIDs distinguishes "omitted" (nil — existing
// links are untouched) from "explicit empty" (pointer to an empty slice —
// all links are removed); when present it replaces the full association
// set, never merges.
type PostUpdate struct {
	Title       *string
	Content     *string
	Published   *bool
	CategoryIDs *[]int
}

// Update applies a partial update to a post in one transaction. A new
// title re-derives the slug. Returns ErrNotFound if the id does not
// exist, ErrSlugConflict if the re-derived slug collides, and
// ErrCategoryMissing if a supplied category id does not resolve; in every
// failure case the post and its links are left unchanged.
func (s *PostStore) Update(id int, upd PostUpdate) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the row for the duration of the transaction so the read-back
	// of untouched fields and the write are one unit.
	row := tx.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post for update: %w", err)
	}

	if upd.Title != nil {
		trimmed := strings.TrimSpace(*upd.Title)
		if trimmed == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		p.Title = trimmed
		p.Slug = slug.Generate(trimmed)
		if p.Slug == "" {
			return nil, &ValidationError{Field: "title", Reason: "produces an empty slug"}
		}
	}
	if upd.Content != nil {
		if strings.TrimSpace(*upd.Content) == "" {
			return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
		}
		p.Content = *upd.Content
	}
	if upd.Published != nil {
		p.Published = *upd.Published
	}

	row = tx.QueryRow(`
		UPDATE posts SET title = $1, content = $2, slug = $3, published = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+postColumns,
		p.Title, p.Content, p.Slug, p.Published, id,
	)
	p, err = scanPost(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("update post %d: %w", id, ErrSlugConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if upd.CategoryIDs != nil {
		if err := replaceCategories(tx, id, *upd.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update post: %w", err)
	}

	if err := s.attachCategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a post by ID. Its link rows cascade via the schema's
// foreign keys. Deleting a nonexistent id returns ErrNotFound.
func (s *PostStore) Delete(id int) error {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of posts, optionally restricted to a
// published state.
func (s *PostStore) Count(published *bool) (int, error) {
	var (
		count int
		err   error
	)
	if published == nil {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE published = $1`, *published).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// SetCategories replaces a post's full category set in its own
// transaction. Duplicate ids collapse to a single link. Returns
// ErrNotFound if the post does not exist and ErrCategoryMissing if any
// id does not resolve, in which case the prior links are kept.
func (s *PostStore) SetCategories(postID int, categoryIDs []int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if err := replaceCategories(tx, postID, categoryIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set categories: %w", err)
	}
	return nil
}

// replaceCategories deletes all existing links for a post and inserts one
// link per distinct category id, inside the caller's transaction. Because
// delete and insert share the transaction, a failed insert never leaves
// the post with its links half-replaced.
func replaceCategories(tx *sql.Tx, postID int, categoryIDs []int) error {
	if _, err := tx.Exec(`DELETE FROM posts_to_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}

	seen := make(map[int]bool, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		if seen[categoryID] {
			continue
		}
		seen[categoryID] = true

		_, err := tx.Exec(`
			INSERT INTO posts_to_categories (post_id, category_id)
			VALUES ($1, $2)
		`, postID, categoryID)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("link category %d: %w", categoryID, ErrCategoryMissing)
		}
		if err != nil {
			return fmt.Errorf("link category %d: %w", categoryID, err)
		}
	}
	return nil
}

// attachCategories resolves the category set of a single post.
func (s *PostStore) attachCategories(p *models.Post) error {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.description, c.slug, c.created_at
		FROM posts_to_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = $1
		ORDER BY c.id
	`, p.ID)
	if err != nil {
		return fmt.Errorf("resolve post categories: %w", err)
	}
	defer rows.Close()

	p.Categories = []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		p.Categories = append(p.Categories, c)
	}
	return rows.Err()
}

// attachCategoriesBatch resolves categories for many posts with a single
// query instead of one query per post.
func (s *PostStore) attachCategoriesBatch(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int]*models.Post, len(posts))
	placeholders := make([]string, len(posts))
	args := make([]any, len(posts))
	for i := range posts {
		posts[i].Categories = []models.Category{}
		byID[posts[i].ID] = &posts[i]
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = posts[i].ID
	}

	rows, err := s.db.Query(`
		SELECT pc.post_id, c.id, c.name, c.description, c.slug, c.created_at
		FROM posts_to_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY pc.post_id, c.id
	`, args...)
	if err != nil {
		return fmt.Errorf("resolve post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int
			c      models.Category
		)
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	return rows.Err()
}
