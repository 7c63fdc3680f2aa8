// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/render"
	"inkpress/internal/store"
)

// publicPageSize is the number of posts per public listing page.
const publicPageSize = 10

// Public groups handlers for the public-facing blog pages.
type Public struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore) *Public {
	return &Public{renderer: renderer, posts: posts, categories: categories}
}

// Home renders the public post listing: published posts, newest first,
// optionally narrowed to a category (?category=slug) or a search term
// (?q=term), paginated with ?page=N.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	search := r.URL.Query().Get("q")

	var category *models.Category
	if categorySlug := r.URL.Query().Get("category"); categorySlug != "" {
		found, err := p.categories.FindBySlug(categorySlug)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			slog.Error("find category by slug failed", "error", err, "slug", categorySlug)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if found == nil {
			http.NotFound(w, r)
			return
		}
		category = found
	}

	published := true
	filter := store.QueryFilter{
		Published: &published,
		Search:    search,
		Page:      page,
		PageSize:  publicPageSize,
	}
	if category != nil {
		filter.CategoryID = &category.ID
	}

	result, err := p.posts.Query(filter)
	if err != nil {
		slog.Error("query posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Carry the active filters into the pagination links.
	filterQuery := ""
	if category != nil {
		filterQuery += "&category=" + url.QueryEscape(category.Slug)
	}
	if search != "" {
		filterQuery += "&q=" + url.QueryEscape(search)
	}

	title := "Latest posts"
	if category != nil {
		title = category.Name
	}

	err = p.renderer.Page(w, "post_list", &render.PageData{
		Title: title,
		Data: map[string]any{
			"Result":      result,
			"Category":    category,
			"Search":      search,
			"FilterQuery": filterQuery,
			"PrevPage":    result.Page - 1,
			"NextPage":    result.Page + 1,
			"HasMore":     result.Page*result.PageSize < result.TotalCount,
		},
	})
	if err != nil {
		slog.Error("render post list failed", "error", err)
	}
}

// Post renders a single post page by its slug. Drafts render too, marked
// with a draft badge, matching the API's slug lookup semantics.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	post, err := p.posts.FindBySlug(postSlug)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", postSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("render markdown failed", "error", err, "slug", postSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	err = p.renderer.Page(w, "post", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":        post,
			"ContentHTML": contentHTML,
		},
	})
	if err != nil {
		slog.Error("render post failed", "error", err)
	}
}
