// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

// postPayload is the JSON shape of a post in API responses: the stored
// fields plus the derived display values, and rendered HTML on detail
// endpoints.
type postPayload struct {
	models.Post
	WordCount   int           `json:"word_count"`
	ReadingTime int           `json:"reading_time"`
	ContentHTML template.HTML `json:"content_html,omitempty"`
}

func newPostPayload(p models.Post) postPayload {
	return postPayload{
		Post:        p,
		WordCount:   p.WordCount(),
		ReadingTime: p.ReadingTime(),
	}
}

// newPostDetail additionally renders the Markdown content to HTML.
func newPostDetail(p models.Post) postPayload {
	payload := newPostPayload(p)
	if html, err := markdown.ToHTML(p.Content); err == nil {
		payload.ContentHTML = html
	}
	return payload
}

func postPayloads(posts []models.Post) []postPayload {
	out := make([]postPayload, len(posts))
	for i, p := range posts {
		out[i] = newPostPayload(p)
	}
	return out
}

type createPostRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Published   bool   `json:"published"`
	CategoryIDs []int  `json:"category_ids"`
}

func (req createPostRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, maxTitleLen)),
		validation.Field(&req.Content, validation.Required, validation.RuneLength(1, maxContentLen)),
		validation.Field(&req.CategoryIDs, validation.Each(validation.Min(1))),
	)
}

// updatePostRequest carries a partial post update. Nil fields are
// omitted; CategoryIDs distinguishes omitted (nil) from explicitly
// emptied (present as []).
type updatePostRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Published   *bool   `json:"published"`
	CategoryIDs *[]int  `json:"category_ids"`
}

func (req updatePostRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.RuneLength(1, maxTitleLen)),
		validation.Field(&req.Content, validation.NilOrNotEmpty, validation.RuneLength(1, maxContentLen)),
	)
}

// PostsQuery handles GET /api/posts — the filtered, paginated post list.
func (a *API) PostsQuery(w http.ResponseWriter, r *http.Request) {
	categoryID, err := intQuery(r, "category_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	published, err := boolQuery(r, "published")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := intQuery(r, "page")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	pageSize, err := intQuery(r, "page_size")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := store.QueryFilter{
		CategoryID: categoryID,
		Published:  published,
		Search:     r.URL.Query().Get("q"),
	}
	if page != nil {
		filter.Page = *page
	}
	if pageSize != nil {
		filter.PageSize = *pageSize
	}

	result, err := a.posts.Query(filter)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":       postPayloads(result.Items),
		"total_count": result.TotalCount,
		"page":        result.Page,
		"page_size":   result.PageSize,
	})
}

// PostGet handles GET /api/posts/{id}.
func (a *API) PostGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPostDetail(*post))
}

// PostGetBySlug handles GET /api/posts/slug/{slug}. Drafts resolve too;
// published-state filtering belongs to the list endpoints.
func (a *API) PostGetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := a.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPostDetail(*post))
}

// PostCreate handles POST /api/posts.
func (a *API) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Create(req.Title, req.Content, req.Published, req.CategoryIDs)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newPostDetail(*post))
}

// PostUpdate handles PUT /api/posts/{id}.
func (a *API) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Update(id, store.PostUpdate{
		Title:       req.Title,
		Content:     req.Content,
		Published:   req.Published,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPostDetail(*post))
}

// PostDelete handles DELETE /api/posts/{id}.
func (a *API) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
