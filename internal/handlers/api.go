// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the inkpress server.
// Handlers are grouped by concern (api, public) and receive their
// dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/store"
)

// API groups the JSON API handlers and their dependencies.
type API struct {
	posts      *store.PostStore
	categories *store.CategoryStore
}

// NewAPI creates a new API handler group with the given stores.
func NewAPI(posts *store.PostStore, categories *store.CategoryStore) *API {
	return &API{posts: posts, categories: categories}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError writes a JSON error envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps store-layer failures onto HTTP status codes:
// validation 400, not found 404, slug conflict 409, missing category 422,
// anything else 500.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case store.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrSlugConflict):
		respondError(w, http.StatusConflict, "slug already exists")
	case errors.Is(err, store.ErrCategoryMissing):
		respondError(w, http.StatusUnprocessableEntity, "referenced category does not exist")
	default:
		slog.Error("store operation failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// intQuery parses an optional integer query parameter, returning nil when
// the parameter is absent.
func intQuery(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &v, nil
}

// boolQuery parses an optional boolean query parameter, returning nil when
// the parameter is absent.
func boolQuery(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &v, nil
}
