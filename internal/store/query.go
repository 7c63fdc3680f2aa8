// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// query.go implements the filtered, paginated post listing. The category
// filter is pushed into SQL as a semi-join rather than materializing link
// rows and intersecting in memory.
package store

import (
	"fmt"
	"strings"

	"inkpress/internal/models"
)

const (
	// DefaultPageSize is used when a query does not name a page size.
	DefaultPageSize = 10
	// MaxPageSize caps a caller-supplied page size.
	MaxPageSize = 100
)

// QueryFilter describes the visible-post computation: optional filters
// plus a 1-based pagination window. Zero values mean "no filter" and
// default pagination.
type QueryFilter struct {
	CategoryID *int
	Published  *bool
	Search     string
	Page       int
	PageSize   int
}

// QueryResult is one page of posts with resolved categories, plus the
// total size of the filtered set before pagination.
type QueryResult struct {
	Items      []models.Post `json:"items"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

// likeEscaper neutralizes LIKE pattern metacharacters so a search term is
// matched as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildPostPredicate translates a filter into a WHERE clause over the
// posts table (aliased p) and its argument list.
func buildPostPredicate(f QueryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM posts_to_categories pc
			WHERE pc.post_id = p.id AND pc.category_id = $%d
		)`, len(args)))
	}
	if f.Published != nil {
		args = append(args, *f.Published)
		conds = append(conds, fmt.Sprintf("p.published = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// Query computes one page of the visible post list. Posts are ordered
// newest first (created_at descending, ties broken by id descending),
// the total count reflects the filtered set before pagination, and a
// page beyond the end yields an empty item list, not an error.
func (s *PostStore) Query(f QueryFilter) (*QueryResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}

	where, args := buildPostPredicate(f)

	var total int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts p `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count filtered posts: %w", err)
	}

	limitArgs := append(args, f.PageSize, (f.Page-1)*f.PageSize)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM posts p
		%s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, postQueryColumns, where, len(args)+1, len(args)+2), limitArgs...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Content, &p.Slug,
			&p.Published, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCategoriesBatch(items); err != nil {
		return nil, err
	}

	return &QueryResult{
		Items:      items,
		TotalCount: total,
		Page:       f.Page,
		PageSize:   f.PageSize,
	}, nil
}

// postQueryColumns is postColumns qualified with the p alias.
const postQueryColumns = `p.id, p.title, p.content, p.slug, p.published, p.created_at, p.updated_at`

// List returns the unpaginated post list for the given filters, newest
// first, with categories resolved.
func (s *PostStore) List(categoryID *int, published *bool) ([]models.Post, error) {
	where, args := buildPostPredicate(QueryFilter{CategoryID: categoryID, Published: published})

	rows, err := s.db.Query(`
		SELECT `+postQueryColumns+` FROM posts p
		`+where+`
		ORDER BY p.created_at DESC, p.id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Content, &p.Slug,
			&p.Published, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCategoriesBatch(items); err != nil {
		return nil, err
	}
	return items, nil
}
