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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, slug, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories in insertion order, with post counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.description, c.slug, c.created_at,
		       COUNT(pc.post_id) AS post_count
		FROM categories c
		LEFT JOIN posts_to_categories pc ON pc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt, &c.PostCount)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns ErrNotFound if absent.
func (s *CategoryStore) FindByID(id int) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns ErrNotFound if absent.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Count returns the number of categories.
func (s *CategoryStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// Create inserts a new category, deriving its slug from the name.
// Returns ErrSlugConflict when the derived slug collides with an
// existing category.
func (s *CategoryStore) Create(name string, description *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	categorySlug := slug.Generate(name)
	if categorySlug == "" {
		return nil, &ValidationError{Field: "name", Reason: "produces an empty slug"}
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, description, slug)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		name, description, categorySlug,
	)
	c, err := scanCategory(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create category %q: %w", categorySlug, ErrSlugConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update modifies an existing category. A nil field keeps its prior value;
// a new name re-derives the slug, which must not collide with any other
// category. Returns ErrNotFound if the id does not exist.
func (s *CategoryStore) Update(id int, name, description *string) (*models.Category, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		current.Name = trimmed
		current.Slug = slug.Generate(trimmed)
		if current.Slug == "" {
			return nil, &ValidationError{Field: "name", Reason: "produces an empty slug"}
		}
	}
	if description != nil {
		current.Description = description
	}

	row := s.db.QueryRow(`
		UPDATE categories SET name = $1, description = $2, slug = $3
		WHERE id = $4
		RETURNING `+categoryColumns,
		current.Name, current.Description, current.Slug, id,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("update category %d: %w", id, ErrSlugConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete removes a category by ID. Its link rows cascade via the schema's
// foreign keys; the posts themselves are untouched. Deleting a nonexistent
// id returns ErrNotFound.
func (s *CategoryStore) Delete(id int) error {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
