package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"inkpress/internal/slug"
)

// seedCategories and seedPosts are the initial development fixtures.
// Each post names the category slugs it is linked to.
var seedCategories = []struct {
	name        string
	description string
}{
	{"Tech", "Engineering notes and tooling"},
	{"Life", "Everything that is not work"},
}

var seedPosts = []struct {
	title      string
	content    string
	published  bool
	categories []string
}{
	{
		title: "Hello, World!",
		content: "Welcome to your new blog.\n\n" +
			"This post was created by the development seed. Edit or delete it " +
			"from the dashboard, then write something of your own.",
		published:  true,
		categories: []string{"tech"},
	},
	{
		title: "Drafts stay private",
		content: "Posts start as drafts. A draft never shows up in the " +
			"published listing until you flip the switch.",
		published:  false,
		categories: []string{"tech", "life"},
	},
}

// Seed populates the database with initial development data: a couple of
// categories and posts. It is a no-op when posts already exist, so it is
// safe to call on every startup.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	categoryIDs := make(map[string]int)
	for _, c := range seedCategories {
		var id int
		err := db.QueryRow(`
			INSERT INTO categories (name, description, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, c.name, c.description, slug.Generate(c.name)).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.name, err)
		}
		categoryIDs[slug.Generate(c.name)] = id
	}

	for _, p := range seedPosts {
		var id int
		err := db.QueryRow(`
			INSERT INTO posts (title, content, slug, published)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, p.title, p.content, slug.Generate(p.title), p.published).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", p.title, err)
		}
		for _, categorySlug := range p.categories {
			_, err := db.Exec(`
				INSERT INTO posts_to_categories (post_id, category_id)
				VALUES ($1, $2)
			`, id, categoryIDs[categorySlug])
			if err != nil {
				return fmt.Errorf("seed link %q -> %q: %w", p.title, categorySlug, err)
			}
		}
	}

	slog.Info("database seeded with development content",
		"categories", len(seedCategories),
		"posts", len(seedPosts),
	)

	return nil
}
