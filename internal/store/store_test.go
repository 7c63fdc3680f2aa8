// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// salt returns a short unique suffix so titles (and therefore slugs)
// never collide across test runs sharing a database.
func salt() string {
	return uuid.NewString()[:8]
}

// cleanPosts removes test posts by slug. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", slug)
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// mustCreateCategory creates a category with a salted name and registers
// cleanup.
func mustCreateCategory(t *testing.T, db *sql.DB, s *CategoryStore, name string) *models.Category {
	t.Helper()
	c, err := s.Create(name+" "+salt(), nil)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	t.Cleanup(func() { cleanCategories(t, db, c.Slug) })
	return c
}

// mustCreatePost creates a post with a salted title and registers cleanup.
func mustCreatePost(t *testing.T, db *sql.DB, s *PostStore, title string, published bool, categoryIDs []int) *models.Post {
	t.Helper()
	p, err := s.Create(title+" "+salt(), "test content for "+title, published, categoryIDs)
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	t.Cleanup(func() { cleanPosts(t, db, p.Slug) })
	return p
}

// categoryIDSet extracts the id set of a post's resolved categories.
func categoryIDSet(p *models.Post) map[int]bool {
	ids := make(map[int]bool, len(p.Categories))
	for _, c := range p.Categories {
		ids[c.ID] = true
	}
	return ids
}
