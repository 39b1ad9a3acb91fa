package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pressctx/internal/store"
)

type seedPost struct {
	id     int64
	title  string
	status string
	format string
	text   string
	order  int64
	tags   []int64
}

var seedPosts = []seedPost{
	{1, "Hello world", "published", "markdown", "Welcome to the **demo** site. Edit or delete this post.", 1, []int64{1}},
	{2, "Static sites without the pain", "published,featured", "markdown",
		"Static output is fast, cheap to host and hard to break.\n\n## Why\n\nNothing runs on the server.", 2, []int64{1, 2}},
	{3, "Writing themes", "published", "html", "<p>Themes receive a plain data context for every page.</p>", 3, []int64{2}},
	{4, "Static hosting checklist", "published", "markdown", "- DNS\n- TLS\n- Cache headers", 4, []int64{1, 3}},
	{5, "About this site", "published,hidden", "html", "<p>Reachable by URL only.</p>", 5, nil},
	{6, "Unfinished thoughts", "draft", "markdown", "Not ready yet.", 6, nil},
}

const seedMenus = `[
	{"name": "Main", "position": "mainMenu", "items": [
		{"label": "Home", "link": "/"},
		{"label": "Static", "link": "/tags/static/"}
	]},
	{"name": "Footer links", "position": "", "items": [
		{"label": "About", "link": "/about-this-site.html"}
	]}
]`

// Seed populates an empty database with demo authors, tags and posts so a
// local preview has something to render.
func Seed(db *sql.DB, dialect store.Dialect) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, dialect.Rebind(query), args...)
		return err
	}

	if err := exec(`INSERT INTO authors (id, name, username) VALUES (?, ?, ?)`, 1, "Site Owner", "owner"); err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}
	if err := exec(`INSERT INTO authors (id, name, username) VALUES (?, ?, ?)`, 2, "Guest Writer", "guest"); err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	for _, t := range []struct {
		id         int64
		name, slug string
	}{{1, "Static", "static"}, {2, "Themes", "themes"}, {3, "Hosting", "hosting"}} {
		if err := exec(`INSERT INTO tags (id, name, slug) VALUES (?, ?, ?)`, t.id, t.name, t.slug); err != nil {
			return fmt.Errorf("seed insert tag: %w", err)
		}
	}

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC).UnixMilli()
	day := int64(24 * time.Hour / time.Millisecond)
	for i, p := range seedPosts {
		author := int64(1)
		if i%2 == 1 {
			author = 2
		}
		created := base + int64(i)*day
		if err := exec(`
			INSERT INTO posts (id, title, slug, author_id, text, text_format, status, created_at, modified_at, sort_order)
			VALUES (?, ?, '', ?, ?, ?, ?, ?, ?, ?)`,
			p.id, p.title, author, p.text, p.format, p.status, created, created, p.order,
		); err != nil {
			return fmt.Errorf("seed insert post: %w", err)
		}
		for _, tid := range p.tags {
			if err := exec(`INSERT INTO posts_tags (tag_id, post_id) VALUES (?, ?)`, tid, p.id); err != nil {
				return fmt.Errorf("seed insert post tag: %w", err)
			}
		}
	}

	if err := exec(`INSERT INTO posts_additional_data (post_id, key, value) VALUES (?, ?, ?)`,
		5, "_core", `{"metaTitle":"About %sitename","metaRobots":"noindex,follow"}`); err != nil {
		return fmt.Errorf("seed insert metadata: %w", err)
	}
	settings := store.NewSiteSettingStore(db, dialect)
	if err := settings.SetManyTx(ctx, tx, map[string]string{store.MenuSettingKey: seedMenus}); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo content", "posts", len(seedPosts))
	return nil
}
