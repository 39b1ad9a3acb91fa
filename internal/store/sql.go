// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store reads render data out of the content database. SQLStore
// serves Postgres and SQLite through database/sql; MemoryStore keeps the same
// semantics in memory for previews and tests.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pressctx/internal/models"
	"pressctx/internal/ordering"
)

// postColumns lists the posts columns in the order scanPost expects them.
const postColumns = `id, title, slug, author_id, text, text_format, status,
	created_at, modified_at, sort_order`

// SQLStore is the database-backed content store.
type SQLStore struct {
	db       *sql.DB
	dialect  Dialect
	settings *SiteSettingStore
}

// NewSQLStore returns a SQLStore for a database of the given dialect.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:       db,
		dialect:  dialect,
		settings: NewSiteSettingStore(db, dialect),
	}
}

// Settings exposes the site settings of the same database.
func (s *SQLStore) Settings() *SiteSettingStore {
	return s.settings
}

// QueryItemsPage returns one page of item IDs matching filter in policy
// order. A negative limit returns every matching item.
func (s *SQLStore) QueryItemsPage(ctx context.Context, filter models.StatusFilter, policy ordering.Policy, offset, limit int) ([]int64, error) {
	where, args := statusFilter(filter)
	q := "SELECT p.id FROM posts p WHERE " + where + " " + s.dialect.orderBy(policy)
	if limit >= 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	} else if offset > 0 {
		// Postgres and SQLite both accept a huge LIMIT to mean "all".
		q += " LIMIT ? OFFSET ?"
		args = append(args, int64(1)<<62, offset)
	}

	ids, err := s.queryIDs(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query items page: %w", err)
	}
	return ids, nil
}

// QueryCount counts the items matching filter.
func (s *SQLStore) QueryCount(ctx context.Context, filter models.StatusFilter) (int, error) {
	where, args := statusFilter(filter)
	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT COUNT(*) FROM posts p WHERE "+where), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("query count: %w", err)
	}
	return n, nil
}

// QueryNeighbor returns the closest item matching q, or false when there is
// none.
func (s *SQLStore) QueryNeighbor(ctx context.Context, q NeighborQuery) (int64, bool, error) {
	where, args := statusFilter(q.Filter)
	bound, boundArgs := s.dialect.boundary(q.Boundary)

	var b strings.Builder
	b.WriteString("SELECT p.id FROM posts p WHERE p.id <> ? AND ")
	b.WriteString(where)
	b.WriteString(" AND ")
	b.WriteString(bound)

	all := append([]any{q.AnchorID}, args...)
	all = append(all, boundArgs...)

	if len(q.AnyTagIDs) > 0 {
		b.WriteString(" AND EXISTS (SELECT 1 FROM posts_tags pt WHERE pt.post_id = p.id AND pt.tag_id IN (")
		b.WriteString(inList(len(q.AnyTagIDs)))
		b.WriteString("))")
		all = append(all, int64Args(q.AnyTagIDs)...)
	}
	b.WriteString(" ")
	b.WriteString(s.dialect.orderBy(q.Order))
	b.WriteString(" LIMIT 1")

	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(b.String()), all...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query neighbor: %w", err)
	}
	return id, true, nil
}

// QueryRelated ranks items sharing tags or title words with the anchor.
// Items without any hit are never returned.
func (s *SQLStore) QueryRelated(ctx context.Context, q RelatedQuery) ([]int64, error) {
	if !q.HasSignal() || q.Limit <= 0 {
		return []int64{}, nil
	}
	if s.dialect == SQLite {
		return s.queryRelatedFolded(ctx, q)
	}

	var (
		selectArgs []any
		tagScore   = "0"
		wordScore  = "0"
	)
	if len(q.TagIDs) > 0 {
		tagScore = "(SELECT COUNT(*) FROM posts_tags pt WHERE pt.post_id = p.id AND pt.tag_id IN (" +
			inList(len(q.TagIDs)) + "))"
		selectArgs = append(selectArgs, int64Args(q.TagIDs)...)
	}
	if len(q.Words) > 0 {
		cases := make([]string, len(q.Words))
		for i, w := range q.Words {
			cases[i] = `CASE WHEN LOWER(p.title) LIKE ? ESCAPE '\' THEN 1 ELSE 0 END`
			selectArgs = append(selectArgs, "%"+escapeLike(strings.ToLower(w))+"%")
		}
		wordScore = "(" + strings.Join(cases, " + ") + ")"
	}

	where, whereArgs := statusFilter(q.Filter)
	query := fmt.Sprintf(`SELECT r.id FROM (
		SELECT p.id AS id, %d * %s + %d * %s AS score
		FROM posts p
		WHERE p.id <> ? AND %s
	) r
	WHERE r.score > 0
	ORDER BY r.score DESC, r.id ASC
	LIMIT ?`, TagWeight, tagScore, WordWeight, wordScore, where)

	args := append(selectArgs, q.AnchorID)
	args = append(args, whereArgs...)
	args = append(args, q.Limit)

	ids, err := s.queryIDs(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query related: %w", err)
	}
	return ids, nil
}

// queryRelatedFolded scores title words in Go. SQLite LOWER and LIKE only
// fold ASCII, so titles such as "Über" would never match "über" there.
func (s *SQLStore) queryRelatedFolded(ctx context.Context, q RelatedQuery) ([]int64, error) {
	var args []any
	tagScore := "0"
	if len(q.TagIDs) > 0 {
		tagScore = "(SELECT COUNT(*) FROM posts_tags pt WHERE pt.post_id = p.id AND pt.tag_id IN (" +
			inList(len(q.TagIDs)) + "))"
		args = append(args, int64Args(q.TagIDs)...)
	}
	where, whereArgs := statusFilter(q.Filter)
	args = append(args, q.AnchorID)
	args = append(args, whereArgs...)

	query := "SELECT p.id, p.title, " + tagScore + " FROM posts p WHERE p.id <> ? AND " + where
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query related: %w", err)
	}
	defer rows.Close()

	var hits []relatedHit
	for rows.Next() {
		var (
			id     int64
			title  string
			shared int
		)
		if err := rows.Scan(&id, &title, &shared); err != nil {
			return nil, fmt.Errorf("query related: scan: %w", err)
		}
		if score := TagWeight*shared + WordWeight*wordHits(title, q.Words); score > 0 {
			hits = append(hits, relatedHit{id: id, score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query related: %w", err)
	}
	return rankRelated(hits, q.Limit), nil
}

// HydrateItem loads one item with its tags. The author is left for the
// caller to resolve through AuthorID.
func (s *SQLStore) HydrateItem(ctx context.Context, id int64) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT "+postColumns+" FROM posts WHERE id = ?"), id)
	item, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hydrate item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("hydrate item %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`
		SELECT t.id, t.name, t.slug
		FROM tags t
		JOIN posts_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = ?
		ORDER BY t.name, t.id`), id)
	if err != nil {
		return nil, fmt.Errorf("hydrate item tags %d: %w", id, err)
	}
	defer rows.Close()

	item.Tags = []*models.Tag{}
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		item.Tags = append(item.Tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hydrate item tags %d: %w", id, err)
	}
	return item, nil
}

// HydrateAuthor loads one author.
func (s *SQLStore) HydrateAuthor(ctx context.Context, id int64) (*models.Author, error) {
	a := &models.Author{}
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT id, name, username FROM authors WHERE id = ?"), id).
		Scan(&a.ID, &a.Name, &a.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hydrate author %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("hydrate author %d: %w", id, err)
	}
	return a, nil
}

// MetadataOverride returns the raw additional data stored for an item under
// key, and false when nothing is stored.
func (s *SQLStore) MetadataOverride(ctx context.Context, id int64, key string) (string, bool, error) {
	var v sql.NullString
	err := s.db.QueryRowContext(ctx,
		s.dialect.Rebind("SELECT value FROM posts_additional_data WHERE post_id = ? AND key = ?"), id, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("metadata override %d: %w", id, err)
	}
	return v.String, v.Valid && v.String != "", nil
}

// Tags lists every tag ordered by name with the number of visible posts
// carrying it.
func (s *SQLStore) Tags(ctx context.Context) ([]*models.Tag, error) {
	where, args := statusFilter(models.PublishedFilter(false))
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`
		SELECT t.id, t.name, t.slug, COUNT(p.id)
		FROM tags t
		LEFT JOIN posts_tags pt ON pt.tag_id = t.id
		LEFT JOIN posts p ON p.id = pt.post_id AND `+where+`
		GROUP BY t.id, t.name, t.slug
		ORDER BY t.name, t.id`), args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.PostsCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// AuthorIDs lists author IDs ordered by name.
func (s *SQLStore) AuthorIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.queryIDs(ctx, "SELECT id FROM authors ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return ids, nil
}

// Menus decodes the menu configuration site setting. No setting means no
// menus.
func (s *SQLStore) Menus(ctx context.Context) ([]models.Menu, error) {
	raw, err := s.settings.Get(ctx, MenuSettingKey, "")
	if err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}
	return decodeMenus(raw)
}

func decodeMenus(raw string) ([]models.Menu, error) {
	menus := []models.Menu{}
	if strings.TrimSpace(raw) == "" {
		return menus, nil
	}
	if err := json.Unmarshal([]byte(raw), &menus); err != nil {
		return nil, fmt.Errorf("decode menus: %v: %w", err, ErrMalformedValue)
	}
	return menus, nil
}

func (s *SQLStore) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanPost reads a row selected with postColumns. Integer columns go through
// coerceInt64.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Item, error) {
	var (
		item                                   models.Item
		title, slug, text, format, status      any
		authorID, created, modified, sortOrder any
	)
	if err := scanner.Scan(&item.ID, &title, &slug, &authorID, &text, &format, &status,
		&created, &modified, &sortOrder); err != nil {
		return nil, err
	}

	var err error
	if item.AuthorID, err = coerceInt64("author_id", authorID); err != nil {
		return nil, err
	}
	if item.CreatedAt, err = coerceInt64("created_at", created); err != nil {
		return nil, err
	}
	if item.ModifiedAt, err = coerceInt64("modified_at", modified); err != nil {
		return nil, err
	}
	if item.Order, err = coerceInt64("sort_order", sortOrder); err != nil {
		return nil, err
	}

	item.Title = coerceString(title)
	item.Slug = coerceString(slug)
	item.Text = coerceString(text)
	item.TextFormat = models.TextFormat(coerceString(format))
	item.Status = models.ParseStatus(coerceString(status))
	return &item, nil
}
