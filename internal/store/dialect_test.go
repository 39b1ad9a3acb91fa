// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressctx/internal/models"
	"pressctx/internal/ordering"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{SQLite, "SELECT ? , ?", "SELECT ? , ?"},
		{Postgres, "SELECT ? , ?", "SELECT $1 , $2"},
		{Postgres, "WHERE a LIKE ? ESCAPE '\\' AND b = '?' AND c = ?", "WHERE a LIKE $1 ESCAPE '\\' AND b = '?' AND c = $2"},
		{Postgres, "REPLACE(x, '''', '') = ?", "REPLACE(x, '''', '') = $1"},
		{Postgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dialect.Rebind(tt.in), tt.in)
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}

func TestStatusFilterSQL(t *testing.T) {
	where, args := statusFilter(models.PublishedFilter(true))
	assert.Equal(t, 4, len(args))
	assert.Equal(t, "%,published,%", args[0])
	assert.Equal(t, "%,featured,%", args[3])
	assert.Contains(t, where, "NOT LIKE")

	where, args = statusFilter(models.StatusFilter{})
	assert.Equal(t, "1 = 1", where)
	assert.Empty(t, args)
}

func TestSortExpr(t *testing.T) {
	assert.Equal(t, "p.sort_order", SQLite.sortExpr(ordering.KeyOrder))
	assert.NotContains(t, SQLite.sortExpr(ordering.KeyTitle), "COLLATE")
	assert.Contains(t, Postgres.sortExpr(ordering.KeyTitle), `COLLATE "C"`)
	assert.Equal(t, "ORDER BY p.created_at ASC, p.id ASC",
		SQLite.orderBy(ordering.Policy{Key: ordering.KeyCreatedAt, Direction: ordering.Asc}))
}

func TestCoerceInt64(t *testing.T) {
	tests := []struct {
		in      any
		want    int64
		wantErr bool
	}{
		{nil, 0, false},
		{int64(42), 42, false},
		{float64(1.7e12), 1700000000000, false},
		{"1700000000000", 1700000000000, false},
		{[]byte(" 7 "), 7, false},
		{"", 0, false},
		{1.5, 0, true},
		{"soon", 0, true},
		{true, 0, true},
	}
	for _, tt := range tests {
		got, err := coerceInt64("created_at", tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMalformedValue, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSQLStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewSQLStore(db, SQLite)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.id FROM posts p WHERE")).WillReturnError(boom)
	_, err = s.QueryItemsPage(ctx, models.PublishedFilter(false), ordering.Default, 0, 10)
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts p")).WillReturnError(boom)
	_, err = s.QueryCount(ctx, models.PublishedFilter(false))
	assert.ErrorIs(t, err, boom)

	anchor := &models.Item{ID: 3, CreatedAt: 30}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.id FROM posts p WHERE p.id <> ?")).WillReturnError(boom)
	_, _, err = s.QueryNeighbor(ctx, NeighborQuery{
		AnchorID: 3,
		Filter:   models.PublishedFilter(false),
		Boundary: ordering.Default.Boundary(anchor, ordering.Next),
		Order:    ordering.Default,
	})
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.id, p.title,")).WillReturnError(boom)
	_, err = s.QueryRelated(ctx, RelatedQuery{AnchorID: 3, TagIDs: []int64{1}, Limit: 5})
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts WHERE id = ?")).WillReturnError(boom)
	_, err = s.HydrateItem(ctx, 3)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreNeighborNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewSQLStore(db, Postgres)

	anchor := &models.Item{ID: 3, CreatedAt: 30}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.id FROM posts p WHERE p.id <> $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	id, found, err := s.QueryNeighbor(context.Background(), NeighborQuery{
		AnchorID:  3,
		Filter:    models.PublishedFilter(false),
		Boundary:  ordering.Default.Boundary(anchor, ordering.Previous),
		Order:     ordering.Default.ScanOrder(ordering.Previous),
		AnyTagIDs: []int64{4, 5},
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreRelatedPostgresRanksInSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.id FROM")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(2))

	ids, err := NewSQLStore(db, Postgres).QueryRelated(context.Background(), RelatedQuery{
		AnchorID: 1, Filter: models.PublishedFilter(false), Words: []string{"go"}, Limit: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreRelatedSQLiteFoldsInGo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.id, p.title, (SELECT COUNT(*) FROM posts_tags")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "shared"}).
			AddRow(2, "ÜBER alles", 0).
			AddRow(3, "Unrelated", 0).
			AddRow(4, "Straße", 1).
			AddRow(5, "Tagged", 1))

	ids, err := NewSQLStore(db, SQLite).QueryRelated(context.Background(), RelatedQuery{
		AnchorID: 1,
		Filter:   models.PublishedFilter(false),
		TagIDs:   []int64{9},
		Words:    []string{"über", "straße"},
		Limit:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordHits(t *testing.T) {
	assert.Equal(t, 2, wordHits("Über die Straße", []string{"über", "STRASSE", "straße"}))
	assert.Equal(t, 0, wordHits("anything", nil))
}

func TestSQLStoreRelatedNoSignalSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ids, err := NewSQLStore(db, SQLite).QueryRelated(context.Background(), RelatedQuery{AnchorID: 1, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
