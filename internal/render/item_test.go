// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressctx/internal/models"
)

func TestItemBuild(t *testing.T) {
	p := newTestPass(t, fixtureStore(), testTheme())
	ic, err := p.Item().Build(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "Beta notes", ic.Title)
	assert.Equal(t, int64(2), ic.Post.ID)
	assert.Equal(t, "Ada", ic.Post.Author.Name)

	assert.Equal(t, int64(3), itemID(ic.PreviousPost))
	assert.Equal(t, int64(1), itemID(ic.NextPost))
	assert.Equal(t, int64(3), itemID(ic.PreviousSimilarPost))
	assert.Nil(t, ic.NextSimilarPost)
	assert.Equal(t, []int64{3}, itemIDs(ic.RelatedPosts))

	assert.Equal(t, []int64{3}, itemIDs(ic.FeaturedPosts))
	assert.Equal(t, []int64{4}, itemIDs(ic.HiddenPosts))
	require.Len(t, ic.Tags, 3)
	assert.Equal(t, "go", ic.Tags[0].Name)
	require.Len(t, ic.Authors, 2)
	assert.Equal(t, "Ada", ic.Authors[0].Name)
	require.NotNil(t, ic.SiteOwner)
	assert.Equal(t, int64(1), ic.SiteOwner.ID)
	assert.Len(t, ic.Menus, 1)
	assert.Len(t, ic.UnassignedMenus, 1)

	assert.Equal(t, "Beta notes", ic.MetaTitleRaw)
	assert.Equal(t, "index,follow", ic.MetaRobotsRaw)
	assert.Equal(t, "/beta-notes/", ic.CanonicalURL)

	// Neighbors come from the pass cache.
	featured, err := p.Cache().Item(context.Background(), 3)
	require.NoError(t, err)
	assert.Same(t, featured, ic.PreviousPost)
}

func TestItemBuildMeta(t *testing.T) {
	m := fixtureStore()
	m.SetMetadata(2, models.CoreMetadataKey, `{"metaTitle":"%posttitle by %authorname","metaRobots":"noindex,follow"}`)
	m.SetMetadata(3, models.CoreMetadataKey, `{"metaDesc":"Custom","canonicalUrl":"https://example.com/gamma"}`)

	theme := testTheme()
	theme.Site.DisplayName = "Notebook"
	theme.Site.PostMetaTitle = "%posttitle | %sitename"
	theme.Site.PostMetaDescription = "Read %posttitle on %sitename"
	p := newTestPass(t, m, theme)
	ctx := context.Background()

	ic, err := p.Item().Build(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Beta notes by Ada", ic.Title)
	assert.Equal(t, "Beta notes by Ada", ic.MetaTitleRaw)
	assert.Equal(t, "Read Beta notes on Notebook", ic.MetaDescriptionRaw)
	assert.Equal(t, "noindex,follow", ic.MetaRobotsRaw)

	ic, err = p.Item().Build(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Gamma release | Notebook", ic.Title)
	assert.Equal(t, "Gamma release | Notebook", ic.MetaTitleRaw)
	assert.Equal(t, "Custom", ic.MetaDescriptionRaw)
	assert.Equal(t, "https://example.com/gamma", ic.CanonicalURL)
	assert.Equal(t, "index,follow", ic.MetaRobotsRaw)
}

func TestItemBuildSiteMetaFallback(t *testing.T) {
	theme := testTheme()
	theme.Site.MetaTitle = "%sitename"
	theme.Site.MetaDescription = "All about %sitename"
	theme.Site.NoIndexThisPage = true
	p := newTestPass(t, fixtureStore(), theme)

	ic, err := p.Item().Build(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "My site", ic.MetaTitleRaw)
	assert.Equal(t, "All about My site", ic.MetaDescriptionRaw)
	assert.Equal(t, NoIndexRobots, ic.MetaRobotsRaw)
	assert.Equal(t, "Bob", ic.Post.Author.Name)
}

func TestItemBuildMalformedMetadata(t *testing.T) {
	m := fixtureStore()
	m.SetMetadata(2, models.CoreMetadataKey, "{not json")
	p := newTestPass(t, m, testTheme())

	ic, err := p.Item().Build(context.Background(), 2)
	assert.Nil(t, ic)
	var malformed *MalformedMetadataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, int64(2), malformed.ItemID)
}

func TestItemBuildHiddenAnchor(t *testing.T) {
	spy := newSpyStore(fixtureStore())
	p := newTestPass(t, spy, testTheme())

	ic, err := p.Item().Build(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Delta", ic.Title)
	assert.Nil(t, ic.PreviousPost)
	assert.Nil(t, ic.NextPost)
	assert.Nil(t, ic.PreviousSimilarPost)
	assert.Nil(t, ic.NextSimilarPost)
	assert.Equal(t, 0, spy.count("QueryNeighbor"))
}

func TestItemBuildToggles(t *testing.T) {
	spy := newSpyStore(fixtureStore())
	theme := testTheme()
	theme.Renderer.RenderPrevNextPosts = false
	theme.Renderer.RenderSimilarPosts = false
	theme.Renderer.RenderRelatedPosts = false
	p := newTestPass(t, spy, theme)

	ic, err := p.Item().Build(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, ic.PreviousPost)
	assert.Nil(t, ic.NextSimilarPost)
	assert.NotNil(t, ic.RelatedPosts)
	assert.Empty(t, ic.RelatedPosts)
	assert.Equal(t, 0, spy.count("QueryNeighbor"))
	assert.Equal(t, 0, spy.count("QueryRelated"))
}

func TestItemBuildRelatedCount(t *testing.T) {
	spy := newSpyStore(fixtureStore())
	theme := testTheme()
	theme.Renderer.RelatedPostsNumber = 0
	p := newTestPass(t, spy, theme)

	ic, err := p.Item().Build(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, ic.RelatedPosts)
	assert.Equal(t, 0, spy.count("QueryRelated"))

	theme.Renderer.RelatedPostsNumber = -1
	p = newTestPass(t, fixtureStore(), theme)
	ic, err = p.Item().Build(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, itemIDs(ic.RelatedPosts))
}

func TestItemBuildStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	for _, op := range []string{"HydrateItem", "MetadataOverride", "QueryNeighbor", "QueryRelated", "Menus"} {
		t.Run(op, func(t *testing.T) {
			spy := newSpyStore(fixtureStore())
			spy.failOn(op, boom)
			p := newTestPass(t, spy, testTheme())

			ic, err := p.Item().Build(context.Background(), 2)
			assert.Nil(t, ic)
			var se *StoreError
			require.ErrorAs(t, err, &se)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestItemBuildMissingItem(t *testing.T) {
	p := newTestPass(t, fixtureStore(), testTheme())
	_, err := p.Item().Build(context.Background(), 404)
	require.Error(t, err)
}

func TestItemBuildMissingSiteOwner(t *testing.T) {
	theme := testTheme()
	theme.Site.SiteOwnerID = 77
	p := newTestPass(t, fixtureStore(), theme)

	ic, err := p.Item().Build(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, ic.SiteOwner)
}
