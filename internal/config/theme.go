// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pressctx/internal/ordering"
)

// Theme is the per-site rendering configuration.
type Theme struct {
	Site     SiteConfig     `yaml:"site" toml:"site"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
}

// SiteConfig holds site-wide metadata and ordering.
type SiteConfig struct {
	Name                string `yaml:"name" toml:"name"`
	DisplayName         string `yaml:"displayName" toml:"displayName"`
	BaseURL             string `yaml:"baseUrl" toml:"baseUrl"`
	PrettyURLs          bool   `yaml:"prettyUrls" toml:"prettyUrls"`
	PostsOrderBy        string `yaml:"postsOrderBy" toml:"postsOrderBy"`
	PostsOrderDirection string `yaml:"postsOrderDirection" toml:"postsOrderDirection"`
	MetaTitle           string `yaml:"metaTitle" toml:"metaTitle"`
	MetaDescription     string `yaml:"metaDescription" toml:"metaDescription"`
	PostMetaTitle       string `yaml:"postMetaTitle" toml:"postMetaTitle"`
	PostMetaDescription string `yaml:"postMetaDescription" toml:"postMetaDescription"`
	MetaRobotsIndex     string `yaml:"metaRobotsIndex" toml:"metaRobotsIndex"`
	NoIndexThisPage     bool   `yaml:"noIndexThisPage" toml:"noIndexThisPage"`
	SiteOwnerID         int64  `yaml:"siteOwnerId" toml:"siteOwnerId"`
}

// RendererConfig holds the theme's rendering switches. Counts use -1 for
// "no limit" and 0 for "none".
type RendererConfig struct {
	PostsPerPage           int  `yaml:"postsPerPage" toml:"postsPerPage"`
	IncludeFeaturedInPosts bool `yaml:"includeFeaturedInPosts" toml:"includeFeaturedInPosts"`
	FeaturedPostsNumber    int  `yaml:"featuredPostsNumber" toml:"featuredPostsNumber"`
	RenderPrevNextPosts    bool `yaml:"renderPrevNextPosts" toml:"renderPrevNextPosts"`
	RenderSimilarPosts     bool `yaml:"renderSimilarPosts" toml:"renderSimilarPosts"`
	RenderRelatedPosts     bool `yaml:"renderRelatedPosts" toml:"renderRelatedPosts"`
	RelatedPostsNumber     int  `yaml:"relatedPostsNumber" toml:"relatedPostsNumber"`
}

// DefaultTheme returns the settings used for anything a theme file omits.
func DefaultTheme() Theme {
	return Theme{
		Site: SiteConfig{
			Name:                "My site",
			BaseURL:             "/",
			PostsOrderBy:        string(ordering.KeyCreatedAt),
			PostsOrderDirection: string(ordering.Desc),
			MetaRobotsIndex:     "index,follow",
			SiteOwnerID:         1,
		},
		Renderer: RendererConfig{
			PostsPerPage:           5,
			IncludeFeaturedInPosts: false,
			FeaturedPostsNumber:    3,
			RenderPrevNextPosts:    true,
			RenderSimilarPosts:     true,
			RenderRelatedPosts:     true,
			RelatedPostsNumber:     5,
		},
	}
}

// LoadTheme decodes the theme file at path on top of DefaultTheme. The format
// follows the extension: .yaml/.yml or .toml. An empty path yields the
// defaults. The result is validated.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &theme); err != nil {
			return Theme{}, fmt.Errorf("decode theme config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &theme); err != nil {
			return Theme{}, fmt.Errorf("decode theme config: %w", err)
		}
	default:
		return Theme{}, &ConfigurationError{Field: "THEME_CONFIG", Reason: fmt.Sprintf("unsupported format %q", filepath.Ext(path))}
	}

	if err := theme.Validate(); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// Validate checks every value the renderer depends on.
func (t Theme) Validate() error {
	if strings.TrimSpace(t.Site.Name) == "" {
		return &ConfigurationError{Field: "site.name", Reason: "must not be empty"}
	}
	if _, err := t.Policy(); err != nil {
		return &ConfigurationError{Field: "site.postsOrderBy", Reason: err.Error()}
	}
	if t.Site.SiteOwnerID < 1 {
		return &ConfigurationError{Field: "site.siteOwnerId", Reason: "must be a positive author id"}
	}

	r := t.Renderer
	if r.PostsPerPage == 0 || r.PostsPerPage < -1 {
		return &ConfigurationError{Field: "renderer.postsPerPage", Reason: "must be positive or -1"}
	}
	for field, n := range map[string]int{
		"renderer.featuredPostsNumber": r.FeaturedPostsNumber,
		"renderer.relatedPostsNumber":  r.RelatedPostsNumber,
	} {
		if n < -1 {
			return &ConfigurationError{Field: field, Reason: "must be -1 or more"}
		}
	}
	return nil
}

// Policy returns the configured post order.
func (t Theme) Policy() (ordering.Policy, error) {
	return ordering.Parse(t.Site.PostsOrderBy, t.Site.PostsOrderDirection)
}

// SiteTitle is the name shown to readers: the display name when set.
func (t Theme) SiteTitle() string {
	if t.Site.DisplayName != "" {
		return t.Site.DisplayName
	}
	return t.Site.Name
}
