// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"encoding/json"
	"strings"

	"pressctx/internal/config"
	"pressctx/internal/models"
)

// NoIndexRobots replaces the robots directive on pages excluded from search.
const NoIndexRobots = "noindex,nofollow"

// placeholders resolves %posttitle, %sitename and %authorname in s.
func placeholders(s, postTitle, siteName, authorName string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	return strings.NewReplacer(
		"%posttitle", postTitle,
		"%sitename", siteName,
		"%authorname", authorName,
	).Replace(s)
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// robots returns the robots directive, forced to NoIndexRobots when the site
// opts out of indexing.
func robots(site config.SiteConfig, override string) string {
	if site.NoIndexThisPage {
		return NoIndexRobots
	}
	return firstNonEmpty(override, site.MetaRobotsIndex)
}

// parseOverride decodes the per-item metadata document. Empty input yields
// an empty override.
func parseOverride(itemID int64, raw string) (models.MetaOverride, error) {
	var o models.MetaOverride
	if strings.TrimSpace(raw) == "" {
		return o, nil
	}
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return models.MetaOverride{}, &MalformedMetadataError{ItemID: itemID, Err: err}
	}
	return o, nil
}
