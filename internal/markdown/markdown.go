// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post bodies stored as Markdown into HTML using
// goldmark, and derives plain-text excerpts from HTML bodies. Unsafe HTML
// pass-through is enabled so raw HTML inside Markdown posts survives.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	nethtml "golang.org/x/net/html"
)

// ExcerptWords is the number of words kept by Excerpt.
const ExcerptWords = 45

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// Markdown is passed through unchanged.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText returns the text content of an HTML fragment, skipping script
// and style elements. Whitespace runs collapse to single spaces.
func PlainText(fragment string) string {
	z := nethtml.NewTokenizer(strings.NewReader(fragment))
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far stands.
			return strings.Join(strings.Fields(b.String()), " ")
		case nethtml.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
			b.WriteByte(' ')
		case nethtml.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case nethtml.SelfClosingTagToken:
			b.WriteByte(' ')
		case nethtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(name []byte) bool {
	s := string(name)
	return s == "script" || s == "style"
}

// Excerpt returns the first ExcerptWords words of the text content of an
// HTML body.
func Excerpt(body string) string {
	words := strings.Fields(PlainText(body))
	if len(words) > ExcerptWords {
		words = words[:ExcerptWords]
	}
	return strings.Join(words, " ")
}
