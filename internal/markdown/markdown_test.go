// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got, err := ToHTML("## Section\n\nSome **bold** text.\n\n<div class=\"raw\">kept</div>\n")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{`<h2 id="section">Section</h2>`, "<strong>bold</strong>", `<div class="raw">kept</div>`} {
		if !strings.Contains(got, want) {
			t.Errorf("ToHTML output missing %q:\n%s", want, got)
		}
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("<p>Hello&nbsp;<em>there</em></p><script>alert(1)</script><style>p{}</style><p>friend</p>")
	if want := "Hello there friend"; got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
}

func TestExcerpt(t *testing.T) {
	body := "<p>" + strings.Repeat("word ", ExcerptWords+10) + "</p>"
	got := Excerpt(body)
	if n := len(strings.Fields(got)); n != ExcerptWords {
		t.Errorf("Excerpt word count = %d, want %d", n, ExcerptWords)
	}

	if got := Excerpt("<p>short <b>one</b></p>"); got != "short one" {
		t.Errorf("Excerpt(short) = %q, want %q", got, "short one")
	}
}
