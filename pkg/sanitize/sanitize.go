// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sanitize strips markup from user-submitted text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element; script and style bodies are dropped entirely.
var strict = bluemonday.StrictPolicy()

// Text returns s with all HTML removed, entities decoded and surrounding
// whitespace trimmed. Callers treat an empty result as missing input.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
