package main

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxFilenameLen = 50

// sanitizeFilename keeps alphanumerics, hyphens and underscores,
// replaces everything else with underscores and caps the length.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := b.String()
	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	return s
}

var (
	nonSlugRe       = regexp.MustCompile(`[^a-z0-9]+`)
	multiHyphenRe   = regexp.MustCompile(`-+`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// slugify creates a URL-safe slug from a title.
func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugRe.ReplaceAllString(slug, "-")
	slug = multiHyphenRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxFilenameLen {
		slug = slug[:maxFilenameLen]
		slug = strings.Trim(slug, "-")
	}

	if slug == "" {
		return "artigo"
	}
	return slug
}

// wordCount counts words in text, ignoring HTML markup.
func wordCount(text string) int {
	plain := text
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		plain = doc.Text()
	}
	plain = strings.TrimSpace(whitespaceRunRe.ReplaceAllString(plain, " "))
	if plain == "" {
		return 0
	}
	return len(strings.Split(plain, " "))
}
