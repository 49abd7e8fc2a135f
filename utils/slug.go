package utils

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// Slugify turns a title into a lowercase URL-safe slug.
func Slugify(title string) string {
	return slug.Make(title)
}

// UniqueSlug derives a slug from a title, appending a timestamp suffix when
// the base slug is already taken. The slug is computed once at creation and
// never recomputed on later edits, so permalinks stay stable.
func UniqueSlug(title string, exists func(string) bool) string {
	base := slug.Make(title)
	if base == "" {
		base = "untitled"
	}
	if !exists(base) {
		return base
	}
	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli())
}
