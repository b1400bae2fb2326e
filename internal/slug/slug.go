// Package slug derives URL-safe identifiers from human-readable names.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Separator joins the words of a slug.
	Separator = "-"
	// MaxLength caps the base slug; collision suffixes may extend past it.
	MaxLength = 120
	// maxAttempts bounds collision resolution before giving up.
	maxAttempts = 1000
)

// ErrExhausted is returned when collision resolution runs out of candidates.
// With a unique index on the slug column this is the caller's signal of a
// uniqueness violation that suffixing could not resolve.
var ErrExhausted = errors.New("slug collision resolution exhausted")

// Make derives a slug from a name: lowercased, with every run of
// non-alphanumeric characters collapsed into a single separator, truncated to
// MaxLength. Leading and trailing separators are dropped.
func Make(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(Separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	s := b.String()
	if len(s) > MaxLength {
		s = strings.TrimSuffix(s[:MaxLength], Separator)
	}
	return s
}

// Taken reports whether a candidate slug is already held by another document.
type Taken func(ctx context.Context, slug string) (bool, error)

// Unique derives a slug from name and resolves collisions against the store by
// appending an increasing numeric suffix. Returns ErrExhausted once the
// attempt budget is spent.
func Unique(ctx context.Context, name string, taken Taken) (string, error) {
	base := Make(name)
	candidate := base
	for attempt := 2; ; attempt++ {
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !inUse {
			return candidate, nil
		}
		if attempt > maxAttempts {
			return "", ErrExhausted
		}
		candidate = base + Separator + strconv.Itoa(attempt)
	}
}
