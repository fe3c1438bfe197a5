// Package sluggen turns titles into unique, URL-safe identifiers.
// An Allocator holds no mutable state and is safe for concurrent use.
package sluggen

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultMaxLength   = 280
	DefaultMaxAttempts = 1000
	DefaultFallback    = "untitled"
)

// ErrExhausted is returned when every counter suffix up to MaxAttempts is taken.
var ErrExhausted = errors.New("could not allocate unique identifier")

// ExistsFunc reports whether candidate is already used by a record other
// than excludeID. excludeID is zero when nothing should be excluded.
type ExistsFunc func(ctx context.Context, candidate string, excludeID int64) (bool, error)

// Allocator derives slugs from titles and resolves collisions with
// numeric suffixes (base, base-2, base-3, ...).
type Allocator struct {
	MaxLength     int
	MaxAttempts   int
	Fallback      string
	Transliterate bool
}

// New returns an Allocator with the default limits and transliteration on.
func New() *Allocator {
	return &Allocator{
		MaxLength:     DefaultMaxLength,
		MaxAttempts:   DefaultMaxAttempts,
		Fallback:      DefaultFallback,
		Transliterate: true,
	}
}

// Normalize returns the slug base for title, before any collision handling.
func (a *Allocator) Normalize(title string) string {
	var base string
	if a.Transliterate {
		base = slug.Make(title)
	} else {
		base = unicodeSlug(title)
	}

	if base == "" {
		base = a.fallback()
	}
	return truncate(base, a.maxLength())
}

// Allocate returns the first candidate for title that exists reports as free.
// Errors from exists are returned unchanged.
func (a *Allocator) Allocate(ctx context.Context, title string, exists ExistsFunc, excludeID int64) (string, error) {
	base := a.Normalize(title)

	taken, err := exists(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	maxLen := a.maxLength()
	for n := 2; n <= a.maxAttempts(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		suffix := "-" + strconv.Itoa(n)
		candidate := truncate(base, maxLen-len(suffix)) + suffix

		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}

func (a *Allocator) maxLength() int {
	if a.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return a.MaxLength
}

func (a *Allocator) maxAttempts() int {
	if a.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return a.MaxAttempts
}

func (a *Allocator) fallback() string {
	if f := slug.Make(a.Fallback); f != "" {
		return f
	}
	return DefaultFallback
}

// unicodeSlug keeps letters, combining marks and digits from any script,
// lower-cased and NFC-composed, and collapses everything else into single
// hyphens.
func unicodeSlug(s string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(norm.NFC.String(s)) {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '_' {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	return b.String()
}

// truncate cuts s to at most max runes and drops a trailing hyphen left by the cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	return strings.TrimRight(string(runes[:max]), "-")
}
