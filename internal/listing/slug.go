package listing

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"realty_bureau_backend/internal/common"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	slugDisallowed = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// NormalizeSlug lowercases and trims title, drops everything but word
// characters, whitespace and hyphens, then joins the words with single hyphens.
func NormalizeSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugChecker reports whether a slug is taken by a listing other than excludeID.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// millisClock hands out Unix milliseconds that never go backwards and never
// repeat within the process.
type millisClock struct {
	last atomic.Int64
	now  func() time.Time
}

func (c *millisClock) Next() int64 {
	for {
		now := c.now().UnixMilli()
		last := c.last.Load()
		if now <= last {
			now = last + 1
		}
		if c.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

var processClock = &millisClock{now: time.Now}

// SlugAssigner derives unique slugs from titles.
type SlugAssigner struct {
	checker SlugChecker
	clock   *millisClock
}

// NewSlugAssigner creates a SlugAssigner backed by checker.
func NewSlugAssigner(checker SlugChecker) *SlugAssigner {
	return &SlugAssigner{checker: checker, clock: processClock}
}

// Assign returns a slug for title that no listing other than excludeID holds.
// A collision is resolved once by appending a millisecond suffix.
func (a *SlugAssigner) Assign(ctx context.Context, title string, excludeID uuid.UUID) (string, error) {
	base, err := baseSlug(title)
	if err != nil {
		return "", err
	}

	taken, err := a.checker.SlugExists(ctx, base, excludeID)
	if err != nil {
		return "", fmt.Errorf("checking slug uniqueness: %w", err)
	}
	if !taken {
		return base, nil
	}
	return a.suffixed(base), nil
}

// Disambiguate returns the suffixed form of title's slug without consulting
// the store. It is used when the unique index rejects an assigned slug.
func (a *SlugAssigner) Disambiguate(title string) (string, error) {
	base, err := baseSlug(title)
	if err != nil {
		return "", err
	}
	return a.suffixed(base), nil
}

func (a *SlugAssigner) suffixed(base string) string {
	return base + "-" + strconv.FormatInt(a.clock.Next(), 10)
}

func baseSlug(title string) (string, error) {
	base := NormalizeSlug(title)
	if base == "" {
		base = slug.Make(title)
	}
	if base == "" || !slug.IsSlug(base) {
		return "", common.NewFieldError("title", "title must contain letters or digits")
	}
	return base, nil
}
