package listing

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"realty_bureau_backend/internal/common"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlugChecker struct {
	taken map[string]uuid.UUID
	err   error
}

func (f *fakeSlugChecker) SlugExists(_ context.Context, s string, excludeID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	owner, ok := f.taken[s]
	return ok && owner != excludeID, nil
}

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Green Valley Plot", "green-valley-plot"},
		{"  Green   Valley  ", "green-valley"},
		{"Plot #12 @ Kochi!", "plot-12-kochi"},
		{"snake_case__title", "snake-case-title"},
		{"--Already-hyphenated--", "already-hyphenated"},
		{"a - b _ c", "a-b-c"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSlug(tt.in))
		})
	}
}

func TestSlugAssigner_NoCollision(t *testing.T) {
	a := NewSlugAssigner(&fakeSlugChecker{})
	got, err := a.Assign(context.Background(), "Green Valley Plot", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "green-valley-plot", got)
}

func TestSlugAssigner_CollisionAppendsTimestamp(t *testing.T) {
	checker := &fakeSlugChecker{taken: map[string]uuid.UUID{"green-valley-plot": uuid.New()}}
	a := &SlugAssigner{checker: checker, clock: &millisClock{now: func() time.Time { return time.UnixMilli(1700000000000) }}}

	got, err := a.Assign(context.Background(), "Green Valley Plot", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "green-valley-plot-1700000000000", got)
	assert.True(t, slug.IsSlug(got))
}

func TestSlugAssigner_ExcludesSelf(t *testing.T) {
	self := uuid.New()
	a := NewSlugAssigner(&fakeSlugChecker{taken: map[string]uuid.UUID{"my-plot": self}})
	got, err := a.Assign(context.Background(), "My Plot", self)
	require.NoError(t, err)
	assert.Equal(t, "my-plot", got)
}

func TestSlugAssigner_TransliterationFallback(t *testing.T) {
	a := NewSlugAssigner(&fakeSlugChecker{})
	got, err := a.Assign(context.Background(), "Участок", uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.True(t, slug.IsSlug(got))
}

func TestSlugAssigner_EmptyTitle(t *testing.T) {
	a := NewSlugAssigner(&fakeSlugChecker{})
	_, err := a.Assign(context.Background(), "   !!! ", uuid.New())
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Details, "title")
}

func TestSlugAssigner_CheckerFailure(t *testing.T) {
	a := NewSlugAssigner(&fakeSlugChecker{err: errors.New("db down")})
	_, err := a.Assign(context.Background(), "Plot", uuid.New())
	require.Error(t, err)
	_, isAPI := common.IsAPIError(err)
	assert.False(t, isAPI, "storage failures propagate as internal errors")
}

func TestMillisClock_StrictlyIncreasing(t *testing.T) {
	frozen := time.UnixMilli(1000)
	c := &millisClock{now: func() time.Time { return frozen }}

	var mu sync.Mutex
	seen := map[int64]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := c.Next()
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50, "every call yields a distinct value")

	next := c.Next()
	assert.Equal(t, int64(1050), next)
}

func TestSlugAssigner_SameTitleTwiceAgainstStore(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	a := NewSlugAssigner(repo)
	ctx := context.Background()

	var slugs []string
	for i := 0; i < 3; i++ {
		l := &Listing{Title: "Green Valley Plot", Description: "d", Category: CategoryResidential, Status: StatusAvailable, PlotSize: PlotSize{Value: 1, Unit: UnitSqft}}
		l.ID = uuid.New()
		s, err := a.Assign(ctx, l.Title, l.ID)
		require.NoError(t, err)
		l.Slug = s
		require.NoError(t, repo.Create(ctx, l))
		slugs = append(slugs, s)
	}

	assert.Equal(t, "green-valley-plot", slugs[0])
	for _, s := range slugs[1:] {
		suffix := strings.TrimPrefix(s, "green-valley-plot-")
		_, err := strconv.ParseInt(suffix, 10, 64)
		assert.NoError(t, err, "suffix is a millisecond timestamp")
	}
	assert.NotEqual(t, slugs[1], slugs[2])
}
