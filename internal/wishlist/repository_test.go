package wishlist

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"realty_bureau_backend/internal/listing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite allows one writer; goroutines queue on the pool instead of failing with SQLITE_LOCKED.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&listing.Listing{}, &Entry{}))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedPlot(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	l := &listing.Listing{
		Title:       "Plot",
		Description: "d",
		PlotSize:    listing.PlotSize{Value: 1, Unit: listing.UnitSqft},
		Category:    listing.CategoryResidential,
		Status:      listing.StatusAvailable,
	}
	l.ID = uuid.New()
	l.Slug = "plot-" + l.ID.String()
	require.NoError(t, db.Create(l).Error)
	return l.ID
}

func countPairs(t *testing.T, db *gorm.DB, userID, plotID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&Entry{}).Where("user_id = ? AND listing_id = ?", userID, plotID).Count(&n).Error)
	return n
}

func TestRepository_AddTwiceKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	user, plot := uuid.New(), seedPlot(t, db)

	added, err := repo.Add(ctx, user, plot)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, user, plot)
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, int64(1), countPairs(t, db, user, plot))
}

func TestRepository_RemoveAbsentIsNoop(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	user, plot := uuid.New(), seedPlot(t, db)

	removed, err := repo.Remove(ctx, user, plot)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Add(ctx, user, plot)
	require.NoError(t, err)
	removed, err = repo.Remove(ctx, user, plot)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, int64(0), countPairs(t, db, user, plot))
}

func TestRepository_ToggleIsInvolution(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	user, plot := uuid.New(), seedPlot(t, db)

	first, err := repo.Toggle(ctx, user, plot)
	require.NoError(t, err)
	second, err := repo.Toggle(ctx, user, plot)
	require.NoError(t, err)

	assert.True(t, first)
	assert.Equal(t, !first, second)
	assert.Equal(t, int64(0), countPairs(t, db, user, plot))
}

func TestRepository_ConcurrentAddsKeepUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	user, plot := uuid.New(), seedPlot(t, db)

	var wg sync.WaitGroup
	var mu sync.Mutex
	addedCount := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, err := repo.Add(ctx, user, plot)
			assert.NoError(t, err)
			if added {
				mu.Lock()
				addedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, addedCount)
	assert.Equal(t, int64(1), countPairs(t, db, user, plot))
}

func TestRepository_ConcurrentTogglesKeepAtMostOneRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	user, plot := uuid.New(), seedPlot(t, db)

	var wg sync.WaitGroup
	for i := 0; i < 11; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Toggle(ctx, user, plot)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n := countPairs(t, db, user, plot)
	assert.LessOrEqual(t, n, int64(1))
	saved, err := repo.Contains(ctx, user, plot)
	require.NoError(t, err)
	assert.Equal(t, n == 1, saved)
}

func TestRepository_ListFiltersDanglingEntries(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	user := uuid.New()
	kept, deleted := seedPlot(t, db), seedPlot(t, db)

	_, err := repo.Add(ctx, user, kept)
	require.NoError(t, err)
	_, err = repo.Add(ctx, user, deleted)
	require.NoError(t, err)
	_, err = repo.Add(ctx, uuid.New(), kept)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&listing.Listing{}, "id = ?", deleted).Error)

	ids, err := repo.ListListingIDs(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{kept}, ids)

	plots, err := repo.ListListings(ctx, user)
	require.NoError(t, err)
	require.Len(t, plots, 1)
	assert.Equal(t, kept, plots[0].ID)

	contains, err := repo.Contains(ctx, user, deleted)
	require.NoError(t, err)
	assert.True(t, contains, "the raw entry is still stored until pruned")

	pruned, err := repo.DeleteDangling(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	contains, err = repo.Contains(ctx, user, deleted)
	require.NoError(t, err)
	assert.False(t, contains)
}

func TestRepository_ListEmpty(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ids, err := repo.ListListingIDs(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}
