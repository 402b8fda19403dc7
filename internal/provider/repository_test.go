package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"local_services_backend/internal/common"
	"local_services_backend/internal/review"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Provider{}, &review.Review{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedProvider(t *testing.T, repo Repository, id, category string) *Provider {
	t.Helper()
	p := &Provider{
		ID:       id,
		UserID:   id,
		Name:     "Listing " + id,
		Category: category,
		Location: "Brooklyn, NY",
		Services: datatypes.JSONSlice[string]{"One", "Two"},
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestGormRepository_CreateAndFind(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	seedProvider(t, repo, "u1", "Home Services")

	got, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Listing u1", got.Name)
	assert.Equal(t, []string{"One", "Two"}, []string(got.Services))

	byUser, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", byUser.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGormRepository_CreateSecondListingConflicts(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	seedProvider(t, repo, "u1", "Home Services")

	err := repo.Create(context.Background(), &Provider{ID: "u1", UserID: "u1", Name: "Again", Category: "Home Services", Location: "Queens"})
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestGormRepository_MissingServicesReadBackEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		"INSERT INTO providers (id, user_id, name, category, location, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"legacy", "legacy", "Old Listing", "Pet Services", "Bronx", now, now,
	).Error)

	got, err := repo.FindByID(context.Background(), "legacy")
	require.NoError(t, err)
	assert.NotNil(t, got.Services)
	assert.Empty(t, got.Services)
	assert.Equal(t, "", got.Tagline)
}

func TestGormRepository_UpdateOwned(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	seedProvider(t, repo, "u2", "Home Services")

	// u1 goes straight at the store for u2's listing.
	err := repo.UpdateOwned(ctx, "u2", "u1", map[string]interface{}{"name": "Hijacked"})
	assert.ErrorIs(t, err, ErrStoreDenied)

	got, err := repo.FindByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Listing u2", got.Name)

	require.NoError(t, repo.UpdateOwned(ctx, "u2", "u2", map[string]interface{}{
		"name":     "Renamed",
		"services": ParseServices("A, B"),
	}))
	got, err = repo.FindByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, []string{"A", "B"}, []string(got.Services))
	assert.Equal(t, "u2", got.UserID)

	err = repo.UpdateOwned(ctx, "nobody", "nobody", map[string]interface{}{"name": "x"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGormRepository_DeleteOwnedCascadesReviews(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	reviews := review.NewGORMRepository(db)
	ctx := context.Background()
	seedProvider(t, repo, "u1", "Home Services")
	seedProvider(t, repo, "u2", "Home Services")
	for _, pid := range []string{"u1", "u1", "u2"} {
		require.NoError(t, reviews.Create(ctx, &review.Review{ProviderID: pid, UserID: "r", Author: "r", Rating: 4, Comment: "solid work overall"}))
	}

	assert.ErrorIs(t, repo.DeleteOwned(ctx, "u1", "u2"), ErrStoreDenied)
	exists, err := repo.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteOwned(ctx, "u1", "u1"))
	exists, err = repo.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, exists)

	left, err := reviews.FindByProviderIDs(ctx, []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "u2", left[0].ProviderID)
}

func TestGormRepository_ListAndCounts(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	seedProvider(t, repo, "a", "Home Services")
	seedProvider(t, repo, "b", "Pet Services")
	seedProvider(t, repo, "c", "Home Services")

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	capped, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Home Services": 2, "Pet Services": 1}, counts)

	page, err := repo.FindAllForSync(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(page))
}
