package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Review{}))
	require.NoError(t, db.Exec("CREATE TABLE providers (id varchar(128) PRIMARY KEY)").Error)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGormRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	older := &Review{ProviderID: "p1", UserID: "u1", Author: "a", Rating: 4, Comment: "first one here", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Review{ProviderID: "p1", UserID: "u2", Author: "b", Rating: 2, Comment: "second one here"}
	other := &Review{ProviderID: "p2", UserID: "u1", Author: "a", Rating: 5, Comment: "other provider"}
	for _, r := range []*Review{older, newer, other} {
		require.NoError(t, repo.Create(ctx, r))
		assert.NotEqual(t, uuid.Nil, r.ID)
	}

	got, err := repo.FindByProviderID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	both, err := repo.FindByProviderIDs(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Len(t, both, 3)

	none, err := repo.FindByProviderIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormRepository_DeleteOrphans(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Exec("INSERT INTO providers (id) VALUES (?)", "alive").Error)
	require.NoError(t, repo.Create(ctx, &Review{ProviderID: "alive", UserID: "u1", Author: "a", Rating: 5, Comment: "still listed"}))
	require.NoError(t, repo.Create(ctx, &Review{ProviderID: "gone", UserID: "u1", Author: "a", Rating: 1, Comment: "listing deleted"}))

	n, err := repo.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := repo.FindByProviderIDs(ctx, []string{"alive", "gone"})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "alive", left[0].ProviderID)
}

func TestGormRepository_DeleteByProviderID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Review{ProviderID: "p1", UserID: "u1", Author: "a", Rating: 3, Comment: "middle of the road"}))

	n, err := repo.DeleteByProviderID(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
