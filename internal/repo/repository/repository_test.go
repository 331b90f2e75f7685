package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	repoModel "github.com/prscope/prscope/internal/repo/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&repoModel.Repository{}, &repoModel.User{})
	require.NoError(t, err)
	return db
}

func TestRepository_FindOrCreate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db)

	created, err := repo.FindOrCreate(ctx, 10, 1, "api", "acme/api")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.OrganizationID)

	t.Run("idempotent", func(t *testing.T) {
		again, err := repo.FindOrCreate(ctx, 10, 1, "api", "acme/api")
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)

		var count int64
		require.NoError(t, db.Model(&repoModel.Repository{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("lookup by full name", func(t *testing.T) {
		got, err := repo.GetByFullName(ctx, "acme/api")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown full name", func(t *testing.T) {
		_, err := repo.GetByFullName(ctx, "acme/unknown")
		assert.ErrorIs(t, err, repoModel.ErrRepositoryNotFound)
	})

	t.Run("unknown github id", func(t *testing.T) {
		_, err := repo.GetByGithubID(ctx, 999)
		assert.ErrorIs(t, err, repoModel.ErrRepositoryNotFound)
	})
}

func TestRepository_FindOrCreateUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db)

	user, err := repo.FindOrCreateUser(ctx, 77, "octocat", "https://avatars.example/77")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "octocat", user.Login)

	t.Run("idempotent", func(t *testing.T) {
		again, err := repo.FindOrCreateUser(ctx, 77, "renamed", "")
		require.NoError(t, err)
		assert.Equal(t, user.ID, again.ID)
		assert.Equal(t, "octocat", again.Login)

		var count int64
		require.NoError(t, db.Model(&repoModel.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
