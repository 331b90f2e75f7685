package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	organizationModel "github.com/prscope/prscope/internal/organization/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&organizationModel.Organization{},
		&organizationModel.Category{},
		&organizationModel.AISettings{},
	)
	require.NoError(t, err)
	return db
}

func TestRepository_FindOrCreateByGithubID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db)

	org, err := repo.FindOrCreateByGithubID(ctx, 42, "acme", "https://avatars.example/42")
	require.NoError(t, err)
	assert.NotZero(t, org.ID)
	assert.Equal(t, "acme", org.Name)
	assert.Nil(t, org.InstallationID)

	t.Run("idempotent", func(t *testing.T) {
		again, err := repo.FindOrCreateByGithubID(ctx, 42, "renamed", "")
		require.NoError(t, err)
		assert.Equal(t, org.ID, again.ID)
		assert.Equal(t, "acme", again.Name)

		var count int64
		require.NoError(t, db.Model(&organizationModel.Organization{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestRepository_GetByGithubID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db)

	_, err := repo.GetByGithubID(ctx, 42)
	assert.ErrorIs(t, err, organizationModel.ErrOrganizationNotFound)
}

func TestRepository_SetInstallationID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db)

	org, err := repo.FindOrCreateByGithubID(ctx, 42, "acme", "")
	require.NoError(t, err)

	instID := int64(9001)
	require.NoError(t, repo.SetInstallationID(ctx, org.ID, &instID))

	got, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.NotNil(t, got.InstallationID)
	assert.Equal(t, instID, *got.InstallationID)

	t.Run("clear on uninstall", func(t *testing.T) {
		require.NoError(t, repo.SetInstallationID(ctx, org.ID, nil))
		got, err := repo.GetByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Nil(t, got.InstallationID)
	})

	t.Run("restore on unsuspend", func(t *testing.T) {
		require.NoError(t, repo.SetInstallationID(ctx, org.ID, &instID))
		got, err := repo.GetByID(ctx, org.ID)
		require.NoError(t, err)
		require.NotNil(t, got.InstallationID)
		assert.Equal(t, instID, *got.InstallationID)
	})

	t.Run("missing organization", func(t *testing.T) {
		err := repo.SetInstallationID(ctx, 99999, &instID)
		assert.ErrorIs(t, err, organizationModel.ErrOrganizationNotFound)
	})
}

func TestRepository_GetSettings(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db)

	org, err := repo.FindOrCreateByGithubID(ctx, 42, "acme", "")
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetSettings(ctx, org.ID)
		assert.ErrorIs(t, err, organizationModel.ErrSettingsNotFound)
	})

	model := "gpt-4o"
	provider := organizationModel.ProviderOpenAI
	key := "sk-test"
	require.NoError(t, db.Create(&organizationModel.AISettings{
		OrganizationID:  org.ID,
		SelectedModelID: &model,
		Provider:        &provider,
		OpenAIAPIKey:    &key,
	}).Error)

	settings, err := repo.GetSettings(ctx, org.ID)
	require.NoError(t, err)
	assert.True(t, settings.ModelSelected())
	assert.Equal(t, key, settings.APIKeyFor(organizationModel.ProviderOpenAI))
	assert.Empty(t, settings.APIKeyFor(organizationModel.ProviderGoogle))
}

func TestRepository_ListCategories(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db)

	org, err := repo.FindOrCreateByGithubID(ctx, 42, "acme", "")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		categories, err := repo.ListCategories(ctx, org.ID)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	for _, name := range []string{"Refactoring", "Bug Fix", "Feature"} {
		require.NoError(t, db.Create(&organizationModel.Category{
			OrganizationID: org.ID,
			Name:           name,
		}).Error)
	}

	categories, err := repo.ListCategories(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Bug Fix", categories[0].Name)
	assert.Equal(t, "Feature", categories[1].Name)
	assert.Equal(t, "Refactoring", categories[2].Name)
}
