// Package repository provides data access for organizations, categories and
// AI settings.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	organizationModel "github.com/prscope/prscope/internal/organization/model"
)

// Repository defines organization data access operations.
type Repository interface {
	// GetByID finds an organization by internal id.
	GetByID(ctx context.Context, id int64) (*organizationModel.Organization, error)

	// GetByGithubID finds an organization by GitHub account id.
	GetByGithubID(ctx context.Context, githubID int64) (*organizationModel.Organization, error)

	// FindOrCreateByGithubID returns the organization with the given GitHub
	// id, creating it with the supplied name and avatar when absent.
	FindOrCreateByGithubID(ctx context.Context, githubID int64, name, avatarURL string) (*organizationModel.Organization, error)

	// SetInstallationID updates the stored installation id (nil clears it).
	SetInstallationID(ctx context.Context, orgID int64, installationID *int64) error

	// GetSettings returns the organization's AI settings.
	GetSettings(ctx context.Context, orgID int64) (*organizationModel.AISettings, error)

	// ListCategories returns all categories of an organization ordered by name.
	ListCategories(ctx context.Context, orgID int64) ([]organizationModel.Category, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new organization repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*organizationModel.Organization, error) {
	var org organizationModel.Organization
	err := r.db.WithContext(ctx).First(&org, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, organizationModel.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) GetByGithubID(ctx context.Context, githubID int64) (*organizationModel.Organization, error) {
	var org organizationModel.Organization
	err := r.db.WithContext(ctx).Where("github_id = ?", githubID).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, organizationModel.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) FindOrCreateByGithubID(ctx context.Context, githubID int64, name, avatarURL string) (*organizationModel.Organization, error) {
	org, err := r.GetByGithubID(ctx, githubID)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, organizationModel.ErrOrganizationNotFound) {
		return nil, err
	}

	created := &organizationModel.Organization{
		GithubID:  githubID,
		Name:      name,
		AvatarURL: avatarURL,
	}
	if createErr := r.db.WithContext(ctx).Create(created).Error; createErr != nil {
		// Concurrent webhook deliveries may insert first; fall back to the
		// existing row.
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return r.GetByGithubID(ctx, githubID)
		}
		return nil, createErr
	}
	return created, nil
}

func (r *repository) SetInstallationID(ctx context.Context, orgID int64, installationID *int64) error {
	result := r.db.WithContext(ctx).
		Model(&organizationModel.Organization{}).
		Where("id = ?", orgID).
		Update("installation_id", installationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return organizationModel.ErrOrganizationNotFound
	}
	return nil
}

func (r *repository) GetSettings(ctx context.Context, orgID int64) (*organizationModel.AISettings, error) {
	var settings organizationModel.AISettings
	err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, organizationModel.ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *repository) ListCategories(ctx context.Context, orgID int64) ([]organizationModel.Category, error) {
	var categories []organizationModel.Category
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
