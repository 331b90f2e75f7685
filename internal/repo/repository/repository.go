// Package repository provides data access for tracked repositories and users.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	repoModel "github.com/prscope/prscope/internal/repo/model"
)

// Repository defines repository and user data access operations.
type Repository interface {
	// GetByFullName finds a tracked repository by its "owner/name" full name.
	GetByFullName(ctx context.Context, fullName string) (*repoModel.Repository, error)

	// GetByGithubID finds a tracked repository by GitHub id.
	GetByGithubID(ctx context.Context, githubID int64) (*repoModel.Repository, error)

	// FindOrCreate returns the repository with the given GitHub id, creating
	// it as tracked under the organization when absent.
	FindOrCreate(ctx context.Context, githubID, organizationID int64, name, fullName string) (*repoModel.Repository, error)

	// FindOrCreateUser returns the user with the given GitHub id, creating
	// it when absent.
	FindOrCreateUser(ctx context.Context, githubID int64, login, avatarURL string) (*repoModel.User, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new repo repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByFullName(ctx context.Context, fullName string) (*repoModel.Repository, error) {
	var repo repoModel.Repository
	err := r.db.WithContext(ctx).Where("full_name = ?", fullName).First(&repo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repoModel.ErrRepositoryNotFound
		}
		return nil, err
	}
	return &repo, nil
}

func (r *repository) GetByGithubID(ctx context.Context, githubID int64) (*repoModel.Repository, error) {
	var repo repoModel.Repository
	err := r.db.WithContext(ctx).Where("github_id = ?", githubID).First(&repo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repoModel.ErrRepositoryNotFound
		}
		return nil, err
	}
	return &repo, nil
}

func (r *repository) FindOrCreate(ctx context.Context, githubID, organizationID int64, name, fullName string) (*repoModel.Repository, error) {
	repo, err := r.GetByGithubID(ctx, githubID)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, repoModel.ErrRepositoryNotFound) {
		return nil, err
	}

	created := &repoModel.Repository{
		GithubID:       githubID,
		OrganizationID: organizationID,
		Name:           name,
		FullName:       fullName,
	}
	if createErr := r.db.WithContext(ctx).Create(created).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return r.GetByGithubID(ctx, githubID)
		}
		return nil, createErr
	}
	return created, nil
}

func (r *repository) FindOrCreateUser(ctx context.Context, githubID int64, login, avatarURL string) (*repoModel.User, error) {
	var user repoModel.User
	err := r.db.WithContext(ctx).Where("github_id = ?", githubID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &repoModel.User{
		GithubID:  githubID,
		Login:     login,
		AvatarURL: avatarURL,
	}
	if createErr := r.db.WithContext(ctx).Create(created).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			var existing repoModel.User
			if getErr := r.db.WithContext(ctx).Where("github_id = ?", githubID).First(&existing).Error; getErr != nil {
				return nil, getErr
			}
			return &existing, nil
		}
		return nil, createErr
	}
	return created, nil
}
