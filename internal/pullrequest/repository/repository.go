// Package repository provides data access for mirrored pull requests and
// reviews.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	pullrequestModel "github.com/prscope/prscope/internal/pullrequest/model"
)

// Repository defines pull request and review data access operations.
type Repository interface {
	// GetByID finds a pull request by internal id.
	GetByID(ctx context.Context, id int64) (*pullrequestModel.PullRequest, error)

	// GetByNumber finds a pull request by (repository_id, number).
	GetByNumber(ctx context.Context, repositoryID int64, number int) (*pullrequestModel.PullRequest, error)

	// Create inserts a new pull request. A uniqueness violation surfaces as
	// ErrPullRequestExists so callers can fall back to the update path.
	Create(ctx context.Context, pr *pullrequestModel.PullRequest) error

	// Update updates the webhook-mutable fields of an existing row. The
	// categorization fields (category, confidence, ai_status) are never
	// touched here.
	Update(ctx context.Context, pr *pullrequestModel.PullRequest) error

	// SetAIStatus writes the categorization status and message for a PR.
	SetAIStatus(ctx context.Context, id int64, status string, errorMessage *string) error

	// SetCategory persists the resolved category and confidence and marks
	// categorization completed.
	SetCategory(ctx context.Context, id int64, categoryID int64, confidence float64) error

	// GetReviewByGithubID finds a review by GitHub review id.
	GetReviewByGithubID(ctx context.Context, githubID int64) (*pullrequestModel.Review, error)

	// CreateReview inserts a new review.
	CreateReview(ctx context.Context, review *pullrequestModel.Review) error

	// UpdateReviewState updates the state of an existing review.
	UpdateReviewState(ctx context.Context, id int64, state string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new pullrequest repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// isDuplicateError checks if an error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func (r *repository) GetByID(ctx context.Context, id int64) (*pullrequestModel.PullRequest, error) {
	var pr pullrequestModel.PullRequest
	err := r.db.WithContext(ctx).First(&pr, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pullrequestModel.ErrPullRequestNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (r *repository) GetByNumber(ctx context.Context, repositoryID int64, number int) (*pullrequestModel.PullRequest, error) {
	var pr pullrequestModel.PullRequest
	err := r.db.WithContext(ctx).
		Where("repository_id = ? AND number = ?", repositoryID, number).
		First(&pr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pullrequestModel.ErrPullRequestNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (r *repository) Create(ctx context.Context, pr *pullrequestModel.PullRequest) error {
	err := r.db.WithContext(ctx).Create(pr).Error
	if err != nil {
		if isDuplicateError(err) {
			return pullrequestModel.ErrPullRequestExists
		}
		return err
	}
	return nil
}

func (r *repository) Update(ctx context.Context, pr *pullrequestModel.PullRequest) error {
	updates := map[string]interface{}{
		"github_id":         pr.GithubID,
		"title":             pr.Title,
		"body":              pr.Body,
		"state":             pr.State,
		"draft":             pr.Draft,
		"github_created_at": pr.GithubCreatedAt,
		"github_updated_at": pr.GithubUpdatedAt,
		"closed_at":         pr.ClosedAt,
		"merged_at":         pr.MergedAt,
		"additions":         pr.Additions,
		"deletions":         pr.Deletions,
		"changed_files":     pr.ChangedFiles,
	}

	result := r.db.WithContext(ctx).
		Model(&pullrequestModel.PullRequest{}).
		Where("id = ?", pr.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pullrequestModel.ErrPullRequestNotFound
	}
	return nil
}

func (r *repository) SetAIStatus(ctx context.Context, id int64, status string, errorMessage *string) error {
	result := r.db.WithContext(ctx).
		Model(&pullrequestModel.PullRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_status":     status,
			"error_message": errorMessage,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pullrequestModel.ErrPullRequestNotFound
	}
	return nil
}

func (r *repository) SetCategory(ctx context.Context, id int64, categoryID int64, confidence float64) error {
	result := r.db.WithContext(ctx).
		Model(&pullrequestModel.PullRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"category_id":         categoryID,
			"category_confidence": confidence,
			"ai_status":           pullrequestModel.AIStatusCompleted,
			"error_message":       nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pullrequestModel.ErrPullRequestNotFound
	}
	return nil
}

func (r *repository) GetReviewByGithubID(ctx context.Context, githubID int64) (*pullrequestModel.Review, error) {
	var review pullrequestModel.Review
	err := r.db.WithContext(ctx).Where("github_id = ?", githubID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pullrequestModel.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *repository) CreateReview(ctx context.Context, review *pullrequestModel.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) UpdateReviewState(ctx context.Context, id int64, state string) error {
	result := r.db.WithContext(ctx).
		Model(&pullrequestModel.Review{}).
		Where("id = ?", id).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pullrequestModel.ErrReviewNotFound
	}
	return nil
}
