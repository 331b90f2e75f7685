package model

import (
	"strings"
	"time"
)

// Internal review states.
const (
	ReviewApproved         = "approved"
	ReviewChangesRequested = "changes_requested"
	ReviewCommented        = "commented"
	ReviewDismissed        = "dismissed"
)

// Review mirrors a GitHub pull request review, keyed by the GitHub review
// id. Only the state changes on re-delivery.
type Review struct {
	ID            int64     `gorm:"primaryKey;column:id"                                        json:"id"`
	GithubID      int64     `gorm:"column:github_id;not null;uniqueIndex:idx_reviews_github_id" json:"github_id"`
	PullRequestID int64     `gorm:"column:pull_request_id;not null;index:idx_reviews_pr_id"     json:"pull_request_id"`
	ReviewerID    *int64    `gorm:"column:reviewer_id"                                          json:"reviewer_id,omitempty"`
	State         string    `gorm:"column:state;type:varchar(32);not null"                      json:"state"`
	SubmittedAt   string    `gorm:"column:submitted_at;type:varchar(64)"                        json:"submitted_at"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime"                   json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;autoUpdateTime"                   json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Review) TableName() string {
	return "reviews"
}

// MapReviewState maps a GitHub review state string to the internal enum.
// Matching is case-insensitive; unrecognized states map to commented.
func MapReviewState(state string) string {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case ReviewApproved:
		return ReviewApproved
	case ReviewChangesRequested:
		return ReviewChangesRequested
	case ReviewDismissed:
		return ReviewDismissed
	default:
		return ReviewCommented
	}
}
