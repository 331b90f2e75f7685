// Package model provides domain models for mirrored pull requests and
// reviews.
package model

import "time"

// Pull request states derived from webhook payloads.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateMerged = "merged"
)

// PullRequest mirrors a GitHub pull request. (repository_id, number) and
// (repository_id, github_id) are unique; a create that loses a race against
// a concurrent delivery falls back to an update.
//
// GitHub-supplied timestamps are stored verbatim as strings, never
// re-derived locally.
type PullRequest struct {
	ID                 int64     `gorm:"primaryKey;column:id"                                                                                                   json:"id"`
	RepositoryID       int64     `gorm:"column:repository_id;not null;uniqueIndex:idx_prs_repo_number,priority:1;uniqueIndex:idx_prs_repo_github_id,priority:1" json:"repository_id"`
	GithubID           int64     `gorm:"column:github_id;not null;uniqueIndex:idx_prs_repo_github_id,priority:2"                                                json:"github_id"`
	Number             int       `gorm:"column:number;not null;uniqueIndex:idx_prs_repo_number,priority:2"                                                      json:"number"`
	AuthorID           *int64    `gorm:"column:author_id"                                                                                                       json:"author_id,omitempty"`
	Title              string    `gorm:"column:title;type:varchar(512);not null"                                                                                json:"title"`
	Body               *string   `gorm:"column:body;type:text"                                                                                                  json:"body,omitempty"`
	State              string    `gorm:"column:state;type:varchar(16);not null"                                                                                 json:"state"`
	Draft              bool      `gorm:"column:draft;not null;default:false"                                                                                    json:"draft"`
	GithubCreatedAt    string    `gorm:"column:github_created_at;type:varchar(64)"                                                                              json:"github_created_at"`
	GithubUpdatedAt    string    `gorm:"column:github_updated_at;type:varchar(64)"                                                                              json:"github_updated_at"`
	ClosedAt           *string   `gorm:"column:closed_at;type:varchar(64)"                                                                                      json:"closed_at,omitempty"`
	MergedAt           *string   `gorm:"column:merged_at;type:varchar(64)"                                                                                      json:"merged_at,omitempty"`
	Additions          *int      `gorm:"column:additions"                                                                                                       json:"additions,omitempty"`
	Deletions          *int      `gorm:"column:deletions"                                                                                                       json:"deletions,omitempty"`
	ChangedFiles       *int      `gorm:"column:changed_files"                                                                                                   json:"changed_files,omitempty"`
	CategoryID         *int64    `gorm:"column:category_id"                                                                                                     json:"category_id,omitempty"`
	CategoryConfidence *float64  `gorm:"column:category_confidence"                                                                                             json:"category_confidence,omitempty"`
	AIStatus           *string   `gorm:"column:ai_status;type:varchar(16)"                                                                                      json:"ai_status,omitempty"`
	ErrorMessage       *string   `gorm:"column:error_message;type:text"                                                                                         json:"error_message,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;autoCreateTime"                                                                              json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;not null;autoUpdateTime"                                                                              json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (PullRequest) TableName() string {
	return "pull_requests"
}

// DeriveState normalizes a webhook payload into an internal PR state:
// a merged_at timestamp wins over the payload state.
func DeriveState(payloadState string, mergedAt *string) string {
	if mergedAt != nil && *mergedAt != "" {
		return StateMerged
	}
	if payloadState == StateClosed {
		return StateClosed
	}
	return StateOpen
}
