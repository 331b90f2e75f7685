// Package model provides domain models for tracked repositories and GitHub
// users.
package model

import "time"

// Repository represents a tracked GitHub repository. Webhook deliveries for
// repositories without a row here are ignored.
type Repository struct {
	ID             int64     `gorm:"primaryKey;column:id"                                                json:"id"`
	GithubID       int64     `gorm:"column:github_id;not null;uniqueIndex:idx_repositories_github_id"    json:"github_id"`
	OrganizationID int64     `gorm:"column:organization_id;not null;index:idx_repositories_org_id"       json:"organization_id"`
	Name           string    `gorm:"column:name;type:varchar(255);not null"                              json:"name"`
	FullName       string    `gorm:"column:full_name;type:varchar(512);not null;uniqueIndex:idx_repositories_full_name" json:"full_name"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;autoCreateTime"                           json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;autoUpdateTime"                           json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Repository) TableName() string {
	return "repositories"
}

// User represents a GitHub user referenced as a PR author or reviewer.
type User struct {
	ID        int64     `gorm:"primaryKey;column:id"                                      json:"id"`
	GithubID  int64     `gorm:"column:github_id;not null;uniqueIndex:idx_users_github_id" json:"github_id"`
	Login     string    `gorm:"column:login;type:varchar(255);not null"                   json:"login"`
	AvatarURL string    `gorm:"column:avatar_url;type:varchar(512)"                       json:"avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"                 json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"                 json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
