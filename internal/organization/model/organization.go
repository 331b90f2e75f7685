// Package model provides domain models for organizations, their categories
// and AI settings.
package model

import "time"

// Organization represents a GitHub organization tracked by the service.
// InstallationID is nil when no usable GitHub App credential exists.
type Organization struct {
	ID             int64     `gorm:"primaryKey;column:id"                          json:"id"`
	GithubID       int64     `gorm:"column:github_id;not null;uniqueIndex:idx_organizations_github_id" json:"github_id"`
	Name           string    `gorm:"column:name;type:varchar(255);not null"        json:"name"`
	AvatarURL      string    `gorm:"column:avatar_url;type:varchar(512)"           json:"avatar_url"`
	InstallationID *int64    `gorm:"column:installation_id"                        json:"installation_id,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;autoCreateTime"     json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;autoUpdateTime"     json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Organization) TableName() string {
	return "organizations"
}

// Category is a user-defined pull request category. Names are unique within
// an organization. This subsystem only reads categories.
type Category struct {
	ID             int64     `gorm:"primaryKey;column:id"                                                     json:"id"`
	OrganizationID int64     `gorm:"column:organization_id;not null;uniqueIndex:idx_categories_org_name,priority:1" json:"organization_id"`
	Name           string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_categories_org_name,priority:2" json:"name"`
	Description    *string   `gorm:"column:description;type:text"                                             json:"description,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;autoCreateTime"                                json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;autoUpdateTime"                                json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}
