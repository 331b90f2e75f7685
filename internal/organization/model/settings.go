package model

import "time"

// Supported AI provider identifiers as stored in ai_settings.provider.
const (
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
)

// ModelNone is the sentinel value meaning categorization is disabled even
// though settings exist.
const ModelNone = "__none__"

// AISettings holds per-organization AI categorization settings. This
// subsystem only reads them; the dashboard writes them.
type AISettings struct {
	ID              int64     `gorm:"primaryKey;column:id"                                                json:"id"`
	OrganizationID  int64     `gorm:"column:organization_id;not null;uniqueIndex:idx_ai_settings_org_id"  json:"organization_id"`
	SelectedModelID *string   `gorm:"column:selected_model_id;type:varchar(255)"                          json:"selected_model_id,omitempty"`
	Provider        *string   `gorm:"column:provider;type:varchar(32)"                                    json:"provider,omitempty"`
	OpenAIAPIKey    *string   `gorm:"column:openai_api_key;type:varchar(512)"                             json:"-"`
	GoogleAPIKey    *string   `gorm:"column:google_api_key;type:varchar(512)"                             json:"-"`
	AnthropicAPIKey *string   `gorm:"column:anthropic_api_key;type:varchar(512)"                          json:"-"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;autoCreateTime"                           json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null;autoUpdateTime"                           json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (AISettings) TableName() string {
	return "ai_settings"
}

// ModelSelected reports whether a usable model id is configured.
func (s *AISettings) ModelSelected() bool {
	return s.SelectedModelID != nil && *s.SelectedModelID != "" && *s.SelectedModelID != ModelNone
}

// APIKeyFor returns the stored API key for the given provider, or empty.
func (s *AISettings) APIKeyFor(provider string) string {
	var key *string
	switch provider {
	case ProviderOpenAI:
		key = s.OpenAIAPIKey
	case ProviderGoogle:
		key = s.GoogleAPIKey
	case ProviderAnthropic:
		key = s.AnthropicAPIKey
	}
	if key == nil {
		return ""
	}
	return *key
}
