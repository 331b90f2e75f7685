package config

import "fmt"

// GitHubConfig holds GitHub App and webhook configuration.
type GitHubConfig struct {
	// WebhookSecret is the shared secret used to verify X-Hub-Signature-256.
	// An empty secret disables verification (development mode only).
	WebhookSecret string
	// AppID is the GitHub App identifier used to mint installation tokens.
	AppID int64
	// PrivateKeyPath is the path to the GitHub App PEM private key.
	PrivateKeyPath string
	// WebhookBaseURL is the public base URL delivered webhooks point at.
	// When set, repository webhooks are registered on selective installs.
	WebhookBaseURL string
}

// LoadGitHubConfigFromEnv loads GitHub configuration from environment variables.
func LoadGitHubConfigFromEnv() GitHubConfig {
	return GitHubConfig{
		WebhookSecret:  GetEnv("GITHUB_WEBHOOK_SECRET", ""),
		AppID:          GetEnvInt64("GITHUB_APP_ID", 0),
		PrivateKeyPath: GetEnv("GITHUB_PRIVATE_KEY_PATH", ""),
		WebhookBaseURL: GetEnv("WEBHOOK_BASE_URL", ""),
	}
}

// Validate validates GitHub configuration.
func (c GitHubConfig) Validate() error {
	if c.AppID != 0 && c.PrivateKeyPath == "" {
		return fmt.Errorf("GITHUB_PRIVATE_KEY_PATH is required when GITHUB_APP_ID is set")
	}
	if c.AppID < 0 {
		return fmt.Errorf("GITHUB_APP_ID must be non-negative")
	}
	return nil
}

// WebhookURL returns the full webhook endpoint URL, or empty when no public
// base URL is configured.
func (c GitHubConfig) WebhookURL() string {
	if c.WebhookBaseURL == "" {
		return ""
	}
	return c.WebhookBaseURL + "/webhooks/github"
}
