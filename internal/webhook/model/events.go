// Package model provides typed GitHub webhook payloads. Each event type is
// decoded once at the boundary so handlers work with statically-shaped data
// instead of raw JSON.
package model

// Supported values of the X-GitHub-Event header.
const (
	EventPullRequest       = "pull_request"
	EventPullRequestReview = "pull_request_review"
	EventInstallation      = "installation"
	EventPing              = "ping"
)

// Pull request actions this service reacts to.
const (
	ActionOpened = "opened"
)

// Installation actions.
const (
	ActionCreated   = "created"
	ActionDeleted   = "deleted"
	ActionSuspend   = "suspend"
	ActionUnsuspend = "unsuspend"
)

// Account is a GitHub user or organization account.
type Account struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Type      string `json:"type"`
	AvatarURL string `json:"avatar_url"`
}

// RepositoryRef identifies the repository a webhook belongs to.
type RepositoryRef struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	FullName string  `json:"full_name"`
	Owner    Account `json:"owner"`
}

// InstallationRef carries the installation id embedded in event payloads.
type InstallationRef struct {
	ID int64 `json:"id"`
}

// PullRequestPayload is the pull_request object of a webhook payload.
// Timestamps are kept as the verbatim strings GitHub sent.
type PullRequestPayload struct {
	ID           int64   `json:"id"`
	Number       int     `json:"number"`
	Title        string  `json:"title"`
	Body         *string `json:"body"`
	State        string  `json:"state"`
	Draft        bool    `json:"draft"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	ClosedAt     *string `json:"closed_at"`
	MergedAt     *string `json:"merged_at"`
	Additions    *int    `json:"additions"`
	Deletions    *int    `json:"deletions"`
	ChangedFiles *int    `json:"changed_files"`
	User         Account `json:"user"`
}

// PullRequestEvent is a pull_request webhook payload.
type PullRequestEvent struct {
	Action       string             `json:"action"`
	Number       int                `json:"number"`
	PullRequest  PullRequestPayload `json:"pull_request"`
	Repository   RepositoryRef      `json:"repository"`
	Installation *InstallationRef   `json:"installation"`
}

// ReviewPayload is the review object of a pull_request_review payload.
type ReviewPayload struct {
	ID          int64   `json:"id"`
	State       string  `json:"state"`
	SubmittedAt string  `json:"submitted_at"`
	User        Account `json:"user"`
}

// ReviewEvent is a pull_request_review webhook payload.
type ReviewEvent struct {
	Action      string        `json:"action"`
	Review      ReviewPayload `json:"review"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Repository RepositoryRef `json:"repository"`
}

// InstallationRepository is one entry of the repositories list on selective
// installs.
type InstallationRepository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// InstallationEvent is an installation lifecycle webhook payload.
type InstallationEvent struct {
	Action       string `json:"action"`
	Installation struct {
		ID      int64   `json:"id"`
		Account Account `json:"account"`
	} `json:"installation"`
	Repositories []InstallationRepository `json:"repositories"`
}
