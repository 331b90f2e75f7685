// Package service orchestrates AI categorization of pull requests: settings
// resolution, diff retrieval, prompt construction, response parsing and
// status write-back.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prscope/prscope/internal/githubclient"
	"github.com/prscope/prscope/internal/llm"
	organizationModel "github.com/prscope/prscope/internal/organization/model"
	pullrequestModel "github.com/prscope/prscope/internal/pullrequest/model"
)

// Request identifies the pull request to categorize.
type Request struct {
	PullRequestID  int64
	OrganizationID int64
	Owner          string
	Repo           string
	Number         int
	Title          string
	Body           string
	// FallbackInstallationID is the installation id carried by the webhook
	// payload, used when the organization row has none yet (a just-installed
	// app delivers pull_request events before the installation webhook is
	// reconciled).
	FallbackInstallationID *int64
}

// Service runs the categorization pipeline for one pull request.
type Service interface {
	// Categorize runs the pipeline to a terminal ai_status. The returned
	// error mirrors what was written to the PR row; callers log it but must
	// never fail the webhook response over it.
	Categorize(ctx context.Context, req Request) error
}

// OrganizationStore is the subset of organization data access the
// orchestrator needs.
type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*organizationModel.Organization, error)
	GetSettings(ctx context.Context, orgID int64) (*organizationModel.AISettings, error)
	ListCategories(ctx context.Context, orgID int64) ([]organizationModel.Category, error)
}

// PullRequestStore is the subset of pull request data access the
// orchestrator needs.
type PullRequestStore interface {
	SetAIStatus(ctx context.Context, id int64, status string, errorMessage *string) error
	SetCategory(ctx context.Context, id int64, categoryID int64, confidence float64) error
}

// ClientFactory builds installation-scoped GitHub diff fetchers. FreshClient
// must force a new installation token.
type ClientFactory interface {
	Client(installationID int64) (githubclient.Differ, error)
	FreshClient(installationID int64) (githubclient.Differ, error)
}

type service struct {
	orgs        OrganizationStore
	prs         PullRequestStore
	clients     ClientFactory
	newProvider llm.Factory
	logger      *zap.SugaredLogger
}

// New creates a new categorization service instance.
func New(
	orgs OrganizationStore,
	prs PullRequestStore,
	clients ClientFactory,
	newProvider llm.Factory,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		orgs:        orgs,
		prs:         prs,
		clients:     clients,
		newProvider: newProvider,
		logger:      logger,
	}
}

// Categorize runs the pipeline. Every exit writes a terminal ai_status; the
// deferred recover guarantees a PR is never left in processing.
func (s *service) Categorize(ctx context.Context, req Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("panic during categorization",
				"pull_request_id", req.PullRequestID, "panic", r)
			err = s.fail(ctx, req.PullRequestID, "internal error during categorization")
		}
	}()

	org, orgErr := s.orgs.GetByID(ctx, req.OrganizationID)
	if orgErr != nil {
		return s.fail(ctx, req.PullRequestID, "organization not found")
	}

	installationID := org.InstallationID
	if installationID == nil {
		installationID = req.FallbackInstallationID
	}
	if installationID == nil {
		return s.fail(ctx, req.PullRequestID, "no installation id")
	}

	settings, settingsErr := s.orgs.GetSettings(ctx, req.OrganizationID)
	if settingsErr != nil {
		if errors.Is(settingsErr, organizationModel.ErrSettingsNotFound) {
			return s.skip(ctx, req.PullRequestID, "AI categorization not configured")
		}
		return s.fail(ctx, req.PullRequestID, "failed to load AI settings")
	}
	if !settings.ModelSelected() {
		return s.skip(ctx, req.PullRequestID, "no model selected")
	}
	if settings.Provider == nil || *settings.Provider == "" {
		return s.skip(ctx, req.PullRequestID, "no provider configured")
	}
	apiKey := settings.APIKeyFor(*settings.Provider)
	if apiKey == "" {
		return s.skip(ctx, req.PullRequestID, fmt.Sprintf("no API key configured for provider %s", *settings.Provider))
	}

	provider, providerErr := s.newProvider(llm.Config{
		Provider: *settings.Provider,
		APIKey:   apiKey,
		Model:    *settings.SelectedModelID,
	})
	if providerErr != nil {
		return s.fail(ctx, req.PullRequestID, providerErr.Error())
	}

	diff, diffErr := s.fetchDiff(ctx, *installationID, req)
	if diffErr != nil {
		return s.fail(ctx, req.PullRequestID, diffErr.Error())
	}
	if strings.TrimSpace(diff) == "" {
		return s.skip(ctx, req.PullRequestID, "could not fetch PR diff")
	}

	categories, catErr := s.orgs.ListCategories(ctx, req.OrganizationID)
	if catErr != nil {
		return s.fail(ctx, req.PullRequestID, "failed to load categories")
	}
	if len(categories) == 0 {
		return s.skip(ctx, req.PullRequestID, "no categories configured")
	}

	// Visible intermediate state for dashboard polling.
	if statusErr := s.prs.SetAIStatus(ctx, req.PullRequestID, pullrequestModel.AIStatusProcessing, nil); statusErr != nil {
		return fmt.Errorf("failed to mark pull request processing: %w", statusErr)
	}

	system, user := buildPrompt(categories, req.Title, req.Body, diff)

	raw, genErr := provider.Generate(ctx, system, user)
	if genErr != nil {
		return s.fail(ctx, req.PullRequestID, fmt.Sprintf("AI generation failed: %v", genErr))
	}

	suggestion, confidence, ok := parseResponse(raw)
	if !ok {
		return s.fail(ctx, req.PullRequestID, "could not parse AI category response")
	}

	category, matched := matchCategory(suggestion, categories)
	if !matched {
		return s.fail(ctx, req.PullRequestID, fmt.Sprintf("AI suggested category '%s' not found", suggestion))
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	if setErr := s.prs.SetCategory(ctx, req.PullRequestID, category.ID, confidence); setErr != nil {
		return s.fail(ctx, req.PullRequestID, "failed to persist category")
	}

	s.logger.Infow("pull request categorized",
		"pull_request_id", req.PullRequestID,
		"category", category.Name,
		"confidence", confidence,
	)
	return nil
}

// fetchDiff fetches the PR diff, retrying exactly once with a fresh client
// (forcing a new installation token) when the failure looks auth-related.
// Any other failure is terminal without a retry.
func (s *service) fetchDiff(ctx context.Context, installationID int64, req Request) (string, error) {
	client, err := s.clients.Client(installationID)
	if err != nil {
		return "", fmt.Errorf("failed to create GitHub client: %v", err)
	}

	diff, err := client.PullRequestDiff(ctx, req.Owner, req.Repo, req.Number)
	if err == nil {
		return diff, nil
	}
	if !githubclient.IsAuthError(err) {
		return "", fmt.Errorf("failed to fetch PR diff: %v", err)
	}

	s.logger.Warnw("diff fetch failed with auth error, retrying with fresh token",
		"pull_request_id", req.PullRequestID, "error", err)

	fresh, freshErr := s.clients.FreshClient(installationID)
	if freshErr != nil {
		return "", fmt.Errorf("failed to refresh GitHub client: %v", freshErr)
	}
	diff, err = fresh.PullRequestDiff(ctx, req.Owner, req.Repo, req.Number)
	if err != nil {
		return "", fmt.Errorf("failed to fetch PR diff after token refresh: %v", err)
	}
	return diff, nil
}

// fail writes a terminal error status and returns a matching error for the
// caller's log line.
func (s *service) fail(ctx context.Context, prID int64, message string) error {
	if err := s.prs.SetAIStatus(ctx, prID, pullrequestModel.AIStatusError, &message); err != nil {
		s.logger.Errorw("failed to write error status", "pull_request_id", prID, "error", err)
	}
	return errors.New(message)
}

// skip writes the skipped status with a reason and returns nil; skipping is
// not a failure.
func (s *service) skip(ctx context.Context, prID int64, reason string) error {
	if err := s.prs.SetAIStatus(ctx, prID, pullrequestModel.AIStatusSkipped, &reason); err != nil {
		s.logger.Errorw("failed to write skipped status", "pull_request_id", prID, "error", err)
	}
	s.logger.Infow("categorization skipped", "pull_request_id", prID, "reason", reason)
	return nil
}
