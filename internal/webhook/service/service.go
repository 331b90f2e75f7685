// Package service routes webhook events and reconciles GitHub state into
// the local mirror.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	categorizeService "github.com/prscope/prscope/internal/categorize/service"
	organizationModel "github.com/prscope/prscope/internal/organization/model"
	pullrequestModel "github.com/prscope/prscope/internal/pullrequest/model"
	repoModel "github.com/prscope/prscope/internal/repo/model"
	webhookModel "github.com/prscope/prscope/internal/webhook/model"
)

// RepositoryStore is the subset of repository/user data access the
// reconcilers need.
type RepositoryStore interface {
	GetByFullName(ctx context.Context, fullName string) (*repoModel.Repository, error)
	FindOrCreate(ctx context.Context, githubID, organizationID int64, name, fullName string) (*repoModel.Repository, error)
	FindOrCreateUser(ctx context.Context, githubID int64, login, avatarURL string) (*repoModel.User, error)
}

// PullRequestStore is the subset of pull request data access the
// reconcilers need.
type PullRequestStore interface {
	GetByNumber(ctx context.Context, repositoryID int64, number int) (*pullrequestModel.PullRequest, error)
	Create(ctx context.Context, pr *pullrequestModel.PullRequest) error
	Update(ctx context.Context, pr *pullrequestModel.PullRequest) error
	GetReviewByGithubID(ctx context.Context, githubID int64) (*pullrequestModel.Review, error)
	CreateReview(ctx context.Context, review *pullrequestModel.Review) error
	UpdateReviewState(ctx context.Context, id int64, state string) error
}

// OrganizationStore is the subset of organization data access the
// reconcilers need.
type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*organizationModel.Organization, error)
	FindOrCreateByGithubID(ctx context.Context, githubID int64, name, avatarURL string) (*organizationModel.Organization, error)
	SetInstallationID(ctx context.Context, orgID int64, installationID *int64) error
}

// Categorizer runs the AI categorization pipeline for one pull request.
type Categorizer interface {
	Categorize(ctx context.Context, req categorizeService.Request) error
}

// HookManager registers repository webhooks during installation backfill.
type HookManager interface {
	EnsureWebhook(ctx context.Context, installationID int64, owner, repo string) error
}

// Service dispatches webhook events to the reconcilers.
type Service interface {
	// Handle routes one webhook delivery. Unknown event types are logged
	// no-ops; a returned error means an unexpected dispatch failure.
	Handle(ctx context.Context, eventType string, body []byte) error
}

type service struct {
	repos       RepositoryStore
	prs         PullRequestStore
	orgs        OrganizationStore
	categorizer Categorizer
	hooks       HookManager
	logger      *zap.SugaredLogger
}

// New creates a new webhook service instance.
func New(
	repos RepositoryStore,
	prs PullRequestStore,
	orgs OrganizationStore,
	categorizer Categorizer,
	hooks HookManager,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repos:       repos,
		prs:         prs,
		orgs:        orgs,
		categorizer: categorizer,
		hooks:       hooks,
		logger:      logger,
	}
}

func (s *service) Handle(ctx context.Context, eventType string, body []byte) error {
	switch eventType {
	case webhookModel.EventPullRequest:
		var event webhookModel.PullRequestEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("failed to decode pull_request payload: %w", err)
		}
		return s.handlePullRequest(ctx, &event)

	case webhookModel.EventPullRequestReview:
		var event webhookModel.ReviewEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("failed to decode pull_request_review payload: %w", err)
		}
		return s.handleReview(ctx, &event)

	case webhookModel.EventInstallation:
		var event webhookModel.InstallationEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("failed to decode installation payload: %w", err)
		}
		return s.handleInstallation(ctx, &event)

	case webhookModel.EventPing:
		s.logger.Infow("received ping webhook")
		return nil

	default:
		s.logger.Infow("ignoring unsupported webhook event", "event", eventType)
		return nil
	}
}

// handlePullRequest idempotently creates or updates the mirrored pull
// request and triggers categorization on opened actions.
func (s *service) handlePullRequest(ctx context.Context, event *webhookModel.PullRequestEvent) error {
	repo, err := s.repos.GetByFullName(ctx, event.Repository.FullName)
	if err != nil {
		if errors.Is(err, repoModel.ErrRepositoryNotFound) {
			s.logger.Debugw("ignoring pull_request for untracked repository",
				"repository", event.Repository.FullName)
			return nil
		}
		return err
	}

	pr, err := s.upsertPullRequest(ctx, repo, event)
	if err != nil {
		return err
	}

	if event.Action == webhookModel.ActionOpened {
		s.maybeCategorize(ctx, repo, pr, event)
	}
	return nil
}

// upsertPullRequest reconciles the payload into one row. A create losing
// the race against a concurrent delivery is converted into an update of the
// winner's row.
func (s *service) upsertPullRequest(
	ctx context.Context,
	repo *repoModel.Repository,
	event *webhookModel.PullRequestEvent,
) (*pullrequestModel.PullRequest, error) {
	payload := &event.PullRequest
	number := payload.Number
	if number == 0 {
		number = event.Number
	}

	existing, err := s.prs.GetByNumber(ctx, repo.ID, number)
	if err != nil && !errors.Is(err, pullrequestModel.ErrPullRequestNotFound) {
		return nil, err
	}

	if existing != nil {
		applyPayload(existing, payload)
		if updateErr := s.prs.Update(ctx, existing); updateErr != nil {
			return nil, updateErr
		}
		return existing, nil
	}

	author, err := s.repos.FindOrCreateUser(ctx, payload.User.ID, payload.User.Login, payload.User.AvatarURL)
	if err != nil {
		return nil, err
	}

	pr := &pullrequestModel.PullRequest{
		RepositoryID: repo.ID,
		Number:       number,
		AuthorID:     &author.ID,
	}
	applyPayload(pr, payload)

	if createErr := s.prs.Create(ctx, pr); createErr != nil {
		if !errors.Is(createErr, pullrequestModel.ErrPullRequestExists) {
			return nil, createErr
		}
		// A concurrent delivery inserted first; reconcile onto its row.
		winner, getErr := s.prs.GetByNumber(ctx, repo.ID, number)
		if getErr != nil {
			return nil, getErr
		}
		applyPayload(winner, payload)
		if updateErr := s.prs.Update(ctx, winner); updateErr != nil {
			return nil, updateErr
		}
		return winner, nil
	}
	return pr, nil
}

// applyPayload copies the webhook-mutable fields onto the row. The
// categorization fields are never touched here.
func applyPayload(pr *pullrequestModel.PullRequest, payload *webhookModel.PullRequestPayload) {
	pr.GithubID = payload.ID
	pr.Title = payload.Title
	pr.Body = payload.Body
	pr.State = pullrequestModel.DeriveState(payload.State, payload.MergedAt)
	pr.Draft = payload.Draft
	pr.GithubCreatedAt = payload.CreatedAt
	pr.GithubUpdatedAt = payload.UpdatedAt
	pr.ClosedAt = payload.ClosedAt
	pr.MergedAt = payload.MergedAt
	pr.Additions = payload.Additions
	pr.Deletions = payload.Deletions
	pr.ChangedFiles = payload.ChangedFiles
}

// maybeCategorize invokes the categorization pipeline when an installation
// credential is available. Failures are recorded on the PR row by the
// categorizer and only logged here; the webhook response stays green.
func (s *service) maybeCategorize(
	ctx context.Context,
	repo *repoModel.Repository,
	pr *pullrequestModel.PullRequest,
	event *webhookModel.PullRequestEvent,
) {
	org, err := s.orgs.GetByID(ctx, repo.OrganizationID)
	if err != nil {
		s.logger.Warnw("skipping categorization: organization lookup failed",
			"organization_id", repo.OrganizationID, "error", err)
		return
	}

	var fallback *int64
	if event.Installation != nil {
		fallback = &event.Installation.ID
	}
	if org.InstallationID == nil && fallback == nil {
		s.logger.Debugw("skipping categorization: no installation id",
			"organization_id", org.ID)
		return
	}

	owner, name := splitFullName(repo.FullName)
	body := ""
	if event.PullRequest.Body != nil {
		body = *event.PullRequest.Body
	}

	req := categorizeService.Request{
		PullRequestID:          pr.ID,
		OrganizationID:         org.ID,
		Owner:                  owner,
		Repo:                   name,
		Number:                 pr.Number,
		Title:                  event.PullRequest.Title,
		Body:                   body,
		FallbackInstallationID: fallback,
	}
	if catErr := s.categorizer.Categorize(ctx, req); catErr != nil {
		s.logger.Warnw("categorization failed",
			"pull_request_id", pr.ID, "error", catErr)
	}
}

// handleReview reconciles a pull request review keyed by its GitHub id.
// Reviews arriving before their pull request are dropped.
func (s *service) handleReview(ctx context.Context, event *webhookModel.ReviewEvent) error {
	repo, err := s.repos.GetByFullName(ctx, event.Repository.FullName)
	if err != nil {
		if errors.Is(err, repoModel.ErrRepositoryNotFound) {
			s.logger.Debugw("ignoring review for untracked repository",
				"repository", event.Repository.FullName)
			return nil
		}
		return err
	}

	pr, err := s.prs.GetByNumber(ctx, repo.ID, event.PullRequest.Number)
	if err != nil {
		if errors.Is(err, pullrequestModel.ErrPullRequestNotFound) {
			s.logger.Debugw("ignoring review for unknown pull request",
				"repository", event.Repository.FullName,
				"number", event.PullRequest.Number)
			return nil
		}
		return err
	}

	state := pullrequestModel.MapReviewState(event.Review.State)

	existing, err := s.prs.GetReviewByGithubID(ctx, event.Review.ID)
	if err != nil && !errors.Is(err, pullrequestModel.ErrReviewNotFound) {
		return err
	}
	if existing != nil {
		return s.prs.UpdateReviewState(ctx, existing.ID, state)
	}

	reviewer, err := s.repos.FindOrCreateUser(ctx, event.Review.User.ID, event.Review.User.Login, event.Review.User.AvatarURL)
	if err != nil {
		return err
	}

	return s.prs.CreateReview(ctx, &pullrequestModel.Review{
		GithubID:      event.Review.ID,
		PullRequestID: pr.ID,
		ReviewerID:    &reviewer.ID,
		State:         state,
		SubmittedAt:   event.Review.SubmittedAt,
	})
}

// handleInstallation tracks GitHub App installation lifecycle against the
// organization record. User-account installations are ignored.
func (s *service) handleInstallation(ctx context.Context, event *webhookModel.InstallationEvent) error {
	account := event.Installation.Account
	if account.Type != "Organization" {
		s.logger.Infow("ignoring installation for non-organization account",
			"account", account.Login, "type", account.Type)
		return nil
	}

	switch event.Action {
	case webhookModel.ActionCreated:
		return s.installationCreated(ctx, event)

	case webhookModel.ActionDeleted, webhookModel.ActionSuspend:
		org, err := s.orgs.FindOrCreateByGithubID(ctx, account.ID, account.Login, account.AvatarURL)
		if err != nil {
			return err
		}
		return s.orgs.SetInstallationID(ctx, org.ID, nil)

	case webhookModel.ActionUnsuspend:
		org, err := s.orgs.FindOrCreateByGithubID(ctx, account.ID, account.Login, account.AvatarURL)
		if err != nil {
			return err
		}
		installationID := event.Installation.ID
		return s.orgs.SetInstallationID(ctx, org.ID, &installationID)

	default:
		s.logger.Infow("ignoring installation action", "action", event.Action)
		return nil
	}
}

// installationCreated records the installation and backfills any
// selectively-installed repositories as tracked.
func (s *service) installationCreated(ctx context.Context, event *webhookModel.InstallationEvent) error {
	account := event.Installation.Account
	org, err := s.orgs.FindOrCreateByGithubID(ctx, account.ID, account.Login, account.AvatarURL)
	if err != nil {
		return err
	}

	installationID := event.Installation.ID
	if err := s.orgs.SetInstallationID(ctx, org.ID, &installationID); err != nil {
		return err
	}

	for _, repo := range event.Repositories {
		if _, err := s.repos.FindOrCreate(ctx, repo.ID, org.ID, repo.Name, repo.FullName); err != nil {
			return err
		}
		if s.hooks != nil {
			owner, name := splitFullName(repo.FullName)
			if hookErr := s.hooks.EnsureWebhook(ctx, installationID, owner, name); hookErr != nil {
				s.logger.Warnw("failed to ensure repository webhook",
					"repository", repo.FullName, "error", hookErr)
			}
		}
	}
	return nil
}

// splitFullName splits "owner/name" into its parts.
func splitFullName(fullName string) (string, string) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 {
		return fullName, ""
	}
	return parts[0], parts[1]
}
