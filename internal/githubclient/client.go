// Package githubclient provides installation-scoped GitHub API clients for
// a GitHub App.
package githubclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v66/github"
	"go.uber.org/zap"

	appConfig "github.com/prscope/prscope/internal/config"
)

// Differ fetches pull request diffs.
type Differ interface {
	// PullRequestDiff returns the unified diff for a pull request.
	PullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
}

// Factory builds GitHub clients authenticated as App installations.
// Installation transports are cached; FreshClient replaces the cached
// transport, which forces a new installation token to be minted.
type Factory struct {
	appID         int64
	privateKey    []byte
	webhookURL    string
	webhookSecret string
	logger        *zap.SugaredLogger

	mu         sync.Mutex
	transports map[int64]*ghinstallation.Transport
}

// NewFactory creates a client factory from GitHub App configuration.
func NewFactory(cfg appConfig.GitHubConfig, privateKey []byte, logger *zap.SugaredLogger) *Factory {
	return &Factory{
		appID:         cfg.AppID,
		privateKey:    privateKey,
		webhookURL:    cfg.WebhookURL(),
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
		transports:    make(map[int64]*ghinstallation.Transport),
	}
}

// Client returns a diff fetcher authenticated as the given installation.
func (f *Factory) Client(installationID int64) (Differ, error) {
	gh, err := f.githubClient(installationID, false)
	if err != nil {
		return nil, err
	}
	return &installationClient{gh: gh}, nil
}

// FreshClient returns a diff fetcher backed by a brand-new installation
// transport, discarding any cached token.
func (f *Factory) FreshClient(installationID int64) (Differ, error) {
	gh, err := f.githubClient(installationID, true)
	if err != nil {
		return nil, err
	}
	return &installationClient{gh: gh}, nil
}

func (f *Factory) githubClient(installationID int64, fresh bool) (*github.Client, error) {
	if f.appID == 0 || len(f.privateKey) == 0 {
		return nil, fmt.Errorf("github app credentials not configured")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tr, ok := f.transports[installationID]
	if !ok || fresh {
		var err error
		tr, err = ghinstallation.New(http.DefaultTransport, f.appID, installationID, f.privateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create installation transport: %w", err)
		}
		f.transports[installationID] = tr
	}

	return github.NewClient(&http.Client{
		Transport: tr,
		Timeout:   30 * time.Second,
	}), nil
}

// EnsureWebhook registers the configured webhook endpoint on a repository if
// no hook with that URL exists yet. A no-op when no public webhook URL is
// configured.
func (f *Factory) EnsureWebhook(ctx context.Context, installationID int64, owner, repo string) error {
	if f.webhookURL == "" {
		return nil
	}

	gh, err := f.githubClient(installationID, false)
	if err != nil {
		return err
	}
	return ensureHook(ctx, gh, owner, repo, f.webhookURL, f.webhookSecret)
}

// DeleteWebhook removes the configured webhook endpoint from a repository.
func (f *Factory) DeleteWebhook(ctx context.Context, installationID int64, owner, repo string) error {
	if f.webhookURL == "" {
		return nil
	}

	gh, err := f.githubClient(installationID, false)
	if err != nil {
		return err
	}
	return deleteHook(ctx, gh, owner, repo, f.webhookURL)
}

type installationClient struct {
	gh *github.Client
}

func (c *installationClient) PullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("failed to fetch diff for %s/%s#%d: %w", owner, repo, number, err)
	}
	return diff, nil
}

// IsAuthError reports whether err looks like an authentication failure
// (expired or invalid installation token). These are the only failures the
// categorizer retries, once, with a fresh client.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var ger *github.ErrorResponse
	if errors.As(err, &ger) && ger.Response != nil {
		if ger.Response.StatusCode == http.StatusUnauthorized {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad credentials") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "token expired") ||
		strings.Contains(msg, "could not refresh installation id")
}
