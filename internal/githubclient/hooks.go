package githubclient

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
)

// ensureHook creates a webhook on the repository unless one already points
// at url.
func ensureHook(ctx context.Context, gh *github.Client, owner, repo, url, secret string) error {
	hooks, _, err := gh.Repositories.ListHooks(ctx, owner, repo, &github.ListOptions{PerPage: 100})
	if err != nil {
		return fmt.Errorf("failed to list hooks for %s/%s: %w", owner, repo, err)
	}

	for _, hook := range hooks {
		if hook.Config != nil && hook.Config.URL != nil && *hook.Config.URL == url {
			return nil
		}
	}

	hook := &github.Hook{
		Events: []string{"pull_request", "pull_request_review"},
		Active: github.Bool(true),
		Config: &github.HookConfig{
			URL:         github.String(url),
			ContentType: github.String("json"),
			Secret:      github.String(secret),
		},
	}
	if _, _, err := gh.Repositories.CreateHook(ctx, owner, repo, hook); err != nil {
		return fmt.Errorf("failed to create hook for %s/%s: %w", owner, repo, err)
	}
	return nil
}

// deleteHook removes the hook pointing at url, if present.
func deleteHook(ctx context.Context, gh *github.Client, owner, repo, url string) error {
	hooks, _, err := gh.Repositories.ListHooks(ctx, owner, repo, &github.ListOptions{PerPage: 100})
	if err != nil {
		return fmt.Errorf("failed to list hooks for %s/%s: %w", owner, repo, err)
	}

	for _, hook := range hooks {
		if hook.Config == nil || hook.Config.URL == nil || *hook.Config.URL != url {
			continue
		}
		if _, err := gh.Repositories.DeleteHook(ctx, owner, repo, hook.GetID()); err != nil {
			return fmt.Errorf("failed to delete hook for %s/%s: %w", owner, repo, err)
		}
	}
	return nil
}
