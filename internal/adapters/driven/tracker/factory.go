// Package tracker creates issue tracker adapters from settings.
package tracker

import (
	"context"
	"fmt"

	githubtracker "github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/tracker/github"
	lineartracker "github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/tracker/linear"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// Create builds the tracker selected by settings.
// Returns nil without error when the tracker is not configured.
func Create(ctx context.Context, settings *domain.TrackerSettings) (driven.Tracker, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		tracker driven.Tracker
		err     error
	)

	switch settings.Provider {
	case domain.TrackerProviderLinear:
		tracker, err = lineartracker.New(lineartracker.Config{
			APIKey: settings.APIKey,
			TeamID: settings.TeamID,
		})

	case domain.TrackerProviderGitHub:
		tracker, err = githubtracker.New(ctx, githubtracker.Config{
			Token:    settings.APIKey,
			Owner:    settings.Owner,
			Repo:     settings.Repo,
			IDPrefix: settings.IDPrefix,
		})

	default:
		return nil, fmt.Errorf("%w: tracker %q", domain.ErrUnsupportedType, settings.Provider)
	}

	if err != nil {
		return nil, err
	}
	return tracker, nil
}
