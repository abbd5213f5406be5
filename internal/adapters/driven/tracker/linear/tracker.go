// Package linear implements the issue tracker port against the Linear GraphQL API.
package linear

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"golang.org/x/time/rate"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// Ensure Tracker implements the interface.
var _ driven.Tracker = (*Tracker)(nil)

const (
	// DefaultEndpoint is the Linear GraphQL endpoint.
	DefaultEndpoint = "https://api.linear.app/graphql"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RequestsPerSecond is the client-side throttle, well under Linear's hourly quota.
	RequestsPerSecond = 2.0

	// personalKeyPrefix marks personal API keys, which are sent without a scheme.
	personalKeyPrefix = "lin_api_"

	// maxPages bounds pagination through users and labels.
	maxPages = 50
)

// Config holds Linear tracker configuration.
type Config struct {
	// APIKey is a personal API key or an OAuth access token (required).
	APIKey string

	// TeamID is the team issues are created in (required).
	TeamID string

	// Endpoint overrides the GraphQL endpoint.
	Endpoint string

	// Timeout is the HTTP timeout (default: 30s).
	Timeout time.Duration
}

// Tracker talks to Linear.
type Tracker struct {
	client  *graphql.Client
	auth    string
	teamID  string
	limiter *rate.Limiter
}

// New creates a Linear tracker.
func New(cfg Config) (*Tracker, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("linear: API key is required")
	}
	if cfg.TeamID == "" {
		return nil, fmt.Errorf("linear: team id is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	hc := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: statusTransport{base: http.DefaultTransport},
	}
	client := graphql.NewClient(cfg.Endpoint, graphql.WithHTTPClient(hc))
	client.Log = func(s string) { logger.Debug("linear %s", s) }

	return &Tracker{
		client:  client,
		auth:    AuthorizationHeader(cfg.APIKey),
		teamID:  cfg.TeamID,
		limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), 5),
	}, nil
}

// AuthorizationHeader returns the header value for a credential.
// Personal keys go bare, OAuth tokens get the Bearer scheme.
func AuthorizationHeader(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, personalKeyPrefix) || strings.HasPrefix(key, "Bearer ") {
		return key
	}
	return "Bearer " + key
}

func (t *Tracker) run(ctx context.Context, query string, vars map[string]any, resp any) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	req.Header.Set("Authorization", t.auth)

	if err := t.client.Run(ctx, req, resp); err != nil {
		return classify(err)
	}
	return nil
}

// ListUsers returns active workspace members. Deactivated accounts cannot
// take assignments, so they never enter the first-name directory.
func (t *Tracker) ListUsers(ctx context.Context) ([]domain.TrackerUser, error) {
	var users []domain.TrackerUser
	var after *string

	for page := 0; page < maxPages; page++ {
		var resp usersResponse
		if err := t.run(ctx, usersQuery, map[string]any{"after": after}, &resp); err != nil {
			return nil, fmt.Errorf("linear: list users: %w", err)
		}
		for _, n := range resp.Users.Nodes {
			if n.Active {
				users = append(users, domain.TrackerUser{ID: n.ID, Name: n.Name})
			}
		}
		if !resp.Users.PageInfo.HasNextPage {
			break
		}
		cursor := resp.Users.PageInfo.EndCursor
		after = &cursor
	}

	logger.Debug("linear: %d active users", len(users))
	return users, nil
}

// ListLabels returns workspace labels and the labels of the configured team.
func (t *Tracker) ListLabels(ctx context.Context) ([]domain.Label, error) {
	var labels []domain.Label
	var after *string

	for page := 0; page < maxPages; page++ {
		var resp labelsResponse
		if err := t.run(ctx, labelsQuery, map[string]any{"after": after}, &resp); err != nil {
			return nil, fmt.Errorf("linear: list labels: %w", err)
		}
		for _, n := range resp.IssueLabels.Nodes {
			if n.Team != nil && n.Team.ID != t.teamID {
				continue
			}
			labels = append(labels, domain.Label{ID: n.ID, Name: n.Name})
		}
		if !resp.IssueLabels.PageInfo.HasNextPage {
			break
		}
		cursor := resp.IssueLabels.PageInfo.EndCursor
		after = &cursor
	}

	return labels, nil
}

// CreateLabel creates a team label.
func (t *Tracker) CreateLabel(ctx context.Context, name, color string) (domain.Label, error) {
	var resp createLabelResponse
	input := labelInput{Name: name, Color: color, TeamID: t.teamID}
	if err := t.run(ctx, createLabelMutation, map[string]any{"input": input}, &resp); err != nil {
		return domain.Label{}, fmt.Errorf("linear: create label %q: %w", name, err)
	}

	created := resp.IssueLabelCreate
	if !created.Success || created.IssueLabel == nil {
		return domain.Label{}, fmt.Errorf("linear: create label %q: not successful", name)
	}
	return domain.Label{ID: created.IssueLabel.ID, Name: created.IssueLabel.Name}, nil
}

// CreateIssue creates one issue. success=false is returned as an unsuccessful result, not an error.
func (t *Tracker) CreateIssue(ctx context.Context, req domain.IssueRequest) (domain.CreatedIssue, error) {
	teamID := req.TeamID
	if teamID == "" {
		teamID = t.teamID
	}

	input := issueInput{
		TeamID:      teamID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		LabelIDs:    req.LabelIDs,
		AssigneeID:  req.AssigneeID,
	}

	var resp createIssueResponse
	if err := t.run(ctx, createIssueMutation, map[string]any{"input": input}, &resp); err != nil {
		return domain.CreatedIssue{}, fmt.Errorf("linear: create issue: %w", err)
	}

	created := resp.IssueCreate
	if !created.Success || created.Issue == nil {
		return domain.CreatedIssue{}, nil
	}
	return domain.CreatedIssue{
		Success:    true,
		Identifier: created.Issue.Identifier,
		URL:        created.Issue.URL,
	}, nil
}

// Close releases resources.
func (t *Tracker) Close() error {
	return nil
}

// statusError is returned by the transport for responses the GraphQL client
// would otherwise try to decode.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("linear: HTTP %d", e.code)
}

// statusTransport turns auth and rate limit responses into errors.
type statusTransport struct {
	base http.RoundTripper
}

func (s statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := s.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, &statusError{code: resp.StatusCode}
	}
	return resp, nil
}

func classify(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
		default:
			return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
		}
	}
	return err
}
