// Package github implements the issue tracker port against GitHub Issues.
// Issues are identified as PREFIX-number so they match the marker that
// Linear identifiers use.
package github

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// Ensure Tracker implements the interface.
var _ driven.Tracker = (*Tracker)(nil)

const (
	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	perPage  = 100
	maxPages = 20
)

var prefixPattern = regexp.MustCompile(`^[A-Z]+$`)

// Config holds GitHub tracker configuration.
type Config struct {
	// Token is a personal access token or OAuth token (required).
	Token string

	// Owner and Repo name the repository issues are created in (required).
	Owner string
	Repo  string

	// IDPrefix is the upper-case prefix of issue identifiers (default GH).
	IDPrefix string

	// BaseURL overrides the API root, for GitHub Enterprise and tests.
	BaseURL string
}

// Tracker talks to GitHub Issues.
type Tracker struct {
	gh      *gh.Client
	owner   string
	repo    string
	prefix  string
	limiter *RateLimiter
}

// New creates a GitHub tracker with a static token.
func New(ctx context.Context, cfg Config) (*Tracker, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: token is required")
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required")
	}

	prefix := strings.ToUpper(strings.TrimSpace(cfg.IDPrefix))
	if prefix == "" {
		prefix = domain.DefaultIDPrefix
	}
	if !prefixPattern.MatchString(prefix) {
		return nil, fmt.Errorf("github: %w: id prefix %q must be letters only", domain.ErrInvalidInput, cfg.IDPrefix)
	}

	tc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	tc.Timeout = DefaultTimeout
	client := gh.NewClient(tc)

	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: %w: base url: %w", domain.ErrInvalidInput, err)
		}
		client.BaseURL = base
	}

	return &Tracker{
		gh:      client,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		prefix:  prefix,
		limiter: NewRateLimiter(),
	}, nil
}

// Identifier formats an issue number as PREFIX-number.
func (t *Tracker) Identifier(number int) string {
	return fmt.Sprintf("%s-%d", t.prefix, number)
}

// ListUsers returns the users issues can be assigned to.
// Display names are looked up so first-name matching works; the login is
// used when a user has no display name.
func (t *Tracker) ListUsers(ctx context.Context) ([]domain.TrackerUser, error) {
	var users []domain.TrackerUser
	opts := &gh.ListOptions{PerPage: perPage}

	for page := 0; page < maxPages; page++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		assignees, resp, err := t.gh.Issues.ListAssignees(ctx, t.owner, t.repo, opts)
		if err != nil {
			return nil, wrapError(err, "list assignees")
		}
		t.limiter.Update(resp.Response)

		for _, a := range assignees {
			users = append(users, domain.TrackerUser{ID: a.GetLogin(), Name: t.displayName(ctx, a)})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return users, nil
}

func (t *Tracker) displayName(ctx context.Context, u *gh.User) string {
	if name := u.GetName(); name != "" {
		return name
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return u.GetLogin()
	}
	full, resp, err := t.gh.Users.Get(ctx, u.GetLogin())
	if err != nil {
		logger.Debug("github: lookup %s: %v", u.GetLogin(), err)
		return u.GetLogin()
	}
	t.limiter.Update(resp.Response)
	if full.GetName() == "" {
		return u.GetLogin()
	}
	return full.GetName()
}

// ListLabels returns the repository labels. Label names double as ids.
func (t *Tracker) ListLabels(ctx context.Context) ([]domain.Label, error) {
	var labels []domain.Label
	opts := &gh.ListOptions{PerPage: perPage}

	for page := 0; page < maxPages; page++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		list, resp, err := t.gh.Issues.ListLabels(ctx, t.owner, t.repo, opts)
		if err != nil {
			return nil, wrapError(err, "list labels")
		}
		t.limiter.Update(resp.Response)

		for _, l := range list {
			labels = append(labels, domain.Label{ID: l.GetName(), Name: l.GetName()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return labels, nil
}

// CreateLabel creates a repository label. GitHub colors have no leading #.
func (t *Tracker) CreateLabel(ctx context.Context, name, color string) (domain.Label, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return domain.Label{}, err
	}

	label := &gh.Label{Name: gh.Ptr(name)}
	if c := strings.TrimPrefix(color, "#"); c != "" {
		label.Color = gh.Ptr(strings.ToLower(c))
	}

	created, resp, err := t.gh.Issues.CreateLabel(ctx, t.owner, t.repo, label)
	if err != nil {
		return domain.Label{}, wrapError(err, "create label")
	}
	t.limiter.Update(resp.Response)

	return domain.Label{ID: created.GetName(), Name: created.GetName()}, nil
}

// CreateIssue opens an issue. Team and project ids have no GitHub meaning and are ignored.
func (t *Tracker) CreateIssue(ctx context.Context, req domain.IssueRequest) (domain.CreatedIssue, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return domain.CreatedIssue{}, err
	}

	issueReq := &gh.IssueRequest{
		Title: gh.Ptr(req.Title),
		Body:  gh.Ptr(req.Description),
	}
	if len(req.LabelIDs) > 0 {
		labels := append([]string(nil), req.LabelIDs...)
		issueReq.Labels = &labels
	}
	if req.AssigneeID != "" {
		issueReq.Assignees = &[]string{req.AssigneeID}
	}

	issue, resp, err := t.gh.Issues.Create(ctx, t.owner, t.repo, issueReq)
	if err != nil {
		return domain.CreatedIssue{}, wrapError(err, "create issue")
	}
	t.limiter.Update(resp.Response)

	if issue.GetNumber() == 0 {
		return domain.CreatedIssue{}, nil
	}
	return domain.CreatedIssue{
		Success:    true,
		Identifier: t.Identifier(issue.GetNumber()),
		URL:        issue.GetHTMLURL(),
	}, nil
}

// Close releases resources.
func (t *Tracker) Close() error {
	return nil
}
