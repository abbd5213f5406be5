package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// maxTitleRunes is the hard cap on issue titles.
const maxTitleRunes = 200

const issueDescriptionTemplate = `Action item from meeting notes.

**Assignee:** %s
**Source:** %s

_Created by actionsync. The checklist item in the source document carries this issue's identifier._`

// TrackerOptions configures how issues are filed.
type TrackerOptions struct {
	TeamID     string
	ProjectID  string
	Label      string
	LabelColor string
}

// PushSession carries the lookups shared by every issue of one push.
// It lives for a single push; nothing is cached across runs.
type PushSession struct {
	Users       domain.UserDirectory
	Label       *domain.Label
	DocumentURL string
}

// TrackerClient applies the issue filing rules on top of a Tracker adapter.
type TrackerClient struct {
	tracker driven.Tracker
	opts    TrackerOptions
}

// NewTrackerClient creates a tracker client.
func NewTrackerClient(tracker driven.Tracker, opts TrackerOptions) *TrackerClient {
	if opts.Label == "" {
		opts.Label = domain.DefaultLabel
	}
	if opts.LabelColor == "" {
		opts.LabelColor = domain.DefaultLabelColor
	}
	return &TrackerClient{tracker: tracker, opts: opts}
}

// FetchUsers builds the first-name directory. Any failure aborts the push.
func (c *TrackerClient) FetchUsers(ctx context.Context) (domain.UserDirectory, error) {
	users, err := c.tracker.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", domain.ErrTrackerCallFailed, err)
	}
	logger.Debug("Fetched %d tracker users", len(users))
	return domain.NewUserDirectory(users), nil
}

// EnsureLabel returns the configured label, creating it when no label with
// the same name (case-insensitive) exists.
func (c *TrackerClient) EnsureLabel(ctx context.Context) (*domain.Label, error) {
	labels, err := c.tracker.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list labels: %w", domain.ErrTrackerCallFailed, err)
	}
	for _, l := range labels {
		if strings.EqualFold(l.Name, c.opts.Label) {
			label := l
			return &label, nil
		}
	}

	logger.Info("Creating tracker label %q", c.opts.Label)
	label, err := c.tracker.CreateLabel(ctx, c.opts.Label, c.opts.LabelColor)
	if err != nil {
		return nil, fmt.Errorf("%w: create label %q: %w", domain.ErrTrackerCallFailed, c.opts.Label, err)
	}
	return &label, nil
}

// CreateIssue files one item. It returns the issue identifier, or "" with a
// nil error when the tracker reported success=false.
func (c *TrackerClient) CreateIssue(ctx context.Context, session *PushSession, item domain.SectionItem) (string, error) {
	req := c.BuildRequest(session, item)

	created, err := c.tracker.CreateIssue(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: create issue %q: %w", domain.ErrTrackerCallFailed, req.Title, err)
	}
	if !created.Success || created.Identifier == "" {
		return "", nil
	}
	return created.Identifier, nil
}

// BuildRequest maps a section item to the issue request sent to the tracker.
func (c *TrackerClient) BuildRequest(session *PushSession, item domain.SectionItem) domain.IssueRequest {
	req := domain.IssueRequest{
		TeamID:      c.opts.TeamID,
		ProjectID:   c.opts.ProjectID,
		Title:       TruncateTitle(item.Description),
		Description: fmt.Sprintf(issueDescriptionTemplate, item.Assignee, session.DocumentURL),
	}
	if session.Label != nil && session.Label.ID != "" {
		req.LabelIDs = []string{session.Label.ID}
	}
	if item.Assignee != domain.Unassigned {
		if id, ok := session.Users.Lookup(item.Assignee); ok {
			req.AssigneeID = id
		} else {
			logger.Debug("No tracker user matches %q; creating unassigned", item.Assignee)
		}
	}
	return req
}

// TruncateTitle hard-cuts a title to the tracker's limit without splitting runes.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes])
}
