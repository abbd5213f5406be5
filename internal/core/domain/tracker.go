package domain

import (
	"fmt"
	"strings"
	"time"
)

// TrackerUser is a member of the issue tracker workspace.
type TrackerUser struct {
	ID   string
	Name string
}

// FirstName returns the lower-cased first whitespace-separated token of the name.
func (u TrackerUser) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// UserDirectory maps lower-cased first names to tracker user ids.
// Later users win when two share a first name.
type UserDirectory map[string]string

// NewUserDirectory builds a directory from a user listing.
func NewUserDirectory(users []TrackerUser) UserDirectory {
	dir := make(UserDirectory, len(users))
	for _, u := range users {
		if first := u.FirstName(); first != "" {
			dir[first] = u.ID
		}
	}
	return dir
}

// Lookup returns the user id for an assignee name, matching on first name only.
func (d UserDirectory) Lookup(assignee string) (string, bool) {
	fields := strings.Fields(assignee)
	if len(fields) == 0 {
		return "", false
	}
	id, ok := d[strings.ToLower(fields[0])]
	return id, ok
}

// Label is an issue label in the tracker.
type Label struct {
	ID   string
	Name string
}

// IssueRequest carries the fields of one issue to create.
type IssueRequest struct {
	TeamID      string
	ProjectID   string
	Title       string
	Description string
	LabelIDs    []string

	// AssigneeID is empty when the issue should be created unassigned.
	AssigneeID string
}

// CreatedIssue is the tracker's answer to an issue creation.
type CreatedIssue struct {
	Success    bool
	Identifier string
	URL        string
}

// RefreshResult summarises one refresh of the generated section.
type RefreshResult struct {
	// Written is the number of checklist items rendered.
	Written int

	// Extracted is the number of items returned by the AI service before dedupe.
	Extracted int

	// Cutoff is the start of the recency window sent with the prompt.
	Cutoff time.Time
}

// Status returns the one-line message shown to the user.
func (r RefreshResult) Status() string {
	return fmt.Sprintf("Refreshed action items: %d written.", r.Written)
}

// PushResult summarises one push to the issue tracker.
type PushResult struct {
	// Eligible is the number of unchecked items found in the section.
	Eligible int

	// AlreadyPushed is the number of eligible items that already carry an id.
	AlreadyPushed int

	// Pushed is the number of issues created in this run.
	Pushed int

	// Failed is the number of items whose creation failed and were left untouched.
	Failed int

	// Skipped is the number of pending items without a description.
	Skipped int

	// Created lists the identifiers created in this run, in document order.
	Created []string
}

// Pending returns the number of items that were due to be pushed.
func (r PushResult) Pending() int {
	return r.Eligible - r.AlreadyPushed
}

// Status returns the one-line message shown to the user.
func (r PushResult) Status() string {
	if r.Pending() == 0 {
		return fmt.Sprintf("Nothing to push (%d already pushed).", r.AlreadyPushed)
	}
	if r.Skipped > 0 {
		return fmt.Sprintf("Pushed %d of %d open items (%d already pushed, %d failed, %d without a description).",
			r.Pushed, r.Pending(), r.AlreadyPushed, r.Failed, r.Skipped)
	}
	return fmt.Sprintf("Pushed %d of %d open items (%d already pushed, %d failed).",
		r.Pushed, r.Pending(), r.AlreadyPushed, r.Failed)
}
