package domain

import (
	"regexp"
	"strings"
)

// Unassigned is the assignee used when no owner could be inferred.
const Unassigned = "Unassigned"

// ActionItem is an open task extracted from meeting text.
type ActionItem struct {
	Assignee    string `json:"assignee"`
	Description string `json:"description"`
}

// Normalise trims both fields and fills in Unassigned for an empty assignee.
func (a ActionItem) Normalise() ActionItem {
	a.Assignee = strings.TrimPrefix(strings.TrimSpace(a.Assignee), "@")
	a.Description = strings.TrimSpace(a.Description)
	if a.Assignee == "" {
		a.Assignee = Unassigned
	}
	return a
}

// IsAssigned reports whether the item has a named owner.
func (a ActionItem) IsAssigned() bool {
	return a.Assignee != "" && !strings.EqualFold(a.Assignee, Unassigned)
}

// Line renders the item as a checklist line: "@Assignee Description" or
// the bare description when unassigned.
func (a ActionItem) Line() string {
	if !a.IsAssigned() {
		return a.Description
	}
	return "@" + a.Assignee + " " + a.Description
}

func (a ActionItem) dedupeKey() string {
	return strings.ToLower(a.Description) + "\x00" + strings.ToLower(a.Assignee)
}

// DedupeActionItems drops items whose lower-cased (description, assignee) pair
// was already seen. The first occurrence wins and order is preserved.
func DedupeActionItems(items []ActionItem) []ActionItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]ActionItem, 0, len(items))
	for _, item := range items {
		key := item.dedupeKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

var (
	bulletPrefix    = regexp.MustCompile(`^\s*(?:[•☐□]\s*|[-*]\s+|\[ \]\s*)`)
	trackerIDSuffix = regexp.MustCompile(`\s*\(([A-Z]+-[0-9]+)\)\s*$`)
	assigneePrefix  = regexp.MustCompile(`^@(\S+)\s*(.*)$`)
)

// SectionItem is a checklist entry read back from the generated section.
type SectionItem struct {
	// Paragraph is the live paragraph the item was read from.
	Paragraph Paragraph

	// CleanText is the item text without bullet prefix and tracker id suffix.
	CleanText string

	Assignee    string
	Description string

	// TrackerID is the identifier found in a "(TEAM-123)" suffix.
	TrackerID string

	// AlreadyPushed is true when TrackerID is set; such items are never pushed again.
	AlreadyPushed bool
}

// ParseItemLine splits a rendered checklist line into its parts.
// Grammar: [bullet ][@assignee ]description[ (LETTERS-DIGITS)].
func ParseItemLine(text string) SectionItem {
	clean := bulletPrefix.ReplaceAllString(text, "")
	clean = strings.TrimSpace(clean)

	var item SectionItem
	if m := trackerIDSuffix.FindStringSubmatch(clean); m != nil {
		item.TrackerID = m[1]
		item.AlreadyPushed = true
		clean = strings.TrimSpace(clean[:len(clean)-len(m[0])])
	}
	item.CleanText = clean

	if m := assigneePrefix.FindStringSubmatch(clean); m != nil {
		item.Assignee = m[1]
		item.Description = strings.TrimSpace(m[2])
	} else {
		item.Assignee = Unassigned
		item.Description = clean
	}
	return item
}

// ActionItem returns the (assignee, description) pair of the entry.
func (s SectionItem) ActionItem() ActionItem {
	return ActionItem{Assignee: s.Assignee, Description: s.Description}
}

// WithTrackerID appends the issue identifier marker to a cleaned line.
func WithTrackerID(clean, id string) string {
	return clean + " (" + id + ")"
}
