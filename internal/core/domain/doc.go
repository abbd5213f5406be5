// Package domain defines the core business entities for actionsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Paragraph: One element of a document body as seen through the document port
//   - Anchor: A bookmark or heading id marking the generated section
//   - ActionItem: An extracted (assignee, description) pair
//   - SectionItem: A checklist entry re-read from the generated section
//   - TrackerUser, Label, IssueRequest: Issue tracker vocabulary
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
