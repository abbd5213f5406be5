package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document backend, AI provider or tracker.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the AI text service is not configured.
	// Refresh cannot run without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Section errors.

	// ErrAnchorNotFound indicates no anchor with the configured id exists in the document.
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrAnchorNotHeading indicates the anchor resolves to a paragraph that is not a heading.
	ErrAnchorNotHeading = errors.New("anchor is not a heading")

	// ErrStaleParagraph indicates a paragraph changed between reading and an in-place update.
	ErrStaleParagraph = errors.New("paragraph changed since it was read")

	// Remote service errors.

	// ErrExtractionFailed indicates the AI service failed or returned an unparseable list.
	// The document is left untouched.
	ErrExtractionFailed = errors.New("action item extraction failed")

	// ErrTrackerCallFailed indicates a call to the issue tracker failed.
	ErrTrackerCallFailed = errors.New("issue tracker call failed")

	// ErrAuthInvalid indicates the credentials for a remote service were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// SetupStatus returns the status line shown in place of a failure for
// setup errors. It reports false for every other error.
func SetupStatus(err error) (string, bool) {
	if errors.Is(err, ErrAnchorNotFound) {
		return "Action items anchor not found (" + err.Error() +
			"). Run `actionsync anchors list` and set document.anchor_id.", true
	}
	return "", false
}
