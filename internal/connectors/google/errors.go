package google

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// ErrForbidden indicates the credentials cannot access the document.
var ErrForbidden = errors.New("google: forbidden (share the document with the credentials)")

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return hasCode(err, http.StatusTooManyRequests)
}

// RetryAfter returns the backoff a 429 response asked for, or zero when the
// error carries no usable Retry-After header.
func RetryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(strings.TrimSpace(gerr.Header.Get("Retry-After")))
	if convErr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// IsRevisionMismatch returns true if a batch update was rejected because the
// document changed after it was read.
func IsRevisionMismatch(err error) bool {
	return hasCode(err, http.StatusBadRequest) && containsMessage(err, "revision")
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

func containsMessage(err error, fragment string) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return strings.Contains(gerr.Message, fragment) || strings.Contains(gerr.Body, fragment)
}

// WrapError converts a Google API error to the matching domain error.
// Errors that are not Google API errors are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("google: %s: %w", gerr.Message, domain.ErrAuthInvalid)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, domain.ErrAuthInvalid)
	case http.StatusNotFound:
		return fmt.Errorf("google: document: %w", domain.ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("google: %w", domain.ErrRateLimited)
	default:
		return fmt.Errorf("google: %w", err)
	}
}
