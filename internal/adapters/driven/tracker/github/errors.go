package github

import (
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// wrapError maps go-github errors onto domain errors.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("github: %s: %w: %w", operation, domain.ErrRateLimited, err)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("github: %s: %w: %s", operation, domain.ErrAuthInvalid, ghErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("github: %s: %w: %s", operation, domain.ErrNotFound, ghErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("github: %s: %w: %s", operation, domain.ErrRateLimited, ghErr.Message)
		}
	}

	return fmt.Errorf("github: %s: %w", operation, err)
}
