package audit

import (
	"errors"
)

var (
	// ErrInvalidURL reports a URL that is not an absolute http(s) address.
	ErrInvalidURL = errors.New("invalid url")
	// ErrHomepageUnreachable aborts a run: the homepage could not be fetched or decoded.
	ErrHomepageUnreachable = errors.New("homepage unreachable")

	errHTTPClientRequired = errors.New("http client is required")
)

const (
	homepageMessage   = "Could not fetch the website. Please check the URL and try again."
	invalidURLMessage = "Please enter a valid URL starting with http:// or https://"
	genericMessage    = "The audit could not be completed."
)

// UserMessage maps a Run error to the single message shown to the person who asked for the audit.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrHomepageUnreachable):
		return homepageMessage
	case errors.Is(err, ErrInvalidURL):
		return invalidURLMessage
	default:
		return genericMessage
	}
}
