package errors

import (
	"errors"
	"fmt"
)

// Kind classifies the failures the extraction and download layers produce.
type Kind string

const (
	KindAuthenticationFailed Kind = "authentication_failed"
	KindChallengeRequired    Kind = "challenge_required"
	KindPrivateAccount       Kind = "private_account"
	KindRateLimited          Kind = "rate_limited"
	KindNotFound             Kind = "not_found"
	KindNetwork              Kind = "network"
	KindGeneric              Kind = "generic"

	KindDownloadFailed      Kind = "download_failed"
	KindDownloadInterrupted Kind = "download_interrupted"

	KindInvalidURL         Kind = "invalid_url"
	KindNoMatchingStrategy Kind = "no_matching_strategy"
)

// Error is a classified error carrying the originating HTTP status where one
// exists. Code is 0 for failures that never reached the provider.
type Error struct {
	Kind    Kind
	Message string
	Code    int
	Cause   error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error without an HTTP status.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithCode attaches the HTTP status that produced the error.
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// KindOf extracts the Kind from any error in the chain, or KindGeneric.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsRetryable reports whether the failure may succeed on a later attempt.
// Only rate limiting and transport failures qualify; everything else needs
// user action or will fail identically on retry.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindNetwork:
		return true
	default:
		return false
	}
}

// UserMessage renders the actionable causes for display; opaque failures
// collapse into one generic line.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindAuthenticationFailed:
		return "not authenticated: store a session with 'igfetch auth login'"
	case KindChallengeRequired:
		return "Instagram requires a manual challenge: open instagram.com in a browser and complete it"
	case KindPrivateAccount:
		return "this account is private and not followed by the active session"
	case KindRateLimited:
		return "rate limited by Instagram: wait a while before retrying"
	case KindNotFound:
		return "content not found: it may have been deleted or the URL is wrong"
	case KindNetwork:
		return "network error: check the connection and retry"
	case KindInvalidURL:
		return "unrecognized URL"
	case KindNoMatchingStrategy:
		return "no extractor knows how to handle this URL"
	default:
		return "operation failed: " + err.Error()
	}
}
