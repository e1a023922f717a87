// Package errors maps gateway failures onto user-facing categories with
// actionable hints.
package errors

import (
	goerrors "errors"
	"net/http"
	"strings"

	"github.com/mcp-notegate/notegate/internal/upstream"
)

type ErrorKind string

const (
	ErrorKindAuth      ErrorKind = "auth"
	ErrorKindForbidden ErrorKind = "forbidden"
	ErrorKindRateLimit ErrorKind = "rate-limit"
	ErrorKindOffline   ErrorKind = "offline"
	ErrorKindNotFound  ErrorKind = "not-found"
	ErrorKindHTTP      ErrorKind = "http"
	ErrorKindOther     ErrorKind = "other"
)

type ClassifiedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
	Raw     error     `json:"-"`
}

func (e ClassifiedError) Error() string {
	return e.Message
}

func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{}
	}

	if goerrors.Is(err, upstream.ErrUnavailable) {
		return ClassifiedError{
			Kind:    ErrorKindOffline,
			Message: err.Error(),
			Hint:    "Is the backend running? Check upstream.base_url in the config or NOTEGATE_BACKEND_URL.",
			Raw:     err,
		}
	}

	var apiErr *upstream.APIError
	if goerrors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return ClassifiedError{
				Kind:    ErrorKindAuth,
				Message: err.Error(),
				Hint:    "Check the service account credentials or pass a valid user JWT.",
				Raw:     err,
			}
		case http.StatusForbidden:
			return ClassifiedError{
				Kind:    ErrorKindForbidden,
				Message: err.Error(),
				Hint:    "The authenticated user is not allowed to perform this action.",
				Raw:     err,
			}
		case http.StatusTooManyRequests:
			return ClassifiedError{
				Kind:    ErrorKindRateLimit,
				Message: err.Error(),
				Hint:    "Back off and retry; the backend is rate limiting this account.",
				Raw:     err,
			}
		case http.StatusNotFound:
			return ClassifiedError{
				Kind:    ErrorKindNotFound,
				Message: err.Error(),
				Hint:    "Check the ID or path; the backend has no such record.",
				Raw:     err,
			}
		}
		return ClassifiedError{Kind: ErrorKindHTTP, Message: err.Error(), Raw: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "timeout") || strings.Contains(msg, "no such host"):
		return ClassifiedError{
			Kind:    ErrorKindOffline,
			Message: err.Error(),
			Hint:    "Is the backend running? Try 'notegate status'.",
			Raw:     err,
		}
	case strings.Contains(msg, "not found"):
		return ClassifiedError{Kind: ErrorKindNotFound, Message: err.Error(), Raw: err}
	}

	return ClassifiedError{Kind: ErrorKindOther, Message: err.Error(), Raw: err}
}
