package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode categorizes application errors by failure domain.
type ErrorCode string

const (
	// Validation (400) - rejected before any network call.
	ErrCodeValidationEmptyQuery ErrorCode = "validation_empty_query"
	ErrCodeValidationBadRequest ErrorCode = "validation_bad_request"
	ErrCodeValidationBadTheme   ErrorCode = "validation_bad_theme"

	// Resolution (404) - the geocoder returned no match.
	ErrCodeResolutionNotFound ErrorCode = "resolution_not_found"

	// Transport (502) - an upstream call failed or returned non-2xx.
	ErrCodeTransportGeocoding ErrorCode = "transport_geocoding_unavailable"
	ErrCodeTransportForecast  ErrorCode = "transport_forecast_failed"

	// Persistence - recovered locally, never surfaced to the caller.
	ErrCodePersistence ErrorCode = "persistence_failed"

	// Notification - surfaced only for explicit permission requests.
	ErrCodeNotificationDenied  ErrorCode = "notification_permission_denied"
	ErrCodeNotificationPending ErrorCode = "notification_request_pending"
	ErrCodeNotificationFailed  ErrorCode = "notification_delivery_failed"
)

// HTTPStatus maps an ErrorCode to the status the API layer responds with.
// Returns 500 for unrecognized codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case c == ErrCodeResolutionNotFound:
		return http.StatusNotFound
	case strings.HasPrefix(s, "transport_"):
		return http.StatusBadGateway
	case c == ErrCodeNotificationPending:
		return http.StatusConflict
	case c == ErrCodeNotificationDenied:
		return http.StatusForbidden
	case strings.HasPrefix(s, "notification_"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the carrier for every surfaced error. Message is
// human-readable and safe to show as-is.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// AsAppError unwraps err into an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func ValidationError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func ResolutionError(query string) *AppError {
	return &AppError{
		Code:    ErrCodeResolutionNotFound,
		Message: fmt.Sprintf("no location found for %q", query),
	}
}

func TransportError(code ErrorCode, msg string, err error) *AppError {
	return &AppError{Code: code, Message: msg, Err: err}
}

func PersistenceError(err error) *AppError {
	return &AppError{Code: ErrCodePersistence, Message: "persistence failed", Err: err}
}

func NotificationError(code ErrorCode, msg string, err error) *AppError {
	return &AppError{Code: code, Message: msg, Err: err}
}
