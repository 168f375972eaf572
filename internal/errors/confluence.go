package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// APIError is the base error for all Confluence REST API failures.
type APIError struct {
	*SkillError
	StatusCode int
}

// ValidationError is raised for a 400 response (malformed request).
type ValidationError struct {
	*APIError
}

// AuthenticationError is raised for a 401 response (bad credentials).
type AuthenticationError struct {
	*APIError
}

// PermissionError is raised for a 403 response (insufficient permissions).
type PermissionError struct {
	*APIError
}

// NotFoundError is raised for a 404 response.
type NotFoundError struct {
	*APIError
}

// ConflictError is raised for a 409 response (version conflict on update).
type ConflictError struct {
	*APIError
}

// RateLimitError is raised for a 429 response. RetryAfter carries the server's
// Retry-After header in seconds, 0 when absent.
type RateLimitError struct {
	*APIError
	RetryAfter int
}

// ServerError is raised for any 5xx response.
type ServerError struct {
	*APIError
}

func newAPIError(status int, message string, exitCode ExitCode, suggestions []string) *APIError {
	return &APIError{
		StatusCode: status,
		SkillError: &SkillError{
			Message: message,
			Context: &ErrorContext{
				Operation:   "Confluence API request",
				Component:   "REST client",
				Details:     map[string]interface{}{"status": status},
				Suggestions: suggestions,
			},
			ExitCode: exitCode,
		},
	}
}

// FromResponse maps an HTTP status code and response body to the matching
// typed error. Unmapped 4xx statuses fall back to a generic APIError.
func FromResponse(resp *http.Response, body []byte) error {
	detail := extractAPIMessage(body)
	message := fmt.Sprintf("Confluence API returned %d", resp.StatusCode)
	if detail != "" {
		message = fmt.Sprintf("%s: %s", message, Sanitize(detail))
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return &ValidationError{newAPIError(resp.StatusCode, message, ExitValidationError, []string{
			"Check the request parameters for invalid values",
			"Validate storage-format content before sending it",
		})}
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthenticationError{newAPIError(resp.StatusCode, message, ExitAuthError, []string{
			"Check CONFLUENCE_EMAIL and CONFLUENCE_API_TOKEN",
			"Generate a new API token at id.atlassian.com if the current one was revoked",
		})}
	case resp.StatusCode == http.StatusForbidden:
		return &PermissionError{newAPIError(resp.StatusCode, message, ExitPermissionError, []string{
			"Ask a space administrator for access to this content",
			"Verify the account has permission for the target space",
		})}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{newAPIError(resp.StatusCode, message, ExitNotFoundError, []string{
			"Check the page or space identifier",
			"The content may have been deleted or moved",
		})}
	case resp.StatusCode == http.StatusConflict:
		return &ConflictError{newAPIError(resp.StatusCode, message, ExitConflictError, []string{
			"Fetch the latest page version and retry the update",
			"Someone else may have edited the page concurrently",
		})}
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 0
		if v := resp.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		apiErr := newAPIError(resp.StatusCode, message, ExitRateLimitError, []string{
			"Reduce request frequency",
			"The client retries rate-limited requests automatically",
		})
		apiErr.Context.Recoverable = true
		if retryAfter > 0 {
			apiErr.Context.Details["retry_after"] = retryAfter
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: retryAfter}
	case resp.StatusCode >= 500:
		apiErr := newAPIError(resp.StatusCode, message, ExitServerError, []string{
			"Confluence may be temporarily unavailable",
			"Retry the request after a short delay",
		})
		apiErr.Context.Recoverable = true
		return &ServerError{apiErr}
	default:
		return newAPIError(resp.StatusCode, message, ExitGeneralError, nil)
	}
}

// extractAPIMessage pulls the human-readable detail out of a Confluence error
// body. The v1 API uses a top-level "message" field; the v2 API returns an
// "errors" list with "title" entries.
func extractAPIMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var v1 struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &v1); err == nil && v1.Message != "" {
		return v1.Message
	}
	var v2 struct {
		Errors []struct {
			Title string `json:"title"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &v2); err == nil && len(v2.Errors) > 0 {
		return v2.Errors[0].Title
	}
	return ""
}

// IsRetryable reports whether an error represents a transient failure worth
// retrying: rate limits and server-side errors.
func IsRetryable(err error) bool {
	switch err.(type) {
	case *RateLimitError, *ServerError:
		return true
	}
	return false
}
