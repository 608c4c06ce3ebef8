package gateway

import (
	"net/http"
	"strings"

	"github.com/thenoetrevino/trellis/internal/models"
)

// classify maps a non-2xx response to an AuthError or a ServiceError. The
// service answers a bad token with 401, and with 400 "invalid token" when the
// token is malformed.
func classify(method, path string, status int, body []byte) error {
	message := strings.TrimSpace(string(body))
	if len(message) > maxErrorBody {
		message = message[:maxErrorBody]
	}
	if message == "" {
		message = http.StatusText(status)
	}

	if isAuthFailure(status, message) {
		return &models.AuthError{Status: status, Message: message}
	}
	return &models.ServiceError{Status: status, Method: method, Path: path, Message: message}
}

func isAuthFailure(status int, message string) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	if status != http.StatusBadRequest && status != http.StatusForbidden {
		return false
	}
	lower := strings.ToLower(message)
	return strings.Contains(lower, "invalid token") ||
		strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "expired token")
}
