package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/navigator"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"declined", fmt.Errorf("login: %w", navigator.ErrAuthDeclined), ExitAuth},
		{"auth", &models.AuthError{Status: 401, Message: "invalid token"}, ExitAuth},
		{"validation", &models.ValidationError{Field: "due", Message: "bad"}, ExitValidation},
		{"usage", fmt.Errorf("%w: unknown flag", ErrUsage), ExitUsage},
		{"service", &models.ServiceError{Status: 500, Message: "boom"}, ExitError},
		{"other", errors.New("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(navigator.ErrAuthDeclined))
	assert.False(t, IsFatal(&models.ServiceError{Status: 500}))
	assert.False(t, IsFatal(&models.ValidationError{Field: "name"}))
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
	}{
		{"declined", navigator.ErrAuthDeclined, "--token"},
		{"auth", &models.AuthError{Status: 401, Message: "invalid token"}, "new one"},
		{"network", &models.ServiceError{Message: "dial tcp: refused"}, "network"},
		{"service", &models.ServiceError{Status: 500, Message: "boom"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ReportError(&buf, tt.err)

			assert.Contains(t, buf.String(), "❌ Error: ")
			if tt.suggestion == "" {
				assert.NotContains(t, buf.String(), "Suggestion")
				return
			}
			assert.Contains(t, buf.String(), "💡 Suggestion: ")
			assert.Contains(t, buf.String(), tt.suggestion)
		})
	}

	var buf bytes.Buffer
	ReportError(&buf, nil)
	assert.Empty(t, buf.String())
}
