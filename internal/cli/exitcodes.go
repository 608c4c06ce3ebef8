package cli

import (
	"errors"

	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/navigator"
)

// Exit codes for the trellis process.
// These codes follow Unix conventions.
const (
	// ExitSuccess indicates the session ended normally.
	// Use for: exit/quit, end of input, a successful logout.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: network errors, service failures, a broken config file,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: unknown flags or unexpected arguments on the command line.
	ExitUsage = 2

	// ExitAuth indicates the user could not be authenticated.
	// Use for: a rejected token, or declining to provide a new one.
	ExitAuth = 3

	// ExitValidation indicates a validation error.
	// Use for: malformed input such as an unreadable due date.
	ExitValidation = 5
)

// ExitCode maps an error returned by the program to its exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, navigator.ErrAuthDeclined), models.IsAuth(err):
		return ExitAuth
	case models.IsValidation(err):
		return ExitValidation
	case errors.Is(err, ErrUsage):
		return ExitUsage
	default:
		return ExitError
	}
}

// ErrUsage marks command line mistakes.
var ErrUsage = errors.New("usage")
