package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/navigator"
)

// ReportError writes a fatal error with a suggestion of what to do next.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "❌ Error: %s\n", err)
	if suggestion := suggest(err); suggestion != "" {
		fmt.Fprintf(w, "💡 Suggestion: %s\n", suggestion)
	}
}

func suggest(err error) string {
	var serviceErr *models.ServiceError
	switch {
	case errors.Is(err, navigator.ErrAuthDeclined):
		return "run trellis again and paste a token, or pass one with --token"
	case models.IsAuth(err):
		return "the token was rejected; run trellis again to get a new one"
	case errors.As(err, &serviceErr) && serviceErr.Status == 0:
		return "check your network connection or the api.base_url setting"
	case errors.Is(err, ErrUsage):
		return "run 'trellis --help' for usage"
	default:
		return ""
	}
}
