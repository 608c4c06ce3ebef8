package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/shell"
	"github.com/thenoetrevino/trellis/internal/store"
)

const tokenKey = store.TokenKey

// Login authenticates with token, the stored token, or one the user types,
// in that order. A rejected token is cleared and the user is asked again
// until they succeed or decline, which returns ErrAuthDeclined.
func (n *Navigator) Login(ctx context.Context, token string) error {
	if token == "" {
		stored, err := n.tokens.Get(ctx, tokenKey)
		if err != nil {
			n.logger.Warn("failed to read stored token", "error", err)
		}
		token = stored
	}

	for {
		if token == "" {
			asked, err := n.askToken(ctx)
			if err != nil {
				return err
			}
			token = asked
		}

		err := n.Authenticate(ctx, token)
		if err == nil || !models.IsAuth(err) {
			return err
		}
		n.println(n.view.Error(err))
		n.println(n.view.Warning("the token was rejected and has been forgotten; please authenticate again"))
		token = ""
	}
}

func (n *Navigator) askToken(ctx context.Context) (string, error) {
	if n.authorizeLink != "" {
		n.println("to get a token, open this link and allow access:")
		n.println(n.view.Accent(n.authorizeLink))
	}
	token, err := n.prompter.Input(ctx, "Paste your token", "leave empty to quit")
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return "", ErrAuthDeclined
	}
	return token, nil
}

// guard recovers from a token that stops working mid-session: the session
// is reset and the user is asked to log in again.
func (n *Navigator) guard(run func(context.Context, shell.Invocation) error) func(context.Context, shell.Invocation) error {
	return func(ctx context.Context, inv shell.Invocation) error {
		err := run(ctx, inv)
		var authErr *models.AuthError
		if !errors.As(err, &authErr) {
			return err
		}
		return n.relogin(ctx, err)
	}
}

func (n *Navigator) relogin(ctx context.Context, cause error) error {
	n.logger.Warn("session token rejected", "error", cause)
	n.println(n.view.Error(cause))
	if err := n.tokens.Set(ctx, tokenKey, ""); err != nil {
		n.logger.Error("failed to clear token", "error", err)
	}

	from := n.session.Level()
	n.gateway.SetToken("")
	n.session.logout()
	if err := n.sync(); err != nil {
		return err
	}
	n.logTransition(from)
	return n.Login(ctx, "")
}
