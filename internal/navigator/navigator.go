// Package navigator moves through the kanban hierarchy (user, board, list,
// card) and keeps the shell's level commands in step with the position.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/thenoetrevino/trellis/internal/gateway"
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/registry"
	"github.com/thenoetrevino/trellis/internal/render"
	"github.com/thenoetrevino/trellis/internal/shell"
	"github.com/thenoetrevino/trellis/internal/slug"
)

// ErrAuthDeclined means the user would not provide a token. The session
// cannot continue.
var ErrAuthDeclined = errors.New("authentication declined")

// Gateway is the remote service plus the credential it sends.
type Gateway interface {
	gateway.Resource
	SetToken(token string)
}

// TokenStore persists the token between runs.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Prompter asks the user short questions.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
	Input(ctx context.Context, title, placeholder string) (string, error)
}

// Editor edits longer text.
type Editor interface {
	Edit(ctx context.Context, initial string) (string, error)
}

// Commands is the registry the navigator installs its commands into.
type Commands interface {
	Register(cmd shell.Command) (registry.Handle, error)
	Reconcile(desired []shell.Command) (registry.Diff, error)
}

// PromptSetter shows the current position.
type PromptSetter interface {
	SetPrompt(prompt string)
}

// Config wires a Navigator.
type Config struct {
	Gateway  Gateway
	Tokens   TokenStore
	Prompter Prompter
	Editor   Editor
	Commands Commands
	Prompt   PromptSetter
	View     *render.View
	Out      io.Writer
	Logger   *slog.Logger

	AppName            string
	AuthorizeLink      string
	SlugLength         int
	CommentsLimit      int
	NotificationsLimit int
}

// Navigator owns the Session and is the only thing that changes it.
type Navigator struct {
	session  *Session
	gateway  Gateway
	tokens   TokenStore
	prompter Prompter
	editor   Editor
	commands Commands
	prompt   PromptSetter
	view     *render.View
	out      io.Writer
	logger   *slog.Logger

	appName            string
	authorizeLink      string
	slugLength         int
	commentsLimit      int
	notificationsLimit int
	installed          bool
}

// New creates a Navigator in the logged out state.
func New(cfg Config) (*Navigator, error) {
	switch {
	case cfg.Gateway == nil:
		return nil, fmt.Errorf("navigator: gateway is required")
	case cfg.Tokens == nil:
		return nil, fmt.Errorf("navigator: token store is required")
	case cfg.Prompter == nil:
		return nil, fmt.Errorf("navigator: prompter is required")
	case cfg.Editor == nil:
		return nil, fmt.Errorf("navigator: editor is required")
	case cfg.Commands == nil:
		return nil, fmt.Errorf("navigator: command registry is required")
	case cfg.View == nil:
		return nil, fmt.Errorf("navigator: view is required")
	}

	n := &Navigator{
		session:            &Session{},
		gateway:            cfg.Gateway,
		tokens:             cfg.Tokens,
		prompter:           cfg.Prompter,
		editor:             cfg.Editor,
		commands:           cfg.Commands,
		prompt:             cfg.Prompt,
		view:               cfg.View,
		out:                cfg.Out,
		logger:             cfg.Logger,
		appName:            cfg.AppName,
		authorizeLink:      cfg.AuthorizeLink,
		slugLength:         cfg.SlugLength,
		commentsLimit:      cfg.CommentsLimit,
		notificationsLimit: cfg.NotificationsLimit,
	}
	if n.out == nil {
		n.out = os.Stdout
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	if n.appName == "" {
		n.appName = "trellis"
	}
	if n.slugLength <= 0 {
		n.slugLength = slug.DefaultMaxLength
	}
	if n.commentsLimit <= 0 {
		n.commentsLimit = 5
	}
	if n.notificationsLimit <= 0 {
		n.notificationsLimit = 50
	}
	return n, nil
}

// Session exposes the session for reading.
func (n *Navigator) Session() *Session {
	return n.session
}

// Install registers the commands available at every level and the logged
// out level's commands.
func (n *Navigator) Install() error {
	if n.installed {
		return nil
	}
	for _, cmd := range n.staticCommands() {
		if _, err := n.commands.Register(cmd); err != nil {
			return fmt.Errorf("install %q: %w", cmd.Name, err)
		}
	}
	n.installed = true
	return n.sync()
}

// Authenticate logs in with token and moves to the user level. An invalid
// token is removed from the store and reported as *models.AuthError.
func (n *Navigator) Authenticate(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	n.gateway.SetToken(token)

	me, err := n.fetchMe(ctx)
	if err != nil {
		n.gateway.SetToken("")
		if models.IsAuth(err) {
			if clearErr := n.tokens.Set(ctx, tokenKey, ""); clearErr != nil {
				n.logger.Error("failed to clear token", "error", clearErr)
			}
		}
		return fmt.Errorf("authenticate: %w", err)
	}

	if err := n.tokens.Set(ctx, tokenKey, token); err != nil {
		n.logger.Error("failed to store token", "error", err)
	}

	from := n.session.Level()
	n.session.login(me.User, n.userFrame(me))
	if err := n.sync(); err != nil {
		n.session.logout()
		_ = n.sync()
		return err
	}
	n.logger.Info("authenticated", "user", me.Username, "boards", len(me.Boards))
	n.logTransition(from)

	n.println(n.view.Success(fmt.Sprintf("logged in as %s (%s)", me.Username, me.FullName)))
	if unread := models.Unread(me.Notifications); len(unread) > 0 {
		n.println(n.view.Warning(fmt.Sprintf("%d unread notifications", len(unread))))
	}
	n.println(n.listing())
	n.println(n.view.Hint(models.LevelUser))
	return nil
}

// Enter moves to a child of the current position. Children are fetched
// before anything changes, so a failed fetch leaves the session and the
// commands as they were.
func (n *Navigator) Enter(ctx context.Context, target models.Entity) error {
	from := n.session.Level()
	current := n.session.current()
	if current == nil {
		return fmt.Errorf("enter: not logged in")
	}
	label, ok := current.slugOf(target)
	if !ok || !canEnter(from, target.Level()) {
		return fmt.Errorf("enter: %s %q is not a child of the current %s", target.Level(), target.DisplayName(), from)
	}

	f, err := n.fetchFrame(ctx, target)
	if err != nil {
		return fmt.Errorf("enter %s %q: %w", target.Level(), target.DisplayName(), err)
	}
	f.label = label

	n.session.push(f)
	if err := n.sync(); err != nil {
		n.session.pop()
		_ = n.sync()
		return err
	}
	n.logTransition(from)

	n.println(n.view.Success(fmt.Sprintf("entered %s %s", target.Level(), target.DisplayName())))
	n.println(n.listing())
	n.println(n.view.Hint(n.session.Level()))
	return nil
}

// Exit moves to the parent position, reusing its children unless a
// mutation made them stale.
func (n *Navigator) Exit(ctx context.Context) error {
	from := n.session.Level()
	switch from {
	case models.LevelLoggedOut:
		return fmt.Errorf("exit: not logged in")
	case models.LevelUser:
		n.println(n.view.Subtle("already at the top"))
		return nil
	}

	if parent := n.session.parent(); parent.stale {
		fresh, err := n.refetch(ctx, parent)
		if err != nil {
			return fmt.Errorf("exit: %w", err)
		}
		n.session.frames[len(n.session.frames)-2] = fresh
	}

	popped := n.session.pop()
	if err := n.sync(); err != nil {
		n.session.push(popped)
		_ = n.sync()
		return err
	}
	n.logTransition(from)

	n.println(n.listing())
	return nil
}

// Refresh prints the current listing from what was already fetched.
func (n *Navigator) Refresh() {
	n.println(n.listing())
}

// sync makes the live level commands and the prompt match the position.
func (n *Navigator) sync() error {
	diff, err := n.commands.Reconcile(n.levelCommands())
	if err != nil {
		return fmt.Errorf("update commands: %w", err)
	}
	n.logger.Debug("level commands", "level", n.session.Level().String(),
		"added", diff.Added, "removed", diff.Removed, "replaced", len(diff.Replaced))
	if n.prompt != nil {
		n.prompt.SetPrompt(n.view.Prompt(n.label()))
	}
	return nil
}

func (n *Navigator) label() string {
	switch n.session.Level() {
	case models.LevelLoggedOut:
		return n.appName
	case models.LevelUser:
		return n.session.User().Username
	default:
		return n.session.current().label
	}
}

func (n *Navigator) listing() string {
	switch n.session.Level() {
	case models.LevelUser:
		return n.view.Boards(n.session.Boards(), n.session.current().slugs)
	case models.LevelBoard:
		return n.view.Lists(n.session.Lists(), n.session.current().slugs)
	case models.LevelList:
		return n.view.Cards(n.session.Cards(), n.session.current().slugs)
	case models.LevelCard:
		return n.view.CardInfo(n.session.Detail())
	default:
		return n.view.Hint(models.LevelLoggedOut)
	}
}

func (n *Navigator) logTransition(from models.Level) {
	to := n.session.Level()
	attrs := []any{"from", from.String(), "to", to.String()}
	if head := n.session.Head(); head != nil {
		attrs = append(attrs, "id", head.EntityID(), "name", head.DisplayName())
	}
	n.logger.Info("transition", attrs...)
}

func (n *Navigator) println(text string) {
	fmt.Fprintln(n.out, text)
}

func canEnter(from, to models.Level) bool {
	switch from {
	case models.LevelUser:
		return to == models.LevelBoard
	case models.LevelBoard:
		return to == models.LevelList || to == models.LevelCard
	case models.LevelList:
		return to == models.LevelCard
	default:
		return false
	}
}

// slugs returns the slug this frame assigned to the child id, or "".
func (f *frame) slugs(id string) string {
	if f.children == nil {
		return ""
	}
	s, _ := f.children.Lookup(id)
	return s
}

// slugOf returns the slug this frame assigned to a child.
func (f *frame) slugOf(child models.Entity) (string, bool) {
	if f.children == nil {
		return "", false
	}
	return f.children.Lookup(child.EntityID())
}
