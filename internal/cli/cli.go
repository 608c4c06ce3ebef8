// Package cli assembles a trellis session from configuration and runs it.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/thenoetrevino/trellis/internal/config"
	"github.com/thenoetrevino/trellis/internal/gateway"
	"github.com/thenoetrevino/trellis/internal/logging"
	"github.com/thenoetrevino/trellis/internal/navigator"
	"github.com/thenoetrevino/trellis/internal/prompt"
	"github.com/thenoetrevino/trellis/internal/registry"
	"github.com/thenoetrevino/trellis/internal/render"
	"github.com/thenoetrevino/trellis/internal/shell"
	"github.com/thenoetrevino/trellis/internal/store"
)

// Options are the command line settings.
type Options struct {
	ConfigPath string
	APIURL     string
	In         *os.File
	Out        io.Writer
}

// CLI represents one interactive session and the resources it holds.
type CLI struct {
	Config    *config.Config
	Store     *store.Store
	Shell     *shell.Shell
	Navigator *navigator.Navigator

	logFile io.Closer
}

// LoadConfig reads the config file named by path, or the default one.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// OpenStore loads the config and opens its token store.
func OpenStore(ctx context.Context, opts Options) (*config.Config, *store.Store, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	st, err := store.OpenDefault(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token store: %w", err)
	}
	return cfg, st, nil
}

// NewCLI loads configuration, opens the token store and wires the shell,
// the command registry and the navigator together.
func NewCLI(ctx context.Context, opts Options) (*CLI, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, st, err := OpenStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}

	// A missing log file must not stop the session
	logFile, err := logging.Init(cfg.DataDir)
	if err != nil {
		logging.Discard()
		logFile = nil
	}
	logger := slog.Default()

	client, err := gateway.NewClient(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Key:     cfg.API.Key,
		Logger:  logger,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	view := render.New(cfg.ColorScheme, render.WithMarkdownStyle(cfg.MarkdownStyle))
	sh := shell.New(
		shell.WithReader(shell.NewReader(opts.In, opts.Out)),
		shell.WithOutput(opts.Out),
		shell.WithFatal(IsFatal),
		shell.WithErrorFormatter(view.Error),
		shell.WithLogger(logger),
	)

	nav, err := navigator.New(navigator.Config{
		Gateway:            client,
		Tokens:             st,
		Prompter:           prompt.NewHuh(prompt.WithIO(opts.In, opts.Out)),
		Editor:             prompt.NewEditor(),
		Commands:           registry.New(sh, logger),
		Prompt:             sh,
		View:               view,
		Out:                opts.Out,
		Logger:             logger,
		AppName:            cfg.AppName,
		AuthorizeLink:      cfg.AuthorizeLink(),
		SlugLength:         cfg.SlugLength,
		CommentsLimit:      cfg.CommentsLimit,
		NotificationsLimit: cfg.NotificationsLimit,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := nav.Install(); err != nil {
		st.Close()
		return nil, err
	}

	return &CLI{
		Config:    cfg,
		Store:     st,
		Shell:     sh,
		Navigator: nav,
		logFile:   logFile,
	}, nil
}

// Run logs in (with token when given) and reads commands until the user
// leaves.
func (c *CLI) Run(ctx context.Context, token string) error {
	slog.Info("session started", "config", c.Config.Path(), "api", c.Config.API.BaseURL)
	if err := c.Navigator.Login(ctx, token); err != nil {
		return err
	}
	err := c.Shell.Run(ctx)
	slog.Info("session ended", "error", err)
	return err
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	err := c.Store.Close()
	if c.logFile != nil {
		c.logFile.Close()
	}
	return err
}

// IsFatal reports whether an error must end the session.
func IsFatal(err error) bool {
	return ExitCode(err) == ExitAuth
}
