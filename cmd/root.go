package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/trellis/internal/cli"
	"github.com/thenoetrevino/trellis/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "trellis",
	Short: "trellis - browse and edit kanban boards from a shell",
	Long: `trellis is an interactive shell for your kanban boards.

Type the name of a board, list or card to enter it, 'cd ..' to go back,
'ls' to list the current level again and 'help' for everything else.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored API token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/trellis/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL")
	rootCmd.Flags().String("token", "", "API token to log in with")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	})
	rootCmd.AddCommand(logoutCmd)
}

func options(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	apiURL, _ := cmd.Flags().GetString("api-url")
	return cli.Options{ConfigPath: configPath, APIURL: apiURL}
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	token, _ := cmd.Flags().GetString("token")

	session, err := cli.NewCLI(ctx, options(cmd))
	if err != nil {
		return err
	}
	defer session.Close()

	return session.Run(ctx, token)
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, st, err := cli.OpenStore(ctx, options(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(ctx, store.TokenKey); err != nil {
		return fmt.Errorf("failed to forget token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "logged out")
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
