package navigator

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/shell"
)

// staticCommands are live at every level.
func (n *Navigator) staticCommands() []shell.Command {
	return []shell.Command{
		{
			Name:  "cd",
			Use:   "..",
			Short: "Go back to the parent level",
			Args:  cobra.ExactArgs(1),
			Run: n.guard(func(ctx context.Context, inv shell.Invocation) error {
				if inv.Args[0] != ".." {
					n.println(n.view.Subtle("only " + n.view.Command("cd ..") + " is supported; type a name to enter it"))
					return nil
				}
				return n.Exit(ctx)
			}),
		},
		{
			Name:    "ls",
			Aliases: []string{"info"},
			Short:   "Show the current level again",
			Args:    cobra.NoArgs,
			Run: func(context.Context, shell.Invocation) error {
				n.Refresh()
				return nil
			},
		},
	}
}

// levelCommands is the complete set of level commands for the current
// position.
func (n *Navigator) levelCommands() []shell.Command {
	f := n.session.current()
	switch n.session.Level() {
	case models.LevelLoggedOut:
		return []shell.Command{n.authCommand()}
	case models.LevelUser:
		return n.userCommands(f)
	case models.LevelBoard:
		return n.boardCommands(f)
	case models.LevelList:
		return n.listCommands(f)
	case models.LevelCard:
		return n.cardCommands()
	default:
		return nil
	}
}

func (n *Navigator) authCommand() shell.Command {
	return shell.Command{
		Name:  "auth",
		Short: "Log in with an API token",
		Args:  cobra.NoArgs,
		Flags: func(flags *pflag.FlagSet) {
			flags.String("token", "", "API token to log in with")
		},
		Run: func(ctx context.Context, inv shell.Invocation) error {
			token, _ := inv.Flags.GetString("token")
			return n.Login(ctx, token)
		},
	}
}

// enterCommand enters child as "<level> <slug>" or the bare slug.
func (n *Navigator) enterCommand(f *frame, child models.Entity) shell.Command {
	name, _ := f.children.Lookup(child.EntityID())
	return shell.Command{
		Name:    child.Level().String() + " " + name,
		Aliases: []string{name},
		Short:   fmt.Sprintf("Enter %s %q", child.Level(), child.DisplayName()),
		Args:    cobra.NoArgs,
		Run: n.guard(func(ctx context.Context, _ shell.Invocation) error {
			return n.Enter(ctx, child)
		}),
	}
}

func (n *Navigator) userCommands(f *frame) []shell.Command {
	cmds := make([]shell.Command, 0, len(f.boards)+1)
	for _, board := range f.boards {
		cmds = append(cmds, n.enterCommand(f, board))
	}
	return append(cmds, shell.Command{
		Name:  "notifications",
		Short: "Show unread notifications",
		Args:  cobra.NoArgs,
		Run: func(context.Context, shell.Invocation) error {
			n.println(n.view.Notifications(models.Unread(n.session.Notifications())))
			return nil
		},
	})
}

func (n *Navigator) boardCommands(f *frame) []shell.Command {
	cmds := make([]shell.Command, 0, len(f.lists)+len(f.cards)+1)
	for _, list := range f.lists {
		cmds = append(cmds, n.enterCommand(f, list))
	}
	for _, card := range f.cards {
		cmds = append(cmds, n.enterCommand(f, card))
	}
	return append(cmds, n.addCardCommand(true))
}

func (n *Navigator) listCommands(f *frame) []shell.Command {
	cmds := make([]shell.Command, 0, len(f.cards)+1)
	for _, card := range f.cards {
		cmds = append(cmds, n.enterCommand(f, card))
	}
	return append(cmds, n.addCardCommand(false))
}

func (n *Navigator) addCardCommand(onBoard bool) shell.Command {
	cmd := shell.Command{
		Name:  "add card",
		Use:   "<name> [--top] [--due DATE]",
		Short: "Add a card to this list",
		Args:  cobra.MinimumNArgs(1),
		Flags: func(flags *pflag.FlagSet) {
			flags.Bool("top", false, "put the card at the top of the list")
			flags.String("due", "", "due date, e.g. 2025-01-01 or \"Jan 2 2025 15:04\"")
			if onBoard {
				flags.String("list", "", "slug of the list to add to (default: first list)")
			}
		},
		Run: n.guard(n.runAddCard),
	}
	if onBoard {
		cmd.Use = "<name> [--list LIST] [--top] [--due DATE]"
		cmd.Short = "Add a card to a list of this board"
	}
	return cmd
}

func (n *Navigator) cardCommands() []shell.Command {
	show := func(render func(*models.CardDetail) string) func(context.Context, shell.Invocation) error {
		return func(context.Context, shell.Invocation) error {
			n.println(render(n.session.Detail()))
			return nil
		}
	}

	return []shell.Command{
		{
			Name:  "desc",
			Short: "Show the description",
			Args:  cobra.NoArgs,
			Run: show(func(d *models.CardDetail) string {
				return n.view.Description(d.Description)
			}),
		},
		{
			Name:  "comments",
			Short: "Show the latest comments",
			Args:  cobra.NoArgs,
			Run: show(func(d *models.CardDetail) string {
				return n.view.Comments(d.Comments)
			}),
		},
		{
			Name:  "checklists",
			Short: "Show checklists",
			Args:  cobra.NoArgs,
			Run: show(func(d *models.CardDetail) string {
				return n.view.Checklists(d.Checklists)
			}),
		},
		{
			Name:  "attachments",
			Short: "Show attachments",
			Args:  cobra.NoArgs,
			Run: show(func(d *models.CardDetail) string {
				return n.view.Attachments(d.Attachments)
			}),
		},
		{
			Name:    "rename",
			Aliases: []string{"rename card"},
			Use:     "[new name]",
			Short:   "Rename this card",
			Run:     n.guard(n.runRename),
		},
		{
			Name:    "edit",
			Aliases: []string{"edit desc"},
			Use:     "[text]",
			Short:   "Replace the description",
			Run:     n.guard(n.runEdit),
		},
		{
			Name:    "post",
			Aliases: []string{"comment", "add comment"},
			Use:     "[text]",
			Short:   "Post a comment",
			Run:     n.guard(n.runPost),
		},
	}
}
