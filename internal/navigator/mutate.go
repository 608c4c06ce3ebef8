package navigator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/shell"
)

// dueLayout is how due dates are sent to the service.
const dueLayout = "2006-01-02T15:04:05.000Z07:00"

// mutation is one confirmed change to the service.
type mutation struct {
	preview  string
	question string
	apply    func(ctx context.Context) error
	refresh  func(ctx context.Context) error
	done     string
}

// run shows the preview, asks for confirmation, applies the change and
// re-fetches what it touched. A declined confirmation changes nothing.
func (n *Navigator) run(ctx context.Context, m mutation) error {
	n.println(m.preview)
	confirmed, err := n.prompter.Confirm(ctx, m.question)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !confirmed {
		n.println(n.view.Subtle("cancelled, nothing was changed"))
		return nil
	}

	if err := m.apply(ctx); err != nil {
		return err
	}
	n.println(n.view.Success(m.done))
	if err := m.refresh(ctx); err != nil {
		return fmt.Errorf("refresh after change: %w", err)
	}
	return nil
}

// text returns the typed arguments, or opens the editor on initial.
func (n *Navigator) text(ctx context.Context, args []string, initial string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	edited, err := n.editor.Edit(ctx, initial)
	if err != nil {
		return "", fmt.Errorf("edit: %w", err)
	}
	return edited, nil
}

func (n *Navigator) currentCard() (*models.CardDetail, error) {
	detail := n.session.Detail()
	if n.session.Level() != models.LevelCard || detail == nil {
		return nil, fmt.Errorf("not at a card")
	}
	return detail, nil
}

func (n *Navigator) runRename(ctx context.Context, inv shell.Invocation) error {
	card, err := n.currentCard()
	if err != nil {
		return err
	}
	name, err := n.text(ctx, inv.Args, card.Name)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &models.ValidationError{Field: "name", Message: "must not be empty"}
	}

	return n.run(ctx, mutation{
		preview:  fmt.Sprintf("%s %s\n%s %s", n.view.Subtle("old name:"), card.Name, n.view.Subtle("new name:"), name),
		question: "Rename this card?",
		apply: func(ctx context.Context) error {
			return n.gateway.Put(ctx, "/1/cards/"+card.ID+"/name", nil, map[string]string{"value": name}, nil)
		},
		refresh: n.refreshCard,
		done:    "renamed!",
	})
}

func (n *Navigator) runEdit(ctx context.Context, inv shell.Invocation) error {
	card, err := n.currentCard()
	if err != nil {
		return err
	}
	desc, err := n.text(ctx, inv.Args, card.Description)
	if err != nil {
		return err
	}

	return n.run(ctx, mutation{
		preview:  n.view.Subtle("new description:") + "\n" + n.view.Description(desc),
		question: "Replace the description?",
		apply: func(ctx context.Context) error {
			return n.gateway.Put(ctx, "/1/cards/"+card.ID+"/desc", nil, map[string]string{"value": desc}, nil)
		},
		refresh: n.refreshCard,
		done:    "description updated!",
	})
}

func (n *Navigator) runPost(ctx context.Context, inv shell.Invocation) error {
	card, err := n.currentCard()
	if err != nil {
		return err
	}
	comment, err := n.text(ctx, inv.Args, "")
	if err != nil {
		return err
	}
	if strings.TrimSpace(comment) == "" {
		return &models.ValidationError{Field: "comment", Message: "must not be empty"}
	}

	return n.run(ctx, mutation{
		preview:  n.view.Subtle("your comment:") + "\n" + n.view.Markdown(comment),
		question: "Post this comment?",
		apply: func(ctx context.Context) error {
			return n.gateway.Post(ctx, "/1/cards/"+card.ID+"/actions/comments", nil, map[string]string{"text": comment}, nil)
		},
		refresh: func(ctx context.Context) error {
			if err := n.refreshCard(ctx); err != nil {
				return err
			}
			n.println(n.view.Comments(n.session.Detail().Comments))
			return nil
		},
		done: "comment posted!",
	})
}

// refreshCard re-fetches the current card and marks the listings above it
// stale.
func (n *Navigator) refreshCard(ctx context.Context) error {
	current := n.session.current()
	fresh, err := n.fetchCard(ctx, current.entity.(*models.Card))
	if err != nil {
		return err
	}
	fresh.label = current.label
	n.session.replace(fresh)
	n.session.markAncestorsStale()
	n.println(n.view.CardInfo(fresh.detail))
	return nil
}

// ParseDue reads a due date in any common layout. Dates without a zone
// are taken as UTC.
func ParseDue(input string) (time.Time, error) {
	due, err := dateparse.ParseIn(strings.TrimSpace(input), time.UTC)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: "due", Message: fmt.Sprintf("cannot read %q as a date", input)}
	}
	return due.UTC(), nil
}

func (n *Navigator) runAddCard(ctx context.Context, inv shell.Invocation) error {
	name := strings.TrimSpace(strings.Join(inv.Args, " "))
	if name == "" {
		return &models.ValidationError{Field: "name", Message: "must not be empty"}
	}
	top, _ := inv.Flags.GetBool("top")

	var due any
	dueText := ""
	if raw, _ := inv.Flags.GetString("due"); raw != "" {
		parsed, err := ParseDue(raw)
		if err != nil {
			return err
		}
		dueText = parsed.Format(dueLayout)
		due = dueText
	}

	list, err := n.targetList(inv)
	if err != nil {
		return err
	}

	desc, err := n.editor.Edit(ctx, "")
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	pos := "bottom"
	if top {
		pos = "top"
	}

	preview := []string{
		n.view.Subtle("name:") + " " + name,
		n.view.Subtle("list:") + " " + list.Name,
		n.view.Subtle("position:") + " " + pos,
	}
	if dueText != "" {
		preview = append(preview, n.view.Subtle("due:")+" "+dueText)
	}
	preview = append(preview, n.view.Subtle("description:"), n.view.Description(desc))

	return n.run(ctx, mutation{
		preview:  strings.Join(preview, "\n"),
		question: fmt.Sprintf("Add this card to %q?", list.Name),
		apply: func(ctx context.Context) error {
			body := map[string]any{
				"name":   name,
				"desc":   desc,
				"pos":    pos,
				"idList": list.ID,
				"due":    due,
			}
			return n.gateway.Post(ctx, "/1/cards", nil, body, nil)
		},
		refresh: func(ctx context.Context) error {
			return n.refreshList(ctx, list)
		},
		done: "card added!",
	})
}

// targetList is the current list, or at board level the --list flag's
// list, defaulting to the first one.
func (n *Navigator) targetList(inv shell.Invocation) (*models.List, error) {
	f := n.session.current()
	if n.session.Level() == models.LevelList {
		return f.entity.(*models.List), nil
	}

	if len(f.lists) == 0 {
		return nil, &models.ValidationError{Field: "list", Message: "this board has no open lists"}
	}
	wanted, _ := inv.Flags.GetString("list")
	if wanted == "" {
		return f.lists[0], nil
	}
	for _, list := range f.lists {
		if name, _ := f.children.Lookup(list.ID); name == strings.ToLower(wanted) {
			return list, nil
		}
	}
	return nil, &models.ValidationError{Field: "list", Message: fmt.Sprintf("no list %q on this board", wanted)}
}

// refreshList re-fetches the cards of list and updates the current
// listing and commands.
func (n *Navigator) refreshList(ctx context.Context, list *models.List) error {
	cards, err := n.fetchListCards(ctx, list.ID)
	if err != nil {
		return err
	}

	f := n.session.current()
	switch n.session.Level() {
	case models.LevelList:
		n.indexCards(f, cards)
		n.session.markAncestorsStale()
		n.println(n.view.Cards(cards, f.slugs))
	case models.LevelBoard:
		list.Cards = cards
		n.indexBoard(f)
		n.println(n.view.Lists(f.lists, f.slugs))
	}
	return n.sync()
}
