package navigator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/testutil"
)

// mutations returns the recorded requests that change something.
func mutations(requests []testutil.RecordedRequest) []testutil.RecordedRequest {
	var out []testutil.RecordedRequest
	for _, r := range requests {
		if r.Method != "GET" {
			out = append(out, r)
		}
	}
	return out
}

func TestAddCardFromBoard(t *testing.T) {
	h := newHarness(t)
	_, backlog, _ := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.fake.Reset()
	h.prompter.confirm = true
	h.editor.text = "ship it"

	h.mustRun(`add card "Ship v2" --top --due 2025-01-01`)

	requests := h.fake.Requests()
	require.Len(t, requests, 2)
	create := requests[0]
	assert.Equal(t, "POST", create.Method)
	assert.Equal(t, "/1/cards", create.Path)
	assert.Equal(t, map[string]any{
		"name":   "Ship v2",
		"desc":   "ship it",
		"pos":    "top",
		"idList": backlog.ID,
		"due":    "2025-01-01T00:00:00.000Z",
	}, create.Body)
	assert.Equal(t, "GET", requests[1].Method)
	assert.Equal(t, "/1/lists/"+backlog.ID, requests[1].Path)

	cards := h.fake.CardsIn(backlog.ID)
	require.NotEmpty(t, cards)
	assert.Equal(t, "Ship v2", cards[0].Name)
	assert.Contains(t, h.registry.Scoped(), "card ship-v2")
	assert.Equal(t, models.LevelBoard, h.nav.Session().Level())
}

func TestAddCardToNamedList(t *testing.T) {
	h := newHarness(t)
	board, _, _ := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.fake.Reset()
	h.prompter.confirm = true
	doing := h.fake.List(board.ID, "Doing")

	h.mustRun("add card Deploy --list doing")

	create := mutations(h.fake.Requests())
	require.Len(t, create, 1)
	assert.Equal(t, doing.ID, create[0].Body["idList"])
	assert.Equal(t, "bottom", create[0].Body["pos"])
	assert.Nil(t, create[0].Body["due"])
	assert.Len(t, h.fake.CardsIn(doing.ID), 1)

	err := h.run("add card Deploy --list nowhere")
	assert.True(t, models.IsValidation(err), "got %v", err)
}

func TestAddCardInListMarksBoardStale(t *testing.T) {
	h := newHarness(t)
	_, backlog, _ := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("backlog")
	h.prompter.confirm = true

	h.mustRun("add card Triage")

	assert.Contains(t, h.registry.Scoped(), "card triage")
	assert.Len(t, h.nav.Session().Cards(), 3)
	assert.Equal(t, 2, h.fake.Count("GET", "/1/lists/"+backlog.ID))

	boardFetches := h.fake.Count("GET", "/1/boards/"+backlog.BoardID)
	h.mustRun("cd ..")
	assert.Equal(t, boardFetches+1, h.fake.Count("GET", "/1/boards/"+backlog.BoardID), "stale board is re-fetched")
	assert.Contains(t, h.registry.Scoped(), "card triage")
}

func TestAddCardRejectsBadDue(t *testing.T) {
	h := newHarness(t)
	h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.fake.Reset()
	h.prompter.confirm = true

	err := h.run("add card Later --due someday-maybe")

	assert.True(t, models.IsValidation(err), "got %v", err)
	assert.Empty(t, h.fake.Requests())
	assert.Empty(t, h.editor.initials, "the editor is not opened for invalid input")
}

func TestAddCardDeclined(t *testing.T) {
	h := newHarness(t)
	_, backlog, _ := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.fake.Reset()

	h.mustRun("add card Maybe")

	assert.Empty(t, h.fake.Requests())
	assert.Len(t, h.fake.CardsIn(backlog.ID), 2)
	assert.Contains(t, h.out.String(), "cancelled")
}

func TestEditDeclined(t *testing.T) {
	h := newHarness(t)
	_, _, card := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("backlog")
	h.mustRun("write-docs")
	h.fake.Reset()
	h.editor.text = "rewritten"

	h.mustRun("edit")

	assert.Empty(t, mutations(h.fake.Requests()))
	assert.Equal(t, "the docs", h.fake.Card(card.ID).Description)
	assert.Equal(t, "the docs", h.nav.Session().Detail().Description)
	assert.Equal(t, []string{"the docs"}, h.editor.initials, "editor starts from the current description")
	assert.Equal(t, []string{"Replace the description?"}, h.prompter.questions)
}

func TestEditConfirmed(t *testing.T) {
	h := newHarness(t)
	_, backlog, card := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("backlog")
	h.mustRun("write-docs")
	h.fake.Reset()
	h.prompter.confirm = true
	h.editor.text = "# Docs\n\nrewritten"

	h.mustRun("edit desc")

	requests := h.fake.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "PUT", requests[0].Method)
	assert.Equal(t, "/1/cards/"+card.ID+"/desc", requests[0].Path)
	assert.Equal(t, map[string]any{"value": "# Docs\n\nrewritten"}, requests[0].Body)
	assert.Equal(t, "/1/cards/"+card.ID, requests[1].Path)
	assert.Equal(t, "# Docs\n\nrewritten", h.nav.Session().Detail().Description)

	h.mustRun("cd ..")
	assert.Equal(t, 1, h.fake.Count("GET", "/1/lists/"+backlog.ID), "list is re-fetched after the change")
	assert.Equal(t, "# Docs\n\nrewritten", h.nav.Session().Cards()[0].Description)
}

func TestRenameWithArguments(t *testing.T) {
	h := newHarness(t)
	_, _, card := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("card write-docs")
	h.prompter.confirm = true

	h.mustRun("rename Write better docs")

	assert.Equal(t, "Write better docs", h.fake.Card(card.ID).Name)
	assert.Equal(t, "Write better docs", h.nav.Session().Head().DisplayName())
	assert.Empty(t, h.editor.initials)
	assert.Equal(t, "write-docs~$ ", h.shell.Prompt(), "prompt keeps the slug the card was entered by")

	h.mustRun("cd ..")
	assert.Equal(t, "Write better docs", h.nav.Session().Cards()[0].Name, "board is re-fetched after the rename")
}

func TestRenamedCardGetsNewSlug(t *testing.T) {
	h := newHarness(t)
	_, _, card := h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("backlog")
	h.mustRun("write-docs")
	h.prompter.confirm = true

	h.mustRun("rename Ship it")
	h.mustRun("cd ..")

	h.assertScoped("add card", "card fix-login", "card ship-it")
	assert.Contains(t, h.out.String(), "→ ship-it")
	assert.Error(t, h.run("write-docs"))

	h.mustRun("cd ..")
	h.assertScoped("add card", "card fix-login", "card ship-it", "list backlog", "list doing")

	h.mustRun("ship-it")
	assert.Equal(t, card.ID, h.nav.Session().Head().EntityID())
	assert.Equal(t, "ship-it~$ ", h.shell.Prompt())
}

func TestRenameRejectsEmptyName(t *testing.T) {
	h := newHarness(t)
	h.roadmap()
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("card write-docs")
	h.fake.Reset()
	h.prompter.confirm = true
	h.editor.text = "   "

	err := h.run("rename")

	assert.True(t, models.IsValidation(err), "got %v", err)
	assert.Empty(t, h.fake.Requests())
}

func TestPostComment(t *testing.T) {
	h := newHarness(t)
	_, _, card := h.roadmap()
	h.fake.AddComment(card.ID, "grace", "first!")
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("card write-docs")
	h.fake.Reset()
	h.prompter.confirm = true

	h.mustRun("comment looks good")

	posts := mutations(h.fake.Requests())
	require.Len(t, posts, 1)
	assert.Equal(t, "/1/cards/"+card.ID+"/actions/comments", posts[0].Path)
	assert.Equal(t, map[string]any{"text": "looks good"}, posts[0].Body)
	assert.Len(t, h.nav.Session().Detail().Comments, 2)
	assert.Contains(t, h.out.String(), "looks good")
}

func TestCardViews(t *testing.T) {
	h := newHarness(t)
	_, _, card := h.roadmap()
	h.fake.AddComment(card.ID, "grace", "ship it")
	h.fake.AddChecklist(card.ID, &models.Checklist{ID: "cl", Name: "Release", CheckItems: []*models.CheckItem{
		{ID: "i1", Name: "tag", State: models.CheckItemComplete},
	}})
	h.fake.AddAttachment(card.ID, "spec.pdf", "https://files.example/spec.pdf")
	h.login()
	h.mustRun("product-roadmap")
	h.mustRun("card write-docs")

	for line, want := range map[string]string{
		"desc":        "the docs",
		"comments":    "ship it",
		"checklists":  "Release",
		"attachments": "spec.pdf",
	} {
		h.out.Reset()
		h.mustRun(line)
		assert.Contains(t, h.out.String(), want, line)
	}

	request := h.fake.Requests()[len(h.fake.Requests())-1]
	assert.Equal(t, "/1/cards/"+card.ID, request.Path)
	assert.Equal(t, "5", request.Query.Get("actions_limit"))
	assert.Equal(t, "commentCard,copyCommentCard", request.Query.Get("actions"))
}

func TestParseDue(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-03-04 15:30", time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)},
		{"2025-03-04T15:30:00+02:00", time.Date(2025, 3, 4, 13, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDue(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseDue("not a date")
	assert.True(t, models.IsValidation(err))
}
