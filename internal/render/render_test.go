package render

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/thenoetrevino/trellis/internal/config/colors"
	"github.com/thenoetrevino/trellis/internal/models"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestView() *View {
	return New(*colors.Default(), WithMarkdownStyle("notty"), WithClock(func() time.Time { return fixedNow }))
}

func TestBoards(t *testing.T) {
	v := newTestView()
	out := v.Boards([]*models.Board{
		{
			Name:             "Roadmap",
			LastActivityTime: fixedNow.Add(-72 * time.Hour),
			Memberships:      []*models.Membership{{ID: "m1"}, {ID: "m2"}},
			Lists:            []*models.List{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}},
		},
		{Name: strings.Repeat("Very long board name ", 4)},
	}, nil)

	assert.Contains(t, out, "your boards:")
	assert.Contains(t, out, "Roadmap")
	assert.Contains(t, out, "3 days ago")
	assert.Contains(t, out, " 2 members")
	assert.Contains(t, out, " 3 lists")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, ellipsis)
}

func TestBoardsEmpty(t *testing.T) {
	assert.Contains(t, newTestView().Boards(nil, nil), "(no open boards)")
}

func TestListsPreviewsFirstCards(t *testing.T) {
	v := newTestView()
	list := &models.List{Name: "Doing"}
	for _, name := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		list.Cards = append(list.Cards, &models.Card{Name: name})
	}

	out := v.Lists([]*models.List{list}, nil)

	assert.Contains(t, out, "Doing")
	assert.Contains(t, out, "[one, two, three, four, five, six]")
	assert.NotContains(t, out, "seven")
}

func TestCardsWithAndWithoutDue(t *testing.T) {
	v := newTestView()
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	out := v.Cards([]*models.Card{
		{Name: "Write docs", Description: "first line\nsecond line"},
		{Name: "Ship", Description: "release", Due: &due},
	}, nil)

	assert.Contains(t, out, `> "first line second line"`)
	assert.Contains(t, out, "(due 2025-01-01T00:00:00)")
}

func TestListingsShowSlugs(t *testing.T) {
	v := newTestView()
	slugs := map[string]string{"l1": "design", "l2": "design-2", "c1": "write-docs"}
	lookup := func(id string) string { return slugs[id] }

	lists := v.Lists([]*models.List{{ID: "l1", Name: "Design"}, {ID: "l2", Name: "Design"}}, lookup)
	assert.Contains(t, lists, "→ design\n")
	assert.True(t, strings.HasSuffix(lists, "→ design-2"), lists)

	cards := v.Cards([]*models.Card{{ID: "c1", Name: "Write docs"}, {ID: "c2", Name: "Unknown"}}, lookup)
	assert.Contains(t, cards, `> ""`+" → write-docs")
	assert.True(t, strings.HasSuffix(cards, `> ""`), cards)

	boards := v.Boards([]*models.Board{{ID: "l1", Name: "Design"}}, lookup)
	assert.True(t, strings.HasSuffix(boards, "lists → design"), boards)
}

func TestCardInfo(t *testing.T) {
	v := newTestView()
	detail := &models.CardDetail{
		Card:     models.Card{Name: "Ship", Description: "Do it now"},
		Comments: []*models.Comment{{ID: "a"}},
		Checklists: []*models.Checklist{
			{Name: "QA", CheckItems: []*models.CheckItem{{Name: "smoke", State: models.CheckItemComplete}}},
		},
	}

	out := v.CardInfo(detail)

	assert.Contains(t, out, "Ship")
	assert.Contains(t, out, "Do it now")
	assert.Contains(t, out, "1 comments, 1 checklists, 0 attachments")
}

func TestDescriptionPlaceholder(t *testing.T) {
	assert.Equal(t, "No description", newTestView().Description("  "))
}

func TestCommentsOldestFirst(t *testing.T) {
	v := newTestView()
	comments := []*models.Comment{
		{Date: fixedNow, Data: models.CommentData{Text: "newest"}, Creator: models.Member{Username: "grace"}},
		{Date: fixedNow.Add(-time.Hour), Data: models.CommentData{Text: "oldest"}, Creator: models.Member{Username: "ada"}},
	}

	first := v.Comments(comments)
	second := v.Comments(comments)

	assert.Equal(t, first, second, "rendering must not reorder the input")
	assert.Less(t, strings.Index(first, "oldest"), strings.Index(first, "newest"))
	assert.Contains(t, first, "ada @ 2024-06-10 11:00")
	assert.Equal(t, "newest", comments[0].Data.Text)
}

func TestChecklistsAndAttachments(t *testing.T) {
	v := newTestView()

	checklists := v.Checklists([]*models.Checklist{{
		Name: "Release",
		CheckItems: []*models.CheckItem{
			{Name: "tag", State: models.CheckItemComplete},
			{Name: "announce", State: models.CheckItemIncomplete},
		},
	}})
	assert.Contains(t, checklists, "[x] tag")
	assert.Contains(t, checklists, "[ ] announce")

	attachments := v.Attachments([]*models.Attachment{{Name: "spec.pdf", URL: "https://example.com/spec.pdf"}})
	assert.Contains(t, attachments, "spec.pdf @ https://example.com/spec.pdf")
}

func TestNotifications(t *testing.T) {
	v := newTestView()
	out := v.Notifications([]*models.Notification{{
		Type:    "commentCard",
		Date:    fixedNow.Add(-2 * time.Hour),
		Data:    models.NotificationData{Text: "please review"},
		Creator: models.Member{Username: "grace"},
	}})

	assert.Contains(t, out, "grace")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "commentCard: please review")
}

func TestPromptAndMessages(t *testing.T) {
	v := newTestView()

	assert.Equal(t, "roadmap~$ ", v.Prompt("roadmap"))
	assert.Equal(t, "✗ boom", v.Error(errors.New("boom")))
	assert.Equal(t, "'ls'", v.Command("ls"))
}

func TestHintsMentionLevelCommands(t *testing.T) {
	v := newTestView()

	assert.Contains(t, v.Hint(models.LevelLoggedOut), "auth")
	assert.Contains(t, v.Hint(models.LevelList), "'add card'")
	assert.Contains(t, v.Hint(models.LevelCard), "'post'")
	assert.Contains(t, v.Hint(models.LevelBoard), "'cd ..'")
}

func TestDueDate(t *testing.T) {
	assert.Empty(t, DueDate(nil))
	due := time.Date(2025, 3, 4, 5, 6, 7, 800, time.FixedZone("X", 3600))
	assert.Equal(t, "2025-03-04T04:06:07", DueDate(&due))
}
