package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/thenoetrevino/trellis/internal/models"
)

// FakeKey is the application key the fake service expects.
const FakeKey = "test-key"

// FakeToken is the token the fake service accepts.
const FakeToken = "valid-token"

// RecordedRequest is one request seen by the fake service.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// FakeService is an in-process kanban service for tests. It serves the
// subset of the REST API the client uses and records every request.
type FakeService struct {
	URL string

	mu            sync.Mutex
	server        *httptest.Server
	user          models.User
	boards        []*models.Board
	lists         map[string][]*models.List // by board id
	cards         []*models.Card
	comments      map[string][]*models.Comment
	checklists    map[string][]*models.Checklist
	attachments   map[string][]*models.Attachment
	notifications []*models.Notification
	failures      map[string]int
	requests      []RecordedRequest
	nextID        int
}

// NewFakeService starts a fake service that is shut down with the test.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()

	fake := &FakeService{
		user:        models.User{ID: "me", Username: "ada", FullName: "Ada Lovelace"},
		lists:       map[string][]*models.List{},
		comments:    map[string][]*models.Comment{},
		checklists:  map[string][]*models.Checklist{},
		attachments: map[string][]*models.Attachment{},
		failures:    map[string]int{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(fake.record, fake.authorize, fake.inject)

	e.GET("/1/members/me", fake.getMe)
	e.GET("/1/boards/:id", fake.getBoard)
	e.GET("/1/lists/:id", fake.getList)
	e.GET("/1/cards/:id", fake.getCard)
	e.PUT("/1/cards/:id/name", fake.putCardField)
	e.PUT("/1/cards/:id/desc", fake.putCardField)
	e.POST("/1/cards/:id/actions/comments", fake.postComment)
	e.POST("/1/cards", fake.postCard)
	e.DELETE("/1/cards/:id", fake.deleteCard)

	fake.server = httptest.NewServer(e)
	fake.URL = fake.server.URL
	t.Cleanup(fake.server.Close)
	return fake
}

// AddBoard adds a board with the given lists (in order) and returns it.
func (f *FakeService) AddBoard(name string, listNames ...string) *models.Board {
	f.mu.Lock()
	defer f.mu.Unlock()

	board := &models.Board{
		ID:               f.id("board"),
		Name:             name,
		LastActivityTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Memberships:      []*models.Membership{{ID: f.id("membership"), MemberID: f.user.ID, MemberType: "admin"}},
	}
	for _, listName := range listNames {
		list := &models.List{ID: f.id("list"), Name: listName, BoardID: board.ID}
		f.lists[board.ID] = append(f.lists[board.ID], list)
	}
	f.boards = append(f.boards, board)
	return board
}

// List returns the list with the given name on a board, or nil.
func (f *FakeService) List(boardID, name string) *models.List {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range f.lists[boardID] {
		if list.Name == name {
			return list
		}
	}
	return nil
}

// AddCard appends a card to a list and returns it.
func (f *FakeService) AddCard(listID, name, description string) *models.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	card := &models.Card{ID: f.id("card"), Name: name, Description: description, ListID: listID}
	f.cards = append(f.cards, card)
	return card
}

// AddComment records a comment on a card.
func (f *FakeService) AddComment(cardID, author, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addComment(cardID, author, text)
}

// AddChecklist attaches a checklist to a card.
func (f *FakeService) AddChecklist(cardID string, checklist *models.Checklist) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checklists[cardID] = append(f.checklists[cardID], checklist)
}

// AddAttachment attaches a link to a card.
func (f *FakeService) AddAttachment(cardID, name, link string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachments[cardID] = append(f.attachments[cardID], &models.Attachment{ID: f.id("attachment"), Name: name, URL: link})
}

// AddNotification appends to the member's notification feed.
func (f *FakeService) AddNotification(text string, unread bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, &models.Notification{
		ID:     f.id("notification"),
		Type:   "commentCard",
		Unread: unread,
		Date:   time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC),
		Data:   models.NotificationData{Text: text},
		Creator: models.Member{
			ID:       "someone",
			Username: "grace",
		},
	})
}

// Card returns the current server-side copy of a card.
func (f *FakeService) Card(cardID string) models.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	if card := f.card(cardID); card != nil {
		return *card
	}
	return models.Card{}
}

// CardsIn returns the server-side cards of a list in order.
func (f *FakeService) CardsIn(listID string) []models.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Card
	for _, card := range f.cards {
		if card.ListID == listID {
			out = append(out, *card)
		}
	}
	return out
}

// Fail makes the next requests matching "METHOD /path" answer with status.
// A status of 0 clears the failure.
func (f *FakeService) Fail(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(f.failures, key)
		return
	}
	f.failures[key] = status
}

// Requests returns a copy of every recorded request.
func (f *FakeService) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Reset forgets recorded requests.
func (f *FakeService) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
}

// Count returns how many recorded requests match method and path.
func (f *FakeService) Count(method, path string) int {
	count := 0
	for _, request := range f.Requests() {
		if request.Method == method && request.Path == path {
			count++
		}
	}
	return count
}

func (f *FakeService) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		request := c.Request()
		recorded := RecordedRequest{
			Method: request.Method,
			Path:   request.URL.Path,
			Query:  request.URL.Query(),
		}
		if request.Body != nil && request.ContentLength != 0 {
			var body map[string]any
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				return c.String(http.StatusBadRequest, "invalid json body")
			}
			recorded.Body = body
			c.Set("body", body)
		}

		f.mu.Lock()
		f.requests = append(f.requests, recorded)
		f.mu.Unlock()
		return next(c)
	}
}

func (f *FakeService) authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("key") != FakeKey {
			return c.String(http.StatusUnauthorized, "invalid key")
		}
		if c.QueryParam("token") != FakeToken {
			return c.String(http.StatusUnauthorized, "invalid token")
		}
		return next(c)
	}
}

func (f *FakeService) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f.mu.Lock()
		status, ok := f.failures[c.Request().Method+" "+c.Request().URL.Path]
		f.mu.Unlock()
		if ok {
			return c.String(status, "injected failure")
		}
		return next(c)
	}
}

func (f *FakeService) getMe(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	boards := make([]*models.Board, 0, len(f.boards))
	for _, board := range f.boards {
		copied := *board
		copied.Lists = nil
		for _, list := range f.lists[board.ID] {
			copied.Lists = append(copied.Lists, &models.List{ID: list.ID, Name: list.Name})
		}
		boards = append(boards, &copied)
	}
	return c.JSON(http.StatusOK, models.Me{User: f.user, Boards: boards, Notifications: f.notifications})
}

func (f *FakeService) getBoard(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	boardID := c.Param("id")
	lists, ok := f.lists[boardID]
	if !ok {
		return c.String(http.StatusNotFound, "board not found")
	}

	payload := struct {
		ID    string         `json:"id"`
		Lists []*models.List `json:"lists"`
		Cards []*models.Card `json:"cards"`
	}{ID: boardID, Lists: []*models.List{}, Cards: []*models.Card{}}
	for _, list := range lists {
		payload.Lists = append(payload.Lists, &models.List{ID: list.ID, Name: list.Name})
		for _, card := range f.cards {
			if card.ListID == list.ID {
				copied := *card
				payload.Cards = append(payload.Cards, &copied)
			}
		}
	}
	return c.JSON(http.StatusOK, payload)
}

func (f *FakeService) getList(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	listID := c.Param("id")
	payload := struct {
		ID    string         `json:"id"`
		Cards []*models.Card `json:"cards"`
	}{ID: listID, Cards: []*models.Card{}}
	for _, card := range f.cards {
		if card.ListID == listID {
			copied := *card
			payload.Cards = append(payload.Cards, &copied)
		}
	}
	return c.JSON(http.StatusOK, payload)
}

func (f *FakeService) getCard(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	card := f.card(c.Param("id"))
	if card == nil {
		return c.String(http.StatusNotFound, "card not found")
	}
	detail := models.CardDetail{
		Card:        *card,
		Comments:    f.comments[card.ID],
		Checklists:  f.checklists[card.ID],
		Attachments: f.attachments[card.ID],
	}
	return c.JSON(http.StatusOK, detail)
}

func (f *FakeService) putCardField(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	card := f.card(c.Param("id"))
	if card == nil {
		return c.String(http.StatusNotFound, "card not found")
	}
	body, _ := c.Get("body").(map[string]any)
	value, _ := body["value"].(string)
	if strings.HasSuffix(c.Path(), "/name") {
		card.Name = value
	} else {
		card.Description = value
	}
	return c.JSON(http.StatusOK, card)
}

func (f *FakeService) postComment(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cardID := c.Param("id")
	if f.card(cardID) == nil {
		return c.String(http.StatusNotFound, "card not found")
	}
	body, _ := c.Get("body").(map[string]any)
	text, _ := body["text"].(string)
	comment := f.addComment(cardID, f.user.Username, text)
	return c.JSON(http.StatusOK, comment)
}

func (f *FakeService) postCard(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := c.Get("body").(map[string]any)
	name, _ := body["name"].(string)
	listID, _ := body["idList"].(string)
	if name == "" || listID == "" {
		return c.String(http.StatusBadRequest, "invalid value for name or idList")
	}

	card := &models.Card{ID: f.id("card"), Name: name, ListID: listID}
	card.Description, _ = body["desc"].(string)
	if due, ok := body["due"].(string); ok && due != "" {
		parsed, err := time.Parse(time.RFC3339Nano, due)
		if err != nil {
			return c.String(http.StatusBadRequest, "invalid value for due")
		}
		card.Due = &parsed
	}

	if pos, _ := body["pos"].(string); pos == "top" {
		f.cards = append([]*models.Card{card}, f.cards...)
	} else {
		f.cards = append(f.cards, card)
	}
	return c.JSON(http.StatusOK, card)
}

func (f *FakeService) deleteCard(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cardID := c.Param("id")
	for i, card := range f.cards {
		if card.ID == cardID {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			delete(f.comments, cardID)
			return c.JSON(http.StatusOK, map[string]any{"limits": map[string]any{}})
		}
	}
	return c.String(http.StatusNotFound, "card not found")
}

func (f *FakeService) addComment(cardID, author, text string) *models.Comment {
	comment := &models.Comment{
		ID:      f.id("action"),
		Type:    "commentCard",
		Date:    time.Date(2024, 6, 3, 10, 0, len(f.comments[cardID]), 0, time.UTC),
		Data:    models.CommentData{Text: text},
		Creator: models.Member{Username: author},
	}
	// newest first, like the service
	f.comments[cardID] = append([]*models.Comment{comment}, f.comments[cardID]...)
	return comment
}

func (f *FakeService) card(cardID string) *models.Card {
	for _, card := range f.cards {
		if card.ID == cardID {
			return card
		}
	}
	return nil
}

func (f *FakeService) id(kind string) string {
	f.nextID++
	return kind + "-" + strconv.Itoa(f.nextID)
}
