package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/testutil"
)

func newTestClient(t *testing.T, fake *testutil.FakeService, token string) *Client {
	t.Helper()
	client, err := NewClient(Config{BaseURL: fake.URL, Key: testutil.FakeKey, Token: token})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://example.com"})
	assert.Error(t, err)
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client, err := NewClient(Config{Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestGetSendsParamsVerbatim(t *testing.T) {
	fake := testutil.NewFakeService(t)
	fake.AddBoard("Roadmap", "Todo", "Done")
	client := newTestClient(t, fake, testutil.FakeToken)

	var me models.Me
	err := client.Get(context.Background(), "/1/members/me", Params{
		"fields":      "username",
		"boards":      "open",
		"board_lists": "open",
	}, &me)
	require.NoError(t, err)

	assert.Equal(t, "ada", me.Username)
	require.Len(t, me.Boards, 1)
	assert.Equal(t, "Roadmap", me.Boards[0].Name)
	assert.Len(t, me.Boards[0].Lists, 2)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	query := requests[0].Query
	assert.Equal(t, "username", query.Get("fields"))
	assert.Equal(t, "open", query.Get("boards"))
	assert.Equal(t, testutil.FakeKey, query.Get("key"))
	assert.Equal(t, testutil.FakeToken, query.Get("token"))
}

func TestPutSendsJSONBody(t *testing.T) {
	fake := testutil.NewFakeService(t)
	board := fake.AddBoard("Roadmap", "Todo")
	card := fake.AddCard(fake.List(board.ID, "Todo").ID, "Old", "")
	client := newTestClient(t, fake, testutil.FakeToken)

	err := client.Put(context.Background(), "/1/cards/"+card.ID+"/name", nil, map[string]string{"value": "New"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "New", fake.Card(card.ID).Name)
	requests := fake.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodPut, requests[0].Method)
	assert.Equal(t, "New", requests[0].Body["value"])
}

func TestPostSendsJSONBody(t *testing.T) {
	fake := testutil.NewFakeService(t)
	board := fake.AddBoard("Roadmap", "Todo")
	list := fake.List(board.ID, "Todo")
	client := newTestClient(t, fake, testutil.FakeToken)

	var created models.Card
	err := client.Post(context.Background(), "/1/cards", nil, map[string]any{
		"name":   "Ship it",
		"idList": list.ID,
		"pos":    "top",
	}, &created)
	require.NoError(t, err)

	assert.Equal(t, "Ship it", created.Name)
	assert.NotEmpty(t, created.ID)
	cards := fake.CardsIn(list.ID)
	require.Len(t, cards, 1)
	assert.Equal(t, created.ID, cards[0].ID)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodPost, requests[0].Method)
	assert.Equal(t, map[string]any{"name": "Ship it", "idList": list.ID, "pos": "top"}, requests[0].Body)
	assert.Equal(t, testutil.FakeToken, requests[0].Query.Get("token"))
}

func TestDeleteSendsParams(t *testing.T) {
	fake := testutil.NewFakeService(t)
	board := fake.AddBoard("Roadmap", "Todo")
	list := fake.List(board.ID, "Todo")
	card := fake.AddCard(list.ID, "Old", "")
	client := newTestClient(t, fake, testutil.FakeToken)

	err := client.Delete(context.Background(), "/1/cards/"+card.ID, Params{"reason": "done"})
	require.NoError(t, err)

	assert.Empty(t, fake.CardsIn(list.ID))
	requests := fake.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/1/cards/"+card.ID, requests[0].Path)
	assert.Equal(t, "done", requests[0].Query.Get("reason"))
	assert.Equal(t, testutil.FakeKey, requests[0].Query.Get("key"))
	assert.Nil(t, requests[0].Body)

	err = client.Delete(context.Background(), "/1/cards/"+card.ID, nil)
	assert.True(t, models.IsService(err), "got %v", err)
}

func TestInvalidTokenIsAuthError(t *testing.T) {
	fake := testutil.NewFakeService(t)
	client := newTestClient(t, fake, "stale")

	err := client.Get(context.Background(), "/1/members/me", nil, &models.Me{})
	require.Error(t, err)

	var authErr *models.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.False(t, models.IsService(err))
}

func TestSetTokenAppliesToNextRequest(t *testing.T) {
	fake := testutil.NewFakeService(t)
	client := newTestClient(t, fake, "")

	require.True(t, models.IsAuth(client.Get(context.Background(), "/1/members/me", nil, nil)))

	client.SetToken(testutil.FakeToken)
	assert.Equal(t, testutil.FakeToken, client.Token())
	assert.NoError(t, client.Get(context.Background(), "/1/members/me", nil, nil))
}

func TestServerFailureIsServiceError(t *testing.T) {
	fake := testutil.NewFakeService(t)
	board := fake.AddBoard("Roadmap")
	fake.Fail(http.MethodGet, "/1/boards/"+board.ID, http.StatusInternalServerError)
	client := newTestClient(t, fake, testutil.FakeToken)

	err := client.Get(context.Background(), "/1/boards/"+board.ID, Params{"lists": "open"}, nil)

	var serviceErr *models.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, http.StatusInternalServerError, serviceErr.Status)
	assert.Equal(t, "injected failure", serviceErr.Message)
	assert.Equal(t, "/1/boards/"+board.ID, serviceErr.Path)
	assert.Equal(t, 1, fake.Count(http.MethodGet, "/1/boards/"+board.ID), "no retry")
}

func TestTransportFailureIsServiceError(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", Key: "k", Token: "t"})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/1/members/me", nil, nil)

	var serviceErr *models.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, 0, serviceErr.Status)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantAuth bool
	}{
		{name: "401", status: 401, body: "unauthorized permission requested", wantAuth: true},
		{name: "400 invalid token", status: 400, body: "invalid token", wantAuth: true},
		{name: "400 other", status: 400, body: "invalid value for idList", wantAuth: false},
		{name: "404", status: 404, body: "not found", wantAuth: false},
		{name: "500 empty body", status: 500, body: "", wantAuth: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("GET", "/1/x", tt.status, []byte(tt.body))
			assert.Equal(t, tt.wantAuth, models.IsAuth(err))
			assert.Equal(t, !tt.wantAuth, models.IsService(err))
		})
	}

	err := classify("GET", "/1/x", 500, nil)
	assert.Contains(t, err.Error(), "Internal Server Error")
}
