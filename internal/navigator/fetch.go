package navigator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/thenoetrevino/trellis/internal/gateway"
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/slug"
)

// Field selections per level. Only what the listings and commands need is
// requested.
func (n *Navigator) meParams() gateway.Params {
	return gateway.Params{
		"fields":              "username,fullName",
		"boards":              "open",
		"board_fields":        "dateLastActivity,desc,name,memberships",
		"board_memberships":   "active",
		"board_lists":         "open",
		"notifications":       "all",
		"notifications_limit": strconv.Itoa(n.notificationsLimit),
	}
}

var boardParams = gateway.Params{
	"fields":      "id",
	"lists":       "open",
	"list_fields": "name",
	"cards":       "open",
	"card_fields": "name,idList,desc,due",
}

var listParams = gateway.Params{
	"fields":      "id",
	"cards":       "open",
	"card_fields": "name,desc,due",
}

func (n *Navigator) cardParams() gateway.Params {
	return gateway.Params{
		"fields":                      "name,desc,due,idList",
		"actions":                     "commentCard,copyCommentCard",
		"actions_limit":               strconv.Itoa(n.commentsLimit),
		"actions_entities":            "true",
		"action_memberCreator_fields": "username",
		"attachments":                 "true",
		"attachment_fields":           "name,url",
		"checklists":                  "all",
		"checkItemStates":             "true",
		"checklist_fields":            "name",
	}
}

type boardPayload struct {
	ID    string         `json:"id"`
	Lists []*models.List `json:"lists"`
	Cards []*models.Card `json:"cards"`
}

type listPayload struct {
	ID    string         `json:"id"`
	Cards []*models.Card `json:"cards"`
}

func (n *Navigator) fetchMe(ctx context.Context) (*models.Me, error) {
	var me models.Me
	if err := n.gateway.Get(ctx, "/1/members/me", n.meParams(), &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// fetchFrame loads the children of entity. Slugs are derived afresh from
// the names just fetched.
func (n *Navigator) fetchFrame(ctx context.Context, entity models.Entity) (*frame, error) {
	switch e := entity.(type) {
	case *models.Board:
		return n.fetchBoard(ctx, e)
	case *models.List:
		return n.fetchList(ctx, e)
	case *models.Card:
		return n.fetchCard(ctx, e)
	default:
		return nil, fmt.Errorf("unsupported entity %T", entity)
	}
}

func (n *Navigator) fetchBoard(ctx context.Context, board *models.Board) (*frame, error) {
	var payload boardPayload
	if err := n.gateway.Get(ctx, "/1/boards/"+board.ID, boardParams, &payload); err != nil {
		return nil, err
	}

	byList := make(map[string][]*models.Card, len(payload.Lists))
	for _, card := range payload.Cards {
		byList[card.ListID] = append(byList[card.ListID], card)
	}
	for _, list := range payload.Lists {
		list.BoardID = board.ID
		list.Cards = byList[list.ID]
	}

	f := &frame{entity: board, lists: payload.Lists}
	n.indexBoard(f)
	return f, nil
}

// indexBoard derives the board's card list from its lists and assigns
// slugs to both. Lists and cards share one set so every bare slug is
// unambiguous; lists are assigned first and keep the plain names.
func (n *Navigator) indexBoard(f *frame) {
	f.children = slug.NewSet(n.slugLength)
	f.cards = nil
	for _, list := range f.lists {
		f.children.Assign(list.ID, list.Name)
		f.cards = append(f.cards, list.Cards...)
	}
	for _, card := range f.cards {
		f.children.Assign(card.ID, card.Name)
	}
}

func (n *Navigator) fetchListCards(ctx context.Context, listID string) ([]*models.Card, error) {
	var payload listPayload
	if err := n.gateway.Get(ctx, "/1/lists/"+listID, listParams, &payload); err != nil {
		return nil, err
	}
	for _, card := range payload.Cards {
		card.ListID = listID
	}
	return payload.Cards, nil
}

func (n *Navigator) fetchList(ctx context.Context, list *models.List) (*frame, error) {
	cards, err := n.fetchListCards(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	f := &frame{entity: list}
	n.indexCards(f, cards)
	return f, nil
}

func (n *Navigator) indexCards(f *frame, cards []*models.Card) {
	f.cards = cards
	f.children = slug.NewSet(n.slugLength)
	for _, card := range cards {
		f.children.Assign(card.ID, card.Name)
	}
}

func (n *Navigator) fetchCard(ctx context.Context, card *models.Card) (*frame, error) {
	var detail models.CardDetail
	if err := n.gateway.Get(ctx, "/1/cards/"+card.ID, n.cardParams(), &detail); err != nil {
		return nil, err
	}
	if detail.ID == "" {
		detail.ID = card.ID
	}
	entered := detail.Card
	return &frame{entity: &entered, detail: &detail}, nil
}

func (n *Navigator) userFrame(me *models.Me) *frame {
	f := &frame{boards: me.Boards, notifications: me.Notifications, children: slug.NewSet(n.slugLength)}
	for _, board := range me.Boards {
		f.children.Assign(board.ID, board.Name)
	}
	return f
}

// refetch reloads a stale frame in place of the old one.
func (n *Navigator) refetch(ctx context.Context, f *frame) (*frame, error) {
	if f.entity == nil {
		me, err := n.fetchMe(ctx)
		if err != nil {
			return nil, err
		}
		return n.userFrame(me), nil
	}

	fresh, err := n.fetchFrame(ctx, f.entity)
	if err != nil {
		return nil, err
	}
	fresh.label = f.label
	return fresh, nil
}
