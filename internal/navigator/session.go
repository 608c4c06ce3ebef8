package navigator

import (
	"github.com/thenoetrevino/trellis/internal/models"
	"github.com/thenoetrevino/trellis/internal/slug"
)

// frame is one position on the navigation path together with the children
// fetched when it was entered.
type frame struct {
	entity models.Entity // nil at the user root
	label  string        // slug the parent assigned to entity

	boards        []*models.Board
	notifications []*models.Notification
	lists         []*models.List
	cards         []*models.Card
	detail        *models.CardDetail

	children *slug.Set // boards, lists or cards; one set per level

	// stale frames are re-fetched before they become current again.
	stale bool
}

func (f *frame) level() models.Level {
	if f.entity == nil {
		return models.LevelUser
	}
	return f.entity.Level()
}

// Session is the state of one interactive session. Only the navigator
// changes it; everything else reads it through the accessors.
type Session struct {
	user   *models.User
	frames []*frame // frames[0] is the user root once authenticated
}

// Authenticated reports whether a user is logged in.
func (s *Session) Authenticated() bool {
	return s.user != nil
}

// User returns the logged in user, or nil.
func (s *Session) User() *models.User {
	return s.user
}

// Notifications returns the notification feed fetched at login.
func (s *Session) Notifications() []*models.Notification {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[0].notifications
}

// Stack returns the entered entities, outermost first. The user root is
// not part of it.
func (s *Session) Stack() []models.Entity {
	stack := make([]models.Entity, 0, len(s.frames))
	for _, f := range s.frames {
		if f.entity != nil {
			stack = append(stack, f.entity)
		}
	}
	return stack
}

// Level returns the current navigation level.
func (s *Session) Level() models.Level {
	return models.LevelOf(s.Stack(), s.Authenticated())
}

// Head returns the current entity, or nil at the user level and before
// login.
func (s *Session) Head() models.Entity {
	if f := s.current(); f != nil {
		return f.entity
	}
	return nil
}

// Boards returns the user's open boards.
func (s *Session) Boards() []*models.Board {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[0].boards
}

// Lists returns the lists of the current board.
func (s *Session) Lists() []*models.List {
	if f := s.current(); f != nil {
		return f.lists
	}
	return nil
}

// Cards returns the cards of the current list or board.
func (s *Session) Cards() []*models.Card {
	if f := s.current(); f != nil {
		return f.cards
	}
	return nil
}

// Detail returns the current card with comments, checklists and
// attachments.
func (s *Session) Detail() *models.CardDetail {
	if f := s.current(); f != nil {
		return f.detail
	}
	return nil
}

func (s *Session) current() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *Session) parent() *frame {
	if len(s.frames) < 2 {
		return nil
	}
	return s.frames[len(s.frames)-2]
}

func (s *Session) push(f *frame) {
	s.frames = append(s.frames, f)
}

func (s *Session) pop() *frame {
	f := s.current()
	if f != nil {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return f
}

// replace swaps the current frame.
func (s *Session) replace(f *frame) {
	s.frames[len(s.frames)-1] = f
}

// markAncestorsStale flags every frame below the current one, except the
// user root, for re-fetching.
func (s *Session) markAncestorsStale() {
	for i := 1; i < len(s.frames)-1; i++ {
		s.frames[i].stale = true
	}
}

func (s *Session) login(user models.User, root *frame) {
	s.user = &user
	s.frames = []*frame{root}
}

func (s *Session) logout() {
	s.user = nil
	s.frames = nil
}
