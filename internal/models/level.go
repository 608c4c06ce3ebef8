package models

// Level is the navigation depth of the current position.
type Level int

const (
	// LevelLoggedOut is the state before a successful authentication.
	LevelLoggedOut Level = iota
	// LevelUser is the root: the authenticated user's boards.
	LevelUser
	LevelBoard
	LevelList
	LevelCard
)

func (l Level) String() string {
	switch l {
	case LevelLoggedOut:
		return "logged-out"
	case LevelUser:
		return "user"
	case LevelBoard:
		return "board"
	case LevelList:
		return "list"
	case LevelCard:
		return "card"
	default:
		return "unknown"
	}
}

// LevelOf classifies a navigation stack (root first, head last).
// An empty stack is the user level once authenticated and the logged-out
// level otherwise.
func LevelOf(stack []Entity, authenticated bool) Level {
	if len(stack) == 0 {
		if authenticated {
			return LevelUser
		}
		return LevelLoggedOut
	}
	return stack[len(stack)-1].Level()
}
