// Package slug turns display names into short command tokens that are unique
// among siblings.
package slug

import (
	"strconv"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// DefaultMaxLength bounds slugs, suffix included.
const DefaultMaxLength = 26

// MinLength is the smallest bound a Set accepts; shorter ones are raised.
const MinLength = 4

// Unnamed replaces names that normalize to nothing.
const Unnamed = "unnamed"

// Reserved are command words a slug may never shadow.
var Reserved = []string{
	"?", "add", "attachments", "auth", "board", "card", "cd", "checklists",
	"comment", "comments", "desc", "edit", "exit", "help", "info", "list",
	"ls", "me", "notifications", "post", "quit", "rename",
}

// Make normalizes name and truncates it to max runes.
func Make(name string, max int) string {
	if max <= 0 {
		max = DefaultMaxLength
	}
	s := truncate(gosimple.Make(name), max)
	if s == "" {
		s = truncate(Unnamed, max)
	}
	return s
}

func truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	runes := []rune(s)
	if len(runes) > max {
		runes = runes[:max]
	}
	return strings.Trim(string(runes), "-")
}

// Set allocates slugs for the children of one level. Assignment is
// deterministic: the same ids and names in the same order always produce
// the same slugs.
type Set struct {
	max   int
	taken map[string]bool
	byID  map[string]string
}

// NewSet returns a Set that refuses the Reserved words and any extra ones.
func NewSet(max int, extra ...string) *Set {
	switch {
	case max <= 0:
		max = DefaultMaxLength
	case max < MinLength:
		max = MinLength
	}
	s := &Set{max: max, taken: map[string]bool{}, byID: map[string]string{}}
	for _, word := range Reserved {
		s.taken[word] = true
	}
	for _, word := range extra {
		s.taken[word] = true
	}
	return s
}

// Assign returns the slug for the entity id, allocating one from name the
// first time. Collisions get "-2", "-3", ... with the base shortened so the
// result stays within the length bound.
func (s *Set) Assign(id, name string) string {
	if existing, ok := s.byID[id]; ok {
		return existing
	}

	base := Make(name, s.max)
	candidate := base
	for n := 2; s.taken[candidate]; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate = truncate(base, s.max-len(suffix)) + suffix
	}

	s.taken[candidate] = true
	s.byID[id] = candidate
	return candidate
}

// Lookup returns the slug already assigned to id.
func (s *Set) Lookup(id string) (string, bool) {
	slug, ok := s.byID[id]
	return slug, ok
}
