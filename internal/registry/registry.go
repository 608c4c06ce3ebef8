// Package registry tracks which commands are live in the shell. Static
// commands are registered once; level commands are reconciled as a set on
// every navigation transition.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/thenoetrevino/trellis/internal/shell"
)

// ErrDuplicate is returned when two commands claim the same name or alias.
var ErrDuplicate = errors.New("duplicate command")

// Binder is the shell side of the bridge.
type Binder interface {
	Bind(cmd shell.Command) error
	Unbind(name string) bool
}

// Handle identifies one registration. Handles from an earlier registration
// of the same name do not affect a later one.
type Handle struct {
	name       string
	generation uint64
}

// Name returns the registered command name.
func (h Handle) Name() string {
	return h.name
}

// Diff is what a Reconcile changed.
type Diff struct {
	Added    []string
	Removed  []string
	Replaced []string
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Replaced) == 0
}

type entry struct {
	cmd        shell.Command
	generation uint64
	scoped     bool
}

// Registry is the bridge between navigation and the shell.
type Registry struct {
	binder     Binder
	live       map[string]*entry
	generation uint64
	logger     *slog.Logger
}

// New creates a registry over binder.
func New(binder Binder, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{binder: binder, live: map[string]*entry{}, logger: logger}
}

// Register binds a command that lives until it is unregistered.
func (r *Registry) Register(cmd shell.Command) (Handle, error) {
	name := normalize(cmd.Name)
	if name == "" {
		return Handle{}, fmt.Errorf("register: empty command name")
	}
	for _, invocation := range invocations(cmd) {
		if owner, taken := r.owner(invocation); taken {
			return Handle{}, fmt.Errorf("register %q: %q is taken by %q: %w", name, invocation, owner, ErrDuplicate)
		}
	}
	return r.bind(cmd, false)
}

// Unregister removes the registration behind handle. Unregistering twice,
// or with a stale handle, does nothing.
func (r *Registry) Unregister(handle Handle) {
	e, ok := r.live[handle.name]
	if !ok || e.generation != handle.generation {
		return
	}
	r.unbind(handle.name)
}

// Reconcile makes the level commands exactly desired. The whole set is
// validated before anything changes, so a rejected set leaves the live
// commands as they were. Commands present before and after are rebound so
// their handlers see the new position.
func (r *Registry) Reconcile(desired []shell.Command) (Diff, error) {
	wanted := make(map[string]shell.Command, len(desired))
	claimed := map[string]string{}
	for _, cmd := range desired {
		name := normalize(cmd.Name)
		if name == "" {
			return Diff{}, fmt.Errorf("reconcile: empty command name")
		}
		for _, invocation := range invocations(cmd) {
			if other, dup := claimed[invocation]; dup {
				return Diff{}, fmt.Errorf("reconcile: %q claimed by %q and %q: %w", invocation, other, name, ErrDuplicate)
			}
			claimed[invocation] = name
			if owner, taken := r.owner(invocation); taken && !r.live[owner].scoped {
				return Diff{}, fmt.Errorf("reconcile: %q is taken by %q: %w", invocation, owner, ErrDuplicate)
			}
		}
		wanted[name] = cmd
	}

	var diff Diff
	for _, name := range r.sortedNames() {
		e := r.live[name]
		if !e.scoped {
			continue
		}
		r.unbind(name)
		if _, keep := wanted[name]; keep {
			diff.Replaced = append(diff.Replaced, name)
		} else {
			diff.Removed = append(diff.Removed, name)
		}
	}

	replaced := make(map[string]bool, len(diff.Replaced))
	for _, name := range diff.Replaced {
		replaced[name] = true
	}
	for _, cmd := range desired {
		name := normalize(cmd.Name)
		if _, err := r.bind(cmd, true); err != nil {
			return diff, fmt.Errorf("reconcile: %w", err)
		}
		if !replaced[name] {
			diff.Added = append(diff.Added, name)
		}
	}

	r.logger.Debug("commands reconciled",
		"added", len(diff.Added),
		"removed", len(diff.Removed),
		"replaced", len(diff.Replaced),
	)
	return diff, nil
}

// Scoped returns the live level command names, sorted.
func (r *Registry) Scoped() []string {
	var names []string
	for _, name := range r.sortedNames() {
		if r.live[name].scoped {
			names = append(names, name)
		}
	}
	return names
}

// Live returns every live command name, sorted.
func (r *Registry) Live() []string {
	return r.sortedNames()
}

// Handle returns the current handle for a live command.
func (r *Registry) Handle(name string) (Handle, bool) {
	e, ok := r.live[normalize(name)]
	if !ok {
		return Handle{}, false
	}
	return Handle{name: normalize(name), generation: e.generation}, true
}

func (r *Registry) bind(cmd shell.Command, scoped bool) (Handle, error) {
	if err := r.binder.Bind(cmd); err != nil {
		return Handle{}, err
	}
	r.generation++
	name := normalize(cmd.Name)
	r.live[name] = &entry{cmd: cmd, generation: r.generation, scoped: scoped}
	return Handle{name: name, generation: r.generation}, nil
}

func (r *Registry) unbind(name string) {
	r.binder.Unbind(name)
	delete(r.live, name)
}

// owner returns the live command that answers to invocation.
func (r *Registry) owner(invocation string) (string, bool) {
	for name, e := range r.live {
		for _, candidate := range invocations(e.cmd) {
			if candidate == invocation {
				return name, true
			}
		}
	}
	return "", false
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.live))
	for name := range r.live {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func invocations(cmd shell.Command) []string {
	out := make([]string, 0, 1+len(cmd.Aliases))
	for _, name := range cmd.Invocations() {
		if name = normalize(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
