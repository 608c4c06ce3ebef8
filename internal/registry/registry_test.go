package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/trellis/internal/shell"
)

func newTestRegistry(t *testing.T) (*Registry, *shell.Shell) {
	t.Helper()
	sh := shell.New(shell.WithOutput(io.Discard))
	return New(sh, slog.New(slog.NewTextHandler(io.Discard, nil))), sh
}

func named(names ...string) []shell.Command {
	cmds := make([]shell.Command, 0, len(names))
	for _, name := range names {
		cmds = append(cmds, shell.Command{Name: name})
	}
	return cmds
}

func TestRegisterAndUnregisterIsIdempotent(t *testing.T) {
	reg, sh := newTestRegistry(t)

	handle, err := reg.Register(shell.Command{Name: "ls", Aliases: []string{"info"}})
	require.NoError(t, err)
	assert.Equal(t, "ls", handle.Name())

	reg.Unregister(handle)
	reg.Unregister(handle)
	reg.Unregister(Handle{name: "never"})

	_, ok := sh.Lookup("info")
	assert.False(t, ok)
	assert.Empty(t, reg.Live())
}

func TestStaleHandleKeepsNewRegistration(t *testing.T) {
	reg, sh := newTestRegistry(t)

	old, err := reg.Register(shell.Command{Name: "ls"})
	require.NoError(t, err)
	reg.Unregister(old)
	_, err = reg.Register(shell.Command{Name: "ls"})
	require.NoError(t, err)

	reg.Unregister(old)
	_, ok := sh.Lookup("ls")
	assert.True(t, ok)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Register(shell.Command{Name: "ls", Aliases: []string{"info"}})
	require.NoError(t, err)
	_, err = reg.Register(shell.Command{Name: "info"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestReconcileDiff(t *testing.T) {
	reg, sh := newTestRegistry(t)
	_, err := reg.Register(shell.Command{Name: "cd"})
	require.NoError(t, err)

	diff, err := reg.Reconcile(named("design", "ops"))
	require.NoError(t, err)
	assert.Equal(t, Diff{Added: []string{"design", "ops"}}, diff)

	diff, err = reg.Reconcile(named("ops", "backlog"))
	require.NoError(t, err)
	if d := cmp.Diff(Diff{Added: []string{"backlog"}, Removed: []string{"design"}, Replaced: []string{"ops"}}, diff); d != "" {
		t.Errorf("diff mismatch (-want +got):\n%s", d)
	}

	assert.Equal(t, []string{"backlog", "ops"}, reg.Scoped())
	assert.Equal(t, []string{"backlog", "cd", "ops"}, reg.Live(), "static commands survive")
	_, ok := sh.Lookup("design")
	assert.False(t, ok)
}

func TestReconcileRebindsHandlers(t *testing.T) {
	reg, sh := newTestRegistry(t)
	var got string
	bindTo := func(value string) []shell.Command {
		return []shell.Command{{
			Name: "show",
			Run: func(context.Context, shell.Invocation) error {
				got = value
				return nil
			},
		}}
	}

	_, err := reg.Reconcile(bindTo("first"))
	require.NoError(t, err)
	_, err = reg.Reconcile(bindTo("second"))
	require.NoError(t, err)

	require.NoError(t, sh.Dispatch(context.Background(), "show"))
	assert.Equal(t, "second", got)
}

func TestReconcileRejectsWholeSet(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Register(shell.Command{Name: "ls"})
	require.NoError(t, err)
	_, err = reg.Reconcile(named("design"))
	require.NoError(t, err)

	_, err = reg.Reconcile(named("ops", "ops"))
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = reg.Reconcile([]shell.Command{{Name: "ops"}, {Name: "other", Aliases: []string{"ls"}}})
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.Equal(t, []string{"design"}, reg.Scoped(), "rejected sets change nothing")
}

func TestReconcileToEmpty(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Reconcile(named("a", "b"))
	require.NoError(t, err)

	diff, err := reg.Reconcile(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, diff.Removed)
	assert.Empty(t, reg.Scoped())

	diff, err = reg.Reconcile(nil)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}
