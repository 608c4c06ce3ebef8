package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/trellis/internal/cli"
	"github.com/thenoetrevino/trellis/internal/store"
)

func TestLogoutForgetsToken(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("data_dir: "+dataDir+"\n"), 0o644))

	st, err := store.OpenDefault(ctx, dataDir)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, store.TokenKey, "secret"))
	require.NoError(t, st.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"logout", "--config", configPath})
	require.NoError(t, Execute(ctx))
	assert.Contains(t, out.String(), "logged out")

	st, err = store.OpenDefault(ctx, dataDir)
	require.NoError(t, err)
	defer st.Close()
	token, err := st.Get(ctx, store.TokenKey)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	rootCmd.SetArgs([]string{"--bogus"})
	err := Execute(context.Background())

	assert.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}
