package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		require.Nil(t, cfg)
		require.Nil(t, cfg.PostExport())
	})

	t.Run("post export hook", func(t *testing.T) {
		dir := t.TempDir()
		content := "version: 1\nhooks:\n  post_export:\n    command: \"wc -l {{file}}\"\n    timeout: 5\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		require.Equal(t, 1, cfg.Version)
		require.Equal(t, "wc -l {{file}}", cfg.PostExport().Command)
		require.Equal(t, 5, cfg.PostExport().Timeout)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("hooks: [unclosed"), 0o644))
		_, err := LoadConfig(dir)
		require.Error(t, err)
	})
}

func TestExecute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	workDir := t.TempDir()
	vars := Variables{File: "/tmp/my posts.csv", Count: 2, Session: "spring"}

	tests := []struct {
		name     string
		hook     *HookConfig
		contains []string
		exact    string
	}{
		{
			name:  "nil hook",
			hook:  nil,
			exact: "",
		},
		{
			name:  "empty command",
			hook:  &HookConfig{},
			exact: "",
		},
		{
			name:  "expands variables",
			hook:  &HookConfig{Command: "echo {{count}} {{session}} {{file}}", Timeout: 5},
			exact: "2 spring /tmp/my posts.csv\n",
		},
		{
			name:     "failure is reported in output",
			hook:     &HookConfig{Command: "echo partial; exit 3", Timeout: 5},
			contains: []string{"[Hook command failed", "partial"},
		},
		{
			name:     "stderr is appended",
			hook:     &HookConfig{Command: "echo out; echo err >&2", Timeout: 5},
			contains: []string{"out", "[stderr]", "err"},
		},
		{
			name:     "timeout",
			hook:     &HookConfig{Command: "echo started; sleep 5", Timeout: 1},
			contains: []string{"[Hook timed out after 1s]", "started"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Execute(ctx, tt.hook, workDir, vars)
			require.NoError(t, err)
			if tt.contains == nil {
				require.Equal(t, tt.exact, out)
				return
			}
			for _, s := range tt.contains {
				require.Contains(t, out, s)
			}
		})
	}
}

func TestExecute_ExportsVariables(t *testing.T) {
	t.Parallel()

	vars := Variables{File: "/tmp/posts.csv", Count: 3, Session: "fall"}
	out, err := Execute(context.Background(), &HookConfig{Command: `echo "$POSTGENIE_EXPORT_COUNT $POSTGENIE_SESSION $POSTGENIE_EXPORT_FILE"`, Timeout: 5}, t.TempDir(), vars)
	require.NoError(t, err)
	require.Equal(t, "3 fall /tmp/posts.csv\n", out)
}

func TestExecute_RunsInWorkDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := Execute(context.Background(), &HookConfig{Command: "pwd", Timeout: 5}, dir, Variables{})
	require.NoError(t, err)
	require.Equal(t, filepath.Base(dir), filepath.Base(strings.TrimSpace(out)))
}

func TestExecute_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, &HookConfig{Command: "sleep 5", Timeout: 10}, t.TempDir(), Variables{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestShellQuote(t *testing.T) {
	t.Parallel()

	require.Equal(t, `'it'\''s'`, shellQuote("it's"))
	out, err := Execute(context.Background(), &HookConfig{Command: "echo {{session}}", Timeout: 5}, t.TempDir(), Variables{Session: "it's; rm -rf x"})
	require.NoError(t, err)
	require.Equal(t, "it's; rm -rf x\n", out)
}
