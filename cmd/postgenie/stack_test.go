package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in a temp dir with no global config or env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, key := range []string{"DATA_DIR", "LOG_LEVEL", "LOG_FILE", "PROVIDER", "TEXT_DELAY", "IMAGE_DELAY", "BRAND_FILE", "EXPORT_DIR", "SESSION", "PUBLISH"} {
		t.Setenv("POSTGENIE_"+key, "")
	}
	return dir
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("POSTGENIE_SESSION", "from-env")

	cfg, err := loadConfig(&commonFlags{session: "from-flag", exportDir: "out", noPublish: true})
	require.NoError(t, err)
	require.Equal(t, "from-flag", cfg.Session)
	require.Equal(t, "out", cfg.ExportDir)
	require.False(t, cfg.Publish)

	cfg, err = loadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Session)
	require.True(t, cfg.Publish)
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("POSTGENIE_PROVIDER", "openai")

	_, err := loadConfig(nil)
	require.ErrorContains(t, err, "unknown provider")
}

func TestNewStack_WithoutPublish(t *testing.T) {
	dir := isolate(t)

	st, err := newStack(context.Background(), &commonFlags{exportDir: dir, noPublish: true})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })

	require.Nil(t, st.nats)
	require.Nil(t, st.sinks.Outbox)
	require.Equal(t, "CloverEd", st.brand.Name)
	require.Equal(t, st.brand.Name, st.sinks.Brand)
	require.Equal(t, dir, st.sinks.Dir)
	require.Equal(t, 0, int(st.wizard.State().Step))
}

func TestNewStack_WithPublish(t *testing.T) {
	dir := isolate(t)

	st, err := newStack(context.Background(), &commonFlags{dataDir: filepath.Join(dir, "data"), session: "launch"})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })

	require.NotNil(t, st.sinks.Outbox)
	require.Equal(t, "launch", st.sinks.Session)
}

func TestNewStack_CustomTemplate(t *testing.T) {
	dir := isolate(t)
	t.Setenv("POSTGENIE_TEXT_DELAY", "0s")
	tmpl := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(tmpl, []byte("{{label}}: {{summary}}"), 0o644))

	st, err := newStack(context.Background(), &commonFlags{template: tmpl, noPublish: true})
	require.NoError(t, err)

	drafts, err := st.provider.GeneratePostText(context.Background(), "Applications open Monday.", []platform.ID{platform.X})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.True(t, strings.HasPrefix(drafts[0].Text, "X: "), drafts[0].Text)

	_, err = newStack(context.Background(), &commonFlags{template: filepath.Join(dir, "missing.md"), noPublish: true})
	require.Error(t, err)
}

func TestPlatformsCommand(t *testing.T) {
	isolate(t)

	var buf bytes.Buffer
	platformsCmd.SetOut(&buf)
	require.NoError(t, runPlatforms(platformsCmd, nil))

	out := buf.String()
	require.Contains(t, out, "Brand: CloverEd")
	for _, info := range platform.All() {
		require.Contains(t, out, info.Label)
	}
}

func TestSetupCommand(t *testing.T) {
	dir := isolate(t)
	setupFlags.project = true
	setupFlags.force = false
	t.Cleanup(func() { setupFlags.project = false })

	var buf bytes.Buffer
	setupCmd.SetOut(&buf)
	require.NoError(t, runSetup(setupCmd, nil))
	require.FileExists(t, filepath.Join(dir, "postgenie.yml"))
	require.Contains(t, buf.String(), "Config written to")

	require.ErrorContains(t, runSetup(setupCmd, nil), "already exists")
}
