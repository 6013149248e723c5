package brand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	p := Default()
	require.Equal(t, "CloverEd", p.Name)
	require.Equal(t, "Learn More", p.DefaultCTA)
	require.Contains(t, p.ImageStyle.Keywords, "education")
	require.Equal(t, "#2BA30A", p.Colors.Primary)
}

func TestTextLimit(t *testing.T) {
	t.Parallel()

	p := Default()
	require.Equal(t, 2200, p.TextLimit(platform.Instagram))
	require.Equal(t, 280, p.TextLimit(platform.X))
	// Override is tighter than the registry limit.
	require.Equal(t, 2000, p.TextLimit(platform.Facebook))
	require.Equal(t, 0, p.TextLimit("bogus"))

	// Overrides never loosen the registry limit.
	p.Platforms["x"] = PlatformOverride{TextLimit: 1000}
	require.Equal(t, 280, p.TextLimit(platform.X))
}

func TestImageSize(t *testing.T) {
	t.Parallel()

	p := Default()
	require.Equal(t, "1200x630", p.ImageSize(platform.Facebook))

	delete(p.Platforms, "facebook")
	require.Equal(t, "1200x630", p.ImageSize(platform.Facebook), "falls back to registry size")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses default", func(t *testing.T) {
		p, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "CloverEd", p.Name)
	})

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "brand.yml")
		content := "name: Acme\ndefault_cta: Buy Now\nplatforms:\n  x:\n    text_limit: 200\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		p, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "Acme", p.Name)
		require.Equal(t, 200, p.TextLimit(platform.X))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})

	t.Run("unknown platform override", func(t *testing.T) {
		_, err := Parse([]byte("name: Acme\nplatforms:\n  myspace:\n    text_limit: 10\n"))
		require.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := Parse([]byte("default_cta: Go\n"))
		require.Error(t, err)
	})
}
