package theme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatppuccinMocha(t *testing.T) {
	th := NewCatppuccinMocha()
	require.Equal(t, "catppuccin-mocha", th.Name)
	require.True(t, th.IsDark)

	for name, c := range map[string]string{
		"Primary":  th.Primary,
		"BgBase":   th.BgBase,
		"FgBase":   th.FgBase,
		"Success":  th.Success,
		"Warning":  th.Warning,
		"DiffIns":  th.DiffInsertBg,
		"DiffDel":  th.DiffDeleteBg,
		"Tertiary": th.Tertiary,
	} {
		require.Len(t, c, 7, "%s should be a #RRGGBB color", name)
		require.Equal(t, byte('#'), c[0], name)
	}
}

func TestStylesAreCached(t *testing.T) {
	th := NewCatppuccinMocha()
	require.Same(t, th.S(), th.S())
}

func TestSetCurrent(t *testing.T) {
	orig := Current()
	t.Cleanup(func() { SetCurrent(orig) })

	custom := NewCatppuccinMocha()
	custom.Name = "custom"
	SetCurrent(custom)
	require.Equal(t, "custom", Current().Name)
}

func TestBlend(t *testing.T) {
	tests := []struct {
		a, b string
		pos  float64
		want string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 0.5, "#7f7f7f"},
		{"#000000", "#ffffff", 2, "#ffffff"},
		{"#102030", "#102030", 0.3, "#102030"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Blend(tt.a, tt.b, tt.pos), "Blend(%s, %s, %v)", tt.a, tt.b, tt.pos)
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	require.Equal(t, [3]uint8{0xcb, 0xa6, 0xf7}, [3]uint8{r, g, b})

	r, g, b = ParseHexColor("nope")
	require.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}
