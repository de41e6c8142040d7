package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/termtris/internal/core"
)

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawText(0, 0, "hello")
	s.DrawText(1, 1, "abc")

	if got, want := RenderScreen(s), s.String(); got != want {
		t.Errorf("RenderScreen() = %q, want %q", got, want)
	}
}

func TestRenderScreenColors(t *testing.T) {
	s := core.NewScreen(8, 1)
	s.DrawTextWithColor(0, 0, "ab", core.ColorBrightCyan)
	s.DrawTextWithColor(2, 0, "cd", core.ColorDarkGray)
	s.DrawText(4, 0, "ef")

	out := RenderScreen(s)
	for _, want := range []string{"ab", "cd", "ef"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() = %q, missing %q", out, want)
		}
	}
}

func TestEveryColorHasStyle(t *testing.T) {
	for _, name := range []string{"red", "orange", "gray", "dark-gray", "bright-white"} {
		c, ok := core.ParseColor(name)
		if !ok {
			t.Fatalf("ParseColor(%q) failed", name)
		}
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for %v", c)
		}
	}
}
