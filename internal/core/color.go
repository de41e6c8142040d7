package core

import (
	"fmt"
	"strings"
)

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
	colorCount // Sentinel value for iteration
)

var colorNames = [colorCount]string{
	ColorDefault:       "default",
	ColorRed:           "red",
	ColorGreen:         "green",
	ColorYellow:        "yellow",
	ColorBlue:          "blue",
	ColorMagenta:       "magenta",
	ColorCyan:          "cyan",
	ColorWhite:         "white",
	ColorBrightRed:     "bright-red",
	ColorBrightGreen:   "bright-green",
	ColorBrightYellow:  "bright-yellow",
	ColorBrightBlue:    "bright-blue",
	ColorBrightMagenta: "bright-magenta",
	ColorBrightCyan:    "bright-cyan",
	ColorBrightWhite:   "bright-white",
	ColorOrange:        "orange",
	ColorGray:          "gray",
	ColorDarkGray:      "dark-gray",
}

// String returns the config name of the color.
func (c Color) String() string {
	if c >= colorCount {
		return "unknown"
	}
	return colorNames[c]
}

// ParseColor converts a color name to a Color.
// Names are case-insensitive; "purple" and "grey" are accepted as aliases.
// Returns ColorDefault and false if the name is not recognized.
func ParseColor(s string) (Color, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "purple":
		return ColorMagenta, true
	case "grey":
		return ColorGray, true
	case "dark-grey":
		return ColorDarkGray, true
	}
	for c := ColorDefault; c < colorCount; c++ {
		if colorNames[c] == name {
			return c, true
		}
	}
	return ColorDefault, false
}

// MarshalText encodes the color by name so configs round-trip readably.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a color name.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("core: unknown color %q", text)
	}
	*c = parsed
	return nil
}
