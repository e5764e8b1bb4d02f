package theme

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is either a 256-color palette index ("240") or a hex triple
// ("#rrggbb"). The zero value means "unset" and never reaches the renderer.
type Color string

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Index returns a palette color.
func Index(n uint8) Color {
	return Color(strconv.Itoa(int(n)))
}

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool { return c == "" }

// Valid reports whether c is a palette index in [0,255] or a #rrggbb triple.
func (c Color) Valid() bool {
	s := string(c)
	if thHexColorRegex.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// ParseColor accepts "240", "#a6e22e" and "a6e22e".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if len(s) == 6 && !strings.HasPrefix(s, "#") {
		if _, err := strconv.ParseUint(s, 16, 32); err == nil {
			s = "#" + s
		}
	}
	c := Color(strings.ToLower(s))
	if !c.Valid() {
		return "", fmt.Errorf("theme: invalid color %q (expected 0-255 or #RRGGBB)", s)
	}
	return c, nil
}

func (c Color) String() string { return string(c) }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalTOML lets TOML documents write palette colors as bare integers.
func (c *Color) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case int64:
		if val < 0 || val > 255 {
			return fmt.Errorf("theme: palette index %d out of range", val)
		}
		*c = Index(uint8(val))
		return nil
	case string:
		return c.UnmarshalText([]byte(val))
	default:
		return fmt.Errorf("theme: unsupported color value %v (%T)", v, v)
	}
}

// UnmarshalYAML accepts both integer and string scalars.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("theme: line %d: color must be a scalar", node.Line)
	}
	return c.UnmarshalText([]byte(node.Value))
}
