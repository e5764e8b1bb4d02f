package theme

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// thFile is the on-disk representation of a theme. Segments missing from the
// file are taken from the inherited built-in theme.
type thFile struct {
	Name     string   `toml:"name" yaml:"name"`
	Inherits string   `toml:"inherits,omitempty" yaml:"inherits,omitempty"`
	Segments Document `toml:"segments" yaml:"segments"`
}

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tf thFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	return thFromFile(tf)
}

// LoadFromYAML parses a YAML theme definition from raw bytes.
func LoadFromYAML(data []byte) (Theme, error) {
	var tf thFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return Theme{}, fmt.Errorf("theme: parse YAML: %w", err)
	}
	return thFromFile(tf)
}

func thFromFile(tf thFile) (Theme, error) {
	if tf.Name == "" {
		return Theme{}, fmt.Errorf("theme: missing required field %q", "name")
	}
	if err := ValidateDocument(tf.Segments); err != nil {
		return Theme{}, err
	}
	parent := "default"
	if tf.Inherits != "" {
		parent = tf.Inherits
	}
	base, ok := Lookup(parent)
	if !ok {
		return Theme{}, fmt.Errorf("theme: %q inherits unknown theme %q", tf.Name, parent)
	}
	return Theme{Name: tf.Name, Segments: base.Segments.Merge(tf.Segments)}, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(thFile{Name: t.Name, Segments: t.Segments}); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidateDocument rejects unknown segment kinds and malformed colors.
func ValidateDocument(doc Document) error {
	kinds := make([]string, 0, len(doc))
	for k := range doc {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		if _, ok := thSymbolTable[kind]; !ok {
			return fmt.Errorf("theme: unknown segment kind %q", kind)
		}
		for sub, c := range doc[kind].Colors {
			for field, v := range map[string]Color{"fg": c.Fg, "bg": c.Bg} {
				if !v.IsZero() && !v.Valid() {
					return fmt.Errorf("theme: invalid color %q for %s.%s.%s", v, kind, sub, field)
				}
			}
		}
	}
	return nil
}

// LoadDir registers every *.toml, *.yaml and *.yml theme in dir. A missing
// directory is not an error. Files are loaded in name order so a theme may
// inherit from one loaded earlier.
func LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("theme: read dir %s: %w", dir, err)
	}
	var loaded []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var load func([]byte) (Theme, error)
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".toml":
			load = LoadFromTOML
		case ".yaml", ".yml":
			load = LoadFromYAML
		default:
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return loaded, fmt.Errorf("theme: read %s: %w", path, err)
		}
		t, err := load(data)
		if err != nil {
			return loaded, fmt.Errorf("%s: %w", path, err)
		}
		Register(t)
		loaded = append(loaded, t.Name)
	}
	return loaded, nil
}
