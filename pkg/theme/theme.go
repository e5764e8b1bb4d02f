package theme

import (
	"sort"
	"strings"
	"sync"
)

// Segment kinds known to the built-in themes.
const (
	KindUsername   = "username"
	KindHostname   = "hostname"
	KindPath       = "path"
	KindExit       = "exit"
	KindGit        = "git"
	KindBattery    = "battery"
	KindTime       = "time"
	KindScreen     = "screen"
	KindRvm        = "rvm"
	KindJobs       = "jobs"
	KindLoad       = "load"
	KindKube       = "kube"
	KindTailscale  = "tailscale"
	KindSeparator  = "separator"
	KindTruncation = "truncation"
)

// SubDefault is the sub-state every kind falls back to.
const SubDefault = "default"

// Pair is a foreground/background color pair. Either side may be unset in a
// user document; built-in themes always set both.
type Pair struct {
	Fg Color `toml:"fg,omitempty" yaml:"fg,omitempty"`
	Bg Color `toml:"bg,omitempty" yaml:"bg,omitempty"`
}

// Segment holds the glyphs and colors of one segment kind, keyed by sub-state.
type Segment struct {
	Symbols map[string]string `toml:"symbols,omitempty" yaml:"symbols,omitempty"`
	Colors  map[string]Pair   `toml:"colors,omitempty" yaml:"colors,omitempty"`
}

// Document is a partial theme keyed by segment kind, as found in config and
// theme files.
type Document map[string]Segment

// Theme is a complete, named set of segment styles.
type Theme struct {
	Name     string
	Segments Document
}

// Style is the resolved appearance of one (kind, sub-state).
type Style struct {
	Glyph string
	Fg    Color
	Bg    Color
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Lookup is Get without the fallback.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a theme, typically one loaded from a TOML file.
func Register(t Theme) {
	thRegister(t)
}

// thRegister adds a theme to the registry under its lowercase name.
func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
