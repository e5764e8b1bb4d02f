package theme

import "sort"

// thSymbolTable lists every sub-state of every kind together with its
// built-in glyph. Built-in themes differ only in colors.
var thSymbolTable = map[string]map[string]string{
	KindUsername: {
		SubDefault: "\U0001F464",
		"root":     "⚡",
	},
	KindHostname: {
		SubDefault:   "@",
		"os_linux":   "\U0001F427",
		"os_macos":   "\U0001F34E",
		"os_freebsd": "\U0001F47A",
		"os_openbsd": "\U0001F421",
	},
	KindPath: {
		SubDefault:  "/",
		"home":      "~",
		"last":      "/",
		"root":      "/",
		"dir_stack": "\U0001F4DA",
	},
	KindExit: {
		SubDefault: "$",
		"success":  "$",
		"failure":  "$",
		"root":     "#",
		"user":     "$",
	},
	KindGit: {
		SubDefault:   "\uE0A0",
		"clean":      "\uE0A0",
		"dirty":      "\uE0A0",
		"detached":   "⚓",
		"unborn":     "\uE0A0",
		"ahead":      "⬆",
		"behind":     "⬇",
		"staged":     "✔",
		"unstaged":   "✎",
		"untracked":  "?",
		"conflicted": "✼",
		"stash":      "⎘",
		"operation":  "↻",
	},
	KindBattery: {
		SubDefault:    "\U0001F50B",
		"normal":      "\U0001F50B",
		"low":         "⚡",
		"charging":    "\U0001F50C",
		"discharging": "⚡",
		"full":        "\U0001F50B",
		"empty":       "❗",
	},
	KindTime: {
		SubDefault: "\U0001F552",
	},
	KindScreen: {
		SubDefault: "\U0001F4FA",
	},
	KindRvm: {
		SubDefault: "\U0001F48E",
		"mismatch": "≠",
	},
	KindJobs: {
		SubDefault: "⚙",
	},
	KindLoad: {
		SubDefault: "⚖",
		"normal":   "⚖",
		"high":     "⚠",
	},
	KindKube: {
		SubDefault: "⎈",
	},
	KindTailscale: {
		SubDefault:  "⬢",
		"running":   "⬢",
		"stopped":   "⬡",
		"exit_node": "⇄",
	},
	KindSeparator: {
		SubDefault: "\uE0B0",
		"thick":    "\uE0B0",
		"thin":     "\uE0B1",
	},
	KindTruncation: {
		SubDefault: "…",
	},
}

// universal is the last resort of every lookup.
var universal = Style{Glyph: "•", Fg: Index(250), Bg: Index(236)}

// Kinds returns every segment kind the built-in themes define, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(thSymbolTable))
	for k := range thSymbolTable {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// SubStates returns the sub-states of kind, sorted. Unknown kinds have none.
func SubStates(kind string) []string {
	subs := make([]string, 0, len(thSymbolTable[kind]))
	for s := range thSymbolTable[kind] {
		subs = append(subs, s)
	}
	sort.Strings(subs)
	return subs
}

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thPaletteTheme("gruvbox", thGruvbox),
		thPaletteTheme("nord", thNord),
		thPaletteTheme("catppuccin", thCatppuccin),
		thPaletteTheme("dracula", thDracula),
		thPaletteTheme("tokyo-night", thTokyoNight),
	} {
		thRegister(t)
	}
}

// thBuild pairs the shared symbol table with a color table. Sub-states the
// color table leaves out take the kind's default colors.
func thBuild(name string, colors map[string]map[string]Pair) Theme {
	doc := make(Document, len(thSymbolTable))
	for kind, symbols := range thSymbolTable {
		seg := Segment{
			Symbols: make(map[string]string, len(symbols)),
			Colors:  make(map[string]Pair, len(symbols)),
		}
		for sub, glyph := range symbols {
			seg.Symbols[sub] = glyph
			pair, ok := colors[kind][sub]
			if !ok {
				pair = colors[kind][SubDefault]
			}
			seg.Colors[sub] = pair
		}
		doc[kind] = seg
	}
	return Theme{Name: name, Segments: doc}
}

func p(fg, bg uint8) Pair { return Pair{Fg: Index(fg), Bg: Index(bg)} }

// thDefaultTheme is the classic 256-color powerline palette.
func thDefaultTheme() Theme {
	return thBuild("default", map[string]map[string]Pair{
		KindUsername: {SubDefault: p(250, 240), "root": p(15, 124)},
		KindHostname: {SubDefault: p(250, 238)},
		KindPath: {
			SubDefault:  p(250, 237),
			"home":      p(15, 31),
			"last":      p(254, 237),
			"dir_stack": p(250, 237),
		},
		KindExit: {
			SubDefault: p(15, 236),
			"success":  p(15, 236),
			"failure":  p(15, 161),
		},
		KindGit: {
			SubDefault:   p(0, 148),
			"clean":      p(0, 148),
			"dirty":      p(15, 161),
			"detached":   p(15, 161),
			"unborn":     p(0, 148),
			"ahead":      p(250, 240),
			"behind":     p(250, 240),
			"staged":     p(15, 22),
			"unstaged":   p(15, 130),
			"untracked":  p(15, 52),
			"conflicted": p(15, 9),
			"stash":      p(0, 221),
			"operation":  p(15, 208),
		},
		KindBattery: {
			SubDefault: p(7, 22),
			"low":      p(7, 197),
			"empty":    p(7, 197),
		},
		KindTime:      {SubDefault: p(250, 238)},
		KindScreen:    {SubDefault: p(250, 238)},
		KindRvm:       {SubDefault: p(15, 124)},
		KindJobs:      {SubDefault: p(15, 238)},
		KindLoad:      {SubDefault: p(250, 238), "high": p(15, 161)},
		KindKube:      {SubDefault: p(15, 26)},
		KindTailscale: {SubDefault: p(15, 24), "stopped": p(250, 238), "exit_node": p(15, 91)},
		KindSeparator: {SubDefault: p(244, 236)},
		KindTruncation: {
			SubDefault: p(250, 236),
		},
	})
}

// thPalette is the small set of hex colors a named theme is derived from.
type thPalette struct {
	Base, Surface, Overlay Color
	Fg, Dim, Accent        Color
	OK, Warn, Err, Info    Color
}

var (
	thGruvbox = thPalette{
		Base: "#282828", Surface: "#3c3836", Overlay: "#504945",
		Fg: "#ebdbb2", Dim: "#928374", Accent: "#fe8019",
		OK: "#b8bb26", Warn: "#fabd2f", Err: "#fb4934", Info: "#83a598",
	}
	thNord = thPalette{
		Base: "#2e3440", Surface: "#3b4252", Overlay: "#434c5e",
		Fg: "#eceff4", Dim: "#4c566a", Accent: "#88c0d0",
		OK: "#a3be8c", Warn: "#ebcb8b", Err: "#bf616a", Info: "#5e81ac",
	}
	thCatppuccin = thPalette{
		Base: "#1e1e2e", Surface: "#313244", Overlay: "#45475a",
		Fg: "#cdd6f4", Dim: "#6c7086", Accent: "#cba6f7",
		OK: "#a6e3a1", Warn: "#f9e2af", Err: "#f38ba8", Info: "#89b4fa",
	}
	thDracula = thPalette{
		Base: "#282a36", Surface: "#343746", Overlay: "#44475a",
		Fg: "#f8f8f2", Dim: "#6272a4", Accent: "#bd93f9",
		OK: "#50fa7b", Warn: "#f1fa8c", Err: "#ff5555", Info: "#8be9fd",
	}
	thTokyoNight = thPalette{
		Base: "#1a1b26", Surface: "#292e42", Overlay: "#414868",
		Fg: "#c0caf5", Dim: "#565f89", Accent: "#7aa2f7",
		OK: "#9ece6a", Warn: "#e0af68", Err: "#f7768e", Info: "#7dcfff",
	}
)

// thPaletteTheme maps a palette onto every segment kind.
func thPaletteTheme(name string, c thPalette) Theme {
	on := func(fg, bg Color) Pair { return Pair{Fg: fg, Bg: bg} }
	return thBuild(name, map[string]map[string]Pair{
		KindUsername: {SubDefault: on(c.Fg, c.Overlay), "root": on(c.Base, c.Err)},
		KindHostname: {SubDefault: on(c.Fg, c.Surface)},
		KindPath: {
			SubDefault:  on(c.Dim, c.Surface),
			"home":      on(c.Base, c.Accent),
			"last":      on(c.Fg, c.Surface),
			"dir_stack": on(c.Fg, c.Overlay),
		},
		KindExit: {
			SubDefault: on(c.Fg, c.Overlay),
			"failure":  on(c.Base, c.Err),
		},
		KindGit: {
			SubDefault:   on(c.Base, c.OK),
			"dirty":      on(c.Base, c.Warn),
			"detached":   on(c.Base, c.Err),
			"unborn":     on(c.Base, c.Info),
			"ahead":      on(c.Fg, c.Overlay),
			"behind":     on(c.Fg, c.Overlay),
			"staged":     on(c.Base, c.OK),
			"unstaged":   on(c.Base, c.Warn),
			"untracked":  on(c.Fg, c.Surface),
			"conflicted": on(c.Base, c.Err),
			"stash":      on(c.Base, c.Info),
			"operation":  on(c.Base, c.Accent),
		},
		KindBattery: {
			SubDefault: on(c.Base, c.OK),
			"low":      on(c.Base, c.Err),
			"empty":    on(c.Base, c.Err),
		},
		KindTime:      {SubDefault: on(c.Fg, c.Surface)},
		KindScreen:    {SubDefault: on(c.Fg, c.Surface)},
		KindRvm:       {SubDefault: on(c.Fg, c.Err)},
		KindJobs:      {SubDefault: on(c.Fg, c.Overlay)},
		KindLoad:      {SubDefault: on(c.Fg, c.Surface), "high": on(c.Base, c.Err)},
		KindKube:      {SubDefault: on(c.Base, c.Info)},
		KindTailscale: {SubDefault: on(c.Base, c.Accent), "stopped": on(c.Dim, c.Surface), "exit_node": on(c.Base, c.Warn)},
		KindSeparator: {SubDefault: on(c.Dim, c.Base)},
		KindTruncation: {
			SubDefault: on(c.Fg, c.Overlay),
		},
	})
}
