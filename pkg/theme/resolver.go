package theme

// Resolver answers style lookups for one render. It layers a user Document
// over a complete built-in Theme.
//
// Glyph, foreground and background are resolved independently, each through
//
//	user (kind, sub) → user (kind, default) → built-in (kind, sub)
//	→ built-in (kind, default) → universal default
//
// so a user document may override a single attribute of a single sub-state.
type Resolver struct {
	base Theme
	user Document
}

// NewResolver returns a resolver over base with optional user overrides.
func NewResolver(base Theme, user Document) *Resolver {
	return &Resolver{base: base, user: user}
}

// Default is a resolver over the built-in default theme without overrides.
func Default() *Resolver {
	return NewResolver(Get("default"), nil)
}

// Name returns the underlying theme name.
func (r *Resolver) Name() string { return r.base.Name }

// Resolve never fails: an unknown kind or sub-state yields the universal
// default.
func (r *Resolver) Resolve(kind, sub string) Style {
	if sub == "" {
		sub = SubDefault
	}
	chain := [...]struct {
		doc Document
		sub string
	}{
		{r.user, sub},
		{r.user, SubDefault},
		{r.base.Segments, sub},
		{r.base.Segments, SubDefault},
	}

	out := Style{}
	glyphSet, fgSet, bgSet := false, false, false
	for _, link := range chain {
		seg, ok := link.doc[kind]
		if !ok {
			continue
		}
		if !glyphSet {
			if g, ok := seg.Symbols[link.sub]; ok && g != "" {
				out.Glyph, glyphSet = g, true
			}
		}
		if c, ok := seg.Colors[link.sub]; ok {
			if !fgSet && c.Fg.Valid() {
				out.Fg, fgSet = c.Fg, true
			}
			if !bgSet && c.Bg.Valid() {
				out.Bg, bgSet = c.Bg, true
			}
		}
		if glyphSet && fgSet && bgSet {
			return out
		}
	}
	if !glyphSet {
		out.Glyph = universal.Glyph
	}
	if !fgSet {
		out.Fg = universal.Fg
	}
	if !bgSet {
		out.Bg = universal.Bg
	}
	return out
}

// Merge overlays overrides onto a copy of d.
func (d Document) Merge(overrides Document) Document {
	out := make(Document, len(d)+len(overrides))
	for kind, seg := range d {
		out[kind] = seg.clone()
	}
	for kind, seg := range overrides {
		base := out[kind].clone()
		for sub, g := range seg.Symbols {
			base.Symbols[sub] = g
		}
		for sub, c := range seg.Colors {
			cur := base.Colors[sub]
			if !c.Fg.IsZero() {
				cur.Fg = c.Fg
			}
			if !c.Bg.IsZero() {
				cur.Bg = c.Bg
			}
			base.Colors[sub] = cur
		}
		out[kind] = base
	}
	return out
}

func (s Segment) clone() Segment {
	out := Segment{
		Symbols: make(map[string]string, len(s.Symbols)),
		Colors:  make(map[string]Pair, len(s.Colors)),
	}
	for k, v := range s.Symbols {
		out.Symbols[k] = v
	}
	for k, v := range s.Colors {
		out.Colors[k] = v
	}
	return out
}
