package segment

import (
	"errors"
	"fmt"
	"sort"

	"gitlab.com/tinyland/lab/promptline/pkg/theme"
)

// ErrUnknownKind is returned for a segment kind missing from Builtin.
var ErrUnknownKind = errors.New("segment: unknown kind")

// Factory builds a provider from its args table.
type Factory func(args map[string]any) (Provider, error)

// Spec is one configured segment.
type Spec struct {
	Kind string         `toml:"kind" yaml:"kind" json:"kind"`
	Args map[string]any `toml:"args,omitempty" yaml:"args,omitempty" json:"args,omitempty"`
}

var builtin = map[string]Factory{
	theme.KindUsername:  newUsername,
	theme.KindHostname:  newHostname,
	theme.KindPath:      newPath,
	theme.KindExit:      newExit,
	"command_status":    newExit,
	theme.KindGit:       newGit,
	theme.KindBattery:   newBattery,
	theme.KindTime:      newClock,
	theme.KindScreen:    newScreen,
	theme.KindRvm:       newRvm,
	theme.KindJobs:      newJobs,
	theme.KindLoad:      newLoad,
	theme.KindKube:      newKube,
	theme.KindTailscale: newTailscale,
}

// Builtin returns the static provider table keyed by kind. The map is a
// copy.
func Builtin() map[string]Factory {
	out := make(map[string]Factory, len(builtin))
	for k, f := range builtin {
		out[k] = f
	}
	return out
}

// Kinds lists the configurable kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(builtin))
	for k := range builtin {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Known reports whether kind has a provider.
func Known(kind string) bool {
	_, ok := builtin[kind]
	return ok
}

// New builds the provider for spec.
func New(spec Spec) (Provider, error) {
	f, ok := builtin[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, spec.Kind)
	}
	return f(spec.Args)
}
