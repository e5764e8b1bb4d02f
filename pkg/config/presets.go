package config

import (
	"sort"

	"gitlab.com/tinyland/lab/promptline/pkg/segment"
)

// presets maps a preset name to its segment list constructor. Each call
// returns fresh slices so callers may modify the result.
var presets = map[string]func() []segment.Spec{
	"default": defaultPreset,
	"minimal": minimalPreset,
	"full":    fullPreset,
}

// SegmentPreset returns the segment list for a named preset.
// If the name is not recognized, the "default" preset is returned.
func SegmentPreset(name string) []segment.Spec {
	if p, ok := presets[name]; ok {
		return p()
	}
	return defaultPreset()
}

// PresetNames lists the known presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// defaultPreset mirrors the classic powerline prompt:
//
//	[user] [host] [path...] [git...] [exit]
func defaultPreset() []segment.Spec {
	return []segment.Spec{
		{Kind: "username"},
		{Kind: "hostname"},
		{Kind: "path"},
		{Kind: "git"},
		{Kind: "exit"},
	}
}

// minimalPreset shows only where you are and whether the last command
// failed.
//
//	[path...] [git...] [exit]
func minimalPreset() []segment.Spec {
	return []segment.Spec{
		{Kind: "path", Args: map[string]any{"show_dir_stack": false}},
		{Kind: "git", Args: map[string]any{"show_stash": false}},
		{Kind: "exit"},
	}
}

// fullPreset enables every segment, including the ones that talk to other
// processes.
//
//	[time] [user] [host] [screen] [kube] [tailscale] [path...] [git...]
//	[rvm] [battery] [load] [jobs] [exit]
func fullPreset() []segment.Spec {
	return []segment.Spec{
		{Kind: "time"},
		{Kind: "username"},
		{Kind: "hostname", Args: map[string]any{"show_os_indicator": true}},
		{Kind: "screen"},
		{Kind: "kube"},
		{Kind: "tailscale"},
		{Kind: "path"},
		{Kind: "git"},
		{Kind: "rvm"},
		{Kind: "battery"},
		{Kind: "load"},
		{Kind: "jobs"},
		{Kind: "exit"},
	}
}
