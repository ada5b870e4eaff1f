package config

import (
	"embed"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// Presets maps preset names to their embedded model file source.
var Presets = loadPresets()

func loadPresets() map[string][]byte {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		panic(err)
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		data, err := presetFS.ReadFile(path.Join("presets", e.Name()))
		if err != nil {
			panic(err)
		}
		out[strings.TrimSuffix(e.Name(), ".yaml")] = data
	}
	return out
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *ModelFile {
	data, ok := Presets[name]
	if !ok {
		return nil
	}
	mf, err := ParseModel(data)
	if err != nil {
		return nil
	}
	return mf
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
