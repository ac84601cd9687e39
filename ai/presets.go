package ai

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Presets are the named playing strengths.
var Presets = map[string]SearchConfig{
	"beginner": {Label: "beginner", Depth: 1, Radius: 1, Jitter: 20},
	"easy":     {Label: "easy", Depth: 1, Radius: 2, Jitter: 5},
	"normal":   {Label: "normal", Depth: 2, Radius: 2, Jitter: 3},
	"hard":     {Label: "hard", Depth: 3, Radius: 2, Jitter: 1},
}

const DefaultPreset = "normal"

func Preset(name string) (SearchConfig, error) {
	cfg, ok := Presets[name]
	if !ok {
		return SearchConfig{}, fmt.Errorf("unknown level %q (have %v)", name, PresetNames())
	}
	return cfg, nil
}

func PresetNames() []string {
	names := lo.Keys(Presets)
	sort.Strings(names)
	return names
}
