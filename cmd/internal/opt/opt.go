package opt

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nelhage/gomoku/ai"
)

// Search holds the engine flags for one player. Flags left unset fall
// back to the config file, then to GOMOKU_* environment variables,
// then to the named level.
type Search struct {
	// Prefix namespaces flag names ("p1-depth") and config keys
	// ("p1.depth"). Empty for a single engine.
	Prefix string

	Level  string
	Depth  int
	Radius int
	Jitter int
	Seed   int64
	Debug  int

	// Patterns is a JSON overlay on ai.DefaultPatterns.
	Patterns string
}

func (o *Search) flagName(name string) string {
	if o.Prefix == "" {
		return name
	}
	return o.Prefix + "-" + name
}

func (o *Search) key(name string) string {
	if o.Prefix == "" {
		return name
	}
	return o.Prefix + "." + name
}

func (o *Search) AddFlags(flags *flag.FlagSet) {
	flags.StringVar(&o.Level, o.flagName("level"), "",
		fmt.Sprintf("playing strength (%s; default %s)", strings.Join(ai.PresetNames(), ", "), ai.DefaultPreset))
	flags.IntVar(&o.Depth, o.flagName("depth"), -1, "search depth in plies (default from level)")
	flags.IntVar(&o.Radius, o.flagName("radius"), -1, "candidate window radius (default from level)")
	flags.IntVar(&o.Jitter, o.flagName("jitter"), -1, "evaluation jitter bound (default from level)")
	flags.Int64Var(&o.Seed, o.flagName("seed"), 0, "jitter seed; 0 seeds from the clock")
	flags.IntVar(&o.Debug, o.flagName("debug"), 0, "debug level")
	flags.StringVar(&o.Patterns, o.flagName("patterns"), "", `JSON pattern values by run length, e.g. {"3":[0,30,50]}`)
}

// Load reads the optional config file at path and binds GOMOKU_*
// environment variables. Nested keys map to underscores, so
// "p1.level" is read from GOMOKU_P1_LEVEL.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("gomoku")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// BuildConfig resolves the engine configuration. v may be nil, in
// which case only flags and the level apply.
func (o *Search) BuildConfig(v *viper.Viper) (ai.SearchConfig, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetDefault(o.key("level"), ai.DefaultPreset)

	level := o.Level
	if level == "" {
		level = v.GetString(o.key("level"))
	}
	cfg, err := ai.Preset(level)
	if err != nil {
		return ai.SearchConfig{}, err
	}
	cfg.Depth = o.pick(v, "depth", o.Depth, cfg.Depth)
	cfg.Radius = o.pick(v, "radius", o.Radius, cfg.Radius)
	cfg.Jitter = o.pick(v, "jitter", o.Jitter, cfg.Jitter)

	cfg.Seed = o.Seed
	if cfg.Seed == 0 {
		cfg.Seed = v.GetInt64(o.key("seed"))
	}
	cfg.Debug = o.Debug
	if cfg.Debug == 0 {
		cfg.Debug = v.GetInt(o.key("debug"))
	}
	patterns := o.Patterns
	if patterns == "" {
		patterns = v.GetString(o.key("patterns"))
	}
	if patterns != "" {
		p := ai.DefaultPatterns
		if err := json.Unmarshal([]byte(patterns), &p); err != nil {
			return ai.SearchConfig{}, fmt.Errorf("parse patterns: %w", err)
		}
		cfg.Patterns = &p
	}
	if err := cfg.Validate(); err != nil {
		return ai.SearchConfig{}, err
	}
	return cfg, nil
}

func (o *Search) pick(v *viper.Viper, name string, flagVal, def int) int {
	if flagVal >= 0 {
		return flagVal
	}
	if v.IsSet(o.key(name)) {
		return v.GetInt(o.key(name))
	}
	return def
}
