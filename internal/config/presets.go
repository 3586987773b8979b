package config

import (
	"sort"
	"time"
)

var Presets = map[string]*Config{
	"inner": preset(func(c *Config) {
		c.Clock.Scale = 86400
		c.Scene.AUScale = 50
		c.Scene.MoonScale = 40
		c.Belt.Count = 0
	}),
	"outer": preset(func(c *Config) {
		c.Clock.Scale = 2592000
		c.Scene.AUScale = 5
		c.Cache.Timeout = 250 * time.Millisecond
	}),
	"belt-heavy": preset(func(c *Config) {
		c.Clock.Scale = 604800
		c.Belt.Count = 20000
		c.Belt.Batch = 500
		c.Belt.NearAU = 0.5
		c.Cache.Capacity = 2048
	}),
	"rewind": preset(func(c *Config) {
		c.Clock.Start = "2100-01-01"
		c.Clock.Scale = -86400
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
