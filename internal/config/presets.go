package config

import "sort"

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"damped": with(func(c *Config) {
		c.Damping = EnabledDamping
	}),
	"free": with(func(c *Config) {
		c.Scene = "single"
		c.Gravity, c.SpringK, c.RepulsionK = 0, 0, 0
	}),
	"hanging": with(func(c *Config) {
		c.Scene = "single"
		c.RepulsionK = 0
	}),
	"mirrored": with(func(c *Config) {
		c.Scene = "mirrored"
	}),
	"square": with(func(c *Config) {
		c.Dim = 2
	}),
	"tesseract": with(func(c *Config) {
		c.Dim = 4
		c.Display.Scale = 0.6
	}),
	"ring": with(func(c *Config) {
		c.Scene = "ring"
		c.Bodies = DefaultBodies
		c.Damping = EnabledDamping
		c.Display.Scale = 0.4
	}),
}

func with(mod func(*Config)) *Config {
	c := DefaultConfig()
	mod(c)
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
