package config

import "sort"

// presets are named starting points per network.
var presets = map[string]map[string]*Config{
	"feedforward": {
		"default": {Network: "feedforward", Dt: 0.001, Steps: 1000},
		"batched": {Network: "feedforward", Dt: 0.001, Steps: 1000, Batch: 32},
		"unrolled": {
			Network: "feedforward", Dt: 0.001, Steps: 200, Unroll: true,
		},
	},
	"integrator": {
		"default": {Network: "integrator", Dt: 0.01, Steps: 500},
		"fine":    {Network: "integrator", Dt: 0.001, Steps: 5000},
	},
	"chain": {
		"default": {Network: "chain", Dt: 0.01, Steps: 300},
	},
	"noise": {
		"default": {Network: "noise", Dt: 0.001, Steps: 1000, Seed: 42},
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(network, name string) *Config {
	group, ok := presets[network]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	out := *cfg
	if out.Batch == 0 {
		out.Batch = DefaultBatch
	}
	return &out
}

// ListPresets returns the preset names for a network, sorted.
func ListPresets(network string) []string {
	group, ok := presets[network]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
