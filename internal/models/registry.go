// Package models provides small ready-made operator networks used by the
// CLI and integration tests.
package models

import (
	"fmt"
	"sort"

	"github.com/san-kum/simgraph/internal/model"
)

// Registry maps network names to constructors.
type Registry struct {
	networks map[string]func(dt float64) *model.Model
}

// NewRegistry returns the registry of built-in networks.
func NewRegistry() *Registry {
	r := &Registry{networks: make(map[string]func(dt float64) *model.Model)}

	r.networks["feedforward"] = NewFeedforward
	r.networks["integrator"] = NewIntegrator
	r.networks["chain"] = NewChain
	r.networks["noise"] = NewNoise

	return r
}

// Get constructs the named network with the given timestep.
func (r *Registry) Get(name string, dt float64) (*model.Model, error) {
	fn, ok := r.networks[name]
	if !ok {
		return nil, fmt.Errorf("unknown network: %s", name)
	}
	return fn(dt), nil
}

// List returns the available network names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
