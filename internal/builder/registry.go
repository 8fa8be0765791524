package builder

import (
	"github.com/san-kum/simgraph/internal/engine"
	"github.com/san-kum/simgraph/internal/model"
)

// Registry maps operator kinds to builder factories.
type Registry struct {
	factories map[model.Kind]engine.BuilderFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[model.Kind]engine.BuilderFactory)}
}

// Register installs a factory for a kind, replacing any previous one.
func (r *Registry) Register(k model.Kind, f engine.BuilderFactory) {
	r.factories[k] = f
}

// Lookup resolves a kind to its factory.
func (r *Registry) Lookup(k model.Kind) (engine.BuilderFactory, bool) {
	f, ok := r.factories[k]
	return f, ok
}

// Default returns a registry covering the built-in kinds. KindTimeUpdate is
// deliberately absent: the loop assembler advances the step counter itself.
func Default() *Registry {
	r := NewRegistry()
	r.Register(model.KindReset, func() engine.KindBuilder { return &resetBuilder{} })
	r.Register(model.KindCopy, func() engine.KindBuilder { return &copyBuilder{} })
	r.Register(model.KindDotInc, func() engine.KindBuilder { return &dotIncBuilder{} })
	r.Register(model.KindFunc, func() engine.KindBuilder { return &funcBuilder{} })
	return r
}
