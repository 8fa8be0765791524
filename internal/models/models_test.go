package models_test

import (
	"testing"

	"github.com/san-kum/simgraph/internal/builder"
	"github.com/san-kum/simgraph/internal/engine"
	"github.com/san-kum/simgraph/internal/models"
)

func TestRegistryListsAllNetworks(t *testing.T) {
	r := models.NewRegistry()
	names := r.List()

	want := []string{"chain", "feedforward", "integrator", "noise"}
	if len(names) != len(want) {
		t.Fatalf("networks = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("network %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestRegistryUnknownNetwork(t *testing.T) {
	if _, err := models.NewRegistry().Get("nope", 0.001); err == nil {
		t.Error("expected error for unknown network")
	}
}

func TestAllNetworksCompileAndRun(t *testing.T) {
	r := models.NewRegistry()
	for _, name := range r.List() {
		t.Run(name, func(t *testing.T) {
			m, err := r.Get(name, 0.001)
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}

			g, err := engine.Compile(m, builder.Default(), engine.Options{Seed: 1})
			if err != nil {
				t.Fatalf("compile failed: %v", err)
			}
			sim, err := g.NewSimulation()
			if err != nil {
				t.Fatalf("new simulation failed: %v", err)
			}
			res, err := sim.Run(10)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if res.Steps != 10 {
				t.Errorf("ran %d steps, want 10", res.Steps)
			}
			if len(res.Probes) != len(m.Probes) {
				t.Fatalf("captured %d probes, want %d", len(res.Probes), len(m.Probes))
			}
			for pi, rows := range res.Probes {
				if len(rows) != 10 {
					t.Errorf("probe %d captured %d rows, want 10", pi, len(rows))
				}
			}
		})
	}
}
