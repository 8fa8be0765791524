package layout

import (
	"errors"
	"testing"

	"github.com/san-kum/simgraph/internal/model"
	"github.com/san-kum/simgraph/internal/plan"
)

func TestAllocateOneViewPerSignal(t *testing.T) {
	sigs := []*model.Signal{
		model.NewSignal("a", model.Shape{2}),
		model.NewSignal("b", model.Shape{3}),
		model.NewTrainable("w", model.Shape{2, 2}, []float64{1, 2, 3, 4}),
		model.NewSignal("t", model.Shape{}),
	}

	l, err := Allocate(sigs, model.Float64)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	if len(l.Views) != len(sigs) {
		t.Fatalf("expected %d views, got %d", len(sigs), len(l.Views))
	}
	for _, s := range sigs {
		v, ok := l.Views[s]
		if !ok {
			t.Fatalf("signal %q has no view", s.Name)
		}
		buf := l.Buffers[v.Key]
		if v.Offset+v.Size() > buf.Size() {
			t.Errorf("view of %q exceeds buffer extent: %d+%d > %d",
				s.Name, v.Offset, v.Size(), buf.Size())
		}
	}
}

func TestAllocateNoOverlap(t *testing.T) {
	sigs := []*model.Signal{
		model.NewSignal("a", model.Shape{4}),
		model.NewSignal("b", model.Shape{4}),
		model.NewSignal("c", model.Shape{1}),
	}

	l, err := Allocate(sigs, model.Float64)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	for i, s1 := range sigs {
		for _, s2 := range sigs[i+1:] {
			v1, v2 := l.Views[s1], l.Views[s2]
			if v1.Key != v2.Key {
				continue
			}
			if v1.Offset < v2.Offset+v2.Size() && v2.Offset < v1.Offset+v1.Size() {
				t.Errorf("views of %q and %q overlap", s1.Name, s2.Name)
			}
		}
	}
}

func TestAllocateTrainableSeparation(t *testing.T) {
	plain := model.NewSignal("x", model.Shape{2})
	trained := model.NewTrainable("w", model.Shape{2}, []float64{1, 1})

	l, err := Allocate([]*model.Signal{plain, trained}, model.Float64)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if l.Views[plain].Key == l.Views[trained].Key {
		t.Error("trainable and ordinary state must not share a buffer")
	}
}

func TestAllocateInitialContent(t *testing.T) {
	a := model.NewSignal("a", model.Shape{2})
	w := model.NewTrainable("w", model.Shape{2}, []float64{3, 4})

	l, err := Allocate([]*model.Signal{a, w}, model.Float64)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	v := l.Views[w]
	buf := l.Buffers[v.Key]
	if buf.Init[v.Offset] != 3 || buf.Init[v.Offset+1] != 4 {
		t.Errorf("initial content not placed: %v", buf.Init)
	}
}

func TestAllocateErrors(t *testing.T) {
	tests := []struct {
		name string
		sigs []*model.Signal
	}{
		{"bad init length", []*model.Signal{
			model.NewTrainable("w", model.Shape{2}, []float64{1}),
		}},
		{"empty shape", []*model.Signal{
			model.NewSignal("z", model.Shape{0}),
		}},
		{"duplicate signal", func() []*model.Signal {
			s := model.NewSignal("a", model.Shape{1})
			return []*model.Signal{s, s}
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.sigs, model.Float64)
			if !errors.Is(err, model.ErrAllocation) {
				t.Errorf("expected ErrAllocation, got %v", err)
			}
		})
	}
}

func TestAllocateDeterminism(t *testing.T) {
	build := func() *Layout {
		sigs := []*model.Signal{
			model.NewSignal("a", model.Shape{2}),
			model.NewTrainable("w", model.Shape{2, 3}, make([]float64, 6)),
			model.NewSignal("b", model.Shape{5}),
			model.NewSignal("t", model.Shape{}),
		}
		l, err := Allocate(sigs, model.Float64)
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		return l
	}

	l1, l2 := build(), build()
	if len(l1.Keys) != len(l2.Keys) {
		t.Fatalf("buffer key counts differ: %d vs %d", len(l1.Keys), len(l2.Keys))
	}
	for i := range l1.Keys {
		if l1.Keys[i] != l2.Keys[i] {
			t.Errorf("buffer key order differs at %d: %v vs %v", i, l1.Keys[i], l2.Keys[i])
		}
	}
}

func TestOrderSignalsGroupsContiguously(t *testing.T) {
	// Interleave two groups' signals; the optimizer should pull each
	// group's signals into a contiguous run.
	mk := func(name string) *model.Signal { return model.NewSignal(name, model.Shape{2}) }
	a1, b1, a2, b2, a3, b3 := mk("a1"), mk("b1"), mk("a2"), mk("b2"), mk("a3"), mk("b3")
	all := []*model.Signal{a1, b1, a2, b2, a3, b3}

	groupOf := func(sigs ...*model.Signal) *plan.Group {
		g := &plan.Group{Kind: model.KindCopy}
		for i := 0; i+1 < len(sigs); i += 2 {
			g.Ops = append(g.Ops, model.Copy(sigs[i], sigs[i+1]))
		}
		return g
	}
	p := plan.Plan{
		groupOf(a1, a2, a2, a3),
		groupOf(b1, b2, b2, b3),
	}

	order := OrderSignals(p, all, DefaultPasses)
	if len(order) != len(all) {
		t.Fatalf("order dropped signals: got %d, want %d", len(order), len(all))
	}

	pos := make(map[*model.Signal]int)
	for i, s := range order {
		pos[s] = i
	}
	spread := func(sigs ...*model.Signal) int {
		lo, hi := len(order), -1
		for _, s := range sigs {
			if pos[s] < lo {
				lo = pos[s]
			}
			if pos[s] > hi {
				hi = pos[s]
			}
		}
		return hi - lo
	}

	if got := spread(a1, a2, a3); got != 2 {
		t.Errorf("group A signals not contiguous, spread %d", got)
	}
	if got := spread(b1, b2, b3); got != 2 {
		t.Errorf("group B signals not contiguous, spread %d", got)
	}
}

func TestOrderSignalsKeepsUnreferenced(t *testing.T) {
	used := model.NewSignal("used", model.Shape{1})
	dst := model.NewSignal("dst", model.Shape{1})
	spare := model.NewSignal("spare", model.Shape{1})

	p := plan.Plan{{Kind: model.KindCopy, Ops: []*model.Operator{model.Copy(used, dst)}}}
	order := OrderSignals(p, []*model.Signal{used, dst, spare}, 1)

	if len(order) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(order))
	}
	if order[len(order)-1] != spare {
		t.Errorf("unreferenced signal should trail the order")
	}
}
