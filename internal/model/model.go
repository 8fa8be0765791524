package model

// Probe identifies a signal whose value must be captured at every timestep
// into a growable time-indexed buffer.
type Probe struct {
	Name   string
	Target *Signal
}

// Model is the external collaborator's description of a simulation: the
// operator set, the signal set, the zero-input sources evaluated outside the
// loop, and the observation points.
type Model struct {
	Dt        float64
	Operators []*Operator
	Signals   []*Signal
	Probes    []*Probe

	// Sources holds the zero-input Func operators whose evaluation is
	// hoisted outside the per-step loop and fed in as precomputed input.
	Sources []*Operator

	// Time is the scalar signal carrying the current simulation time. It is
	// written by the time-update operator, which the loop handles specially.
	Time *Signal
}

// New creates an empty model with the given timestep duration. The time
// signal and its update operator are installed up front, mirroring how the
// loop observes "current time" as a 1-indexed step count times dt.
func New(dt float64) *Model {
	m := &Model{Dt: dt}
	m.Time = m.AddSignal(NewSignal("time", Shape{}))
	m.AddOperator(TimeUpdate(m.Time))
	return m
}

// AddSignal registers a signal and returns it.
func (m *Model) AddSignal(s *Signal) *Signal {
	m.Signals = append(m.Signals, s)
	return s
}

// AddOperator registers an operator, assigning its declaration index.
func (m *Model) AddOperator(op *Operator) *Operator {
	op.index = len(m.Operators)
	m.Operators = append(m.Operators, op)
	return op
}

// AddSource registers a zero-input Func operator as an invariant input:
// it is evaluated outside the simulation loop and its per-step output fed in.
func (m *Model) AddSource(op *Operator) *Operator {
	m.AddOperator(op)
	m.Sources = append(m.Sources, op)
	return op
}

// AddProbe registers an observation point on the given signal.
func (m *Model) AddProbe(name string, target *Signal) *Probe {
	p := &Probe{Name: name, Target: target}
	m.Probes = append(m.Probes, p)
	return p
}
