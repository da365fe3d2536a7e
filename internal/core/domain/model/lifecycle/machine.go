package lifecycle

import (
	"slices"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
)

// stateSpec declares one state: where it may go next and what it requires.
type stateSpec struct {
	state  artifact.State
	next   []artifact.State
	fields []FieldDescriptor
}

// Upstream is the state another department must hold before a department may start.
type Upstream struct {
	Department department.Department
	State      artifact.State
}

// Machine is one department's lifecycle policy.
type Machine struct {
	department department.Department
	entry      []artifact.State
	upstream   *Upstream
	order      []artifact.State
	specs      map[artifact.State]stateSpec
}

func newMachine(d department.Department, entry []artifact.State, upstream *Upstream, specs ...stateSpec) *Machine {
	m := &Machine{
		department: d,
		entry:      entry,
		upstream:   upstream,
		specs:      make(map[artifact.State]stateSpec, len(specs)),
	}
	for _, spec := range specs {
		m.order = append(m.order, spec.state)
		m.specs[spec.state] = spec
	}
	return m
}

func (m *Machine) Department() department.Department {
	return m.department
}

// States lists every state of the department in declaration order.
func (m *Machine) States() []artifact.State {
	return slices.Clone(m.order)
}

// EntryStates are the states a department may take when it starts from unassigned.
func (m *Machine) EntryStates() []artifact.State {
	return slices.Clone(m.entry)
}

// IsEntry reports whether s is one of the entry states.
func (m *Machine) IsEntry(s artifact.State) bool {
	return slices.Contains(m.entry, s)
}

// Upstream returns the precondition on another department, if any.
func (m *Machine) Upstream() (Upstream, bool) {
	if m.upstream == nil {
		return Upstream{}, false
	}
	return *m.upstream, true
}

func (m *Machine) IsKnown(s artifact.State) bool {
	_, ok := m.specs[s]
	return ok
}

// IsTerminal reports whether s is a known state with no successors.
func (m *Machine) IsTerminal(s artifact.State) bool {
	spec, ok := m.specs[s]
	return ok && len(spec.next) == 0
}

// CanTransition looks `to` up in from's successor set. Self-loops are only
// allowed when listed, and Unassigned has no successors here: starting a
// department is decided by the coordinator against EntryStates.
func (m *Machine) CanTransition(from, to artifact.State) bool {
	return slices.Contains(m.specs[from].next, to)
}

// AvailableTransitions returns from's successors, empty for terminal or unknown states.
func (m *Machine) AvailableTransitions(from artifact.State) []artifact.State {
	next := m.specs[from].next
	if len(next) == 0 {
		return []artifact.State{}
	}
	return slices.Clone(next)
}

// Validate checks data against to's field descriptors. Unknown states and states
// without descriptors are trivially valid.
func (m *Machine) Validate(to artifact.State, data artifact.Data) ValidationResult {
	problems := make([]string, 0)
	for _, f := range m.specs[to].fields {
		if problem := f.check(data); problem != "" {
			problems = append(problems, problem)
		}
	}
	return ValidationResult{Valid: len(problems) == 0, Errors: problems}
}

// RequiredFields describes the inputs of state in display order.
func (m *Machine) RequiredFields(state artifact.State) []FieldDescriptor {
	fields := m.specs[state].fields
	out := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		f.Choices = slices.Clone(f.Choices)
		out[i] = f
	}
	return out
}
