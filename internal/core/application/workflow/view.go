package workflow

import (
	"context"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/lifecycle"
)

// TransitionOption is one move a department may request, with the form it needs.
type TransitionOption struct {
	To     artifact.State              `json:"to"`
	Fields []lifecycle.FieldDescriptor `json:"fields"`
}

// DepartmentView is what one department sees of an artifact.
type DepartmentView struct {
	ArtifactID  kernel.UUID              `json:"artifactId"`
	Department  department.Department    `json:"department"`
	Current     artifact.DepartmentState `json:"current"`
	CanAct      bool                     `json:"canAct"`
	Terminal    bool                     `json:"terminal"`
	Transitions []TransitionOption       `json:"transitions"`
	History     []artifact.HistoryRecord `json:"history"`
	Context     artifact.Data            `json:"context"`
}

// DepartmentView lists the moves d may make on the artifact right now. An
// unassigned department that can act is offered its entry states.
func (c *Coordinator) DepartmentView(ctx context.Context, id kernel.UUID, d department.Department) (DepartmentView, error) {
	m, err := c.catalog.For(d)
	if err != nil {
		return DepartmentView{}, err
	}
	a, err := c.GetArtifact(ctx, id)
	if err != nil {
		return DepartmentView{}, err
	}

	current := a.State(d)
	view := DepartmentView{
		ArtifactID:  a.ID(),
		Department:  d,
		Current:     current,
		CanAct:      c.eligibility.CanAct(a, d),
		Terminal:    current.State.IsAssigned() && m.IsTerminal(current.State),
		Transitions: []TransitionOption{},
		History:     make([]artifact.HistoryRecord, 0),
		Context:     a.Context(d, nil),
	}

	for _, h := range a.History() {
		if h.Department == d {
			view.History = append(view.History, h)
		}
	}

	if !view.CanAct {
		return view, nil
	}

	targets := m.EntryStates()
	if current.State.IsAssigned() {
		targets = m.AvailableTransitions(current.State)
	}
	for _, to := range targets {
		view.Transitions = append(view.Transitions, TransitionOption{To: to, Fields: m.RequiredFields(to)})
	}
	return view, nil
}
