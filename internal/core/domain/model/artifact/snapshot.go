package artifact

import (
	"time"

	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
)

// Snapshot is the serialisable form of an Artifact. Encoding a snapshot, decoding
// it and restoring it reproduces the same encoding.
type Snapshot struct {
	ID                    kernel.UUID                               `json:"id"`
	CreatedAt             time.Time                                 `json:"createdAt"`
	UpdatedAt             time.Time                                 `json:"updatedAt"`
	Customer              Customer                                  `json:"customer"`
	Items                 []string                                  `json:"items"`
	Specification         string                                    `json:"specification,omitempty"`
	RequestedDeliveryDate *time.Time                                `json:"requestedDeliveryDate,omitempty"`
	Priority              Priority                                  `json:"priority"`
	Notes                 string                                    `json:"notes,omitempty"`
	Budget                Budget                                    `json:"budget"`
	DepartmentStates      map[department.Department]DepartmentState `json:"departmentStates"`
	History               []HistoryRecord                           `json:"history"`
}

// Snapshot captures the full state and history.
func (a *Artifact) Snapshot() Snapshot {
	s := Snapshot{
		ID:               a.id,
		CreatedAt:        a.createdAt,
		UpdatedAt:        a.updatedAt,
		Customer:         a.customer,
		Items:            append([]string(nil), a.items...),
		Specification:    a.specification,
		Priority:         a.priority,
		Notes:            a.notes,
		Budget:           a.budget,
		DepartmentStates: make(map[department.Department]DepartmentState, len(a.states)),
		History:          append([]HistoryRecord(nil), a.history...),
	}
	if !a.requestedDeliveryDate.IsZero() {
		at := a.requestedDeliveryDate
		s.RequestedDeliveryDate = &at
	}
	for d, state := range a.states {
		s.DepartmentStates[d] = state.clone()
	}
	return s
}

// Restore rebuilds an artifact from storage. Departments missing from the
// snapshot come back unassigned.
func Restore(s Snapshot) (*Artifact, error) {
	a := &Artifact{
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		customer:      s.Customer,
		items:         append([]string(nil), s.Items...),
		specification: s.Specification,
		priority:      s.Priority,
		notes:         s.Notes,
		budget:        s.Budget,
		states:        make(map[department.Department]DepartmentState, len(department.All())),
		history:       append([]HistoryRecord(nil), s.History...),
	}
	if s.RequestedDeliveryDate != nil {
		a.requestedDeliveryDate = *s.RequestedDeliveryDate
	}
	if err := a.setID(s.ID); err != nil {
		return nil, err
	}
	if err := a.priority.Validate(); err != nil {
		return nil, err
	}

	for _, d := range department.All() {
		state, ok := s.DepartmentStates[d]
		if !ok {
			a.states[d] = unassignedState()
			continue
		}
		state = state.clone()
		if state.Data == nil {
			state.Data = Data{}
		}
		a.states[d] = state
	}
	return a, nil
}
