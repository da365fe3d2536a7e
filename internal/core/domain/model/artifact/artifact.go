package artifact

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// CreatedNote is the note on the history record written at creation.
const CreatedNote = "artifact created"

var (
	ErrArtifactIsNotConstructed = errors.New("artifact must be created via New or Restore")
	ErrOwnerIsRequired          = errs.NewValueIsRequiredError("owner")
)

// Draft carries the shared attributes a caller supplies when proposing an order.
// A nil Budget yields NewBudget(); an empty Priority yields PriorityNormal.
type Draft struct {
	Customer              Customer
	Items                 []string
	Specification         string
	RequestedDeliveryDate time.Time
	Priority              Priority
	Notes                 string
	Budget                *Budget
}

// Artifact is the order aggregate.
type Artifact struct {
	id        kernel.UUID
	createdAt time.Time
	updatedAt time.Time

	customer              Customer
	items                 []string
	specification         string
	requestedDeliveryDate time.Time
	priority              Priority
	notes                 string
	budget                Budget

	states  map[department.Department]DepartmentState
	history []HistoryRecord
}

// New builds an artifact whose first department (commercial) starts at entry,
// owned by owner, with the creation record as its only history entry.
// It checks structure only; which attributes entry demands is the lifecycle's call.
func New(id kernel.UUID, draft Draft, entry State, owner string, now time.Time) (*Artifact, error) {
	a := &Artifact{
		createdAt: now,
		updatedAt: now,
		budget:    NewBudget(),
		priority:  PriorityNormal,
		states:    make(map[department.Department]DepartmentState, len(department.All())),
	}
	for _, d := range department.All() {
		a.states[d] = unassignedState()
	}

	if err := errors.Join(
		a.setID(id),
		a.setDraft(draft),
		validateOwner(owner),
		validateEntry(entry),
	); err != nil {
		return nil, err
	}

	a.RecordTransition(department.Commercial, entry, owner, CreatedNote, nil, now)
	return a, nil
}

func (a *Artifact) ID() kernel.UUID {
	return a.id
}

func (a *Artifact) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Artifact) UpdatedAt() time.Time {
	return a.updatedAt
}

func (a *Artifact) Customer() Customer {
	return a.customer
}

func (a *Artifact) Items() []string {
	return append([]string(nil), a.items...)
}

func (a *Artifact) Specification() string {
	return a.specification
}

// RequestedDeliveryDate is the zero time when no date has been agreed.
func (a *Artifact) RequestedDeliveryDate() time.Time {
	return a.requestedDeliveryDate
}

func (a *Artifact) Priority() Priority {
	return a.priority
}

func (a *Artifact) Notes() string {
	return a.notes
}

func (a *Artifact) Budget() Budget {
	return a.budget
}

// State returns a copy of the department's slot.
func (a *Artifact) State(d department.Department) DepartmentState {
	s, ok := a.states[d]
	if !ok {
		return unassignedState()
	}
	return s.clone()
}

// History returns a copy of the transition records, oldest first.
func (a *Artifact) History() []HistoryRecord {
	return append([]HistoryRecord(nil), a.history...)
}

// Validate checks that the artifact came from New or Restore.
func (a *Artifact) Validate() error {
	if a == nil || a.states == nil {
		return ErrArtifactIsNotConstructed
	}
	return a.id.Validate()
}

// Context is the bag a department's validator sees: the shared attributes,
// overlaid with the department's accumulated data, overlaid with extra.
func (a *Artifact) Context(d department.Department, extra Data) Data {
	return a.view().Merge(a.states[d].Data).Merge(extra)
}

// RecordTransition moves d to `to`, merges data into the department bag, appends
// the history record and bumps updatedAt. Legality must be checked beforehand.
func (a *Artifact) RecordTransition(
	d department.Department,
	to State,
	owner, note string,
	data Data,
	at time.Time,
) HistoryRecord {
	current := a.states[d]
	record := HistoryRecord{
		Timestamp:  at,
		Department: d,
		FromState:  current.State,
		ToState:    to,
		Owner:      owner,
		Note:       note,
	}

	changedAt := at
	a.states[d] = DepartmentState{
		State:     to,
		ChangedAt: &changedAt,
		Owner:     owner,
		Data:      current.Data.Merge(data),
	}
	a.history = append(a.history, record)
	a.updatedAt = at
	return record
}

// Clone returns a deep copy that can be mutated without touching a.
func (a *Artifact) Clone() *Artifact {
	cp := *a
	cp.items = append([]string(nil), a.items...)
	cp.states = make(map[department.Department]DepartmentState, len(a.states))
	for d, s := range a.states {
		cp.states[d] = s.clone()
	}
	cp.history = append([]HistoryRecord(nil), a.history...)
	return &cp
}

func (a *Artifact) view() Data {
	v := Data{
		"customer":      a.customer.view(),
		"items":         append([]string(nil), a.items...),
		"specification": a.specification,
		"priority":      string(a.priority),
		"notes":         a.notes,
		"budget":        a.budget.view(),
	}
	if !a.requestedDeliveryDate.IsZero() {
		v["requestedDeliveryDate"] = a.requestedDeliveryDate
	}
	return v
}

func (a *Artifact) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Artifact) setDraft(draft Draft) error {
	if draft.Priority != "" {
		if err := draft.Priority.Validate(); err != nil {
			return err
		}
		a.priority = draft.Priority
	}
	if draft.Budget != nil {
		if err := draft.Budget.validate(); err != nil {
			return err
		}
		a.budget = *draft.Budget
	}
	a.customer = draft.Customer
	a.items = append([]string(nil), draft.Items...)
	a.specification = draft.Specification
	a.requestedDeliveryDate = draft.RequestedDeliveryDate
	a.notes = draft.Notes
	return nil
}

func validateOwner(owner string) error {
	if owner == "" {
		return ErrOwnerIsRequired
	}
	return nil
}

func validateEntry(entry State) error {
	if !entry.IsAssigned() {
		return errs.NewValueIsRequiredError("entry state")
	}
	return nil
}
