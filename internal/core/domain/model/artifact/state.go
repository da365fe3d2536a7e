package artifact

import (
	"bytes"
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/department"
)

// State is a department lifecycle tag. Tags are only meaningful within their own department.
type State string

// Unassigned marks a department that has not started working the artifact.
const Unassigned State = ""

func (s State) IsAssigned() bool {
	return s != Unassigned
}

func (s State) String() string {
	if s == Unassigned {
		return "unassigned"
	}
	return string(s)
}

// MarshalJSON encodes Unassigned as null.
func (s State) MarshalJSON() ([]byte, error) {
	if s == Unassigned {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *State) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(raw, []byte("null")) {
		*s = Unassigned
		return nil
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return err
	}
	*s = State(tag)
	return nil
}

// DepartmentState is one department's view of an artifact.
type DepartmentState struct {
	State     State      `json:"state"`
	ChangedAt *time.Time `json:"changedAt"`
	Owner     string     `json:"owner,omitempty"`
	Data      Data       `json:"data"`
}

func unassignedState() DepartmentState {
	return DepartmentState{State: Unassigned, Data: Data{}}
}

func (s DepartmentState) clone() DepartmentState {
	cp := s
	if s.ChangedAt != nil {
		at := *s.ChangedAt
		cp.ChangedAt = &at
	}
	cp.Data = s.Data.Clone()
	return cp
}

// HistoryRecord is one accepted transition.
type HistoryRecord struct {
	Timestamp  time.Time             `json:"timestamp"`
	Department department.Department `json:"department"`
	FromState  State                 `json:"fromState"`
	ToState    State                 `json:"toState"`
	Owner      string                `json:"owner"`
	Note       string                `json:"note"`
}
