package services

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/lifecycle"
	"orderflow/internal/pkg/errs"
)

var (
	ErrNotAnEntryState  = errors.New("not an entry state")
	ErrUpstreamNotReady = errors.New("upstream department has not reached the required state")
)

// TransitionRequest is one department move with its payload.
type TransitionRequest struct {
	Department department.Department
	To         artifact.State
	Owner      string
	Note       string
	Data       artifact.Data
	At         time.Time
}

// TransitionPolicy checks a request against the department's machine and, when
// every check passes, applies it to a copy of the artifact.
//
// Checks, in order:
//   - the department exists and the owner is set
//   - from unassigned: `to` is an entry state and the department is eligible
//   - otherwise: `to` is in the successor set of the current state
//   - shared attributes in the payload are well formed
//   - the merged context satisfies `to`'s mandatory fields
//
// The input artifact is never modified.
type TransitionPolicy struct {
	catalog     *lifecycle.Catalog
	eligibility Eligibility
}

func NewTransitionPolicy(catalog *lifecycle.Catalog) TransitionPolicy {
	return TransitionPolicy{catalog: catalog, eligibility: NewEligibility(catalog)}
}

// Apply returns the transitioned copy and the history record it gained.
func (p TransitionPolicy) Apply(
	a *artifact.Artifact,
	req TransitionRequest,
) (*artifact.Artifact, artifact.HistoryRecord, error) {
	if err := a.Validate(); err != nil {
		return nil, artifact.HistoryRecord{}, err
	}
	m, err := p.catalog.For(req.Department)
	if err != nil {
		return nil, artifact.HistoryRecord{}, err
	}
	if req.Owner == "" {
		return nil, artifact.HistoryRecord{}, artifact.ErrOwnerIsRequired
	}

	if err = p.checkMove(a, m, req); err != nil {
		return nil, artifact.HistoryRecord{}, err
	}

	working := a.Clone()
	shared, local := artifact.SplitShared(req.Data)
	if err = working.ApplyShared(shared); err != nil {
		return nil, artifact.HistoryRecord{}, errs.NewValidationFailedError(target(req), Problems(err))
	}

	result := m.Validate(req.To, working.Context(req.Department, local))
	if !result.Valid {
		return nil, artifact.HistoryRecord{}, errs.NewValidationFailedError(target(req), result.Errors)
	}

	record := working.RecordTransition(req.Department, req.To, req.Owner, req.Note, local, req.At)
	return working, record, nil
}

func (p TransitionPolicy) checkMove(a *artifact.Artifact, m *lifecycle.Machine, req TransitionRequest) error {
	from := a.State(req.Department).State
	scope := req.Department.String()

	if from.IsAssigned() {
		if !m.CanTransition(from, req.To) {
			return errs.NewTransitionIsNotAllowedError(scope, string(from), string(req.To))
		}
		return nil
	}

	if !m.IsEntry(req.To) {
		return errs.NewTransitionIsNotAllowedErrorWithCause(scope, "", string(req.To), ErrNotAnEntryState)
	}
	if !p.eligibility.CanAct(a, req.Department) {
		up, _ := m.Upstream()
		return errs.NewTransitionIsNotAllowedErrorWithCause(scope, "", string(req.To),
			fmt.Errorf("%w: %s must be %s", ErrUpstreamNotReady, up.Department, up.State))
	}
	return nil
}

func target(req TransitionRequest) string {
	return fmt.Sprintf("%s/%s", req.Department, req.To)
}

// Problems turns a joined error into one message per branch.
func Problems(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		out := make([]string, 0)
		for _, e := range joined.Unwrap() {
			out = append(out, Problems(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
