package services

import (
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/lifecycle"
)

// Eligibility answers "can this department act on this artifact now".
//
// Business rules:
//   - a department holding a non-terminal state can act
//   - a department holding a terminal state cannot
//   - an unassigned department can act once its upstream department reaches the
//     required state (admin after commercial confirmed, workshop after admin inProduction)
//   - a department without upstream (commercial) can always start
type Eligibility struct {
	catalog *lifecycle.Catalog
}

func NewEligibility(catalog *lifecycle.Catalog) Eligibility {
	return Eligibility{catalog: catalog}
}

// CanAct applies the rules above. Unknown departments cannot act.
func (e Eligibility) CanAct(a *artifact.Artifact, d department.Department) bool {
	m, err := e.catalog.For(d)
	if err != nil {
		return false
	}

	current := a.State(d).State
	if current.IsAssigned() {
		return !m.IsTerminal(current)
	}

	up, hasUpstream := m.Upstream()
	if !hasUpstream {
		return true
	}
	return a.State(up.Department).State == up.State
}

// Evaluate returns CanAct for every department.
func (e Eligibility) Evaluate(a *artifact.Artifact) map[department.Department]bool {
	out := make(map[department.Department]bool, len(department.All()))
	for _, d := range department.All() {
		out[d] = e.CanAct(a, d)
	}
	return out
}
