package queries

import (
	"context"
	"math"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/lifecycle"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// GetDepartmentWorkloadQueryHandler reads every artifact once and aggregates
// in memory, so it works the same over both stores.
type GetDepartmentWorkloadQueryHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	eligibility services.Eligibility
}

func NewGetDepartmentWorkloadQueryHandler(uowFactory ports.UnitOfWorkFactory) GetDepartmentWorkloadQueryHandler {
	return GetDepartmentWorkloadQueryHandler{
		uowFactory:  uowFactory,
		eligibility: services.NewEligibility(lifecycle.NewCatalog()),
	}
}

func (h GetDepartmentWorkloadQueryHandler) Handle(
	ctx context.Context,
	query GetDepartmentWorkloadQuery,
) (GetDepartmentWorkloadQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDepartmentWorkloadQueryResponse{}, err
	}

	artifacts, err := h.uowFactory.Create().ArtifactRepository().GetAll(ctx)
	if err != nil {
		return GetDepartmentWorkloadQueryResponse{}, err
	}

	resp := GetDepartmentWorkloadQueryResponse{
		Total:       len(artifacts),
		Departments: make([]DepartmentWorkload, 0, len(department.All())),
	}
	for _, d := range department.All() {
		resp.Departments = append(resp.Departments, h.workload(artifacts, d))
	}

	for _, a := range artifacts {
		if isCompleted(a) {
			resp.Completed++
		}
	}
	if resp.Total > 0 {
		rate := float64(resp.Completed) / float64(resp.Total) * 100
		resp.CompletionRate = math.Round(rate*100) / 100
	}
	return resp, nil
}

func (h GetDepartmentWorkloadQueryHandler) workload(artifacts []*artifact.Artifact, d department.Department) DepartmentWorkload {
	w := DepartmentWorkload{Department: d, ByState: make(map[string]int)}
	for _, a := range artifacts {
		state := a.State(d).State
		w.ByState[state.String()]++
		if state.IsAssigned() {
			w.Active++
		}
		if h.eligibility.CanAct(a, d) {
			w.Actionable++
		}
	}
	return w
}

func isCompleted(a *artifact.Artifact) bool {
	return a.State(department.Administrative).State == lifecycle.AdminPaid ||
		a.State(department.Workshop).State == lifecycle.WorkshopDelivered
}
