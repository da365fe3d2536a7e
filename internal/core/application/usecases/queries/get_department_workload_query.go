// Package queries contains read-only operations over the artifact store.
package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetDepartmentWorkloadQueryIsNotConstructed = errors.New(
		"GetDepartmentWorkloadQuery must be created via NewGetDepartmentWorkloadQuery constructor",
	)
)

// GetDepartmentWorkloadQuery counts artifacts per department and state.
//
// Example:
//
//	query := NewGetDepartmentWorkloadQuery()
//	handler := NewGetDepartmentWorkloadQueryHandler(uowFactory)
//
//	workload, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to compute workload: %w", err)
//	}
//	fmt.Printf("%d of %d orders completed\n", workload.Completed, workload.Total)
type GetDepartmentWorkloadQuery struct {
	guard guard.ConstructorGuard
}

func NewGetDepartmentWorkloadQuery() GetDepartmentWorkloadQuery {
	return GetDepartmentWorkloadQuery{guard: guard.NewConstructorGuard()}
}

func (q GetDepartmentWorkloadQuery) Validate() error {
	return q.guard.Validate(ErrGetDepartmentWorkloadQueryIsNotConstructed)
}

// DepartmentWorkload is one department's share of the work.
// ByState is keyed by state tag; "unassigned" counts artifacts the department
// has not started.
type DepartmentWorkload struct {
	Department department.Department `json:"department"`
	Active     int                   `json:"active"`
	Actionable int                   `json:"actionable"`
	ByState    map[string]int        `json:"byState"`
}

// GetDepartmentWorkloadQueryResponse summarises the store. An artifact is
// completed once administration has it paid or the workshop delivered it.
type GetDepartmentWorkloadQueryResponse struct {
	Total          int                  `json:"total"`
	Completed      int                  `json:"completed"`
	CompletionRate float64              `json:"completionRate"`
	Departments    []DepartmentWorkload `json:"departments"`
}
