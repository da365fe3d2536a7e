package queries_test

import (
	"testing"
	"time"

	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type GetDepartmentWorkloadQueryHandlerTestSuite struct {
	suite.Suite
	factory *memory.UnitOfWorkFactory
	handler queries.GetDepartmentWorkloadQueryHandler
}

func (suite *GetDepartmentWorkloadQueryHandlerTestSuite) SetupTest() {
	suite.factory = memory.NewUnitOfWorkFactory(memory.NewStore())
	suite.handler = queries.NewGetDepartmentWorkloadQueryHandler(suite.factory)
}

func (suite *GetDepartmentWorkloadQueryHandlerTestSuite) add(moves ...func(a *artifact.Artifact)) {
	a, err := artifact.New(kernel.NewUUID(), artifact.Draft{
		Customer: artifact.Customer{Name: "Acme", Email: "a@acme.com"},
		Items:    []string{"Widget"},
	}, lifecycle.CommercialProposed, "comercial_1", now)
	suite.Require().NoError(err)
	for _, move := range moves {
		move(a)
	}
	suite.Require().NoError(suite.factory.Create().ArtifactRepository().Add(suite.T().Context(), a))
}

func at(d department.Department, s artifact.State) func(a *artifact.Artifact) {
	return func(a *artifact.Artifact) {
		a.RecordTransition(d, s, "tester", "", nil, now)
	}
}

func (suite *GetDepartmentWorkloadQueryHandlerTestSuite) TestHandle_EmptyStore() {
	resp, err := suite.handler.Handle(suite.T().Context(), queries.NewGetDepartmentWorkloadQuery())

	suite.Require().NoError(err)
	suite.Equal(0, resp.Total)
	suite.Equal(0.0, resp.CompletionRate)
	suite.Len(resp.Departments, 3)
}

func (suite *GetDepartmentWorkloadQueryHandlerTestSuite) TestHandle_CountsPerDepartment() {
	suite.add()
	suite.add(at(department.Commercial, lifecycle.CommercialConfirmed))
	suite.add(
		at(department.Commercial, lifecycle.CommercialConfirmed),
		at(department.Administrative, lifecycle.AdminConfirmed),
		at(department.Administrative, lifecycle.AdminPaid),
	)

	resp, err := suite.handler.Handle(suite.T().Context(), queries.NewGetDepartmentWorkloadQuery())
	suite.Require().NoError(err)

	suite.Equal(3, resp.Total)
	suite.Equal(1, resp.Completed)
	suite.InDelta(33.33, resp.CompletionRate, 0.001)

	commercial := resp.Departments[0]
	suite.Equal(department.Commercial, commercial.Department)
	suite.Equal(3, commercial.Active)
	suite.Equal(map[string]int{"proposed": 1, "confirmed": 2}, commercial.ByState)

	admin := resp.Departments[1]
	suite.Equal(1, admin.Active)
	suite.Equal(1, admin.Actionable, "only the confirmed order may be started; paid is terminal")
	suite.Equal(map[string]int{"unassigned": 2, "paid": 1}, admin.ByState)
}

func TestGetDepartmentWorkloadQueryHandler(t *testing.T) {
	suite.Run(t, new(GetDepartmentWorkloadQueryHandlerTestSuite))
}

func TestGetDepartmentWorkloadQuery_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var query queries.GetDepartmentWorkloadQuery

	err := query.Validate()

	require.Error(t, err)
	assert.Equal(t, queries.ErrGetDepartmentWorkloadQueryIsNotConstructed, err)
}
