package services_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/lifecycle"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func proposed(t *testing.T) *artifact.Artifact {
	t.Helper()
	a, err := artifact.New(kernel.NewUUID(), artifact.Draft{
		Customer: artifact.Customer{Name: "Acme", Email: "a@acme.com", Address: "Main St 1"},
		Items:    []string{"Widget"},
	}, lifecycle.CommercialProposed, "comercial_1", now)
	require.NoError(t, err)
	return a
}

func apply(t *testing.T, p services.TransitionPolicy, a *artifact.Artifact, d department.Department, to artifact.State, data artifact.Data) *artifact.Artifact {
	t.Helper()
	next, _, err := p.Apply(a, services.TransitionRequest{Department: d, To: to, Owner: "tester", Data: data, At: now})
	require.NoError(t, err)
	return next
}

func confirmedBudget() artifact.Data {
	return artifact.Data{"budget": map[string]any{"total": 1210.0}, "requestedDeliveryDate": "2026-06-01"}
}

func TestEligibility(t *testing.T) {
	catalog := lifecycle.NewCatalog()
	policy := services.NewTransitionPolicy(catalog)
	eligibility := services.NewEligibility(catalog)

	a := proposed(t)
	assert.Equal(t, map[department.Department]bool{
		department.Commercial:     true,
		department.Administrative: false,
		department.Workshop:       false,
	}, eligibility.Evaluate(a))

	a = apply(t, policy, a, department.Commercial, lifecycle.CommercialConfirmed, confirmedBudget())
	assert.True(t, eligibility.CanAct(a, department.Administrative), "admin may start once commercial confirmed")
	assert.Equal(t, artifact.Unassigned, a.State(department.Administrative).State)
	assert.False(t, eligibility.CanAct(a, department.Workshop))

	a = apply(t, policy, a, department.Commercial, lifecycle.CommercialCancelled, artifact.Data{"cancellationReason": "budget"})
	assert.False(t, eligibility.CanAct(a, department.Commercial), "terminal state")
	assert.False(t, eligibility.CanAct(a, department.Administrative), "upstream left confirmed")
	assert.False(t, eligibility.CanAct(a, department.Unknown))
}

func TestTransitionPolicy_Apply(t *testing.T) {
	policy := services.NewTransitionPolicy(lifecycle.NewCatalog())

	t.Run("missing budget total is a validation error", func(t *testing.T) {
		a := proposed(t)

		_, _, err := policy.Apply(a, services.TransitionRequest{
			Department: department.Commercial, To: lifecycle.CommercialConfirmed, Owner: "comercial_1", At: now,
		})

		var validation *errs.ValidationFailedError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Error(), "budget.total")
		assert.Equal(t, "commercial/confirmed", validation.Target)
		assert.Len(t, a.History(), 1)
	})

	t.Run("illegal move is a transition error", func(t *testing.T) {
		a := proposed(t)

		_, _, err := policy.Apply(a, services.TransitionRequest{
			Department: department.Commercial, To: lifecycle.CommercialRevised, Owner: "comercial_1", At: now,
		})

		var transition *errs.TransitionIsNotAllowedError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, "commercial", transition.Scope)
		assert.Equal(t, "proposed", transition.From)
		assert.Equal(t, "revised", transition.To)
	})

	t.Run("unassigned department must start at an entry state", func(t *testing.T) {
		a := apply(t, policy, proposed(t), department.Commercial, lifecycle.CommercialConfirmed, confirmedBudget())

		_, _, err := policy.Apply(a, services.TransitionRequest{
			Department: department.Administrative, To: lifecycle.AdminPendingDocs, Owner: "admin_1", At: now,
			Data: artifact.Data{"requiredDocuments": []any{"po"}},
		})

		require.ErrorIs(t, err, errs.ErrTransitionIsNotAllowed)
		require.ErrorContains(t, err, services.ErrNotAnEntryState.Error())
	})

	t.Run("unassigned department must be eligible", func(t *testing.T) {
		a := proposed(t)

		_, _, err := policy.Apply(a, services.TransitionRequest{
			Department: department.Administrative, To: lifecycle.AdminConfirmed, Owner: "admin_1", At: now,
			Data: artifact.Data{"budget": map[string]any{"total": 10.0}},
		})

		require.ErrorIs(t, err, errs.ErrTransitionIsNotAllowed)
		require.ErrorContains(t, err, "commercial must be confirmed")
	})

	t.Run("shared attributes land on the artifact", func(t *testing.T) {
		a := proposed(t)

		next, record, err := policy.Apply(a, services.TransitionRequest{
			Department: department.Commercial, To: lifecycle.CommercialConfirmed, Owner: "comercial_1",
			Note: "signed", Data: artifact.Data{
				"budget":                map[string]any{"total": 1210.0, "amount": 1000.0},
				"requestedDeliveryDate": "2026-06-01",
				"paymentTerms":          "30 days",
			}, At: now.Add(time.Hour),
		})

		require.NoError(t, err)
		assert.InDelta(t, 1210.0, next.Budget().Total, 0)
		assert.Equal(t, artifact.Data{"paymentTerms": "30 days"}, next.State(department.Commercial).Data)
		assert.Equal(t, artifact.HistoryRecord{
			Timestamp: now.Add(time.Hour), Department: department.Commercial,
			FromState: lifecycle.CommercialProposed, ToState: lifecycle.CommercialConfirmed,
			Owner: "comercial_1", Note: "signed",
		}, record)

		assert.Zero(t, a.Budget().Total, "input artifact untouched")
		assert.Equal(t, lifecycle.CommercialProposed, a.State(department.Commercial).State)
	})

	t.Run("malformed shared attributes are validation errors", func(t *testing.T) {
		_, _, err := policy.Apply(proposed(t), services.TransitionRequest{
			Department: department.Commercial, To: lifecycle.CommercialConfirmed, Owner: "comercial_1", At: now,
			Data: artifact.Data{"budget": map[string]any{"total": "lots"}, "priority": "whenever"},
		})

		var validation *errs.ValidationFailedError
		require.ErrorAs(t, err, &validation)
		assert.Len(t, validation.Problems, 2)
	})

	t.Run("department data accumulates across transitions", func(t *testing.T) {
		a := apply(t, policy, proposed(t), department.Commercial, lifecycle.CommercialConfirmed, confirmedBudget())
		a = apply(t, policy, a, department.Commercial, lifecycle.CommercialOnHold, artifact.Data{"holdReason": "stock"})
		a = apply(t, policy, a, department.Commercial, lifecycle.CommercialConfirmed, artifact.Data{"reviewDate": "2026-04-01"})

		assert.Equal(t, artifact.Data{"holdReason": "stock", "reviewDate": "2026-04-01"}, a.State(department.Commercial).Data)
		assert.Len(t, a.History(), 4)
	})

	t.Run("owner is required", func(t *testing.T) {
		_, _, err := policy.Apply(proposed(t), services.TransitionRequest{
			Department: department.Commercial, To: lifecycle.CommercialCancelled, At: now,
			Data: artifact.Data{"cancellationReason": "x"},
		})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("unknown department", func(t *testing.T) {
		_, _, err := policy.Apply(proposed(t), services.TransitionRequest{Department: department.Unknown, To: "x", Owner: "o"})

		require.ErrorIs(t, err, department.ErrInvalidDepartment)
	})
}

func TestTransitionPolicy_WorkshopCannotSkipProduction(t *testing.T) {
	policy := services.NewTransitionPolicy(lifecycle.NewCatalog())
	a := apply(t, policy, proposed(t), department.Commercial, lifecycle.CommercialConfirmed, confirmedBudget())
	a = apply(t, policy, a, department.Administrative, lifecycle.AdminConfirmed, nil)
	a = apply(t, policy, a, department.Administrative, lifecycle.AdminPendingDocs, artifact.Data{"requiredDocuments": []any{"po"}})
	a = apply(t, policy, a, department.Administrative, lifecycle.AdminInProduction, artifact.Data{
		"productionStartDate": "2026-04-01", "workshopLead": "Ana",
	})
	a = apply(t, policy, a, department.Workshop, lifecycle.WorkshopPendingDocs, nil)

	_, _, err := policy.Apply(a, services.TransitionRequest{
		Department: department.Workshop, To: lifecycle.WorkshopDelivered, Owner: "taller_1", At: now,
		Data: artifact.Data{"qualityControl": "approved", "completionDate": "2026-05-01"},
	})

	var transition *errs.TransitionIsNotAllowedError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, "workshop", transition.Scope)
	assert.Equal(t, "pendingDocs", transition.From)
	assert.Equal(t, "delivered", transition.To)
}
