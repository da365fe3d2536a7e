package lifecycle_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommercialValidation(t *testing.T) {
	m := lifecycle.NewCommercialMachine()

	t.Run("proposed needs customer and items", func(t *testing.T) {
		result := m.Validate(lifecycle.CommercialProposed, artifact.Data{
			"customer": map[string]any{"name": "Acme"},
			"items":    []string{},
		})

		assert.False(t, result.Valid)
		assert.Equal(t, []string{
			"customer.email: customer email is required",
			"items: at least one requested item is required",
		}, result.Errors)
	})

	t.Run("proposed accepts a complete draft", func(t *testing.T) {
		result := m.Validate(lifecycle.CommercialProposed, artifact.Data{
			"customer": map[string]any{"name": "Acme", "email": "a@acme.com"},
			"items":    []any{"Widget"},
			"priority": "normal",
		})

		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("confirmed names the total budget field", func(t *testing.T) {
		result := m.Validate(lifecycle.CommercialConfirmed, artifact.Data{
			"budget":                map[string]any{"total": 0.0},
			"requestedDeliveryDate": "2026-06-01",
		})

		require.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "budget.total")
	})

	t.Run("confirmed rejects a negative total", func(t *testing.T) {
		result := m.Validate(lifecycle.CommercialConfirmed, artifact.Data{
			"budget":                map[string]any{"total": -10.0},
			"requestedDeliveryDate": time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		})

		assert.Equal(t, []string{"budget.total: total budget is required and must be greater than 0"}, result.Errors)
	})

	t.Run("revised needs reason and description", func(t *testing.T) {
		result := m.Validate(lifecycle.CommercialRevised, artifact.Data{"revisionReason": "scope"})

		assert.Equal(t, []string{"changesDescription: description of changes is required"}, result.Errors)
	})
}

func TestAdminValidation(t *testing.T) {
	m := lifecycle.NewAdminMachine()

	testCases := []struct {
		name     string
		state    artifact.State
		data     artifact.Data
		problems int
	}{
		{"confirmed without address", lifecycle.AdminConfirmed, artifact.Data{"budget": map[string]any{"total": 5.0}}, 0},
		{"confirmed without budget", lifecycle.AdminConfirmed, artifact.Data{
			"customer": map[string]any{"address": "Main St 1"},
		}, 1},
		{"pendingDocs empty list", lifecycle.AdminPendingDocs, artifact.Data{"requiredDocuments": []any{}}, 1},
		{"inProduction complete", lifecycle.AdminInProduction, artifact.Data{
			"productionStartDate": "2026-04-01", "workshopLead": "Ana",
		}, 0},
		{"inProduction bad date", lifecycle.AdminInProduction, artifact.Data{
			"productionStartDate": "soon", "workshopLead": "Ana",
		}, 1},
		{"delivered bad conformity", lifecycle.AdminDelivered, artifact.Data{
			"actualDeliveryDate": "2026-04-02", "customerConformity": "maybe",
		}, 1},
		{"paid missing both", lifecycle.AdminPaid, artifact.Data{}, 2},
		{"paid complete", lifecycle.AdminPaid, artifact.Data{"paymentDate": "2026-05-01", "paymentMethod": "card"}, 0},
		{"incident complete", lifecycle.AdminIncident, artifact.Data{
			"incidentType": "delivery", "incidentDescription": "late truck",
		}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := m.Validate(tc.state, tc.data)

			assert.Len(t, result.Errors, tc.problems, result.Errors)
			assert.Equal(t, tc.problems == 0, result.Valid)
		})
	}
}

func TestWorkshopValidation(t *testing.T) {
	m := lifecycle.NewWorkshopMachine()

	assert.True(t, m.Validate(lifecycle.WorkshopPendingDocs, artifact.Data{}).Valid)

	result := m.Validate(lifecycle.WorkshopDelivered, artifact.Data{"qualityControl": "approved"})
	assert.Equal(t, []string{"completionDate: completion date is required"}, result.Errors)

	result = m.Validate(lifecycle.WorkshopRevised, artifact.Data{
		"modificationType": "specifications", "productionImpact": "huge",
	})
	assert.Equal(t, []string{"productionImpact: production impact must be one of low, medium, high, critical"}, result.Errors)
}

func TestValidate_IsIdempotent(t *testing.T) {
	catalog := lifecycle.NewCatalog()
	data := artifact.Data{"budget": map[string]any{"total": 0.0}, "holdReason": ""}

	for _, d := range department.All() {
		m := catalog.MustFor(d)
		for _, s := range m.States() {
			first := m.Validate(s, data)
			second := m.Validate(s, data)
			assert.Equal(t, first, second, "%s/%s", m.Department(), s)
		}
	}
	assert.Equal(t, artifact.Data{"budget": map[string]any{"total": 0.0}, "holdReason": ""}, data)
}

func TestValidate_UnknownStateIsTriviallyValid(t *testing.T) {
	result := lifecycle.NewAdminMachine().Validate("bogus", artifact.Data{})

	assert.True(t, result.Valid)
	assert.NotNil(t, result.Errors)
}

func TestRequiredFields(t *testing.T) {
	m := lifecycle.NewAdminMachine()

	fields := m.RequiredFields(lifecycle.AdminPaid)

	require.Len(t, fields, 2)
	assert.Equal(t, lifecycle.FieldDescriptor{
		Name:      "paymentMethod",
		Label:     "payment method",
		Kind:      lifecycle.KindSelect,
		Mandatory: true,
		Choices:   []string{"transfer", "cash", "cheque", "card"},
	}, fields[1])

	fields[1].Choices[0] = "bitcoin"
	assert.Equal(t, "transfer", m.RequiredFields(lifecycle.AdminPaid)[1].Choices[0])

	assert.Empty(t, m.RequiredFields("bogus"))
}

func TestRequiredFields_MandatoryMatchesValidate(t *testing.T) {
	catalog := lifecycle.NewCatalog()
	for _, d := range department.All() {
		m := catalog.MustFor(d)
		for _, s := range m.States() {
			mandatory := 0
			for _, f := range m.RequiredFields(s) {
				if f.Mandatory {
					mandatory++
				}
			}
			assert.Len(t, m.Validate(s, artifact.Data{}).Errors, mandatory, "%s/%s", m.Department(), s)
		}
	}
}
