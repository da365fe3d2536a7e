package lifecycle

import (
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
)

const (
	CommercialProposed  artifact.State = "proposed"
	CommercialConfirmed artifact.State = "confirmed"
	CommercialRevised   artifact.State = "revised"
	CommercialOnHold    artifact.State = "onHold"
	CommercialCancelled artifact.State = "cancelled"
)

// Modification types a commercial revision can declare.
var commercialModificationTypes = []string{
	"specifications", "deliveryDate", "budget", "customer", "items", "priority",
}

var priorityChoices = []string{"low", "normal", "high", "urgent"}

// NewCommercialMachine builds the commercial lifecycle. It is the only
// department that can always act.
func NewCommercialMachine() *Machine {
	return newMachine(department.Commercial, []artifact.State{CommercialProposed}, nil,
		stateSpec{
			state: CommercialProposed,
			next:  []artifact.State{CommercialConfirmed, CommercialCancelled},
			fields: []FieldDescriptor{
				required("customer.name", "customer name", KindText),
				required("customer.email", "customer email", KindEmail),
				optional("customer.phone", "customer phone", KindTel),
				optional("customer.company", "customer company", KindText),
				required("items", "at least one requested item", KindArray),
				optional("specification", "technical specification", KindTextarea),
				optional("priority", "priority", KindSelect, priorityChoices...),
			},
		},
		stateSpec{
			state: CommercialConfirmed,
			next:  []artifact.State{CommercialRevised, CommercialOnHold, CommercialCancelled},
			fields: []FieldDescriptor{
				required("budget.total", "total budget", KindNumber),
				required("requestedDeliveryDate", "requested delivery date", KindDate),
				optional("budget.amount", "net amount", KindNumber),
				optional("budget.taxRate", "tax rate (%)", KindNumber),
				optional("budget.discount", "discount", KindNumber),
				optional("priority", "priority", KindSelect, priorityChoices...),
			},
		},
		stateSpec{
			state: CommercialRevised,
			next:  []artifact.State{CommercialConfirmed, CommercialCancelled},
			fields: []FieldDescriptor{
				required("revisionReason", "revision reason", KindTextarea),
				required("changesDescription", "description of changes", KindTextarea),
				optional("modificationType", "modification type", KindSelect, commercialModificationTypes...),
				optional("productionImpact", "production impact", KindSelect, productionImpactChoices...),
				optional("reviewDate", "review date", KindDate),
			},
		},
		stateSpec{
			state: CommercialOnHold,
			next:  []artifact.State{CommercialConfirmed, CommercialCancelled},
			fields: []FieldDescriptor{
				required("holdReason", "hold reason", KindTextarea),
				optional("reviewDate", "review date", KindDate),
			},
		},
		stateSpec{
			state: CommercialCancelled,
			fields: []FieldDescriptor{
				required("cancellationReason", "cancellation reason", KindTextarea),
			},
		},
	)
}
