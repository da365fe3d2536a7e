package lifecycle

import (
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
)

const (
	WorkshopPendingDocs  artifact.State = "pendingDocs"
	WorkshopInProduction artifact.State = "inProduction"
	WorkshopDelivered    artifact.State = "delivered"
	WorkshopCancelled    artifact.State = "cancelled"
	WorkshopRevised      artifact.State = "revised"
	WorkshopIncident     artifact.State = "incident"
)

var productionImpactChoices = []string{"low", "medium", "high", "critical"}

// NewWorkshopMachine builds the workshop lifecycle. The workshop starts once
// administration has sent the production order.
//
// incident has outgoing moves but nothing leads into it; it is kept so that
// stores written by other tools can still be read.
func NewWorkshopMachine() *Machine {
	return newMachine(department.Workshop, []artifact.State{WorkshopPendingDocs},
		&Upstream{Department: department.Administrative, State: AdminInProduction},
		stateSpec{
			state: WorkshopPendingDocs,
			next:  []artifact.State{WorkshopInProduction},
			fields: []FieldDescriptor{
				optional("requiredProcesses", "required processes", KindArray),
				optional("assignedMaterials", "assigned materials", KindArray),
			},
		},
		stateSpec{
			state: WorkshopInProduction,
			next:  []artifact.State{WorkshopDelivered, WorkshopCancelled, WorkshopRevised},
			fields: []FieldDescriptor{
				required("productionLead", "production lead", KindText),
				required("actualStartDate", "actual start date", KindDate),
				optional("estimatedCompletionDate", "estimated completion date", KindDate),
			},
		},
		stateSpec{
			state: WorkshopDelivered,
			fields: []FieldDescriptor{
				required("qualityControl", "quality control verdict", KindSelect, "approved", "rejected", "conditional"),
				required("completionDate", "completion date", KindDate),
				optional("qualityNotes", "quality notes", KindTextarea),
				optional("qualityCertificates", "quality certificates", KindArray),
			},
		},
		stateSpec{
			state: WorkshopCancelled,
			fields: []FieldDescriptor{
				required("cancellationReason", "cancellation reason", KindTextarea),
				optional("materialUsedPercent", "material used (%)", KindNumber),
			},
		},
		stateSpec{
			state: WorkshopRevised,
			next:  []artifact.State{WorkshopInProduction, WorkshopCancelled},
			fields: []FieldDescriptor{
				required("modificationType", "modification type", KindSelect,
					"specifications", "materials", "design", "quantity"),
				required("productionImpact", "production impact", KindSelect, productionImpactChoices...),
				optional("additionalTime", "additional time (hours)", KindNumber),
				optional("additionalCost", "additional cost", KindNumber),
			},
		},
		stateSpec{
			state: WorkshopIncident,
			next:  []artifact.State{WorkshopInProduction, WorkshopCancelled},
			fields: []FieldDescriptor{
				required("problemDescription", "problem description", KindTextarea),
				optional("proposedSolution", "proposed solution", KindTextarea),
				optional("downtimeHours", "downtime (hours)", KindNumber),
				optional("requiresApproval", "requires approval", KindCheckbox),
			},
		},
	)
}
