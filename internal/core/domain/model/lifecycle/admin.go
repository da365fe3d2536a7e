package lifecycle

import (
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
)

const (
	AdminConfirmed    artifact.State = "confirmed"
	AdminPendingDocs  artifact.State = "pendingDocs"
	AdminInProduction artifact.State = "inProduction"
	AdminDelivered    artifact.State = "delivered"
	AdminInvoiced     artifact.State = "invoiced"
	AdminPaid         artifact.State = "paid"
	AdminCancelled    artifact.State = "cancelled"
	AdminIncident     artifact.State = "incident"
)

// Incident types, shared with the notification fan-out.
const (
	IncidentQuality  = "quality"
	IncidentDelivery = "delivery"
	IncidentBilling  = "billing"
	IncidentCustomer = "customer"
)

// NewAdminMachine builds the administrative lifecycle. Administration starts
// once commercial has confirmed the order.
func NewAdminMachine() *Machine {
	return newMachine(department.Administrative, []artifact.State{AdminConfirmed},
		&Upstream{Department: department.Commercial, State: CommercialConfirmed},
		stateSpec{
			state: AdminConfirmed,
			next:  []artifact.State{AdminPendingDocs, AdminCancelled},
			fields: []FieldDescriptor{
				required("budget.total", "total budget", KindNumber),
				optional("customer.address", "billing address", KindTextarea),
				optional("budget.taxRate", "tax rate (%)", KindNumber),
			},
		},
		stateSpec{
			state: AdminPendingDocs,
			next:  []artifact.State{AdminInProduction, AdminCancelled},
			fields: []FieldDescriptor{
				required("requiredDocuments", "required documents", KindArray),
				optional("documentationDeadline", "documentation deadline", KindDate),
			},
		},
		stateSpec{
			state: AdminInProduction,
			next:  []artifact.State{AdminDelivered, AdminIncident, AdminCancelled},
			fields: []FieldDescriptor{
				required("productionStartDate", "production start date", KindDate),
				required("workshopLead", "workshop lead", KindText),
				optional("estimatedDeliveryDate", "estimated delivery date", KindDate),
			},
		},
		stateSpec{
			state: AdminDelivered,
			next:  []artifact.State{AdminInvoiced, AdminIncident},
			fields: []FieldDescriptor{
				required("actualDeliveryDate", "actual delivery date", KindDate),
				required("customerConformity", "customer conformity", KindSelect, "yes", "no", "partial"),
				optional("deliveryDocuments", "delivery documents", KindArray),
			},
		},
		stateSpec{
			state: AdminInvoiced,
			next:  []artifact.State{AdminPaid},
			fields: []FieldDescriptor{
				required("invoiceNumber", "invoice number", KindText),
				required("invoiceDate", "invoice date", KindDate),
				optional("invoicedAmount", "invoiced amount", KindNumber),
			},
		},
		stateSpec{
			state: AdminPaid,
			fields: []FieldDescriptor{
				required("paymentDate", "payment date", KindDate),
				required("paymentMethod", "payment method", KindSelect, "transfer", "cash", "cheque", "card"),
			},
		},
		stateSpec{
			state: AdminCancelled,
			fields: []FieldDescriptor{
				required("cancellationReason", "cancellation reason", KindTextarea),
			},
		},
		stateSpec{
			state: AdminIncident,
			next:  []artifact.State{AdminInProduction, AdminDelivered, AdminCancelled},
			fields: []FieldDescriptor{
				required("incidentType", "incident type", KindSelect,
					IncidentQuality, IncidentDelivery, IncidentBilling, IncidentCustomer),
				required("incidentDescription", "incident description", KindTextarea),
				optional("correctiveActions", "corrective actions", KindTextarea),
			},
		},
	)
}
