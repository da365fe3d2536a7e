// Package event defines the messages published on the workflow bus.
package event

import (
	"time"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
)

// Type identifies what happened. Subscribers register against a Type.
type Type string

const (
	CommercialOrderProposed     Type = "commercial.order.proposed"
	CommercialOrderConfirmed    Type = "commercial.order.confirmed"
	CommercialOrderRevised      Type = "commercial.order.revised"
	CommercialOrderCancelled    Type = "commercial.order.cancelled"
	AdminDocumentationVerified  Type = "admin.documentation.verified"
	AdminProductionOrderSent    Type = "admin.production_order.sent"
	AdminOrderDelivered         Type = "admin.order.delivered"
	AdminInvoiceCreated         Type = "admin.invoice.created"
	AdminPaymentRegistered      Type = "admin.payment.registered"
	AdminIncidentDetected       Type = "admin.incident.detected"
	WorkshopProductionStarted   Type = "workshop.production.started"
	WorkshopProductionFinished  Type = "workshop.production.finished"
	WorkshopRevisionRequired    Type = "workshop.revision.required"
	WorkshopProblemDetected     Type = "workshop.problem.detected"
	SystemStateChanged          Type = "system.state.changed"
	SystemNotificationRequested Type = "system.notification.required"
)

// Payload keys carried by every state-change event.
const (
	KeyArtifactID = "artifactId"
	KeyDepartment = "department"
	KeyFromState  = "fromState"
	KeyToState    = "toState"
	KeyOwner      = "owner"
	KeyNote       = "note"
	KeyExtraData  = "extraData"
	KeyArtifact   = "artifact"
)

// Notification payload keys.
const (
	KeyRecipient = "recipient"
	KeyKind      = "type"
	KeyMessage   = "message"
)

// Event is one published message. Payload is a free-form map so that handlers
// written against different events share one signature.
type Event struct {
	ID        kernel.UUID    `json:"id"`
	Type      Type           `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// New stamps a payload with a fresh id.
func New(t Type, payload map[string]any, at time.Time) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{ID: kernel.NewUUID(), Type: t, Payload: payload, Timestamp: at}
}

type stateKey struct {
	department department.Department
	state      artifact.State
}

var specific = map[stateKey]Type{
	{department.Commercial, "proposed"}:         CommercialOrderProposed,
	{department.Commercial, "confirmed"}:        CommercialOrderConfirmed,
	{department.Commercial, "revised"}:          CommercialOrderRevised,
	{department.Commercial, "cancelled"}:        CommercialOrderCancelled,
	{department.Administrative, "pendingDocs"}:  AdminDocumentationVerified,
	{department.Administrative, "inProduction"}: AdminProductionOrderSent,
	{department.Administrative, "delivered"}:    AdminOrderDelivered,
	{department.Administrative, "invoiced"}:     AdminInvoiceCreated,
	{department.Administrative, "paid"}:         AdminPaymentRegistered,
	{department.Administrative, "incident"}:     AdminIncidentDetected,
	{department.Workshop, "inProduction"}:       WorkshopProductionStarted,
	{department.Workshop, "delivered"}:          WorkshopProductionFinished,
	{department.Workshop, "revised"}:            WorkshopRevisionRequired,
	{department.Workshop, "incident"}:           WorkshopProblemDetected,
}

// ForState returns the department-specific event raised when d enters s.
// States without one (commercial onHold, admin confirmed, ...) report false.
func ForState(d department.Department, s artifact.State) (Type, bool) {
	t, ok := specific[stateKey{department: d, state: s}]
	return t, ok
}

// StateChanged builds the payload shared by system.state.changed and the
// department-specific events.
func StateChanged(id kernel.UUID, d department.Department, from, to artifact.State, owner, note string, extra artifact.Data) map[string]any {
	if extra == nil {
		extra = artifact.Data{}
	}
	return map[string]any{
		KeyArtifactID: id.String(),
		KeyDepartment: d.String(),
		KeyFromState:  string(from),
		KeyToState:    string(to),
		KeyOwner:      owner,
		KeyNote:       note,
		KeyExtraData:  map[string]any(extra.Clone()),
	}
}

// Notification builds a system.notification.required payload.
func Notification(id kernel.UUID, recipient department.Department, kind, message string) map[string]any {
	return map[string]any{
		KeyArtifactID: id.String(),
		KeyRecipient:  recipient.String(),
		KeyKind:       kind,
		KeyMessage:    message,
	}
}
