// Package reactions wires domain events back into the workflow.
//
// Rules:
//   - commercial confirmed starts admin at confirmed while admin is unassigned
//   - admin inProduction starts workshop at pendingDocs while workshop is unassigned
//   - workshop delivered moves admin to delivered and notifies commercial
//   - a commercial revision of the specifications sends an active workshop to revised
//   - a workshop problem notifies admin; an admin delivery incident notifies commercial
//   - every state change is logged
package reactions

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/application/workflow"
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/lifecycle"
	"orderflow/internal/core/domain/model/notification"
	"orderflow/internal/pkg/errs"
)

// SystemOwner owns every transition a reaction applies.
const SystemOwner = "system"

// Status values returned by the handlers.
const (
	StatusApplied  = "applied"
	StatusSkipped  = "skipped"
	StatusNotified = "notified"
	StatusLogged   = "logged"
)

// Workflow is the slice of the coordinator the rules call back into.
type Workflow interface {
	GetArtifact(ctx context.Context, id kernel.UUID) (*artifact.Artifact, error)
	ApplyTransition(ctx context.Context, t workflow.Transition) (workflow.Outcome, error)
}

// Bus is where the rules subscribe and publish their notifications.
type Bus interface {
	Subscribe(t event.Type, name string, handler eventbus.Handler)
	Publish(ctx context.Context, t event.Type, payload map[string]any) []eventbus.Result
}

// Outcome is the value a rule reports in its eventbus.Result.
type Outcome struct {
	Status     string      `json:"status"`
	ArtifactID kernel.UUID `json:"artifactId"`
	Detail     string      `json:"detail,omitempty"`
}

type rules struct {
	bus      Bus
	workflow Workflow
	logger   *slog.Logger
}

// Register subscribes every rule. Call it once at start-up.
func Register(bus Bus, wf Workflow, logger *slog.Logger) {
	r := &rules{bus: bus, workflow: wf, logger: logger.With("component", "reactions")}

	bus.Subscribe(event.CommercialOrderConfirmed, "start-admin", r.startAdmin)
	bus.Subscribe(event.AdminProductionOrderSent, "start-workshop", r.startWorkshop)
	bus.Subscribe(event.WorkshopProductionFinished, "deliver-admin", r.deliverAdmin)
	bus.Subscribe(event.CommercialOrderRevised, "revise-workshop", r.reviseWorkshop)
	bus.Subscribe(event.AdminIncidentDetected, "notify-incident", r.notifyIncident)
	bus.Subscribe(event.WorkshopProblemDetected, "notify-incident", r.notifyIncident)
	bus.Subscribe(event.SystemStateChanged, "log-state-change", r.logStateChange)
}

func (r *rules) startAdmin(ctx context.Context, e event.Event) (any, error) {
	return r.startIfUnassigned(ctx, e, department.Administrative, lifecycle.AdminConfirmed,
		"confirmed by commercial, verification started")
}

func (r *rules) startWorkshop(ctx context.Context, e event.Event) (any, error) {
	return r.startIfUnassigned(ctx, e, department.Workshop, lifecycle.WorkshopPendingDocs,
		"production order received from administration")
}

func (r *rules) startIfUnassigned(
	ctx context.Context,
	e event.Event,
	d department.Department,
	to artifact.State,
	note string,
) (any, error) {
	id, err := artifactID(e)
	if err != nil {
		return nil, err
	}
	a, err := r.workflow.GetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.State(d).State.IsAssigned() {
		return Outcome{Status: StatusSkipped, ArtifactID: id, Detail: fmt.Sprintf("%s already started", d)}, nil
	}

	if _, err = r.workflow.ApplyTransition(ctx, workflow.Transition{
		ArtifactID: id,
		Department: d,
		To:         to,
		Owner:      SystemOwner,
		Note:       note,
	}); err != nil {
		return nil, err
	}
	return Outcome{Status: StatusApplied, ArtifactID: id, Detail: fmt.Sprintf("%s/%s", d, to)}, nil
}

func (r *rules) deliverAdmin(ctx context.Context, e event.Event) (any, error) {
	id, err := artifactID(e)
	if err != nil {
		return nil, err
	}
	a, err := r.workflow.GetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	// the workshop bag holds what earlier transitions recorded, extraData only this one
	workshop := a.State(department.Workshop).Data.Merge(extraData(e))

	data := artifact.Data{
		"actualDeliveryDate": workshop["completionDate"],
		"customerConformity": conformity(workshop),
	}
	if _, err = r.workflow.ApplyTransition(ctx, workflow.Transition{
		ArtifactID: id,
		Department: department.Administrative,
		To:         lifecycle.AdminDelivered,
		Owner:      SystemOwner,
		Note:       "production finished by workshop",
		Data:       data,
	}); err != nil {
		return nil, err
	}

	r.notify(ctx, id, department.Commercial, notification.KindDeliveryCompleted, "order delivered to the customer")
	return Outcome{Status: StatusApplied, ArtifactID: id, Detail: "administrative/delivered"}, nil
}

// conformity forwards customerConformity, or derives it from the workshop's
// quality control verdict.
func conformity(workshop artifact.Data) any {
	if v, ok := workshop["customerConformity"]; ok && artifact.IsPresent(v) {
		return v
	}
	switch workshop.String("qualityControl") {
	case "approved":
		return "yes"
	case "conditional":
		return "partial"
	case "rejected":
		return "no"
	}
	return nil
}

func (r *rules) reviseWorkshop(ctx context.Context, e event.Event) (any, error) {
	id, err := artifactID(e)
	if err != nil {
		return nil, err
	}
	extra := extraData(e)
	if extra.String("modificationType") != "specifications" {
		return Outcome{Status: StatusSkipped, ArtifactID: id, Detail: "specifications unchanged"}, nil
	}

	a, err := r.workflow.GetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.State(department.Workshop).State != lifecycle.WorkshopInProduction {
		return Outcome{Status: StatusSkipped, ArtifactID: id, Detail: "workshop not in production"}, nil
	}

	if _, err = r.workflow.ApplyTransition(ctx, workflow.Transition{
		ArtifactID: id,
		Department: department.Workshop,
		To:         lifecycle.WorkshopRevised,
		Owner:      SystemOwner,
		Note:       "specification change requires review",
		Data: artifact.Data{
			"modificationType": "specifications",
			"productionImpact": extra["productionImpact"],
		},
	}); err != nil {
		return nil, err
	}
	return Outcome{Status: StatusApplied, ArtifactID: id, Detail: "workshop/revised"}, nil
}

func (r *rules) notifyIncident(ctx context.Context, e event.Event) (any, error) {
	id, err := artifactID(e)
	if err != nil {
		return nil, err
	}
	extra := extraData(e)

	switch e.Type {
	case event.WorkshopProblemDetected:
		r.notify(ctx, id, department.Administrative, notification.KindQualityIssue,
			"quality incident detected in production")
	case event.AdminIncidentDetected:
		if extra.String("incidentType") != lifecycle.IncidentDelivery {
			return Outcome{Status: StatusSkipped, ArtifactID: id, Detail: "no recipient for incident"}, nil
		}
		r.notify(ctx, id, department.Commercial, notification.KindDeliveryIssue,
			"delivery problem, the customer needs attention")
	}
	return Outcome{Status: StatusNotified, ArtifactID: id}, nil
}

func (r *rules) logStateChange(ctx context.Context, e event.Event) (any, error) {
	r.logger.InfoContext(ctx, "state changed",
		"artifact_id", e.Payload[event.KeyArtifactID],
		"department", e.Payload[event.KeyDepartment],
		"from", e.Payload[event.KeyFromState],
		"to", e.Payload[event.KeyToState],
		"owner", e.Payload[event.KeyOwner])
	return Outcome{Status: StatusLogged}, nil
}

func (r *rules) notify(ctx context.Context, id kernel.UUID, recipient department.Department, kind, message string) {
	r.bus.Publish(ctx, event.SystemNotificationRequested, event.Notification(id, recipient, kind, message))
}

func artifactID(e event.Event) (kernel.UUID, error) {
	raw, ok := e.Payload[event.KeyArtifactID].(string)
	if !ok {
		return kernel.UUID{}, errs.NewValueIsRequiredError(event.KeyArtifactID)
	}
	return kernel.UUIDFromString(raw)
}

func extraData(e event.Event) artifact.Data {
	extra, ok := e.Payload[event.KeyExtraData].(map[string]any)
	if !ok {
		return artifact.Data{}
	}
	return artifact.Data(extra)
}
