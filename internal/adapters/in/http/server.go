package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"orderflow/internal/api"
	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/application/notifications"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/application/workflow"
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// EventLog is the read side of the event bus.
type EventLog interface {
	Log(ctx context.Context, types ...event.Type) ([]event.Event, error)
}

// Server implements api.ServerInterface on top of the workflow coordinator.
type Server struct {
	coordinator     *workflow.Coordinator
	events          EventLog
	notifications   *notifications.Center
	workloadHandler queries.GetDepartmentWorkloadQueryHandler
	logger          *slog.Logger
}

func NewServer(
	coordinator *workflow.Coordinator,
	events EventLog,
	center *notifications.Center,
	workloadHandler queries.GetDepartmentWorkloadQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		coordinator:     coordinator,
		events:          events,
		notifications:   center,
		workloadHandler: workloadHandler,
		logger:          logger.With("component", "http"),
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateArtifact handles POST /api/v1/artifacts.
func (s *Server) CreateArtifact(ctx echo.Context) error {
	var body api.NewArtifact
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	draft, err := toDraft(body)
	if err != nil {
		return s.fail(ctx, err)
	}

	a, err := s.coordinator.CreateArtifact(ctx.Request().Context(), draft, body.Owner)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, a.Snapshot())
}

// GetArtifact handles GET /api/v1/artifacts/{id}.
func (s *Server) GetArtifact(ctx echo.Context, id openapi_types.UUID) error {
	artifactID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	a, err := s.coordinator.GetArtifact(ctx.Request().Context(), artifactID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, a.Snapshot())
}

// ApplyTransition handles POST /api/v1/artifacts/{id}/transitions.
func (s *Server) ApplyTransition(ctx echo.Context, id openapi_types.UUID) error {
	artifactID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	var body api.TransitionRequest
	if err = ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}
	d, err := department.Parse(body.Department)
	if err != nil {
		return s.fail(ctx, err)
	}

	out, err := s.coordinator.ApplyTransition(ctx.Request().Context(), workflow.Transition{
		ArtifactID: artifactID,
		Department: d,
		To:         artifact.State(body.ToState),
		Owner:      body.Owner,
		Note:       body.Note,
		Data:       artifact.Data(body.Data),
	})
	if err != nil {
		return s.fail(ctx, err)
	}

	result := api.TransitionResult{
		Artifact:  out.Artifact.Snapshot(),
		Record:    out.Record,
		Reactions: make([]api.Reaction, 0, len(out.Reactions)),
	}
	for _, r := range out.Reactions {
		result.Reactions = append(result.Reactions, toReaction(r))
	}
	return ctx.JSON(http.StatusOK, result)
}

// GetEligibility handles GET /api/v1/artifacts/{id}/eligibility.
func (s *Server) GetEligibility(ctx echo.Context, id openapi_types.UUID) error {
	artifactID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	eligible, err := s.coordinator.EligibleDepartments(ctx.Request().Context(), artifactID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, eligible)
}

// GetDepartmentView handles GET /api/v1/artifacts/{id}/departments/{department}.
func (s *Server) GetDepartmentView(ctx echo.Context, id openapi_types.UUID, dept string) error {
	artifactID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	d, err := department.Parse(dept)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.coordinator.DepartmentView(ctx.Request().Context(), artifactID, d)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// ListDepartmentArtifacts handles GET /api/v1/departments/{department}/artifacts.
func (s *Server) ListDepartmentArtifacts(ctx echo.Context, dept string, params api.ListDepartmentArtifactsParams) error {
	d, err := department.Parse(dept)
	if err != nil {
		return s.fail(ctx, err)
	}

	var state artifact.State
	if params.State != nil {
		state = artifact.State(*params.State)
	}

	list := s.coordinator.ListForDepartment
	if params.Actionable != nil && *params.Actionable {
		list = s.coordinator.ListActionable
	}
	artifacts, err := list(ctx.Request().Context(), d, state)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]artifact.Snapshot, len(artifacts))
	for i, a := range artifacts {
		response[i] = a.Snapshot()
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetRequiredFields handles GET /api/v1/departments/{department}/states/{state}/fields.
func (s *Server) GetRequiredFields(ctx echo.Context, dept string, state string) error {
	d, err := department.Parse(dept)
	if err != nil {
		return s.fail(ctx, err)
	}
	fields, err := s.coordinator.RequiredFields(d, artifact.State(state))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, fields)
}

// ListEvents handles GET /api/v1/events.
func (s *Server) ListEvents(ctx echo.Context, params api.ListEventsParams) error {
	var types []event.Type
	if params.Type != nil && *params.Type != "" {
		types = append(types, event.Type(*params.Type))
	}
	events, err := s.events.Log(ctx.Request().Context(), types...)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, events)
}

// ListNotifications handles GET /api/v1/notifications/{department}.
func (s *Server) ListNotifications(ctx echo.Context, dept string, params api.ListNotificationsParams) error {
	d, err := department.Parse(dept)
	if err != nil {
		return s.fail(ctx, err)
	}
	unreadOnly := params.UnreadOnly != nil && *params.UnreadOnly
	inbox, err := s.notifications.List(ctx.Request().Context(), d, unreadOnly)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, inbox)
}

// MarkNotificationRead handles POST /api/v1/notifications/{id}/read.
func (s *Server) MarkNotificationRead(ctx echo.Context, id openapi_types.UUID) error {
	notificationID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.notifications.MarkRead(ctx.Request().Context(), notificationID); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetWorkload handles GET /api/v1/metrics/workload.
func (s *Server) GetWorkload(ctx echo.Context) error {
	workload, err := s.workloadHandler.Handle(ctx.Request().Context(), queries.NewGetDepartmentWorkloadQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, workload)
}

func (s *Server) badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, api.Error{Code: http.StatusBadRequest, Message: message})
}

// fail maps domain errors to status codes. Anything unrecognised is logged
// and reported as 500 without its message.
func (s *Server) fail(ctx echo.Context, err error) error {
	var validation *errs.ValidationFailedError
	switch {
	case errors.As(err, &validation):
		return ctx.JSON(http.StatusUnprocessableEntity, api.Error{
			Code:     http.StatusUnprocessableEntity,
			Message:  "Validation failed for " + validation.Target,
			Problems: validation.Problems,
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, api.Error{Code: http.StatusNotFound, Message: err.Error()})
	case errors.Is(err, errs.ErrTransitionIsNotAllowed):
		return ctx.JSON(http.StatusConflict, api.Error{Code: http.StatusConflict, Message: err.Error()})
	case errors.Is(err, department.ErrInvalidDepartment),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, api.Error{Code: http.StatusBadRequest, Message: err.Error()})
	}

	s.logger.ErrorContext(ctx.Request().Context(), "request failed",
		"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
	return ctx.JSON(http.StatusInternalServerError, api.Error{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
	})
}

func toDraft(body api.NewArtifact) (artifact.Draft, error) {
	draft := artifact.Draft{
		Customer: artifact.Customer{
			Name:    body.Customer.Name,
			Email:   body.Customer.Email,
			Phone:   body.Customer.Phone,
			Company: body.Customer.Company,
			Address: body.Customer.Address,
		},
		Items:         body.Items,
		Specification: body.Specification,
		Priority:      artifact.Priority(body.Priority),
		Notes:         body.Notes,
	}
	if body.RequestedDeliveryDate != nil && *body.RequestedDeliveryDate != "" {
		due, err := artifact.ParseDate(*body.RequestedDeliveryDate)
		if err != nil {
			return artifact.Draft{}, errs.NewValueIsInvalidErrorWithCause("requestedDeliveryDate", err)
		}
		draft.RequestedDeliveryDate = due
	}
	if body.Budget != nil {
		draft.Budget = &artifact.Budget{
			Amount:   body.Budget.Amount,
			TaxRate:  body.Budget.TaxRate,
			Discount: body.Budget.Discount,
			Total:    body.Budget.Total,
		}
	}
	return draft, nil
}

func toReaction(r eventbus.Result) api.Reaction {
	reaction := api.Reaction{Handler: r.Handler, Value: r.Value}
	if r.Err != nil {
		reaction.Error = r.Err.Error()
	}
	return reaction
}
