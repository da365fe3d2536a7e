// Package api holds the HTTP contract: the OpenAPI document, the request and
// response types, and the echo wiring that binds path and query parameters
// before calling a ServerInterface.
package api

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

//go:embed openapi.yaml
var document []byte

// Error is the body of every non-2xx response.
type Error struct {
	Code     int      `json:"code"`
	Message  string   `json:"message"`
	Problems []string `json:"problems,omitempty"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
}

type Budget struct {
	Amount   float64 `json:"amount"`
	TaxRate  float64 `json:"taxRate"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// NewArtifact is the body of CreateArtifact.
type NewArtifact struct {
	Owner                 string   `json:"owner"`
	Customer              Customer `json:"customer"`
	Items                 []string `json:"items"`
	Specification         string   `json:"specification,omitempty"`
	RequestedDeliveryDate *string  `json:"requestedDeliveryDate,omitempty"`
	Priority              string   `json:"priority,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
	Budget                *Budget  `json:"budget,omitempty"`
}

// TransitionRequest is the body of ApplyTransition.
type TransitionRequest struct {
	Department string         `json:"department"`
	ToState    string         `json:"toState"`
	Owner      string         `json:"owner"`
	Note       string         `json:"note,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Reaction reports one handler that ran after the transition.
type Reaction struct {
	Handler string `json:"handler"`
	Value   any    `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}

type TransitionResult struct {
	Artifact  any        `json:"artifact"`
	Record    any        `json:"record"`
	Reactions []Reaction `json:"reactions"`
}

type ListDepartmentArtifactsParams struct {
	State      *string `form:"state,omitempty" json:"state,omitempty"`
	Actionable *bool   `form:"actionable,omitempty" json:"actionable,omitempty"`
}

type ListEventsParams struct {
	Type *string `form:"type,omitempty" json:"type,omitempty"`
}

type ListNotificationsParams struct {
	UnreadOnly *bool `form:"unreadOnly,omitempty" json:"unreadOnly,omitempty"`
}

// ServerInterface is implemented by the HTTP adapter.
type ServerInterface interface {
	// (GET /health)
	GetHealth(ctx echo.Context) error
	// (POST /api/v1/artifacts)
	CreateArtifact(ctx echo.Context) error
	// (GET /api/v1/artifacts/{id})
	GetArtifact(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/artifacts/{id}/transitions)
	ApplyTransition(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/artifacts/{id}/eligibility)
	GetEligibility(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/artifacts/{id}/departments/{department})
	GetDepartmentView(ctx echo.Context, id openapi_types.UUID, department string) error
	// (GET /api/v1/departments/{department}/artifacts)
	ListDepartmentArtifacts(ctx echo.Context, department string, params ListDepartmentArtifactsParams) error
	// (GET /api/v1/departments/{department}/states/{state}/fields)
	GetRequiredFields(ctx echo.Context, department string, state string) error
	// (GET /api/v1/events)
	ListEvents(ctx echo.Context, params ListEventsParams) error
	// (GET /api/v1/notifications/{department})
	ListNotifications(ctx echo.Context, department string, params ListNotificationsParams) error
	// (POST /api/v1/notifications/{id}/read)
	MarkNotificationRead(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/metrics/workload)
	GetWorkload(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func pathParam(ctx echo.Context, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func queryParam(ctx echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

func (w *ServerInterfaceWrapper) CreateArtifact(ctx echo.Context) error {
	return w.Handler.CreateArtifact(ctx)
}

func (w *ServerInterfaceWrapper) GetArtifact(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := pathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.GetArtifact(ctx, id)
}

func (w *ServerInterfaceWrapper) ApplyTransition(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := pathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.ApplyTransition(ctx, id)
}

func (w *ServerInterfaceWrapper) GetEligibility(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := pathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.GetEligibility(ctx, id)
}

func (w *ServerInterfaceWrapper) GetDepartmentView(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := pathParam(ctx, "id", &id); err != nil {
		return err
	}
	var department string
	if err := pathParam(ctx, "department", &department); err != nil {
		return err
	}
	return w.Handler.GetDepartmentView(ctx, id, department)
}

func (w *ServerInterfaceWrapper) ListDepartmentArtifacts(ctx echo.Context) error {
	var department string
	if err := pathParam(ctx, "department", &department); err != nil {
		return err
	}
	var params ListDepartmentArtifactsParams
	if err := queryParam(ctx, "state", &params.State); err != nil {
		return err
	}
	if err := queryParam(ctx, "actionable", &params.Actionable); err != nil {
		return err
	}
	return w.Handler.ListDepartmentArtifacts(ctx, department, params)
}

func (w *ServerInterfaceWrapper) GetRequiredFields(ctx echo.Context) error {
	var department, state string
	if err := pathParam(ctx, "department", &department); err != nil {
		return err
	}
	if err := pathParam(ctx, "state", &state); err != nil {
		return err
	}
	return w.Handler.GetRequiredFields(ctx, department, state)
}

func (w *ServerInterfaceWrapper) ListEvents(ctx echo.Context) error {
	var params ListEventsParams
	if err := queryParam(ctx, "type", &params.Type); err != nil {
		return err
	}
	return w.Handler.ListEvents(ctx, params)
}

func (w *ServerInterfaceWrapper) ListNotifications(ctx echo.Context) error {
	var department string
	if err := pathParam(ctx, "department", &department); err != nil {
		return err
	}
	var params ListNotificationsParams
	if err := queryParam(ctx, "unreadOnly", &params.UnreadOnly); err != nil {
		return err
	}
	return w.Handler.ListNotifications(ctx, department, params)
}

func (w *ServerInterfaceWrapper) MarkNotificationRead(ctx echo.Context) error {
	var id openapi_types.UUID
	if err := pathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.MarkNotificationRead(ctx, id)
}

func (w *ServerInterfaceWrapper) GetWorkload(ctx echo.Context) error {
	return w.Handler.GetWorkload(ctx)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation of the document on router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET("/health", w.GetHealth)
	router.POST("/api/v1/artifacts", w.CreateArtifact)
	router.GET("/api/v1/artifacts/:id", w.GetArtifact)
	router.POST("/api/v1/artifacts/:id/transitions", w.ApplyTransition)
	router.GET("/api/v1/artifacts/:id/eligibility", w.GetEligibility)
	router.GET("/api/v1/artifacts/:id/departments/:department", w.GetDepartmentView)
	router.GET("/api/v1/departments/:department/artifacts", w.ListDepartmentArtifacts)
	router.GET("/api/v1/departments/:department/states/:state/fields", w.GetRequiredFields)
	router.GET("/api/v1/events", w.ListEvents)
	router.GET("/api/v1/notifications/:department", w.ListNotifications)
	router.POST("/api/v1/notifications/:id/read", w.MarkNotificationRead)
	router.GET("/api/v1/metrics/workload", w.GetWorkload)
}

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("error loading openapi document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("openapi document is invalid: %w", err)
	}
	return doc, nil
}
