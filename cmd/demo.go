package cmd

import (
	"context"
	"fmt"
	"io"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/application/workflow"
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/lifecycle"

	"github.com/jedib0t/go-pretty/v6/table"
)

type demoStep struct {
	department department.Department
	owner      string
	to         artifact.State
	data       artifact.Data
}

// demoSteps walks one order from confirmation to delivery. Steps 1 and 5 are
// rejected: confirmation needs a budget and the workshop cannot deliver before
// production.
var demoSteps = []demoStep{
	{department.Commercial, "comercial_1", lifecycle.CommercialConfirmed, nil},
	{department.Commercial, "comercial_1", lifecycle.CommercialConfirmed, artifact.Data{
		"budget":                map[string]any{"amount": 1000.0, "taxRate": 0.21, "total": 1210.0},
		"requestedDeliveryDate": "2026-06-01",
	}},
	{department.Administrative, "admin_1", lifecycle.AdminPendingDocs, artifact.Data{
		"requiredDocuments": []any{"contract", "purchase order"},
	}},
	{department.Administrative, "admin_1", lifecycle.AdminInProduction, artifact.Data{
		"productionStartDate": "2026-03-10",
		"workshopLead":        "Lucia",
	}},
	{department.Workshop, "taller_1", lifecycle.WorkshopDelivered, artifact.Data{
		"qualityControl": "approved",
		"completionDate": "2026-04-02",
	}},
	{department.Workshop, "taller_1", lifecycle.WorkshopInProduction, artifact.Data{
		"productionLead":  "Lucia",
		"actualStartDate": "2026-03-11",
	}},
	{department.Workshop, "taller_1", lifecycle.WorkshopDelivered, artifact.Data{
		"qualityControl": "approved",
		"completionDate": "2026-04-02",
	}},
}

// RunDemo drives a sample order through the coordinator of root and prints
// every step, the resulting history, the inboxes and the workload.
func RunDemo(ctx context.Context, root *CompositionRoot, w io.Writer) error {
	coordinator := root.Coordinator()

	a, err := coordinator.CreateArtifact(ctx, artifact.Draft{
		Customer: artifact.Customer{
			Name:    "Acme",
			Email:   "orders@acme.example",
			Company: "Acme Industries",
			Address: "Main St 1",
		},
		Items:         []string{"Steel frame", "Assembly"},
		Specification: "Powder coated, RAL 7016",
		Priority:      artifact.PriorityHigh,
	}, "comercial_1")
	if err != nil {
		return fmt.Errorf("create demo artifact: %w", err)
	}
	id := a.ID()

	steps := table.NewWriter()
	steps.SetOutputMirror(w)
	steps.SetTitle("Order %s", id)
	steps.AppendHeader(table.Row{"#", "Department", "Target", "Result", "Commercial", "Admin", "Workshop"})
	for i, step := range demoSteps {
		out, err := coordinator.ApplyTransition(ctx, workflow.Transition{
			ArtifactID: id,
			Department: step.department,
			To:         step.to,
			Owner:      step.owner,
			Data:       step.data,
		})
		result := "ok"
		switch {
		case err != nil:
			result = err.Error()
		case len(out.FailedReactions()) > 0:
			result = fmt.Sprintf("ok, %d reaction(s) failed", len(out.FailedReactions()))
		}
		if a, err = coordinator.GetArtifact(ctx, id); err != nil {
			return err
		}
		steps.AppendRow(table.Row{
			i + 1, step.department, step.to, result,
			a.State(department.Commercial).State,
			a.State(department.Administrative).State,
			a.State(department.Workshop).State,
		})
	}
	steps.Render()

	history := table.NewWriter()
	history.SetOutputMirror(w)
	history.SetTitle("History")
	history.AppendHeader(table.Row{"When", "Department", "From", "To", "Owner", "Note"})
	for _, r := range a.History() {
		history.AppendRow(table.Row{
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Department, r.FromState, r.ToState, r.Owner, r.Note,
		})
	}
	history.Render()

	inbox := table.NewWriter()
	inbox.SetOutputMirror(w)
	inbox.SetTitle("Notifications")
	inbox.AppendHeader(table.Row{"Recipient", "Type", "Message"})
	for _, d := range department.All() {
		items, err := root.Notifications().List(ctx, d, false)
		if err != nil {
			return err
		}
		for _, n := range items {
			inbox.AppendRow(table.Row{n.Recipient, n.Kind, n.Message})
		}
	}
	inbox.Render()

	workload, err := root.CreateGetDepartmentWorkloadQueryHandler().Handle(ctx, queries.NewGetDepartmentWorkloadQuery())
	if err != nil {
		return err
	}
	load := table.NewWriter()
	load.SetOutputMirror(w)
	load.SetTitle("Workload")
	load.AppendHeader(table.Row{"Department", "Active", "Actionable"})
	for _, d := range workload.Departments {
		load.AppendRow(table.Row{d.Department, d.Active, d.Actionable})
	}
	load.AppendFooter(table.Row{"completed", workload.Completed, fmt.Sprintf("%.2f%%", workload.CompletionRate)})
	load.Render()
	return nil
}
