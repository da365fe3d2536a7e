// Package workflow applies department transitions to artifacts and announces
// them on the event bus.
//
// Writes run validate-then-commit under a per-artifact lock inside a unit of
// work. Events are published after the commit and after the lock is released,
// so reaction handlers may call back into the Coordinator for the same artifact.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/lifecycle"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Publisher is the part of the event bus the Coordinator needs.
type Publisher interface {
	Publish(ctx context.Context, t event.Type, payload map[string]any) []eventbus.Result
}

// Transition asks one department to move an artifact to To.
type Transition struct {
	ArtifactID kernel.UUID
	Department department.Department
	To         artifact.State
	Owner      string
	Note       string
	Data       artifact.Data
}

// Outcome is an accepted transition. Artifact is re-read after the reactions
// ran, so it includes whatever they changed.
type Outcome struct {
	Artifact  *artifact.Artifact
	Record    artifact.HistoryRecord
	Reactions []eventbus.Result
}

// FailedReactions returns the reaction results that carry an error.
func (o Outcome) FailedReactions() []eventbus.Result {
	return slices.DeleteFunc(slices.Clone(o.Reactions), func(r eventbus.Result) bool { return !r.Failed() })
}

type Coordinator struct {
	uowFactory  ports.UnitOfWorkFactory
	publisher   Publisher
	catalog     *lifecycle.Catalog
	policy      services.TransitionPolicy
	eligibility services.Eligibility
	locks       *keyedMutex
	clock       kernel.Clock
	newID       func() kernel.UUID
	logger      *slog.Logger
}

func NewCoordinator(
	uowFactory ports.UnitOfWorkFactory,
	publisher Publisher,
	clock kernel.Clock,
	logger *slog.Logger,
) *Coordinator {
	catalog := lifecycle.NewCatalog()
	return &Coordinator{
		uowFactory:  uowFactory,
		publisher:   publisher,
		catalog:     catalog,
		policy:      services.NewTransitionPolicy(catalog),
		eligibility: services.NewEligibility(catalog),
		locks:       newKeyedMutex(),
		clock:       clock,
		newID:       kernel.NewUUID,
		logger:      logger.With("component", "workflow"),
	}
}

// CreateArtifact proposes a new order on behalf of the commercial owner.
// The draft must satisfy the requirements of commercial's entry state.
func (c *Coordinator) CreateArtifact(ctx context.Context, draft artifact.Draft, owner string) (*artifact.Artifact, error) {
	if owner == "" {
		return nil, artifact.ErrOwnerIsRequired
	}

	commercial := c.catalog.MustFor(department.Commercial)
	entry := commercial.EntryStates()[0]
	target := fmt.Sprintf("%s/%s", department.Commercial, entry)

	a, err := artifact.New(c.newID(), draft, entry, owner, c.clock())
	if err != nil {
		return nil, errs.NewValidationFailedError(target, services.Problems(err))
	}
	if result := commercial.Validate(entry, a.Context(department.Commercial, nil)); !result.Valid {
		return nil, errs.NewValidationFailedError(target, result.Errors)
	}

	uow := c.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err = uow.ArtifactRepository().Add(ctx, a); err != nil {
		_ = uow.Rollback(ctx)
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "artifact created", "artifact_id", a.ID(), "owner", owner)

	results := c.publisher.Publish(ctx, event.CommercialOrderProposed, map[string]any{
		event.KeyArtifactID: a.ID().String(),
		event.KeyOwner:      owner,
		event.KeyArtifact:   a.Snapshot(),
	})
	c.reportFailures(ctx, a.ID(), results)
	return a, nil
}

// ApplyTransition validates and commits one department move, then publishes
// system.state.changed and, when one exists, the department-specific event.
// Nothing is written or published when the move is rejected.
func (c *Coordinator) ApplyTransition(ctx context.Context, t Transition) (Outcome, error) {
	if err := t.Department.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := t.ArtifactID.Validate(); err != nil {
		return Outcome{}, err
	}

	next, record, err := c.commit(ctx, t)
	if err != nil {
		return Outcome{}, err
	}

	c.logger.InfoContext(ctx, "transition applied",
		"artifact_id", t.ArtifactID,
		"department", t.Department,
		"from", record.FromState,
		"to", record.ToState,
		"owner", t.Owner)

	payload := event.StateChanged(t.ArtifactID, t.Department, record.FromState, record.ToState, t.Owner, t.Note, t.Data)
	results := c.publisher.Publish(ctx, event.SystemStateChanged, payload)
	if specific, ok := event.ForState(t.Department, record.ToState); ok {
		payload = event.StateChanged(t.ArtifactID, t.Department, record.FromState, record.ToState, t.Owner, t.Note, t.Data)
		results = append(results, c.publisher.Publish(ctx, specific, payload)...)
	}
	c.reportFailures(ctx, t.ArtifactID, results)

	latest, err := c.GetArtifact(ctx, t.ArtifactID)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to re-read artifact after reactions", "artifact_id", t.ArtifactID, "error", err)
		latest = next
	}
	return Outcome{Artifact: latest, Record: record, Reactions: results}, nil
}

func (c *Coordinator) commit(ctx context.Context, t Transition) (*artifact.Artifact, artifact.HistoryRecord, error) {
	unlock := c.locks.Lock(t.ArtifactID)
	defer unlock()

	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, artifact.HistoryRecord{}, err
	}
	rollback := func(err error) (*artifact.Artifact, artifact.HistoryRecord, error) {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return nil, artifact.HistoryRecord{}, err
	}

	repo := uow.ArtifactRepository()
	current, err := repo.Get(ctx, t.ArtifactID)
	if err != nil {
		return rollback(err)
	}

	next, record, err := c.policy.Apply(current, services.TransitionRequest{
		Department: t.Department,
		To:         t.To,
		Owner:      t.Owner,
		Note:       t.Note,
		Data:       t.Data,
		At:         c.clock(),
	})
	if err != nil {
		return rollback(err)
	}

	if err = repo.Update(ctx, next); err != nil {
		return rollback(err)
	}
	if err = repo.AppendHistory(ctx, next.ID(), record); err != nil {
		return rollback(err)
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, artifact.HistoryRecord{}, err
	}
	return next, record, nil
}

// GetArtifact returns the stored artifact or errs.ObjectNotFoundError.
func (c *Coordinator) GetArtifact(ctx context.Context, id kernel.UUID) (*artifact.Artifact, error) {
	return c.uowFactory.Create().ArtifactRepository().Get(ctx, id)
}

// EligibleDepartments reports, per department, whether it can act on the artifact now.
func (c *Coordinator) EligibleDepartments(ctx context.Context, id kernel.UUID) (map[department.Department]bool, error) {
	a, err := c.GetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.eligibility.Evaluate(a), nil
}

// ListForDepartment returns the artifacts d has started working, optionally
// only those in state. Oldest first.
func (c *Coordinator) ListForDepartment(ctx context.Context, d department.Department, state artifact.State) ([]*artifact.Artifact, error) {
	return c.list(ctx, d, state, func(a *artifact.Artifact) bool {
		return a.State(d).State.IsAssigned()
	})
}

// ListActionable returns the artifacts d can act on now, including those it
// could start but has not.
func (c *Coordinator) ListActionable(ctx context.Context, d department.Department, state artifact.State) ([]*artifact.Artifact, error) {
	return c.list(ctx, d, state, func(a *artifact.Artifact) bool {
		return c.eligibility.CanAct(a, d)
	})
}

func (c *Coordinator) list(
	ctx context.Context,
	d department.Department,
	state artifact.State,
	keep func(*artifact.Artifact) bool,
) ([]*artifact.Artifact, error) {
	m, err := c.catalog.For(d)
	if err != nil {
		return nil, err
	}
	if state.IsAssigned() && !m.IsKnown(state) {
		return nil, unknownState(d, state)
	}

	all, err := c.uowFactory.Create().ArtifactRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*artifact.Artifact, 0, len(all))
	for _, a := range all {
		if !keep(a) {
			continue
		}
		if state.IsAssigned() && a.State(d).State != state {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// RequiredFields describes the input state expects from d.
func (c *Coordinator) RequiredFields(d department.Department, state artifact.State) ([]lifecycle.FieldDescriptor, error) {
	m, err := c.catalog.For(d)
	if err != nil {
		return nil, err
	}
	if !m.IsKnown(state) {
		return nil, unknownState(d, state)
	}
	return m.RequiredFields(state), nil
}

func (c *Coordinator) reportFailures(ctx context.Context, id kernel.UUID, results []eventbus.Result) {
	for _, r := range results {
		if r.Failed() {
			c.logger.WarnContext(ctx, "reaction failed",
				"artifact_id", id, "handler_name", r.Handler, "error", r.Err)
		}
	}
}

func unknownState(d department.Department, state artifact.State) error {
	return errs.NewValueIsInvalidErrorWithCause("state",
		fmt.Errorf("%s is not a %s state", state, d))
}
