package commands

import (
	"errors"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrNotifyOverdueDeliveriesCommandIsNotConstructed = errors.New(
		"NotifyOverdueDeliveriesCommand must be created via NewNotifyOverdueDeliveriesCommand constructor",
	)
)

// NotifyOverdueDeliveriesCommand asks for one notification per artifact whose
// requested delivery date is before AsOf while administration has not
// delivered it yet.
//
// Example:
//
//	cmd, err := NewNotifyOverdueDeliveriesCommand(time.Now())
//	if err != nil {
//	    return err
//	}
//	notified, err := handler.Handle(ctx, cmd)
type NotifyOverdueDeliveriesCommand struct {
	asOf  time.Time
	guard guard.ConstructorGuard
}

func NewNotifyOverdueDeliveriesCommand(asOf time.Time) (NotifyOverdueDeliveriesCommand, error) {
	if asOf.IsZero() {
		return NotifyOverdueDeliveriesCommand{}, errs.NewValueIsRequiredError("asOf")
	}
	return NotifyOverdueDeliveriesCommand{
		asOf:  asOf,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c NotifyOverdueDeliveriesCommand) AsOf() time.Time {
	return c.asOf
}

// Validate ensures the command was created through the constructor.
func (c NotifyOverdueDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrNotifyOverdueDeliveriesCommandIsNotConstructed)
}
