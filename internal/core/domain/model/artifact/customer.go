package artifact

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Customer holds the ordering party's contact details.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c Customer) view() map[string]any {
	return map[string]any{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"company": c.Company,
		"address": c.Address,
	}
}

// Priority is the urgency the commercial department attaches to an order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists the accepted values from least to most urgent.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
}

// Validate accepts the four known priorities.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a valid priority", string(p)))
}
