// Package notification models messages addressed to a department's inbox.
package notification

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Kinds raised by the reaction rules and the overdue scan.
const (
	KindDeliveryCompleted = "deliveryCompleted"
	KindQualityIssue      = "qualityIssue"
	KindDeliveryIssue     = "deliveryIssue"
	KindIncident          = "incident"
	KindDeliveryOverdue   = "deliveryOverdue"
)

// Notification is one inbox entry. ArtifactID may be the zero UUID for
// notifications that are not about a single artifact.
type Notification struct {
	ID         kernel.UUID           `json:"id"`
	ArtifactID kernel.UUID           `json:"artifactId"`
	Recipient  department.Department `json:"recipient"`
	Kind       string                `json:"type"`
	Message    string                `json:"message"`
	CreatedAt  time.Time             `json:"createdAt"`
	Read       bool                  `json:"read"`
}

func New(artifactID kernel.UUID, recipient department.Department, kind, message string, at time.Time) (Notification, error) {
	var problems []error
	if err := recipient.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(kind) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("kind"))
	}
	if strings.TrimSpace(message) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("message"))
	}
	if err := errors.Join(problems...); err != nil {
		return Notification{}, err
	}

	return Notification{
		ID:         kernel.NewUUID(),
		ArtifactID: artifactID,
		Recipient:  recipient,
		Kind:       kind,
		Message:    message,
		CreatedAt:  at,
	}, nil
}
