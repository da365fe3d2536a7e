package lifecycle

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"orderflow/internal/core/domain/model/artifact"
)

// FieldKind tells a form renderer which input to draw.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindTextarea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindSelect   FieldKind = "select"
	KindArray    FieldKind = "array"
	KindCheckbox FieldKind = "checkbox"
)

// FieldDescriptor describes one input of a target state. Mandatory descriptors
// are exactly the attributes Validate enforces.
type FieldDescriptor struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Kind      FieldKind `json:"kind"`
	Mandatory bool      `json:"mandatory"`
	Choices   []string  `json:"choices,omitempty"`
}

// ValidationResult lists every problem found; it is valid when the list is empty.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func required(name, label string, kind FieldKind, choices ...string) FieldDescriptor {
	return FieldDescriptor{Name: name, Label: label, Kind: kind, Mandatory: true, Choices: choices}
}

func optional(name, label string, kind FieldKind, choices ...string) FieldDescriptor {
	return FieldDescriptor{Name: name, Label: label, Kind: kind, Choices: choices}
}

// check returns the problem with f in data, or "".
func (f FieldDescriptor) check(data artifact.Data) string {
	value, found := data.Lookup(f.Name)
	present := found && artifact.IsPresent(value)

	if !present {
		if f.Mandatory {
			if f.Kind == KindNumber {
				return fmt.Sprintf("%s: %s is required and must be greater than 0", f.Name, f.Label)
			}
			return fmt.Sprintf("%s: %s is required", f.Name, f.Label)
		}
		return ""
	}

	switch f.Kind {
	case KindNumber:
		n, ok := data.Number(f.Name)
		if !ok {
			return fmt.Sprintf("%s: %s must be a number", f.Name, f.Label)
		}
		if f.Mandatory && n <= 0 {
			return fmt.Sprintf("%s: %s is required and must be greater than 0", f.Name, f.Label)
		}
	case KindDate:
		if _, err := artifact.ParseDate(value); err != nil {
			return fmt.Sprintf("%s: %s must be a date (YYYY-MM-DD)", f.Name, f.Label)
		}
	case KindEmail:
		s, _ := value.(string)
		if _, err := mail.ParseAddress(s); err != nil {
			return fmt.Sprintf("%s: %s must be a valid email address", f.Name, f.Label)
		}
	case KindSelect:
		s, _ := value.(string)
		if len(f.Choices) > 0 && !slices.Contains(f.Choices, s) {
			return fmt.Sprintf("%s: %s must be one of %s", f.Name, f.Label, strings.Join(f.Choices, ", "))
		}
	}
	return ""
}
