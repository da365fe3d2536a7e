package artifact

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
)

// Shared attribute keys. Transition payloads that carry them update the artifact
// itself instead of the department bag.
const (
	KeyCustomer              = "customer"
	KeyItems                 = "items"
	KeySpecification         = "specification"
	KeyRequestedDeliveryDate = "requestedDeliveryDate"
	KeyPriority              = "priority"
	KeyNotes                 = "notes"
	KeyBudget                = "budget"
)

var sharedKeys = map[string]struct{}{
	KeyCustomer:              {},
	KeyItems:                 {},
	KeySpecification:         {},
	KeyRequestedDeliveryDate: {},
	KeyPriority:              {},
	KeyNotes:                 {},
	KeyBudget:                {},
}

// IsSharedKey reports whether key names an artifact-level attribute.
func IsSharedKey(key string) bool {
	_, ok := sharedKeys[key]
	return ok
}

// SplitShared separates artifact-level attributes from department-local data.
func SplitShared(extra Data) (Data, Data) {
	shared, local := Data{}, Data{}
	for k, v := range extra {
		if IsSharedKey(k) {
			shared[k] = cloneValue(v)
			continue
		}
		local[k] = cloneValue(v)
	}
	return shared, local
}

// ApplyShared writes shared attributes onto the artifact. Nested objects
// (customer, budget) are patched field by field. Nothing is written if any
// attribute is malformed.
func (a *Artifact) ApplyShared(shared Data) error {
	next := a.Clone()
	var problems []error
	for key, value := range shared {
		if err := next.applySharedValue(key, value); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}
	if err := next.budget.validate(); err != nil {
		return err
	}

	a.customer = next.customer
	a.items = next.items
	a.specification = next.specification
	a.requestedDeliveryDate = next.requestedDeliveryDate
	a.priority = next.priority
	a.notes = next.notes
	a.budget = next.budget
	return nil
}

func (a *Artifact) applySharedValue(key string, value any) error {
	switch key {
	case KeyCustomer:
		return a.patchCustomer(value)
	case KeyItems:
		items, ok := asStrings(value)
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause(key, errors.New("must be a list of strings"))
		}
		a.items = items
	case KeySpecification, KeyNotes:
		s, ok := value.(string)
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause(key, errors.New("must be a string"))
		}
		if key == KeySpecification {
			a.specification = s
		} else {
			a.notes = s
		}
	case KeyPriority:
		s, _ := value.(string)
		p := Priority(s)
		if err := p.Validate(); err != nil {
			return err
		}
		a.priority = p
	case KeyRequestedDeliveryDate:
		at, err := ParseDate(value)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause(key, err)
		}
		a.requestedDeliveryDate = at
	case KeyBudget:
		return a.patchBudget(value)
	}
	return nil
}

func (a *Artifact) patchCustomer(value any) error {
	fields, ok := asMap(value)
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause(KeyCustomer, errors.New("must be an object"))
	}
	targets := map[string]*string{
		"name":    &a.customer.Name,
		"email":   &a.customer.Email,
		"phone":   &a.customer.Phone,
		"company": &a.customer.Company,
		"address": &a.customer.Address,
	}
	for name, raw := range fields {
		target, known := targets[name]
		if !known {
			continue
		}
		s, isString := raw.(string)
		if !isString {
			return errs.NewValueIsInvalidErrorWithCause(KeyCustomer+"."+name, errors.New("must be a string"))
		}
		*target = s
	}
	return nil
}

func (a *Artifact) patchBudget(value any) error {
	fields, ok := asMap(value)
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause(KeyBudget, errors.New("must be an object"))
	}
	targets := map[string]*float64{
		"amount":   &a.budget.Amount,
		"taxRate":  &a.budget.TaxRate,
		"discount": &a.budget.Discount,
		"total":    &a.budget.Total,
	}
	for name, raw := range fields {
		target, known := targets[name]
		if !known {
			continue
		}
		n, isNumber := asNumber(raw)
		if !isNumber {
			return errs.NewValueIsInvalidErrorWithCause(KeyBudget+"."+name, errors.New("must be a number"))
		}
		*target = n
	}
	return nil
}

// ParseDate accepts time.Time values and "2006-01-02" or RFC 3339 strings.
// Date-only strings resolve to midnight UTC.
func ParseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v != nil {
			return *v, nil
		}
	case string:
		if at, err := time.Parse(time.DateOnly, v); err == nil {
			return at, nil
		}
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%q is neither a date nor an RFC 3339 timestamp", v)
		}
		return at, nil
	}
	return time.Time{}, fmt.Errorf("%v is not a date", value)
}
