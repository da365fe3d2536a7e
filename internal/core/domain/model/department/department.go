// Package department defines the closed set of organisational units that work an order.
package department

import (
	"errors"
	"fmt"
)

// ErrInvalidDepartment is the sentinel behind InvalidDepartmentError.
var ErrInvalidDepartment = errors.New("department is invalid")

// Department is one of the three units tracking an artifact. The zero value is not a department.
type Department int

const (
	Unknown Department = iota
	Commercial
	Administrative
	Workshop
)

var departmentKeys = map[Department]string{
	Commercial:     "commercial",
	Administrative: "admin",
	Workshop:       "workshop",
}

var departmentsByKey = map[string]Department{
	"commercial": Commercial,
	"admin":      Administrative,
	"workshop":   Workshop,
}

// All lists the departments in pipeline order.
func All() []Department {
	return []Department{Commercial, Administrative, Workshop}
}

// Parse maps a wire key ("commercial", "admin", "workshop") to a Department.
func Parse(key string) (Department, error) {
	d, ok := departmentsByKey[key]
	if !ok {
		return Unknown, &InvalidDepartmentError{Key: key}
	}
	return d, nil
}

// String returns the wire key, or "unknown".
func (d Department) String() string {
	if key, ok := departmentKeys[d]; ok {
		return key
	}
	return "unknown"
}

// Validate returns an InvalidDepartmentError for anything outside the closed set.
func (d Department) Validate() error {
	if _, ok := departmentKeys[d]; !ok {
		return &InvalidDepartmentError{Key: fmt.Sprintf("%d", int(d))}
	}
	return nil
}

func (d Department) MarshalText() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return []byte(d.String()), nil
}

func (d *Department) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// InvalidDepartmentError reports a department key outside the closed set.
type InvalidDepartmentError struct {
	Key string
}

func (e *InvalidDepartmentError) Error() string {
	return fmt.Sprintf("%s: %q is not one of commercial, admin, workshop", ErrInvalidDepartment, e.Key)
}

func (e *InvalidDepartmentError) Unwrap() error {
	return ErrInvalidDepartment
}
