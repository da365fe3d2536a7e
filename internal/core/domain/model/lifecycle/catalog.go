package lifecycle

import (
	"orderflow/internal/core/domain/model/department"
)

// Catalog maps each department to its Machine.
type Catalog struct {
	machines map[department.Department]*Machine
}

// NewCatalog builds the three department machines.
func NewCatalog() *Catalog {
	return &Catalog{
		machines: map[department.Department]*Machine{
			department.Commercial:     NewCommercialMachine(),
			department.Administrative: NewAdminMachine(),
			department.Workshop:       NewWorkshopMachine(),
		},
	}
}

// For returns the machine of d, or an InvalidDepartmentError.
func (c *Catalog) For(d department.Department) (*Machine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return c.machines[d], nil
}

// MustFor is For for departments already validated by the caller.
func (c *Catalog) MustFor(d department.Department) *Machine {
	m, err := c.For(d)
	if err != nil {
		panic(err)
	}
	return m
}
