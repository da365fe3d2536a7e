package artifact

import "orderflow/internal/pkg/errs"

// DefaultTaxRate is the VAT percentage applied to new budgets.
const DefaultTaxRate = 21.0

// Budget is the monetary summary of an order. Figures are recorded as given;
// the domain does not derive the total.
type Budget struct {
	Amount   float64 `json:"amount"`
	TaxRate  float64 `json:"taxRate"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// NewBudget returns an empty budget at the default tax rate.
func NewBudget() Budget {
	return Budget{TaxRate: DefaultTaxRate}
}

func (b Budget) validate() error {
	switch {
	case b.Amount < 0:
		return errs.NewValueIsOutOfRangeError("budget.amount", b.Amount, 0, "unbounded")
	case b.TaxRate < 0 || b.TaxRate > 100:
		return errs.NewValueIsOutOfRangeError("budget.taxRate", b.TaxRate, 0, 100)
	case b.Discount < 0:
		return errs.NewValueIsOutOfRangeError("budget.discount", b.Discount, 0, "unbounded")
	case b.Total < 0:
		return errs.NewValueIsOutOfRangeError("budget.total", b.Total, 0, "unbounded")
	}
	return nil
}

func (b Budget) view() map[string]any {
	return map[string]any{
		"amount":   b.Amount,
		"taxRate":  b.TaxRate,
		"discount": b.Discount,
		"total":    b.Total,
	}
}
