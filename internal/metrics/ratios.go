package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NotApplicable is how a coverage ratio without debts is rendered.
const NotApplicable = "—"

var hundred = decimal.NewFromInt(100)

// SavingsRate is remaining/totalIncome*100, or 0 when there is no income.
// It is negative for a deficit.
func SavingsRate(remaining, totalIncome decimal.Decimal) float64 {
	if !totalIncome.IsPositive() {
		return 0
	}
	return remaining.Div(totalIncome).Mul(hundred).InexactFloat64()
}

// Coverage is the income/debt ratio in percent. Applicable is false when
// there were no debts to cover, which is distinct from 0% coverage.
type Coverage struct {
	Percent    float64
	Applicable bool
}

func CoverageRatio(totalIncome, totalDebts decimal.Decimal) Coverage {
	if !totalDebts.IsPositive() {
		return Coverage{}
	}
	return Coverage{
		Percent:    totalIncome.Div(totalDebts).Mul(hundred).InexactFloat64(),
		Applicable: true,
	}
}

func (c Coverage) String() string {
	if !c.Applicable {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", c.Percent)
}
