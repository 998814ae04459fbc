package metrics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"buget/internal/core"
)

type Totals struct {
	TotalIncome decimal.Decimal
	TotalDebts  decimal.Decimal
	Remaining   decimal.Decimal
}

// AggregateTotals sums the amount fields. Empty inputs sum to zero.
func AggregateTotals(incomes []core.Income, debts []core.Debt) Totals {
	income := decimal.Zero
	for _, i := range incomes {
		income = income.Add(i.Amount)
	}
	owed := decimal.Zero
	for _, d := range debts {
		owed = owed.Add(d.Amount)
	}
	return Totals{
		TotalIncome: income,
		TotalDebts:  owed,
		Remaining:   income.Sub(owed),
	}
}

// SortByDueDate returns a copy of debts ordered by ascending due date.
func SortByDueDate(debts []core.Debt) []core.Debt {
	out := slices.Clone(debts)
	slices.SortStableFunc(out, func(a, b core.Debt) int {
		return a.DueDate.Compare(b.DueDate.Time)
	})
	return out
}

// SortByDateDesc returns a copy of transactions, newest first.
func SortByDateDesc(txs []core.Transaction) []core.Transaction {
	out := slices.Clone(txs)
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return cmp.Compare(b.Date.Unix(), a.Date.Unix())
	})
	return out
}
