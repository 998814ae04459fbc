package metrics

import (
	"testing"

	"github.com/shopspring/decimal"

	"buget/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregateTotalsEmpty(t *testing.T) {
	got := AggregateTotals(nil, []core.Debt{})
	if !got.TotalIncome.IsZero() || !got.TotalDebts.IsZero() || !got.Remaining.IsZero() {
		t.Fatalf("AggregateTotals(empty) = %+v", got)
	}
}

func TestAggregateTotals(t *testing.T) {
	incomes := []core.Income{{Amount: dec("2500.50")}, {Amount: dec("499.50")}}
	debts := []core.Debt{{Amount: dec("1200")}, {Amount: dec("0.10")}, {Amount: dec("0.20")}}

	got := AggregateTotals(incomes, debts)
	if !got.TotalIncome.Equal(dec("3000")) {
		t.Errorf("TotalIncome = %s", got.TotalIncome)
	}
	if !got.TotalDebts.Equal(dec("1200.30")) {
		t.Errorf("TotalDebts = %s", got.TotalDebts)
	}
	if !got.Remaining.Equal(dec("1799.70")) {
		t.Errorf("Remaining = %s", got.Remaining)
	}
}

func TestSortByDueDate(t *testing.T) {
	debts := []core.Debt{
		{ID: 1, DueDate: core.NewDate(2026, 12, 1)},
		{ID: 2, DueDate: core.NewDate(2026, 10, 1)},
		{ID: 3, DueDate: core.NewDate(2026, 11, 1)},
	}
	sorted := SortByDueDate(debts)
	if sorted[0].ID != 2 || sorted[1].ID != 3 || sorted[2].ID != 1 {
		t.Fatalf("unexpected order: %v", sorted)
	}
	if debts[0].ID != 1 {
		t.Fatal("input must not be reordered")
	}
}

func TestSortByDateDesc(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Date: core.NewDate(2026, 1, 1)},
		{ID: 2, Date: core.NewDate(2026, 3, 1)},
	}
	if got := SortByDateDesc(txs); got[0].ID != 2 {
		t.Fatalf("unexpected order: %v", got)
	}
}
