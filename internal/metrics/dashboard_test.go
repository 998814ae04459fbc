package metrics

import (
	"math"
	"testing"

	"buget/internal/core"
)

func TestRecurring(t *testing.T) {
	if got := Recurring([]core.Income{}); got != (RecurringStats{}) {
		t.Fatalf("empty = %+v", got)
	}
	got := Recurring([]core.Debt{{IsRecurring: true}, {}, {IsRecurring: true}, {}})
	if got.Count != 2 || got.PercentOfTotal != 50 {
		t.Fatalf("Recurring() = %+v", got)
	}
}

func TestMonthLabel(t *testing.T) {
	cases := map[string]string{
		"2026-10": "October 2026",
		"2027-01": "January 2027",
		"2026-13": "2026-13",
		"garbage": "garbage",
		"":        "",
	}
	for in, want := range cases {
		if got := MonthLabel(in); got != want {
			t.Errorf("MonthLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildDashboardScenario(t *testing.T) {
	incomes := []core.Income{{ID: 1, Amount: dec("3000"), IsRecurring: true}}
	debts := []core.Debt{{ID: 2, Amount: dec("1200"), Status: core.StatusPending}}
	totals := AggregateTotals(incomes, debts)

	summary := core.PeriodSummary{
		PeriodKey:   "2026-10",
		TotalIncome: totals.TotalIncome,
		TotalDebts:  totals.TotalDebts,
		Remaining:   totals.Remaining,
		Incomes:     incomes,
		Debts:       debts,
	}
	d := BuildDashboard(core.PeriodCurrent, summary)

	if !d.Remaining.Equal(dec("1800")) || d.InDeficit() || !d.Deficit.IsZero() {
		t.Fatalf("unexpected remaining %s deficit %s", d.Remaining, d.Deficit)
	}
	if math.Abs(d.SavingsRate-60) > 1e-9 {
		t.Errorf("SavingsRate = %v", d.SavingsRate)
	}
	if !d.Coverage.Applicable || math.Abs(d.Coverage.Percent-250) > 1e-9 {
		t.Errorf("Coverage = %+v", d.Coverage)
	}
	if d.MonthLabel != "October 2026" || d.Recurring.Incomes.Count != 1 || d.Statuses.Pending != 1 {
		t.Errorf("unexpected dashboard %+v", d)
	}
}

func TestBuildDashboardDeficit(t *testing.T) {
	d := BuildDashboard(core.PeriodNext, core.PeriodSummary{
		TotalIncome: dec("1000"),
		TotalDebts:  dec("1500"),
		Remaining:   dec("-500"),
	})
	if !d.InDeficit() || !d.Deficit.Equal(dec("500")) {
		t.Fatalf("expected deficit of 500, got %s", d.Deficit)
	}
	if d.MonthLabel != "" || d.IncomeCount != 0 {
		t.Fatalf("unexpected dashboard %+v", d)
	}
}
