package metrics

import (
	"github.com/shopspring/decimal"

	"buget/internal/core"
)

// Dashboard is everything the overview page shows for one period. The
// totals are the fetched ones; only the ratios and counts are derived here.
type Dashboard struct {
	Period      core.Period
	PeriodKey   string
	MonthLabel  string
	TotalIncome decimal.Decimal
	TotalDebts  decimal.Decimal
	Remaining   decimal.Decimal
	SavingsRate float64
	Coverage    Coverage
	IncomeCount int
	DebtCount   int
	Statuses    StatusCounts
	Recurring   struct {
		Incomes RecurringStats
		Debts   RecurringStats
	}
	// Deficit is the positive shortfall when debts exceed income, else zero.
	Deficit decimal.Decimal
	Incomes []core.Income
	Debts   []core.Debt
}

func (d Dashboard) InDeficit() bool {
	return d.Remaining.IsNegative()
}

func BuildDashboard(period core.Period, s core.PeriodSummary) Dashboard {
	d := Dashboard{
		Period:      period,
		PeriodKey:   s.PeriodKey,
		MonthLabel:  MonthLabel(s.PeriodKey),
		TotalIncome: s.TotalIncome,
		TotalDebts:  s.TotalDebts,
		Remaining:   s.Remaining,
		SavingsRate: SavingsRate(s.Remaining, s.TotalIncome),
		Coverage:    CoverageRatio(s.TotalIncome, s.TotalDebts),
		IncomeCount: len(s.Incomes),
		DebtCount:   len(s.Debts),
		Statuses:    CountStatuses(s.Debts),
		Deficit:     decimal.Zero,
		Incomes:     s.Incomes,
		Debts:       SortByDueDate(s.Debts),
	}
	d.Recurring.Incomes = Recurring(s.Incomes)
	d.Recurring.Debts = Recurring(s.Debts)
	if d.InDeficit() {
		d.Deficit = s.Remaining.Neg()
	}
	return d
}
