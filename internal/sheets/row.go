package sheets

import (
	"fmt"
	"time"
)

// Header is the first row of every export sheet.
var Header = []any{
	"Exported at", "Account", "Period", "Month",
	"Total income", "Total debts", "Remaining", "Savings rate %", "Coverage",
	"Pending", "Paid", "Overdue", "Recurring debts",
}

// Row lays out e in the column order of Header. Amounts are plain numbers
// so the spreadsheet can sum them.
func Row(e Export) []any {
	d := e.Dashboard
	return []any{
		e.ExportedAt.UTC().Format(time.RFC3339),
		e.Email,
		string(d.Period),
		d.PeriodKey,
		d.TotalIncome.StringFixed(2),
		d.TotalDebts.StringFixed(2),
		d.Remaining.StringFixed(2),
		fmt.Sprintf("%.1f", d.SavingsRate),
		d.Coverage.String(),
		d.Statuses.Pending,
		d.Statuses.Paid,
		d.Statuses.Overdue,
		d.Recurring.Debts.Count,
	}
}

// SheetYear is the year an export belongs to, taken from the period key and
// falling back to the export time.
func SheetYear(e Export) int {
	var y, m int
	if _, err := fmt.Sscanf(e.Dashboard.PeriodKey, "%4d-%2d", &y, &m); err == nil && y > 1900 {
		return y
	}
	return e.ExportedAt.Year()
}
