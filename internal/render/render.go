package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"buget/internal/core"
	"buget/internal/metrics"
)

// Renderer writes screens to one output.
type Renderer struct {
	out    io.Writer
	styles styles
}

func New(out io.Writer) *Renderer {
	return &Renderer{out: out, styles: newStyles(out)}
}

func (r *Renderer) print(s string) error {
	_, err := io.WriteString(r.out, s+"\n")
	return err
}

func (r *Renderer) Loading() error {
	return r.print(r.styles.muted.Render("Restoring session…"))
}

func (r *Renderer) Error(err error) error {
	return r.print(r.styles.bad.Render("Error: " + err.Error()))
}

// Warn prints a condition the user should act on without failing the
// command.
func (r *Renderer) Warn(msg string) error {
	return r.print(r.styles.bad.Render(msg))
}

func (r *Renderer) Notice(msg string) error {
	return r.print(r.styles.good.Render(msg))
}

func (r *Renderer) Session(s *core.Session) error {
	if s == nil {
		return r.print(r.styles.muted.Render("Not signed in."))
	}
	return r.print(fmt.Sprintf("%s %s %s",
		r.styles.label.Render("Signed in as"),
		r.styles.accent.Render(s.Identity.Email),
		r.styles.muted.Render(fmt.Sprintf("(id %d)", s.Identity.ID))))
}

func (r *Renderer) kv(label, value string) string {
	return r.styles.label.Render(cell(label, 16)) + value
}

// Dashboard prints the totals, ratios and upcoming debts of one period.
func (r *Renderer) Dashboard(d metrics.Dashboard, now time.Time) error {
	st := r.styles
	title := "Dashboard"
	if d.Period == core.PeriodNext {
		title = "Next month"
	}
	if d.MonthLabel != "" {
		title += " · " + d.MonthLabel
	}

	remaining := core.FormatRON(d.Remaining)
	if d.InDeficit() {
		remaining = st.bad.Render(remaining + "  deficit " + core.FormatRON(d.Deficit))
	} else {
		remaining = st.good.Render(remaining)
	}
	coverage := d.Coverage.String()
	if !d.Coverage.Applicable {
		coverage = st.muted.Render(coverage)
	}

	summary := strings.Join([]string{
		r.kv("Income", core.FormatRON(d.TotalIncome)+st.muted.Render(fmt.Sprintf("  (%d entries, %d recurring)", d.IncomeCount, d.Recurring.Incomes.Count))),
		r.kv("Debts", core.FormatRON(d.TotalDebts)+st.muted.Render(fmt.Sprintf("  (%d entries, %d recurring)", d.DebtCount, d.Recurring.Debts.Count))),
		r.kv("Remaining", remaining),
		r.kv("Savings rate", fmt.Sprintf("%.1f%%", d.SavingsRate)),
		r.kv("Coverage", coverage),
		r.kv("Statuses", r.statusCounts(d.Statuses)),
	}, "\n")

	parts := []string{st.title.Render(title), st.box.Render(summary)}
	if len(d.Debts) > 0 {
		parts = append(parts, r.debtRows(d.Debts, now))
	} else {
		parts = append(parts, st.muted.Render("No debts this month."))
	}
	return r.print(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (r *Renderer) statusCounts(c metrics.StatusCounts) string {
	parts := []string{
		r.styles.toned(metrics.StatusLabel(core.StatusPending).Tone, fmt.Sprintf("%d awaiting", c.Pending)),
		r.styles.toned(metrics.StatusLabel(core.StatusPaid).Tone, fmt.Sprintf("%d settled", c.Paid)),
		r.styles.toned(metrics.StatusLabel(core.StatusOverdue).Tone, fmt.Sprintf("%d late", c.Overdue)),
	}
	if c.Unrecognized > 0 {
		parts = append(parts, r.styles.bad.Render(fmt.Sprintf("(%d with unknown status)", c.Unrecognized)))
	}
	return strings.Join(parts, "  ")
}

// Debts prints the debt list sorted by due date with urgency and status.
func (r *Renderer) Debts(debts []core.Debt, now time.Time) error {
	st := r.styles
	if len(debts) == 0 {
		return r.print(st.muted.Render("No debts yet."))
	}
	sorted := metrics.SortByDueDate(debts)
	header := st.title.Render("Debts") + "  " + r.statusCounts(metrics.CountStatuses(debts))
	return r.print(header + "\n" + r.debtRows(sorted, now))
}

func (r *Renderer) debtRows(debts []core.Debt, now time.Time) string {
	st := r.styles
	lines := make([]string, 0, len(debts)+1)
	lines = append(lines, st.label.Render(
		rcell("ID", 5)+"  "+cell("Name", 24)+"  "+rcell("Amount", 16)+"  "+cell("Due", 10)+"  "+cell("When", 14)+"  "+cell("Status", 22)+"  Category"))
	for _, d := range debts {
		u := metrics.ClassifyUrgency(d.DueDate, now)
		status := metrics.StatusLabel(d.Status)
		name := cell(d.Name, 24)
		if d.IsRecurring {
			name = cell(d.Name+" ↻", 24)
		}
		when := cell(urgencyText(u), 14)
		if u.IsOverdue && d.Status != core.StatusPaid {
			when = st.bad.Render(when)
		}
		// Unknown statuses show pending semantics but stay visibly flagged.
		statusCell := st.toned(status.Tone, cell(status.Label, 22))
		if !status.Recognized {
			statusCell = st.bad.Render(cell(fmt.Sprintf("%s (%s?)", status.Label, d.Status), 22))
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s  %s  %s  %s",
			rcell(fmt.Sprint(d.ID), 5),
			name,
			rcell(core.FormatRON(d.Amount), 16),
			cell(d.DueDate.String(), 10),
			when,
			statusCell,
			string(d.Category)))
	}
	return strings.Join(lines, "\n")
}

func urgencyText(u metrics.Urgency) string {
	switch {
	case u.DaysUntilDue == 0:
		return "due today"
	case u.DaysUntilDue == 1:
		return "tomorrow"
	case u.DaysUntilDue > 1:
		return fmt.Sprintf("in %d days", u.DaysUntilDue)
	case u.DaysUntilDue == -1:
		return "1 day late"
	default:
		return fmt.Sprintf("%d days late", -u.DaysUntilDue)
	}
}

// Incomes prints the income list with its total.
func (r *Renderer) Incomes(incomes []core.Income) error {
	st := r.styles
	if len(incomes) == 0 {
		return r.print(st.muted.Render("No incomes yet."))
	}
	totals := metrics.AggregateTotals(incomes, nil)
	rec := metrics.Recurring(incomes)
	lines := []string{
		st.title.Render("Incomes") + "  " + core.FormatRON(totals.TotalIncome) +
			st.muted.Render(fmt.Sprintf("  %d recurring (%.0f%%)", rec.Count, rec.PercentOfTotal)),
		st.label.Render(rcell("ID", 5) + "  " + cell("Date", 10) + "  " + rcell("Amount", 16) + "  Description"),
	}
	for _, in := range incomes {
		desc := in.Description
		if in.IsRecurring {
			desc += " ↻"
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			rcell(fmt.Sprint(in.ID), 5), cell(in.Date.String(), 10), rcell(core.FormatRON(in.Amount), 16), desc))
	}
	return r.print(strings.Join(lines, "\n"))
}

// Transactions prints payments newest first with the debt each one paid.
func (r *Renderer) Transactions(txs []core.Transaction, debts []core.Debt) error {
	st := r.styles
	if len(txs) == 0 {
		return r.print(st.muted.Render("No payments yet."))
	}
	stats := metrics.SummarizeTransactions(txs)
	last := "—"
	if !stats.LastPayment.IsZero() {
		last = stats.LastPayment.String()
	}
	lines := []string{
		st.title.Render("Payments") + "  " +
			r.kv("Total", core.FormatRON(stats.Total)) + "  " +
			st.label.Render("Average ") + core.FormatRON(stats.Average) + "  " +
			st.label.Render("Last ") + last,
		st.label.Render(rcell("ID", 5) + "  " + cell("Date", 10) + "  " + rcell("Amount", 16) + "  " + cell("Debt", 24) + "  Note"),
	}
	for _, tx := range metrics.SortByDateDesc(txs) {
		name := metrics.ResolveDebtName(tx, debts)
		debtCell := cell(name, 24)
		if name == metrics.UnknownDebtLabel {
			debtCell = st.muted.Render(debtCell)
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s  %s",
			rcell(fmt.Sprint(tx.ID), 5), cell(tx.Date.String(), 10), rcell(core.FormatRON(tx.Amount), 16), debtCell, tx.Note))
	}
	return r.print(strings.Join(lines, "\n"))
}
