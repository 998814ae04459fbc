package metrics

import "buget/internal/core"

// StatusPresentation is how a debt status is shown.
type StatusPresentation struct {
	Label string
	Icon  string
	Tone  string
	// Recognized is false when the status was not one of the known values
	// and pending semantics were substituted.
	Recognized bool
}

var statusPresentations = map[core.DebtStatus]StatusPresentation{
	core.StatusPending: {Label: "awaiting", Icon: "clock", Tone: "yellow", Recognized: true},
	core.StatusPaid:    {Label: "settled", Icon: "check-circle", Tone: "green", Recognized: true},
	core.StatusOverdue: {Label: "late", Icon: "alert-circle", Tone: "red", Recognized: true},
}

// StatusLabel looks up the presentation for status. Unknown values get the
// pending presentation with Recognized cleared so callers can flag them.
func StatusLabel(status core.DebtStatus) StatusPresentation {
	if p, ok := statusPresentations[status]; ok {
		return p
	}
	p := statusPresentations[core.StatusPending]
	p.Recognized = false
	return p
}

// StatusCounts tallies debts per stored status. Unknown statuses count as
// pending, matching StatusLabel, and are also tallied in Unrecognized.
type StatusCounts struct {
	Pending      int
	Paid         int
	Overdue      int
	Unrecognized int
}

func CountStatuses(debts []core.Debt) StatusCounts {
	var c StatusCounts
	for _, d := range debts {
		switch d.Status {
		case core.StatusPaid:
			c.Paid++
		case core.StatusOverdue:
			c.Overdue++
		case core.StatusPending:
			c.Pending++
		default:
			c.Pending++
			c.Unrecognized++
		}
	}
	return c
}
