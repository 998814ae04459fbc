package metrics

import (
	"time"

	"buget/internal/core"
)

// Urgency is a presentation hint derived from a due date alone. It can
// disagree with the stored debt status until the store marks a debt overdue.
type Urgency struct {
	DaysUntilDue int
	IsOverdue    bool
}

// ClassifyUrgency counts whole calendar days from now to dueDate.
//
// now is reduced to its calendar date in its own location, so callers pick
// the timezone by passing now.In(loc). Against a midnight due date this is
// the same as ceil((dueDate - now) / 24h).
func ClassifyUrgency(dueDate core.Date, now time.Time) Urgency {
	today := core.DateOf(now)
	due := core.DateOf(dueDate.Time)
	days := int(due.Sub(today.Time).Hours() / 24)
	return Urgency{
		DaysUntilDue: days,
		IsOverdue:    days < 0,
	}
}
