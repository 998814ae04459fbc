package metrics

import "buget/internal/core"

type RecurringStats struct {
	Count          int
	PercentOfTotal float64
}

// Recurring counts flagged items and their share of the collection.
func Recurring[T core.Recurrer](items []T) RecurringStats {
	if len(items) == 0 {
		return RecurringStats{}
	}
	n := 0
	for _, it := range items {
		if it.Recurring() {
			n++
		}
	}
	return RecurringStats{
		Count:          n,
		PercentOfTotal: float64(n) / float64(len(items)) * 100,
	}
}
