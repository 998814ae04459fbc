package metrics

import (
	"testing"

	"buget/internal/core"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status core.DebtStatus
		label  string
		icon   string
		known  bool
	}{
		{core.StatusPending, "awaiting", "clock", true},
		{core.StatusPaid, "settled", "check-circle", true},
		{core.StatusOverdue, "late", "alert-circle", true},
		{"archived", "awaiting", "clock", false},
		{"", "awaiting", "clock", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := StatusLabel(tt.status)
			if got.Label != tt.label || got.Icon != tt.icon || got.Recognized != tt.known {
				t.Errorf("StatusLabel(%q) = %+v", tt.status, got)
			}
		})
	}
}

func TestStatusLabelFallbackDoesNotLeak(t *testing.T) {
	_ = StatusLabel("bogus")
	if !StatusLabel(core.StatusPending).Recognized {
		t.Fatal("fallback must not mutate the pending entry")
	}
}

func TestCountStatuses(t *testing.T) {
	debts := []core.Debt{
		{Status: core.StatusPending},
		{Status: core.StatusPaid},
		{Status: core.StatusPaid},
		{Status: core.StatusOverdue},
		{Status: "weird"},
	}
	got := CountStatuses(debts)
	if got != (StatusCounts{Pending: 2, Paid: 2, Overdue: 1, Unrecognized: 1}) {
		t.Fatalf("CountStatuses() = %+v", got)
	}
	if CountStatuses(nil) != (StatusCounts{}) {
		t.Fatal("empty input should count nothing")
	}
}
