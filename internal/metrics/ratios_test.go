package metrics

import (
	"math"
	"testing"
)

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name              string
		remaining, income string
		want              float64
	}{
		{"surplus", "1800", "3000", 60},
		{"deficit", "-1500", "3000", -50},
		{"no income", "-400", "0", 0},
		{"no income positive remaining", "100", "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavingsRate(dec(tt.remaining), dec(tt.income))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SavingsRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoverageRatio(t *testing.T) {
	got := CoverageRatio(dec("3000"), dec("1200"))
	if !got.Applicable || math.Abs(got.Percent-250) > 1e-9 {
		t.Fatalf("CoverageRatio() = %+v", got)
	}
	if got.String() != "250.0%" {
		t.Fatalf("String() = %q", got.String())
	}

	none := CoverageRatio(dec("3000"), dec("0"))
	if none.Applicable || none.String() != NotApplicable {
		t.Fatalf("no debts should be not applicable, got %+v", none)
	}

	zero := CoverageRatio(dec("0"), dec("500"))
	if !zero.Applicable || zero.Percent != 0 || zero.String() != "0.0%" {
		t.Fatalf("zero income should be 0%% coverage, got %+v", zero)
	}
}
