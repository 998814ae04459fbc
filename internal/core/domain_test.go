package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2026-10-16", NewDate(2026, 10, 16), true},
		{"2026-10-16T00:00:00.000Z", NewDate(2026, 10, 16), true},
		{"2026-10-16T23:30:00+03:00", NewDate(2026, 10, 16), true},
		{"16/10/2026", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok && (err != nil || !got.Equal(tc.want.Time)) {
			t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2026-01-31"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(d)
	if err != nil || string(out) != `"2026-01-31"` {
		t.Fatalf("marshal = %s, %v", out, err)
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsZero() {
		t.Fatalf("null should decode to zero date, got %v %v", d, err)
	}
}

func TestDateOfKeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("EET", 3*60*60)
	ts := time.Date(2026, 3, 1, 1, 0, 0, 0, loc) // still Feb 28 in UTC
	if got := DateOf(ts); !got.Equal(NewDate(2026, 3, 1).Time) {
		t.Fatalf("DateOf = %v", got)
	}
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name                     string
		email, password, confirm string
		ok                       bool
	}{
		{"valid", "ana@example.com", "secret1", "secret1", true},
		{"empty email", "", "secret1", "secret1", false},
		{"malformed email", "ana", "secret1", "secret1", false},
		{"short password", "ana@example.com", "12345", "12345", false},
		{"mismatch", "ana@example.com", "secret1", "secret2", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.email, tc.password, tc.confirm)
			if tc.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.ok && !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNewDebtValidate(t *testing.T) {
	good := NewDebt{
		Amount:   decimal.NewFromInt(1200),
		Name:     "Rent",
		DueDate:  NewDate(2026, 11, 1),
		Category: CategoryRent,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []NewDebt{
		{Amount: decimal.NewFromInt(-1), Name: "a", DueDate: NewDate(2026, 1, 1), Category: CategoryRent},
		{Amount: decimal.Zero, Name: "a", DueDate: NewDate(2026, 1, 1), Category: CategoryRent},
		{Amount: decimal.NewFromInt(1), Name: " ", DueDate: NewDate(2026, 1, 1), Category: CategoryRent},
		{Amount: decimal.NewFromInt(1), Name: "a", Category: CategoryRent},
		{Amount: decimal.NewFromInt(1), Name: "a", DueDate: NewDate(2026, 1, 1), Category: "groceries"},
	}
	for i, d := range bads {
		if err := d.Validate(); !IsValidation(err) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestNewTransactionValidate(t *testing.T) {
	zero := int64(0)
	tx := NewTransaction{Amount: decimal.NewFromInt(10), Date: NewDate(2026, 1, 1), DebtID: &zero}
	if err := tx.Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error for zero debt id, got %v", err)
	}
	tx.DebtID = nil
	if err := tx.Validate(); err != nil {
		t.Fatalf("general payment should validate, got %v", err)
	}
}

func TestPeriodSummaryConsistent(t *testing.T) {
	s := PeriodSummary{
		TotalIncome: decimal.NewFromInt(3000),
		TotalDebts:  decimal.NewFromInt(1200),
		Remaining:   decimal.NewFromInt(1800),
	}
	if !s.Consistent() {
		t.Fatal("expected consistent summary")
	}
	s.Remaining = decimal.NewFromInt(1700)
	if s.Consistent() {
		t.Fatal("expected inconsistent summary")
	}
}

func TestParsePeriod(t *testing.T) {
	if ParsePeriod("NEXT") != PeriodNext || ParsePeriod("") != PeriodCurrent || ParsePeriod("bogus") != PeriodCurrent {
		t.Fatal("unexpected period parsing")
	}
}
