package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryRent        DebtCategory = "rent"
	CategoryUtilities   DebtCategory = "utilities"
	CategoryInstallment DebtCategory = "installment"
	CategoryLoan        DebtCategory = "loan"
	CategoryOther       DebtCategory = "other"
)

const (
	StatusPending DebtStatus = "pending"
	StatusPaid    DebtStatus = "paid"
	StatusOverdue DebtStatus = "overdue"
)

const (
	PeriodCurrent Period = "current"
	PeriodNext    Period = "next"
)

type (
	DebtCategory string
	DebtStatus   string

	// Period selects which monthly summary the gateway returns.
	Period string

	User struct {
		ID    int64
		Email string
	}

	// AuthResult is what the gateway hands back on login or registration.
	AuthResult struct {
		Token string
		User  User
	}

	Session struct {
		Token         string
		Identity      User
		EstablishedAt time.Time
	}

	Income struct {
		ID          int64
		Amount      decimal.Decimal
		Description string
		Date        Date
		IsRecurring bool
	}

	Debt struct {
		ID          int64
		Amount      decimal.Decimal
		Name        string
		DueDate     Date
		IsRecurring bool
		Category    DebtCategory
		Status      DebtStatus
	}

	// Transaction is a payment. A nil DebtID marks a general payment.
	Transaction struct {
		ID     int64
		Amount decimal.Decimal
		Date   Date
		Note   string
		DebtID *int64
	}

	PeriodSummary struct {
		PeriodKey   string // YYYY-MM
		TotalIncome decimal.Decimal
		TotalDebts  decimal.Decimal
		Remaining   decimal.Decimal
		Incomes     []Income
		Debts       []Debt
	}

	NewIncome struct {
		Amount      decimal.Decimal
		Description string
		Date        Date
		IsRecurring bool
	}

	NewDebt struct {
		Amount      decimal.Decimal
		Name        string
		DueDate     Date
		IsRecurring bool
		Category    DebtCategory
	}

	NewTransaction struct {
		Amount decimal.Decimal
		Date   Date
		Note   string
		DebtID *int64
	}
)

// Recurrer is implemented by records that carry a recurrence flag.
type Recurrer interface {
	Recurring() bool
}

func (i Income) Recurring() bool { return i.IsRecurring }
func (d Debt) Recurring() bool   { return d.IsRecurring }

// IsGeneral reports whether the payment is not tied to a debt.
func (t Transaction) IsGeneral() bool { return t.DebtID == nil }

// Consistent reports whether Remaining equals TotalIncome - TotalDebts.
func (s PeriodSummary) Consistent() bool {
	return s.Remaining.Equal(s.TotalIncome.Sub(s.TotalDebts))
}

func (c DebtCategory) Valid() bool {
	switch c {
	case CategoryRent, CategoryUtilities, CategoryInstallment, CategoryLoan, CategoryOther:
		return true
	default:
		return false
	}
}

// Categories lists the debt categories in display order.
func Categories() []DebtCategory {
	return []DebtCategory{CategoryRent, CategoryUtilities, CategoryInstallment, CategoryLoan, CategoryOther}
}

func (s DebtStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	default:
		return false
	}
}

func (p Period) Valid() bool {
	return p == PeriodCurrent || p == PeriodNext
}

// ParsePeriod maps user input to a Period, defaulting to the current month.
func ParsePeriod(s string) Period {
	if Period(strings.ToLower(strings.TrimSpace(s))) == PeriodNext {
		return PeriodNext
	}
	return PeriodCurrent
}
