package services

import (
	"context"

	"buget/internal/amqp"
	"buget/internal/core"
	"buget/internal/session"
)

// Gateway is the resource side of the remote gateway. Every call carries
// the session token.
type Gateway interface {
	ListDebts(ctx context.Context, token string) ([]core.Debt, error)
	CreateDebt(ctx context.Context, token string, d core.NewDebt) error
	UpdateDebtStatus(ctx context.Context, token string, id int64, status core.DebtStatus) error
	DeleteDebt(ctx context.Context, token string, id int64) error

	ListIncomes(ctx context.Context, token string) ([]core.Income, error)
	CreateIncome(ctx context.Context, token string, in core.NewIncome) error
	DeleteIncome(ctx context.Context, token string, id int64) error

	ListTransactions(ctx context.Context, token string) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, token string, t core.NewTransaction) error

	Summary(ctx context.Context, token string, period core.Period) (core.PeriodSummary, error)
}

// Sessions is the part of the session manager the finance service needs.
type Sessions interface {
	Current() (*core.Session, session.State)
	ForceLogout(ctx context.Context, token string, cause error) error
}

// Publisher delivers domain events. A nil Publisher disables events.
type Publisher interface {
	Publish(ctx context.Context, e *amqp.Event) error
}
