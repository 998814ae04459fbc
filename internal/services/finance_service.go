package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"buget/internal/amqp"
	"buget/internal/cache"
	"buget/internal/core"
	"buget/internal/log"
	"buget/internal/metrics"
	"buget/internal/session"
)

// FinanceService runs every authenticated gateway call on behalf of the
// current session. It validates input before any call, ends the session
// when the gateway rejects the token, and drops cached reads after every
// successful mutation.
type FinanceService struct {
	gateway   Gateway
	sessions  Sessions
	cache     cache.Cache[any]
	publisher Publisher
	logger    *log.Logger
}

func NewFinanceService(gw Gateway, sessions Sessions, c cache.Cache[any], publisher Publisher, logger *log.Logger) *FinanceService {
	if logger == nil {
		logger = log.Discard()
	}
	return &FinanceService{
		gateway:   gw,
		sessions:  sessions,
		cache:     c,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentFinance),
	}
}

// ClassifyError maps an error to one of the log error types.
func ClassifyError(err error) string {
	switch {
	case core.IsValidation(err):
		return log.ErrorTypeValidation
	case core.IsAuth(err):
		return log.ErrorTypeAuth
	case core.IsNotFound(err):
		return log.ErrorTypeNotFound
	case core.IsTransport(err):
		return log.ErrorTypeTransport
	default:
		return log.ErrorTypeInternal
	}
}

func (s *FinanceService) session(op string) (*core.Session, error) {
	sess, state := s.sessions.Current()
	if state != session.Authenticated || sess == nil {
		return nil, &core.AuthError{Op: op, Reason: "not signed in"}
	}
	return sess, nil
}

// fail logs err and, for a rejected token, ends the session that used it.
func (s *FinanceService) fail(ctx context.Context, op string, sess *core.Session, err error) error {
	fields := log.NewFields().WithUser(sess.Identity.ID)
	if core.IsAuth(err) {
		s.logger.WarnContext(ctx, "Gateway rejected session", fields.WithOperation(op).WithError(err).ToSlice()...)
		if ferr := s.sessions.ForceLogout(ctx, sess.Token, err); ferr != nil {
			s.logger.LogError(ctx, "Forced logout incomplete", ferr, log.OpLogout, nil, nil)
		}
		s.invalidate(sess.Identity.ID)
		return err
	}
	if core.IsTransport(err) {
		s.logger.LogError(ctx, "Gateway call failed", err, op, ClassifyError, fields)
	} else {
		s.logger.WarnContext(ctx, "Gateway call refused", fields.WithOperation(op).WithError(err).WithErrorType(ClassifyError(err)).ToSlice()...)
	}
	return err
}

func (s *FinanceService) invalidate(userID int64) {
	if s.cache == nil {
		return
	}
	if n := s.cache.DeletePrefix(cache.UserPrefix(userID)); n > 0 {
		s.logger.Debug("Cache invalidated", log.FieldUserID, userID, "entries", n)
	}
}

func (s *FinanceService) publish(ctx context.Context, e *amqp.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event", "type", string(e.Type), log.FieldError, err)
	}
}

// read serves key from the cache or fetches it with the session token.
func read[T any](ctx context.Context, s *FinanceService, op string, key []string, fetch func(token string) (T, error)) (T, error) {
	var zero T
	sess, err := s.session(op)
	if err != nil {
		return zero, err
	}
	k := cache.Key(sess.Identity.ID, key...)
	if s.cache != nil {
		if v, ok := s.cache.Get(k); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}
	v, err := fetch(sess.Token)
	if err != nil {
		return zero, s.fail(ctx, op, sess, err)
	}
	if s.cache != nil {
		s.cache.Set(k, v)
	}
	return v, nil
}

// mutate validates, sends the change and, once confirmed, drops the cache
// and publishes ev. Nothing is patched locally; the next read refetches.
func (s *FinanceService) mutate(ctx context.Context, op string, validate func() error, send func(token string) error, ev func(userID int64) *amqp.Event) error {
	if err := validate(); err != nil {
		return err
	}
	sess, err := s.session(op)
	if err != nil {
		return err
	}
	if err := send(sess.Token); err != nil {
		return s.fail(ctx, op, sess, err)
	}
	s.invalidate(sess.Identity.ID)
	s.logger.InfoContext(ctx, "Change confirmed", log.FieldOperation, op, log.FieldUserID, sess.Identity.ID)
	if ev != nil {
		s.publish(ctx, ev(sess.Identity.ID))
	}
	return nil
}

func (s *FinanceService) Debts(ctx context.Context) ([]core.Debt, error) {
	return read(ctx, s, "list debts", []string{"debts"}, func(token string) ([]core.Debt, error) {
		return s.gateway.ListDebts(ctx, token)
	})
}

func (s *FinanceService) CreateDebt(ctx context.Context, d core.NewDebt) error {
	return s.mutate(ctx, "create debt", d.Validate,
		func(token string) error { return s.gateway.CreateDebt(ctx, token, d) },
		func(uid int64) *amqp.Event {
			return amqp.NewEvent(amqp.EventDebtCreated, uid, 0).With("category", string(d.Category))
		})
}

// SetDebtStatus is the only way a debt's status changes.
func (s *FinanceService) SetDebtStatus(ctx context.Context, id int64, status core.DebtStatus) error {
	return s.mutate(ctx, "update debt status",
		func() error { return core.ValidateStatusChange(id, status) },
		func(token string) error { return s.gateway.UpdateDebtStatus(ctx, token, id, status) },
		func(uid int64) *amqp.Event {
			return amqp.NewEvent(amqp.EventDebtStatusChanged, uid, id).With("status", string(status))
		})
}

func (s *FinanceService) MarkDebtPaid(ctx context.Context, id int64) error {
	return s.SetDebtStatus(ctx, id, core.StatusPaid)
}

func (s *FinanceService) DeleteDebt(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete debt",
		func() error { return positiveID("debt", id) },
		func(token string) error { return s.gateway.DeleteDebt(ctx, token, id) },
		func(uid int64) *amqp.Event { return amqp.NewEvent(amqp.EventDebtDeleted, uid, id) })
}

func (s *FinanceService) Incomes(ctx context.Context) ([]core.Income, error) {
	return read(ctx, s, "list incomes", []string{"incomes"}, func(token string) ([]core.Income, error) {
		return s.gateway.ListIncomes(ctx, token)
	})
}

func (s *FinanceService) CreateIncome(ctx context.Context, in core.NewIncome) error {
	return s.mutate(ctx, "create income", in.Validate,
		func(token string) error { return s.gateway.CreateIncome(ctx, token, in) },
		func(uid int64) *amqp.Event {
			return amqp.NewEvent(amqp.EventIncomeCreated, uid, 0).With("recurring", strconv.FormatBool(in.IsRecurring))
		})
}

func (s *FinanceService) DeleteIncome(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete income",
		func() error { return positiveID("income", id) },
		func(token string) error { return s.gateway.DeleteIncome(ctx, token, id) },
		func(uid int64) *amqp.Event { return amqp.NewEvent(amqp.EventIncomeDeleted, uid, id) })
}

func (s *FinanceService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return read(ctx, s, "list transactions", []string{"transactions"}, func(token string) ([]core.Transaction, error) {
		return s.gateway.ListTransactions(ctx, token)
	})
}

func (s *FinanceService) CreateTransaction(ctx context.Context, t core.NewTransaction) error {
	return s.mutate(ctx, "create transaction", t.Validate,
		func(token string) error { return s.gateway.CreateTransaction(ctx, token, t) },
		func(uid int64) *amqp.Event {
			var debtID int64
			if t.DebtID != nil {
				debtID = *t.DebtID
			}
			return amqp.NewEvent(amqp.EventTransactionCreated, uid, debtID)
		})
}

func (s *FinanceService) Summary(ctx context.Context, period core.Period) (core.PeriodSummary, error) {
	if !period.Valid() {
		return core.PeriodSummary{}, &core.ValidationError{Field: "period", Reason: "unknown period " + string(period)}
	}
	op := "summary " + string(period)
	return read(ctx, s, op, []string{"summary", string(period)}, func(token string) (core.PeriodSummary, error) {
		return s.gateway.Summary(ctx, token, period)
	})
}

// Dashboard fetches both periods at once and builds the view model for
// each. Either failure fails the whole call.
func (s *FinanceService) Dashboard(ctx context.Context) (current, next metrics.Dashboard, err error) {
	var cur, nxt core.PeriodSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = s.Summary(gctx, core.PeriodCurrent)
		return err
	})
	g.Go(func() error {
		var err error
		nxt, err = s.Summary(gctx, core.PeriodNext)
		return err
	})
	if err := g.Wait(); err != nil {
		return metrics.Dashboard{}, metrics.Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}
	return metrics.BuildDashboard(core.PeriodCurrent, cur), metrics.BuildDashboard(core.PeriodNext, nxt), nil
}

// OnSessionChange is a session observer: it drops what the previous
// identity fetched and announces the change.
func (s *FinanceService) OnSessionChange(ctx context.Context, c session.Change) {
	switch c.To {
	case session.Anonymous:
		if c.From == session.Authenticated {
			s.invalidate(c.UserID)
			s.publish(ctx, amqp.NewEvent(amqp.EventSessionEnded, c.UserID, 0).With("reason", c.Reason))
		}
	case session.Authenticated:
		if c.From == session.Authenticated && s.cache != nil {
			s.cache.Purge()
		}
		s.publish(ctx, amqp.NewEvent(amqp.EventSessionStarted, c.UserID, 0).With("reason", c.Reason))
	}
}

// ExportEvent announces that a dashboard was written elsewhere.
func (s *FinanceService) ExportEvent(ctx context.Context, period core.Period, ref string) {
	sess, err := s.session(log.OpExport)
	if err != nil {
		return
	}
	s.publish(ctx, amqp.NewEvent(amqp.EventDashboardExported, sess.Identity.ID, 0).
		With("period", string(period)).
		With("ref", ref).
		With("at", time.Now().UTC().Format(time.RFC3339)))
}

func positiveID(resource string, id int64) error {
	if id <= 0 {
		return &core.ValidationError{Field: resource, Reason: "id must be positive"}
	}
	return nil
}
