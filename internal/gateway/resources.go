package gateway

import (
	"context"
	"fmt"
	"net/http"

	"buget/internal/core"
	"buget/internal/log"
)

func list[W any, T any](ctx context.Context, c *Client, token, op, path, key string, conv func(W) T) ([]T, error) {
	body, err := c.do(ctx, call{op: op, method: http.MethodGet, path: path, token: token})
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[W](body, key)
	if err != nil {
		return nil, &core.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	out := make([]T, 0, len(wire))
	for _, w := range wire {
		out = append(out, conv(w))
	}
	return out, nil
}

func (c *Client) ListDebts(ctx context.Context, token string) ([]core.Debt, error) {
	debts, err := list(ctx, c, token, "list debts", "/debts", "debts", wireDebt.toCore)
	if err != nil {
		return nil, err
	}
	c.warnUnknownStatuses(ctx, "list debts", debts)
	return debts, nil
}

// warnUnknownStatuses flags debts whose status the client does not model.
// They are kept and shown with pending semantics.
func (c *Client) warnUnknownStatuses(ctx context.Context, op string, debts []core.Debt) {
	for _, d := range debts {
		if !d.Status.Valid() {
			c.logger.WarnContext(ctx, "Debt has unknown status, treating as pending",
				log.FieldOperation, op,
				log.FieldResourceID, d.ID,
				"status", string(d.Status))
		}
	}
}

func (c *Client) CreateDebt(ctx context.Context, token string, d core.NewDebt) error {
	_, err := c.do(ctx, call{
		op:     "create debt",
		method: http.MethodPost,
		path:   "/debts",
		token:  token,
		body: newDebtBody{
			Amount:      amount{d.Amount},
			Name:        d.Name,
			DueDate:     d.DueDate.String(),
			IsRecurring: d.IsRecurring,
			Category:    encodeCategory(d.Category),
		},
	})
	return err
}

func (c *Client) UpdateDebtStatus(ctx context.Context, token string, id int64, status core.DebtStatus) error {
	_, err := c.do(ctx, call{
		op:       "update debt status",
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/debts/%d/status", id),
		token:    token,
		body:     statusBody{Status: status},
		resource: "debt",
		id:       id,
	})
	return err
}

func (c *Client) DeleteDebt(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, call{
		op:       "delete debt",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/debts/%d", id),
		token:    token,
		resource: "debt",
		id:       id,
	})
	return err
}

func (c *Client) ListIncomes(ctx context.Context, token string) ([]core.Income, error) {
	return list(ctx, c, token, "list incomes", "/incomes", "incomes", wireIncome.toCore)
}

func (c *Client) CreateIncome(ctx context.Context, token string, in core.NewIncome) error {
	_, err := c.do(ctx, call{
		op:     "create income",
		method: http.MethodPost,
		path:   "/incomes",
		token:  token,
		body: newIncomeBody{
			Amount:      amount{in.Amount},
			Description: in.Description,
			Date:        in.Date.String(),
			IsRecurring: in.IsRecurring,
		},
	})
	return err
}

func (c *Client) DeleteIncome(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, call{
		op:       "delete income",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/incomes/%d", id),
		token:    token,
		resource: "income",
		id:       id,
	})
	return err
}

func (c *Client) ListTransactions(ctx context.Context, token string) ([]core.Transaction, error) {
	return list(ctx, c, token, "list transactions", "/transactions", "transactions", wireTransaction.toCore)
}

func (c *Client) CreateTransaction(ctx context.Context, token string, t core.NewTransaction) error {
	resource := ""
	var id int64
	if t.DebtID != nil {
		resource, id = "debt", *t.DebtID
	}
	_, err := c.do(ctx, call{
		op:     "create transaction",
		method: http.MethodPost,
		path:   "/transactions",
		token:  token,
		body: newTransactionBody{
			DebtID: t.DebtID,
			Amount: amount{t.Amount},
			Date:   t.Date.String(),
			Note:   t.Note,
		},
		resource: resource,
		id:       id,
	})
	return err
}

// Summary fetches the aggregate for one period. The values are returned as
// the gateway computed them; an inconsistent remaining amount is logged.
func (c *Client) Summary(ctx context.Context, token string, period core.Period) (core.PeriodSummary, error) {
	if !period.Valid() {
		return core.PeriodSummary{}, &core.ValidationError{Field: "period", Reason: "unknown period " + string(period)}
	}
	op := "summary " + string(period)
	body, err := c.do(ctx, call{op: op, method: http.MethodGet, path: "/summary/" + string(period), token: token})
	if err != nil {
		return core.PeriodSummary{}, err
	}
	var ws wireSummary
	if err := decode(op, body, &ws); err != nil {
		return core.PeriodSummary{}, err
	}
	s := ws.toCore()
	c.warnUnknownStatuses(ctx, op, s.Debts)
	if !s.Consistent() {
		c.logger.WarnContext(ctx, "Summary remaining disagrees with totals",
			log.FieldPeriod, string(period),
			"total_income", s.TotalIncome.String(),
			"total_debts", s.TotalDebts.String(),
			"remaining", s.Remaining.String())
	}
	return s, nil
}
