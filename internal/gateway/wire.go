package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"buget/internal/core"
)

// amount is a decimal that travels as a bare JSON number. Quoted numbers are
// accepted on decode.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(b)
}

// flag decodes true/false, 0/1 and "0"/"1". It always encodes as a boolean.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(b), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "null", "":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}

var categoryToWire = map[core.DebtCategory]string{
	core.CategoryRent:        "chirie",
	core.CategoryUtilities:   "utilitati",
	core.CategoryInstallment: "rate",
	core.CategoryLoan:        "imprumuturi",
	core.CategoryOther:       "altele",
}

var categoryFromWire = func() map[string]core.DebtCategory {
	m := make(map[string]core.DebtCategory, 2*len(categoryToWire))
	for c, code := range categoryToWire {
		m[code] = c
		m[string(c)] = c
	}
	return m
}()

// decodeCategory maps a stored code to the domain enum. Unknown codes are other.
func decodeCategory(code string) core.DebtCategory {
	if c, ok := categoryFromWire[strings.ToLower(strings.TrimSpace(code))]; ok {
		return c
	}
	return core.CategoryOther
}

func encodeCategory(c core.DebtCategory) string {
	if code, ok := categoryToWire[c]; ok {
		return code
	}
	return categoryToWire[core.CategoryOther]
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type wireUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (u wireUser) toCore() core.User {
	return core.User{ID: u.ID, Email: u.Email}
}

type authResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

type meResponse struct {
	User wireUser `json:"user"`
}

type wireDebt struct {
	ID          int64     `json:"id"`
	Amount      amount    `json:"amount"`
	Name        string    `json:"name"`
	DueDate     core.Date `json:"due_date"`
	IsRecurring flag      `json:"is_recurring"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
}

func (d wireDebt) toCore() core.Debt {
	return core.Debt{
		ID:          d.ID,
		Amount:      d.Amount.Decimal,
		Name:        d.Name,
		DueDate:     d.DueDate,
		IsRecurring: bool(d.IsRecurring),
		Category:    decodeCategory(d.Category),
		Status:      core.DebtStatus(strings.ToLower(d.Status)),
	}
}

type newDebtBody struct {
	Amount      amount `json:"amount"`
	Name        string `json:"name"`
	DueDate     string `json:"due_date"`
	IsRecurring bool   `json:"is_recurring"`
	Category    string `json:"category"`
}

type wireIncome struct {
	ID          int64     `json:"id"`
	Amount      amount    `json:"amount"`
	Description string    `json:"description"`
	Date        core.Date `json:"date"`
	IsRecurring flag      `json:"is_recurring"`
}

func (i wireIncome) toCore() core.Income {
	return core.Income{
		ID:          i.ID,
		Amount:      i.Amount.Decimal,
		Description: i.Description,
		Date:        i.Date,
		IsRecurring: bool(i.IsRecurring),
	}
}

type newIncomeBody struct {
	Amount      amount `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
}

type wireTransaction struct {
	ID     int64     `json:"id"`
	DebtID *int64    `json:"debt_id"`
	Amount amount    `json:"amount"`
	Date   core.Date `json:"date"`
	Note   *string   `json:"note"`
}

func (t wireTransaction) toCore() core.Transaction {
	tx := core.Transaction{
		ID:     t.ID,
		Amount: t.Amount.Decimal,
		Date:   t.Date,
		DebtID: t.DebtID,
	}
	if t.Note != nil {
		tx.Note = *t.Note
	}
	return tx
}

type newTransactionBody struct {
	DebtID *int64 `json:"debt_id,omitempty"`
	Amount amount `json:"amount"`
	Date   string `json:"date"`
	Note   string `json:"note,omitempty"`
}

type statusBody struct {
	Status core.DebtStatus `json:"status"`
}

type wireSummary struct {
	Month       string       `json:"month"`
	TotalIncome amount       `json:"totalIncome"`
	TotalDebts  amount       `json:"totalDebts"`
	Remaining   amount       `json:"remaining"`
	Incomes     []wireIncome `json:"incomes"`
	Debts       []wireDebt   `json:"debts"`
}

func (s wireSummary) toCore() core.PeriodSummary {
	out := core.PeriodSummary{
		PeriodKey:   s.Month,
		TotalIncome: s.TotalIncome.Decimal,
		TotalDebts:  s.TotalDebts.Decimal,
		Remaining:   s.Remaining.Decimal,
		Incomes:     make([]core.Income, 0, len(s.Incomes)),
		Debts:       make([]core.Debt, 0, len(s.Debts)),
	}
	for _, i := range s.Incomes {
		out.Incomes = append(out.Incomes, i.toCore())
	}
	for _, d := range s.Debts {
		out.Debts = append(out.Debts, d.toCore())
	}
	return out
}

// decodeList accepts either {"<key>": [...]} or a bare array.
func decodeList[T any](body []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	raw, ok := wrapped[key]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return items, nil
}

// errorBody is the shape of error replies; either field may be set.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorReason(body []byte) string {
	var e errorBody
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 || strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}
