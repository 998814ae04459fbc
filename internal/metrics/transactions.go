package metrics

import (
	"github.com/shopspring/decimal"

	"buget/internal/core"
)

const (
	GeneralPaymentLabel = "General payment"
	UnknownDebtLabel    = "Unknown debt"
)

// ResolveDebtName names the debt a payment went to. A reference to a debt
// missing from debts (deleted or never fetched) yields UnknownDebtLabel.
func ResolveDebtName(tx core.Transaction, debts []core.Debt) string {
	if tx.DebtID == nil {
		return GeneralPaymentLabel
	}
	for _, d := range debts {
		if d.ID == *tx.DebtID {
			return d.Name
		}
	}
	return UnknownDebtLabel
}

type TransactionStats struct {
	Count   int
	Total   decimal.Decimal
	Average decimal.Decimal
	// LastPayment is the zero Date when there are no transactions.
	LastPayment core.Date
}

func SummarizeTransactions(txs []core.Transaction) TransactionStats {
	stats := TransactionStats{Total: decimal.Zero, Average: decimal.Zero}
	for _, tx := range txs {
		stats.Total = stats.Total.Add(tx.Amount)
		if tx.Date.After(stats.LastPayment.Time) {
			stats.LastPayment = tx.Date
		}
	}
	stats.Count = len(txs)
	if stats.Count > 0 {
		stats.Average = stats.Total.Div(decimal.NewFromInt(int64(stats.Count))).Round(2)
	}
	return stats
}
