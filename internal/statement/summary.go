package statement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary aggregates a ledger the way every report view consumes it.
type Summary struct {
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	NetFlow          decimal.Decimal `json:"net_flow"`
	TransactionCount int             `json:"transaction_count"`
	Categories       map[string]int  `json:"categories"`
	Monthly          []MonthlyFlow   `json:"monthly"`
}

// MonthlyFlow is the withdrawal/deposit total for one calendar month.
type MonthlyFlow struct {
	Month       string          `json:"month"` // YYYY-MM
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Deposits    decimal.Decimal `json:"deposits"`
}

// Summarize derives totals, per-category counts, and monthly flows from a
// ledger. Pure; the ledger is not modified.
func Summarize(l *Ledger) Summary {
	s := Summary{
		CurrentBalance: l.CurrentBalance(),
		Categories:     make(map[string]int),
	}
	if l == nil {
		return s
	}
	s.TransactionCount = len(l.Transactions)

	byMonth := make(map[string]*MonthlyFlow)
	for _, tx := range l.Transactions {
		s.TotalWithdrawals = s.TotalWithdrawals.Add(tx.Withdrawal)
		s.TotalDeposits = s.TotalDeposits.Add(tx.Deposit)

		cat := tx.Category
		if cat == "" {
			cat = CategoryUncategorized
		}
		s.Categories[cat]++

		month := tx.Date.Format("2006-01")
		mf, ok := byMonth[month]
		if !ok {
			mf = &MonthlyFlow{Month: month}
			byMonth[month] = mf
		}
		mf.Withdrawals = mf.Withdrawals.Add(tx.Withdrawal)
		mf.Deposits = mf.Deposits.Add(tx.Deposit)
	}

	for _, mf := range byMonth {
		s.Monthly = append(s.Monthly, *mf)
	}
	sort.Slice(s.Monthly, func(i, j int) bool { return s.Monthly[i].Month < s.Monthly[j].Month })

	s.NetFlow = s.TotalDeposits.Sub(s.TotalWithdrawals)
	return s
}
