// Package statement defines the canonical transaction ledger produced by the
// extraction pipeline and the error taxonomy shared by every stage.
package statement

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryUncategorized is the category of a transaction before
// classification runs.
const CategoryUncategorized = "Uncategorized"

// DateFormat is the canonical wire format for transaction dates.
const DateFormat = "2006-01-02"

// RawTable is the as-extracted tabular data from a statement PDF: an ordered
// sequence of rows of text cells, header row first. It is transient,
// produced by extraction, consumed by normalization, then discarded.
type RawTable struct {
	Rows [][]string
}

// Header returns the header row, or nil for an empty table.
func (t *RawTable) Header() []string {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Body returns the data rows following the header.
func (t *RawTable) Body() [][]string {
	if t == nil || len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Transaction is one canonical ledger entry. Exactly one of Withdrawal and
// Deposit is nonzero; Balance is the account balance immediately after the
// transaction posts.
type Transaction struct {
	Date       time.Time       `json:"date"`
	Narration  string          `json:"narration"`
	Payee      string          `json:"payee,omitempty"`
	Withdrawal decimal.Decimal `json:"withdrawal_amount"`
	Deposit    decimal.Decimal `json:"deposit_amount"`
	Balance    decimal.Decimal `json:"closing_balance"`
	Category   string          `json:"category"`
}

// IsDebit reports whether the transaction is a withdrawal.
func (t Transaction) IsDebit() bool {
	return t.Withdrawal.IsPositive()
}

// Amount returns the magnitude of the transaction regardless of direction.
func (t Transaction) Amount() decimal.Decimal {
	if t.IsDebit() {
		return t.Withdrawal
	}
	return t.Deposit
}

// Ledger is the ordered transaction sequence for one statement plus the
// resolved bank identity. It is immutable once normalization completes;
// classification operates on a copy.
type Ledger struct {
	BankCode     string        `json:"bank_code"`
	BankName     string        `json:"bank_name"`
	Transactions []Transaction `json:"transactions"`
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	out := &Ledger{BankCode: l.BankCode, BankName: l.BankName}
	out.Transactions = make([]Transaction, len(l.Transactions))
	copy(out.Transactions, l.Transactions)
	return out
}

// CurrentBalance returns the closing balance of the latest transaction, or
// zero for an empty ledger.
func (l *Ledger) CurrentBalance() decimal.Decimal {
	if l == nil || len(l.Transactions) == 0 {
		return decimal.Zero
	}
	return l.Transactions[len(l.Transactions)-1].Balance
}
