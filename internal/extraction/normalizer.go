package extraction

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendify/spendify/internal/bank"
	"github.com/spendify/spendify/internal/statement"
)

// DefaultBalanceTolerance is the rounding slack allowed in the running
// balance chain: one paisa.
var DefaultBalanceTolerance = decimal.New(1, -2)

// NormalizeOptions tunes normalization.
type NormalizeOptions struct {
	// BalanceTolerance is the maximum absolute deviation allowed between a
	// transaction's stated closing balance and the recomputed running
	// balance. Zero means DefaultBalanceTolerance.
	BalanceTolerance decimal.Decimal
}

func (o NormalizeOptions) tolerance() decimal.Decimal {
	if o.BalanceTolerance.IsZero() {
		return DefaultBalanceTolerance
	}
	return o.BalanceTolerance
}

// Normalize maps a raw statement table into the canonical ledger using the
// given bank profile. It is fail-fast: a single bad row invalidates trust
// in the whole extraction, so no partially populated ledger is ever
// returned. Normalize is pure and idempotent.
func Normalize(raw *statement.RawTable, profile bank.Profile, opts NormalizeOptions) (*statement.Ledger, error) {
	header := raw.Header()
	if header == nil {
		return nil, statement.Errorf(statement.ErrExtraction, "empty raw table")
	}
	if !profile.Matches(header) {
		return nil, statement.Errorf(statement.ErrBankFormatMismatch,
			"statement header does not match the %s format", profile.Name)
	}

	dateCol := profile.ColumnIndex(header, profile.DateColumn)
	narrCol := profile.ColumnIndex(header, profile.NarrationColumn)
	wdCol := profile.ColumnIndex(header, profile.WithdrawalColumn)
	depCol := profile.ColumnIndex(header, profile.DepositColumn)
	balCol := profile.ColumnIndex(header, profile.BalanceColumn)
	if dateCol < 0 || narrCol < 0 || wdCol < 0 || depCol < 0 || balCol < 0 {
		return nil, statement.Errorf(statement.ErrBankFormatMismatch,
			"%s profile column roles missing from statement header", profile.Name)
	}

	type entry struct {
		tx  statement.Transaction
		row int // raw-table row index, header is row 0
	}
	var entries []entry

	for i, cells := range raw.Body() {
		row := i + 1
		if len(cells) != len(header) {
			return nil, statement.RowErrorf(row, "row has %d cells, header has %d",
				len(cells), len(header))
		}

		date, err := parseDate(profile, cells[dateCol])
		if err != nil {
			return nil, statement.RowErrorf(row, "unparsable date %q", cells[dateCol])
		}
		withdrawal, err := parseAmount(cells[wdCol])
		if err != nil {
			return nil, statement.RowErrorf(row, "bad withdrawal amount %q", cells[wdCol])
		}
		deposit, err := parseAmount(cells[depCol])
		if err != nil {
			return nil, statement.RowErrorf(row, "bad deposit amount %q", cells[depCol])
		}
		balance, err := parseBalance(cells[balCol])
		if err != nil {
			return nil, statement.RowErrorf(row, "bad closing balance %q", cells[balCol])
		}

		// A transaction is either a debit or a credit, never both, never
		// neither.
		if withdrawal.IsPositive() == deposit.IsPositive() {
			return nil, statement.RowErrorf(row,
				"exactly one of withdrawal (%s) and deposit (%s) must be nonzero",
				withdrawal, deposit)
		}

		entries = append(entries, entry{
			tx: statement.Transaction{
				Date:       date,
				Narration:  strings.TrimSpace(cells[narrCol]),
				Withdrawal: withdrawal,
				Deposit:    deposit,
				Balance:    balance,
				Category:   statement.CategoryUncategorized,
			},
			row: row,
		})
	}

	// Ascending by date; statement order is kept within a day so the
	// balance chain stays checkable.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].tx.Date.Before(entries[j].tx.Date)
	})

	tol := opts.tolerance()
	txs := make([]statement.Transaction, len(entries))
	for i, e := range entries {
		txs[i] = e.tx
		if i == 0 {
			continue
		}
		expected := txs[i-1].Balance.Add(e.tx.Deposit).Sub(e.tx.Withdrawal)
		if expected.Sub(e.tx.Balance).Abs().GreaterThan(tol) {
			return nil, statement.RowErrorf(e.row,
				"running balance mismatch: expected %s, statement says %s",
				expected, e.tx.Balance)
		}
	}

	return &statement.Ledger{
		BankCode:     profile.Code,
		BankName:     profile.Name,
		Transactions: txs,
	}, nil
}

func parseDate(profile bank.Profile, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(profile.DateLayout, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range profile.AltDateLayouts {
		if t, aerr := time.Parse(layout, s); aerr == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// parseAmount parses a statement currency cell into a non-negative decimal.
// Blank and dash cells mean zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = cleanAmount(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, statement.Errorf(statement.ErrMalformedRow, "negative amount")
	}
	return d, nil
}

// parseBalance parses a closing-balance cell. Balances may legitimately be
// negative (overdraft) but never blank.
func parseBalance(s string) (decimal.Decimal, error) {
	s = cleanAmount(s)
	if s == "" {
		return decimal.Zero, statement.Errorf(statement.ErrMalformedRow, "blank balance")
	}
	return decimal.NewFromString(s)
}

func cleanAmount(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", "--", "–", "—":
		return ""
	}
	upper := strings.ToUpper(s)
	// Some banks suffix amounts with Cr/Dr markers.
	for _, suffix := range []string{" CR", " DR", "CR", "DR"} {
		if strings.HasSuffix(upper, suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break
		}
	}
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, "INR", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
