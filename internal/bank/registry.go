// Package bank holds the static registry of supported bank statement
// layouts. The registry is fixed at process start; profiles are never
// mutated.
package bank

import (
	"strings"

	"github.com/spendify/spendify/internal/statement"
)

// CodeAuto is the pseudo-profile sentinel requesting header auto-detection.
const CodeAuto = "auto"

// Profile describes one bank's statement table layout and parsing rules.
type Profile struct {
	Code string
	Name string

	// Columns is the expected raw header row, in statement order.
	Columns []string

	// Column roles, named by raw header.
	DateColumn       string
	NarrationColumn  string
	WithdrawalColumn string
	DepositColumn    string
	BalanceColumn    string

	// DateLayout is the Go reference layout for this bank's date cells.
	// AltDateLayouts are tried when the primary layout fails (some banks
	// mix 2- and 4-digit years within one statement).
	DateLayout     string
	AltDateLayouts []string

	// UsuallyProtected notes that this bank ships statements
	// password-protected by default; callers use it for prompting only.
	UsuallyProtected bool
}

// registry order is significant: Detect tries profiles in this order and
// first match wins.
var registry = []Profile{
	{
		Code: "HDFC",
		Name: "HDFC Bank",
		Columns: []string{
			"Date", "Narration", "Chq./Ref.No.", "Value Dt",
			"Withdrawal Amt.", "Deposit Amt.", "Closing Balance",
		},
		DateColumn:       "Date",
		NarrationColumn:  "Narration",
		WithdrawalColumn: "Withdrawal Amt.",
		DepositColumn:    "Deposit Amt.",
		BalanceColumn:    "Closing Balance",
		DateLayout:       "02/01/06",
		AltDateLayouts:   []string{"02/01/2006"},
		UsuallyProtected: true,
	},
	{
		Code: "SBI",
		Name: "State Bank of India",
		Columns: []string{
			"Txn Date", "Value Date", "Description", "Ref No./Cheque No.",
			"Debit", "Credit", "Balance",
		},
		DateColumn:       "Txn Date",
		NarrationColumn:  "Description",
		WithdrawalColumn: "Debit",
		DepositColumn:    "Credit",
		BalanceColumn:    "Balance",
		DateLayout:       "2 Jan 2006",
		AltDateLayouts:   []string{"02 Jan 2006", "02-01-2006"},
	},
	{
		Code: "KOTAK",
		Name: "Kotak Mahindra Bank",
		Columns: []string{
			"Date", "Narration", "Chq/Ref No", "Withdrawal (Dr)",
			"Deposit (Cr)", "Balance",
		},
		DateColumn:       "Date",
		NarrationColumn:  "Narration",
		WithdrawalColumn: "Withdrawal (Dr)",
		DepositColumn:    "Deposit (Cr)",
		BalanceColumn:    "Balance",
		DateLayout:       "02-01-2006",
		AltDateLayouts:   []string{"02-01-06"},
		UsuallyProtected: true,
	},
	{
		Code: "PNB",
		Name: "Punjab National Bank",
		Columns: []string{
			"Date", "Instrument ID", "Narration", "Debit", "Credit", "Balance",
		},
		DateColumn:       "Date",
		NarrationColumn:  "Narration",
		WithdrawalColumn: "Debit",
		DepositColumn:    "Credit",
		BalanceColumn:    "Balance",
		DateLayout:       "02/01/2006",
	},
}

// Profiles returns the registered profiles in registration order.
func Profiles() []Profile {
	out := make([]Profile, len(registry))
	copy(out, registry)
	return out
}

// Resolve looks up a profile by bank code. The lookup is case-insensitive;
// the auto sentinel is not resolvable here, callers route it to Detect.
func Resolve(code string) (Profile, error) {
	for _, p := range registry {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return Profile{}, statement.Errorf(statement.ErrUnknownBank, "unknown bank code %q", code)
}

// Detect matches a raw header row against each registered profile in
// registration order and returns the first whose expected columns match.
func Detect(header []string) (Profile, error) {
	got := NormalizeHeader(header)
	for _, p := range registry {
		if headerEqual(got, NormalizeHeader(p.Columns)) {
			return p, nil
		}
	}
	return Profile{}, statement.Errorf(statement.ErrUnrecognizedFormat,
		"statement header matches no registered bank format")
}

// Matches reports whether a raw header row is this profile's layout.
func (p Profile) Matches(header []string) bool {
	return headerEqual(NormalizeHeader(header), NormalizeHeader(p.Columns))
}

// ColumnIndex returns the position of a named column within a raw header
// row, or -1 when absent.
func (p Profile) ColumnIndex(header []string, column string) int {
	want := normalizeCell(column)
	for i, h := range header {
		if normalizeCell(h) == want {
			return i
		}
	}
	return -1
}

// NormalizeHeader lower-cases, trims, and collapses whitespace in each
// header cell so layouts compare independent of PDF spacing artifacts.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = normalizeCell(h)
	}
	return out
}

func normalizeCell(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func headerEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
