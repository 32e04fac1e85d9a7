package classify

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/spendify/spendify/internal/statement"
)

func TestCategorize(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name      string
		narration string
		want      string
	}{
		{name: "food delivery", narration: "UPI-SWIGGY-304123456789-PAYMENT", want: "Food & Dining"},
		{name: "groceries", narration: "POS BLINKIT MUMBAI", want: "Groceries"},
		{name: "shopping", narration: "AMAZON PAY INDIA 123456789", want: "Shopping"},
		{name: "transport", narration: "UPI-IRCTC-TICKET-99887766", want: "Transport"},
		{name: "streaming", narration: "NETFLIX.COM SUBSCRIPTION", want: "Entertainment"},
		{name: "mobile recharge", narration: "AIRTEL RECHARGE 9XXXXXXXXX", want: "Utilities & Bills"},
		{name: "salary credit", narration: "NEFT-ACME CORP-SALARY APR", want: "Income"},
		{name: "atm cash", narration: "ATM NWD-987654321012", want: "Cash"},
		{name: "bare upi transfer", narration: "UPI-9876543210@ybl-OID1234", want: "Transfers"},
		{name: "no match", narration: "MISC ADJUSTMENT", want: CategoryOther},
		{name: "case insensitive", narration: "upi-swiggy-refund", want: "Food & Dining"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Categorize(tt.narration); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.narration, got, tt.want)
			}
		})
	}
}

func TestCategorizeFirstRuleWins(t *testing.T) {
	// Both rules match; registration order decides, every time.
	rules := []Rule{
		{Category: "First", Keywords: []string{"swiggy"}},
		{Category: "Second", Keywords: []string{"swiggy", "upi"}},
	}
	c := New(rules)

	for i := 0; i < 100; i++ {
		if got := c.Categorize("UPI-SWIGGY-ORDER"); got != "First" {
			t.Fatalf("iteration %d: got %q, want First", i, got)
		}
	}
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	ledger := &statement.Ledger{
		BankCode: "HDFC",
		Transactions: []statement.Transaction{
			{
				Date:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
				Narration:  "UPI-SWIGGY-304123456789",
				Withdrawal: decimal.RequireFromString("250.00"),
				Balance:    decimal.RequireFromString("9750.00"),
				Category:   statement.CategoryUncategorized,
			},
		},
	}

	c := New(nil)
	got := c.Classify(ledger)

	if ledger.Transactions[0].Category != statement.CategoryUncategorized {
		t.Error("input ledger was mutated")
	}
	if ledger.Transactions[0].Payee != "" {
		t.Error("input ledger payee was mutated")
	}
	if got.Transactions[0].Category != "Food & Dining" {
		t.Errorf("category = %q, want Food & Dining", got.Transactions[0].Category)
	}
	if got.Transactions[0].Payee == "" {
		t.Error("payee not populated")
	}

	// Classification is deterministic: a second run matches the first.
	again := c.Classify(ledger)
	if !reflect.DeepEqual(got, again) {
		t.Error("repeated classification diverged")
	}
}

func TestFormatPayee(t *testing.T) {
	tests := []struct {
		name      string
		narration string
		want      string
	}{
		{name: "upi with refs", narration: "UPI-SWIGGY-304123456789-PAYMENT", want: "Swiggy Payment"},
		{name: "plain merchant", narration: "NETFLIX COM", want: "Netflix Com"},
		{name: "short tokens uppercase", narration: "POS AB STORE", want: "AB Store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPayee(tt.narration); got != tt.want {
				t.Errorf("FormatPayee(%q) = %q, want %q", tt.narration, got, tt.want)
			}
		})
	}
}

func TestFormatPayeeTruncatesOnRunes(t *testing.T) {
	// 48 runes of multi-byte text; a byte-offset cut would split a rune.
	narration := "CAF" + strings.Repeat("É", 45)

	got := FormatPayee(narration)

	if !utf8.ValidString(got) {
		t.Fatalf("FormatPayee produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 40 {
		t.Errorf("payee length = %d runes, want 40", n)
	}
	if want := "Caf" + strings.Repeat("é", 37); got != want {
		t.Errorf("FormatPayee = %q, want %q", got, want)
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `rules:
  - category: Coffee
    keywords: [starbucks, "third wave"]
  - category: Books
    keywords: [kindle]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	c := New(rules)
	if got := c.Categorize("STARBUCKS KORAMANGALA"); got != "Coffee" {
		t.Errorf("Categorize = %q, want Coffee", got)
	}

	t.Run("missing category rejected", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(bad, []byte("rules:\n  - keywords: [x]\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadRules(bad); err == nil {
			t.Error("expected error for rule without category")
		}
	})
}
