package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spendify/spendify/internal/statement"
)

// maxPayeeRunes caps the display payee length. Counted in runes; narrations
// can carry non-ASCII merchant names.
const maxPayeeRunes = 40

// Classifier assigns categories from an ordered rule list. It holds no
// mutable state after construction and is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New builds a classifier. A nil or empty rule list means DefaultRules.
func New(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns a copy of the ledger with every transaction's Category
// and display Payee populated. The input ledger is not mutated. A narration
// matching no rule gets CategoryOther; classification never fails.
func (c *Classifier) Classify(l *statement.Ledger) *statement.Ledger {
	out := l.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Transactions {
		tx := &out.Transactions[i]
		tx.Category = c.Categorize(tx.Narration)
		tx.Payee = FormatPayee(tx.Narration)
	}
	return out
}

// Categorize matches a narration against the rules in order; the first
// rule with any matching keyword wins.
func (c *Classifier) Categorize(narration string) string {
	n := strings.ToLower(narration)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(n, kw) {
				return r.Category
			}
		}
	}
	return CategoryOther
}

var (
	// Narration prefixes carrying channel metadata rather than the payee.
	channelPrefix = regexp.MustCompile(`(?i)^(upi[-/]|neft[-/]|imps[-/]|rtgs[-/]|pos |ach[-/])`)
	refNumbers    = regexp.MustCompile(`\d{6,}`)
	refSeparators = regexp.MustCompile(`[-*#@/]+`)

	titleCaser = cases.Title(language.English)
)

// FormatPayee cleans a raw narration into a short display name: channel
// prefixes, long reference numbers, and separator runs stripped, then
// title-cased.
func FormatPayee(narration string) string {
	cleaned := channelPrefix.ReplaceAllString(narration, "")
	cleaned = refNumbers.ReplaceAllString(cleaned, "")
	cleaned = refSeparators.ReplaceAllString(cleaned, " ")

	words := strings.Fields(cleaned)
	for i, w := range words {
		if len(w) > 2 {
			words[i] = titleCaser.String(strings.ToLower(w))
		} else {
			words[i] = strings.ToUpper(w)
		}
	}
	result := strings.Join(words, " ")
	if runes := []rune(result); len(runes) > maxPayeeRunes {
		result = strings.TrimSpace(string(runes[:maxPayeeRunes]))
	}
	return result
}
