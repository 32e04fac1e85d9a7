// Package classify assigns spending categories to ledger transactions by
// matching narrations against an ordered keyword rule list.
package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryOther is assigned when no rule matches a narration.
const CategoryOther = "Other"

// Rule maps a keyword set to a category label. Rules are evaluated in
// registration order and the first matching rule wins; ties between rules
// matching the same narration go to the earlier-registered rule.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// defaultRules is the built-in rule list, ordered most-specific first so
// merchant names win over generic transfer markers.
var defaultRules = []Rule{
	{Category: "Food & Dining", Keywords: []string{
		"swiggy", "zomato", "dominos", "mcdonald", "kfc", "pizza",
		"restaurant", "cafe", "eatery", "dhaba", "bakery",
	}},
	{Category: "Groceries", Keywords: []string{
		"bigbasket", "blinkit", "zepto", "grofers", "dmart", "reliance fresh",
		"kirana", "supermarket", "grocery",
	}},
	{Category: "Shopping", Keywords: []string{
		"amazon", "flipkart", "myntra", "ajio", "nykaa", "snapdeal",
		"decathlon", "croma", "mall",
	}},
	{Category: "Transport", Keywords: []string{
		"uber", "ola", "rapido", "irctc", "redbus", "metro",
		"petrol", "fuel", "hpcl", "iocl", "bpcl", "fastag", "parking", "toll",
	}},
	{Category: "Entertainment", Keywords: []string{
		"netflix", "spotify", "hotstar", "bookmyshow", "prime video",
		"sonyliv", "gaming", "cinema", "pvr", "inox",
	}},
	{Category: "Utilities & Bills", Keywords: []string{
		"electricity", "bescom", "mseb", "tneb", "water bill", "gas bill",
		"airtel", "jio", "vodafone", "vi ", "bsnl", "broadband", "recharge",
		"dth", "postpaid",
	}},
	{Category: "Medical", Keywords: []string{
		"pharmacy", "apollo", "medplus", "netmeds", "pharmeasy", "hospital",
		"clinic", "diagnostic", "lab",
	}},
	{Category: "Rent & EMI", Keywords: []string{
		"rent", "emi", "loan", "nobroker", "housing.com",
	}},
	{Category: "Insurance & Investments", Keywords: []string{
		"lic ", "sip", "mutual fund", "zerodha", "groww", "upstox", "nps",
		"ppf", "insurance", "premium",
	}},
	{Category: "Income", Keywords: []string{
		"salary", "sal cr", "payroll", "stipend", "dividend", "interest credit",
		"int.cr", "refund",
	}},
	{Category: "Cash", Keywords: []string{
		"atm", "cash wdl", "nwd", "cash deposit", "cdm",
	}},
	{Category: "Transfers", Keywords: []string{
		"neft", "imps", "rtgs", "upi",
	}},
}

// DefaultRules returns a copy of the built-in rule list.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// LoadRules reads an ordered rule list from a YAML file. The file replaces
// the built-in list wholesale; order in the file is match order.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	for i, r := range doc.Rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rules file %s: rule %d has no category", path, i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rules file %s: rule %q has no keywords", path, r.Category)
		}
	}
	return doc.Rules, nil
}
