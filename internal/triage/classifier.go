// Package triage holds the pure decision logic of ticket deflection:
// keyword classification, knowledge-article scoring and the
// auto-resolve/escalate decision. Nothing here touches storage.
package triage

import (
	"strings"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// Rule maps a keyword set to the classification it produces.
type Rule struct {
	Name     string
	Keywords []string
	Category domain.TicketCategory
	Severity domain.TicketSeverity
}

// Classification is the classifier output.
type Classification struct {
	Category domain.TicketCategory
	Severity domain.TicketSeverity
	Rule     string
}

// Fallback is returned when no rule matches.
var Fallback = Classification{
	Category: domain.CategoryOther,
	Severity: domain.SeverityMedium,
	Rule:     "fallback",
}

// defaultRules are evaluated in priority order: bug, account, how-to,
// feature request.
var defaultRules = []Rule{
	{
		Name:     "bug",
		Keywords: []string{"crash", "error", "fail", "404"},
		Category: domain.CategoryBug,
		Severity: domain.SeverityHigh,
	},
	{
		Name:     "account",
		Keywords: []string{"account", "login"},
		Category: domain.CategoryAccountIssue,
		Severity: domain.SeverityMedium,
	},
	{
		Name:     "how-to",
		Keywords: []string{"how do i", "how to"},
		Category: domain.CategoryHowTo,
		Severity: domain.SeverityLow,
	},
	{
		Name:     "feature-request",
		Keywords: []string{"feature request"},
		Category: domain.CategoryFeatureRequest,
		Severity: domain.SeverityMedium,
	},
}

// extendedRules add an outage rule that produces Critical and wider phrasing
// for each default group. They are opt-in.
var extendedRules = []Rule{
	{
		Name:     "critical-outage",
		Keywords: []string{"outage", "data loss", "security breach", "production down"},
		Category: domain.CategoryBug,
		Severity: domain.SeverityCritical,
	},
	{
		Name:     "bug",
		Keywords: []string{"crash", "error", "fail", "404", "exception", "broken"},
		Category: domain.CategoryBug,
		Severity: domain.SeverityHigh,
	},
	{
		Name:     "account",
		Keywords: []string{"account", "login", "log in", "sign in", "password", "locked out"},
		Category: domain.CategoryAccountIssue,
		Severity: domain.SeverityMedium,
	},
	{
		Name:     "how-to",
		Keywords: []string{"how do i", "how to", "how can i"},
		Category: domain.CategoryHowTo,
		Severity: domain.SeverityLow,
	},
	{
		Name:     "feature-request",
		Keywords: []string{"feature request", "would be nice", "please add"},
		Category: domain.CategoryFeatureRequest,
		Severity: domain.SeverityMedium,
	},
}

// DefaultRules returns a copy of the built-in priority-ordered rule table.
func DefaultRules() []Rule {
	return cloneRules(defaultRules)
}

// ExtendedRules returns a copy of the wider opt-in rule table.
func ExtendedRules() []Rule {
	return cloneRules(extendedRules)
}

func cloneRules(src []Rule) []Rule {
	rules := make([]Rule, len(src))
	for i, r := range src {
		r.Keywords = append([]string(nil), r.Keywords...)
		rules[i] = r
	}
	return rules
}

// Classifier evaluates rules in order; the first rule with a keyword hit wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier over rules. A nil table uses DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		r.Keywords = keywords
		normalized = append(normalized, r)
	}
	return &Classifier{rules: normalized}
}

// Classify returns the classification for the ticket text. It never fails.
func (c *Classifier) Classify(title, description string) Classification {
	text := strings.ToLower(title + " " + description)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return Classification{Category: rule.Category, Severity: rule.Severity, Rule: rule.Name}
			}
		}
	}
	return Fallback
}

// Rules returns the table in evaluation order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}
