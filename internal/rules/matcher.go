package rules

import (
	"strings"

	"github.com/darkmailhq/darkmail/internal/model"
)

// Match evaluates rules against a message in slice order and returns
// the first enabled rule whose condition matches, or nil when no rule
// matches. Absence of a match is the normal outcome, not an error.
//
// Disabled rules are skipped here so callers can pass their full rule
// set without pre-filtering.
func Match(msg model.Message, rules []model.Rule) *model.Rule {
	for i := range rules {
		if !rules[i].Enabled {
			continue
		}
		if Matches(msg, rules[i]) {
			return &rules[i]
		}
	}
	return nil
}

// Matches reports whether a single rule's condition holds for the
// message. Matching is case-insensitive substring containment; it is
// not regex and not word-boundary aware. An empty rule value matches
// everything (rule creation rejects empty values, but stored rules
// are honored as wildcards).
func Matches(msg model.Message, rule model.Rule) bool {
	value := strings.ToLower(rule.Value)

	switch rule.Condition {
	case model.ConditionFrom:
		return strings.Contains(strings.ToLower(msg.From.Email), value) ||
			strings.Contains(strings.ToLower(msg.From.Name), value)

	case model.ConditionTo:
		for _, recipient := range msg.To {
			if strings.Contains(strings.ToLower(recipient), value) {
				return true
			}
		}
		return false

	case model.ConditionSubject:
		return strings.Contains(strings.ToLower(msg.Subject), value)

	case model.ConditionBody:
		return strings.Contains(strings.ToLower(msg.Body), value)

	default:
		return false
	}
}
