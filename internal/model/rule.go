package model

import (
	"fmt"
	"time"
)

// RuleCondition names the message field an automation rule inspects.
type RuleCondition string

const (
	ConditionFrom    RuleCondition = "from"
	ConditionTo      RuleCondition = "to"
	ConditionSubject RuleCondition = "subject"
	ConditionBody    RuleCondition = "body"
)

// RuleAction names what an automation rule does when it matches.
type RuleAction string

const (
	ActionLabel   RuleAction = "label"
	ActionMove    RuleAction = "move"
	ActionForward RuleAction = "forward"
	ActionReply   RuleAction = "reply"
)

// RuleConditions lists every valid condition, in display order.
var RuleConditions = []RuleCondition{
	ConditionFrom, ConditionTo, ConditionSubject, ConditionBody,
}

// RuleActions lists every valid action, in display order.
var RuleActions = []RuleAction{
	ActionLabel, ActionMove, ActionForward, ActionReply,
}

// Rule is a user-defined condition/action pair applied to inbound mail.
// Rules are evaluated in creation order; the first match wins.
type Rule struct {
	// ID is the unique identifier for this rule.
	ID string `json:"id"`

	// Name is the user-supplied label for the rule.
	Name string `json:"name"`

	// Condition selects the message field to test.
	Condition RuleCondition `json:"condition"`

	// Value is the case-insensitive substring the field must contain.
	Value string `json:"value"`

	// Action is what to do when the rule matches.
	Action RuleAction `json:"action"`

	// ActionValue is the action payload: a label name, folder name,
	// forward address, or reply body depending on Action.
	ActionValue string `json:"action_value"`

	// Enabled controls whether the rule participates in matching.
	Enabled bool `json:"enabled"`

	// CreatedAt orders rules for first-match-wins evaluation.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the rule is well formed. An empty Value is
// rejected here rather than treated as a match-everything wildcard.
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Value == "" {
		return fmt.Errorf("rule %q: match value is required", r.Name)
	}
	if r.ActionValue == "" {
		return fmt.Errorf("rule %q: action value is required", r.Name)
	}

	valid := false
	for _, c := range RuleConditions {
		if r.Condition == c {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("rule %q: unknown condition %q", r.Name, r.Condition)
	}

	valid = false
	for _, a := range RuleActions {
		if r.Action == a {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("rule %q: unknown action %q", r.Name, r.Action)
	}

	return nil
}
