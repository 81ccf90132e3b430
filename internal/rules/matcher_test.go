package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/rules"
)

func testMessage() model.Message {
	return model.Message{
		ID:      "msg-1",
		From:    model.Address{Name: "Emily Davis", Email: "emily.davis@example.com"},
		To:      []string{"user@example.com", "support@mycompany.com"},
		Subject: "Your March Invoice",
		Body:    "Attached is invoice #1234 for services provided in February.",
		Date:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func rule(id string, cond model.RuleCondition, value string, enabled bool) model.Rule {
	return model.Rule{
		ID:          id,
		Name:        "rule-" + id,
		Condition:   cond,
		Value:       value,
		Action:      model.ActionReply,
		ActionValue: "Thanks, we received your message.",
		Enabled:     enabled,
	}
}

func TestMatch(t *testing.T) {
	msg := testMessage()

	cases := []struct {
		name   string
		rules  []model.Rule
		wantID string
	}{
		{
			name:   "subject substring case-insensitive",
			rules:  []model.Rule{rule("1", model.ConditionSubject, "invoice", true)},
			wantID: "1",
		},
		{
			name:   "from matches address",
			rules:  []model.Rule{rule("1", model.ConditionFrom, "@example.com", true)},
			wantID: "1",
		},
		{
			name:   "from matches display name",
			rules:  []model.Rule{rule("1", model.ConditionFrom, "emily", true)},
			wantID: "1",
		},
		{
			name:   "to matches any recipient",
			rules:  []model.Rule{rule("1", model.ConditionTo, "support@mycompany.com", true)},
			wantID: "1",
		},
		{
			name:   "body substring",
			rules:  []model.Rule{rule("1", model.ConditionBody, "#1234", true)},
			wantID: "1",
		},
		{
			name: "first match wins over later rules",
			rules: []model.Rule{
				rule("1", model.ConditionSubject, "invoice", true),
				rule("2", model.ConditionBody, "invoice", true),
			},
			wantID: "1",
		},
		{
			name: "disabled rules never match",
			rules: []model.Rule{
				rule("1", model.ConditionSubject, "invoice", false),
				rule("2", model.ConditionBody, "february", true),
			},
			wantID: "2",
		},
		{
			name:   "no match returns nil",
			rules:  []model.Rule{rule("1", model.ConditionSubject, "newsletter", true)},
			wantID: "",
		},
		{
			name:   "empty value acts as wildcard",
			rules:  []model.Rule{rule("1", model.ConditionSubject, "", true)},
			wantID: "1",
		},
		{
			name:   "empty rule set",
			rules:  nil,
			wantID: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rules.Match(msg, tc.rules)
			if tc.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantID, got.ID)
		})
	}
}

func TestMatchesUnknownCondition(t *testing.T) {
	r := rule("1", model.RuleCondition("cc"), "anything", true)
	assert.False(t, rules.Matches(testMessage(), r))
}

func TestRuleValidate(t *testing.T) {
	valid := rule("1", model.ConditionSubject, "invoice", true)
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*model.Rule)
	}{
		{"empty name", func(r *model.Rule) { r.Name = "" }},
		{"empty value", func(r *model.Rule) { r.Value = "" }},
		{"empty action value", func(r *model.Rule) { r.ActionValue = "" }},
		{"unknown condition", func(r *model.Rule) { r.Condition = "cc" }},
		{"unknown action", func(r *model.Rule) { r.Action = "delete" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}
