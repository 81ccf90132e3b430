package assist_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/assist"
	"github.com/darkmailhq/darkmail/internal/model"
)

func sampleMessage() model.Message {
	return model.Message{
		ID:      "msg-1",
		From:    model.Address{Name: "Alex Johnson", Email: "alex.johnson@example.com"},
		To:      []string{"user@example.com"},
		Subject: "Q1 Results Meeting",
		Body: "Great news! We exceeded our Q1 targets by 15%. " +
			"The client is very pleased with our progress. " +
			"Can we schedule a meeting tomorrow to discuss next steps?",
		Date: time.Date(2024, 1, 9, 10, 0, 0, 0, time.Local),
	}
}

func TestSummarize(t *testing.T) {
	s := assist.Summarize(sampleMessage())

	assert.Contains(t, s.Text, "exceeded our Q1 targets")
	assert.Equal(t, assist.SentimentPositive, s.Sentiment)
	assert.NotEmpty(t, s.KeyPoints)
	assert.Contains(t, s.KeyPoints[0], "15%")
	assert.Contains(t, s.ActionItems, "Respond to the meeting request")
	// A question mark makes it at least medium priority.
	assert.Contains(t, s.Priority, "priority")
	assert.NotContains(t, s.Priority, "No response required")
}

func TestSummarizeNegativeSentiment(t *testing.T) {
	m := sampleMessage()
	m.Body = "Unfortunately there is a problem with the delivery and the shipment is delayed."

	s := assist.Summarize(m)
	assert.Equal(t, assist.SentimentNegative, s.Sentiment)
}

func TestSummarizeEmptyBody(t *testing.T) {
	m := sampleMessage()
	m.Subject = "Hello"
	m.Body = ""

	s := assist.Summarize(m)
	assert.Equal(t, "This email contains no body text.", s.Text)
	assert.Empty(t, s.KeyPoints)
	assert.Equal(t, []string{"Reply to Alex Johnson"}, s.ActionItems)
}

func TestSuggestReply(t *testing.T) {
	cases := []struct {
		subject string
		want    string
	}{
		{"Team Meeting Friday", "available for the meeting"},
		{"Invoice #1234", "process the payment"},
		{"Project Update", "Thanks for the update"},
		{"Hello there", "review the information"},
	}

	for _, tc := range cases {
		m := sampleMessage()
		m.Subject = tc.subject
		assert.Contains(t, assist.SuggestReply(m), tc.want, "subject: %s", tc.subject)
	}
}

func TestCompleteDraft(t *testing.T) {
	cases := []struct {
		name  string
		draft string
		want  string
	}{
		{"meeting trigger", "Could we set up a meeting", "Tuesday or Thursday afternoon"},
		{"thank trigger", "Thank you", "time and consideration"},
		{"suffix I", "Regarding the timeline, I ", "wanted to follow up"},
		{"contains wins over suffix I", "Following up on this, I ", "conversation from last week"},
		{"suffix Please", "Please ", "let me know if you need"},
		{"contains beats suffix", "About the project, I ", "detailed proposal"},
		{"default", "Best regards coming soon", "look forward to your response"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, assist.CompleteDraft(tc.draft), tc.want)
		})
	}
}

func TestCompleteDraftCaseInsensitiveContains(t *testing.T) {
	got := assist.CompleteDraft("MEETING request")
	assert.Contains(t, got, "Tuesday or Thursday")
}

func searchFixture() []model.Message {
	return []model.Message{
		{
			ID:      "a",
			From:    model.Address{Name: "Emily Davis", Email: "emily@example.com"},
			Subject: "Invoice #1234",
			Body:    "Attached is your invoice.",
			Date:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local),
		},
		{
			ID:      "b",
			From:    model.Address{Name: "John Carter", Email: "john@example.com"},
			Subject: "Project kickoff",
			Body:    "The project starts Monday.",
			Date:    time.Date(2023, 12, 12, 0, 0, 0, 0, time.Local),
		},
		{
			ID:      "c",
			From:    model.Address{Name: "Sarah Miller", Email: "sarah@example.com"},
			Subject: "Design review",
			Body:    "Feedback attached.",
			Date:    time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local),
		},
	}
}

func TestSearch(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	msgs := searchFixture()

	cases := []struct {
		name    string
		query   string
		wantIDs []string
		wantIn  string
	}{
		{"invoice filter", "show me invoices", []string{"a"}, "billing information"},
		{"sender clause", "emails from john please", []string{"b"}, "from John"},
		{"project filter", "anything about the project?", []string{"b"}, "about projects"},
		{"last month", "emails from last month", []string{"b"}, "December"},
		{"fallback substring", "design", []string{"c"}, `matching "design"`},
		{"fallback no hits", "zebra", nil, "matching"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := assist.Search(tc.query, msgs, now)
			assert.Contains(t, res.Interpretation, tc.wantIn)

			var ids []string
			for _, m := range res.Matches {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestInsights(t *testing.T) {
	msgs := []model.Message{
		{ID: "1", From: model.Address{Name: "Alex", Email: "alex@x.com"}, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local), Labels: []string{"Client"}},
		{ID: "2", From: model.Address{Name: "Alex", Email: "alex@x.com"}, Date: time.Date(2024, 1, 12, 0, 0, 0, 0, time.Local), Read: true},
		{ID: "3", From: model.Address{Name: "Sarah", Email: "sarah@x.com"}, Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local), Starred: true},
		{ID: "4", From: model.Address{Name: "Me", Email: "me@x.com"}, Folder: model.FolderSent, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)},
	}

	r := assist.Insights(msgs)

	assert.Equal(t, 4, r.TotalMessages)
	assert.Equal(t, 2, r.UnreadCount, "sent and read mail excluded")
	assert.Equal(t, 1, r.StarredUnread)

	require.NotEmpty(t, r.TopContacts)
	assert.Equal(t, "alex@x.com", r.TopContacts[0].Email)
	assert.Equal(t, 2, r.TopContacts[0].Count)

	// Both January 5 and January 12 of 2024 are Fridays.
	assert.Equal(t, time.Friday, r.BusiestDay)
	assert.Equal(t, 2, r.BusiestCount)

	require.NotEmpty(t, r.CommonLabels)
	assert.Equal(t, "Client", r.CommonLabels[0].Topic)
	assert.NotEmpty(t, r.Highlights)
}

func TestInsightsEmptyMailbox(t *testing.T) {
	r := assist.Insights(nil)
	assert.Equal(t, []string{"Your mailbox is all caught up"}, r.Highlights)
}

type staticSource struct {
	msgs []model.Message
}

func (s staticSource) AllMessages(context.Context) ([]model.Message, error) {
	return s.msgs, nil
}

func collect(t *testing.T, ch <-chan assist.StreamChunk) string {
	t.Helper()

	var sb strings.Builder
	sawDone := false
	for chunk := range ch {
		sb.WriteString(chunk.Text)
		if chunk.Done {
			sawDone = true
		}
	}
	require.True(t, sawDone, "stream must end with a Done chunk")
	return sb.String()
}

func TestAssistantSearchResponse(t *testing.T) {
	a := assist.New(staticSource{msgs: searchFixture()}, time.Millisecond)

	ch, err := a.SendMessage(context.Background(), "find my invoices")
	require.NoError(t, err)

	text := collect(t, ch)
	assert.Contains(t, text, "billing information")
	assert.Contains(t, text, "Emily Davis")
	assert.Contains(t, text, "Invoice #1234")
}

func TestAssistantInsightsResponse(t *testing.T) {
	a := assist.New(staticSource{msgs: searchFixture()}, time.Millisecond)

	ch, err := a.SendMessage(context.Background(), "show me my mailbox insights")
	require.NoError(t, err)

	text := collect(t, ch)
	assert.Contains(t, text, "Here's what I see in your mailbox")
}

func TestAssistantNoMatches(t *testing.T) {
	a := assist.New(staticSource{}, time.Millisecond)

	ch, err := a.SendMessage(context.Background(), "zebra")
	require.NoError(t, err)

	text := collect(t, ch)
	assert.Contains(t, text, "No matching emails found")
}

func TestAssistantCancel(t *testing.T) {
	a := assist.New(staticSource{msgs: searchFixture()}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := a.SendMessage(ctx, "find my invoices")
	require.NoError(t, err)
	cancel()

	// The stream closes without ever delivering a Done chunk.
	for chunk := range ch {
		assert.False(t, chunk.Done)
	}
}

func TestConversationContextTrimsKeepingFirst(t *testing.T) {
	c := assist.NewConversationContext()
	c.AddMessage(assist.RoleUser, "first", nil)
	for i := 0; i < 30; i++ {
		c.AddMessage(assist.RoleAssistant, "later", nil)
	}

	msgs := c.GetMessages()
	assert.Len(t, msgs, 20)
	assert.Equal(t, "first", msgs[0].Content)

	c.Reset()
	assert.Zero(t, c.Len())
}
