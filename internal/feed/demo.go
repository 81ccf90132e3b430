package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darkmailhq/darkmail/internal/model"
)

// seedMessage is one entry of the canned mailbox, with its age
// expressed relative to seed time so the demo always looks recent.
type seedMessage struct {
	from    model.Address
	subject string
	body    string
	age     time.Duration
	read    bool
	starred bool
	labels  []string
}

var seedMailbox = []seedMessage{
	{
		from:    model.Address{Name: "Alex Johnson", Email: "alex.johnson@example.com"},
		subject: "Project Update - Q1 Results",
		body: "Hi there,\n\nI wanted to share the Q1 results with you. We've exceeded our targets " +
			"by 15% and the client is very happy with our progress.\n\nCan we schedule a meeting " +
			"tomorrow to discuss the next steps?\n\nBest regards,\nAlex",
		age:     26 * time.Hour,
		starred: true,
		labels:  []string{"work", "important"},
	},
	{
		from:    model.Address{Name: "Sarah Miller", Email: "sarah.miller@example.com"},
		subject: "Design Review Meeting",
		body: "Hello,\n\nJust a reminder that we have a design review meeting scheduled for " +
			"tomorrow at 2 PM. Please prepare your feedback on the latest mockups.\n\n" +
			"Looking forward to your insights!\n\nSarah",
		age:    45 * time.Hour,
		read:   true,
		labels: []string{"work"},
	},
	{
		from:    model.Address{Name: "Michael Chen", Email: "michael.chen@example.com"},
		subject: "Weekend Plans",
		body: "Hey!\n\nA few of us are planning to go hiking this weekend. Would you like to " +
			"join? We're thinking of Mount Rainier, weather permitting.\n\nLet me know if " +
			"you're interested and I'll send more details.\n\nCheers,\nMichael",
		age:    2*24*time.Hour + 19*time.Hour,
		read:   true,
		labels: []string{"personal"},
	},
	{
		from:    model.Address{Name: "Emily Davis", Email: "emily.davis@example.com"},
		subject: "Invoice #1234",
		body: "Dear Client,\n\nAttached is the invoice #1234 for the services provided last " +
			"month.\n\nPlease process the payment at your earliest convenience. If you have " +
			"any questions, don't hesitate to reach out.\n\nThank you for your business!\n\n" +
			"Emily Davis\nFinance Department",
		age:    3 * 24 * time.Hour,
		labels: []string{"finance"},
	},
	{
		from:    model.Address{Name: "David Wilson", Email: "david.wilson@example.com"},
		subject: "New Product Launch",
		body: "Team,\n\nI'm excited to announce that we'll be launching our new product line " +
			"next month! This is the culmination of months of hard work and dedication.\n\n" +
			"We'll be having a company-wide meeting next week to go over the launch strategy. " +
			"Please come prepared with any questions.\n\nDavid Wilson\nProduct Manager",
		age:     4 * 24 * time.Hour,
		read:    true,
		starred: true,
		labels:  []string{"work", "important"},
	},
	{
		from:    model.Address{Name: "Jessica Brown", Email: "jessica.brown@example.com"},
		subject: "Dinner Reservation",
		body: "Hi,\n\nI've made a reservation for dinner this Friday at 7 PM at that new " +
			"Italian restaurant you mentioned. Looking forward to catching up!\n\nJessica",
		age:    5 * 24 * time.Hour,
		read:   true,
		labels: []string{"personal"},
	},
	{
		from:    model.Address{Name: "Robert Taylor", Email: "robert.taylor@example.com"},
		subject: "Quarterly Budget Review",
		body: "Hello,\n\nIt's time for our quarterly budget review. I've attached the " +
			"spreadsheet with our current expenses and projections for the next quarter.\n\n" +
			"Please review it before our meeting on Monday.\n\nRegards,\nRobert\nFinance Director",
		age:    6 * 24 * time.Hour,
		labels: []string{"work", "finance"},
	},
	{
		from:    model.Address{Name: "Lisa Wang", Email: "lisa.wang@example.com"},
		subject: "Happy Birthday!",
		body: "Happy Birthday!\n\nWishing you a fantastic day filled with joy and celebration. " +
			"May the coming year bring you success and happiness!\n\nBest wishes,\nLisa",
		age:     7 * 24 * time.Hour,
		read:    true,
		starred: true,
		labels:  []string{"personal"},
	},
	{
		from:    model.Address{Name: "James Martin", Email: "james.martin@example.com"},
		subject: "Website Feedback",
		body: "Hi there,\n\nI've reviewed the new website and I have some feedback. Overall, " +
			"it looks great, but I think we could improve the user experience in a few areas.\n\n" +
			"Let's discuss this in our next meeting.\n\nJames",
		age:    8 * 24 * time.Hour,
		read:   true,
		labels: []string{"work"},
	},
	{
		from:    model.Address{Name: "Sophia Garcia", Email: "sophia.garcia@example.com"},
		subject: "Vacation Photos",
		body: "Hey!\n\nJust got back from my trip to Italy and thought I'd share some photos " +
			"with you. It was absolutely amazing!\n\nLet's catch up soon so I can tell you " +
			"all about it.\n\nSophia",
		age:    9 * 24 * time.Hour,
		labels: []string{"personal"},
	},
}

// incomingMessage is one entry of the simulated-arrival rotation. The
// set is chosen so that automation rules, event extraction, and the
// auto-reply path all have something to chew on.
type incomingMessage struct {
	from    model.Address
	subject string
	body    string
}

var incomingRotation = []incomingMessage{
	{
		from:    model.Address{Name: "Taylor Reed", Email: "taylor.reed@example.com"},
		subject: "Question about support",
		body: "Hello,\n\nI have a question about your product support options. Could you " +
			"point me to the right plan for a small team?\n\nThanks,\nTaylor",
	},
	{
		from:    model.Address{Name: "Alex Johnson", Email: "alex.johnson@clientcompany.com"},
		subject: "Contract renewal discussion",
		body: "Hi,\n\nOur contract is coming up for renewal and I'd like to schedule a call " +
			"next week to walk through the terms.\n\nBest,\nAlex",
	},
	{
		from:    model.Address{Name: "Weekly Digest", Email: "digest@newsletter.example.com"},
		subject: "Newsletter: product news roundup",
		body: "Here's everything that shipped this week, plus a look at what's coming next " +
			"month.\n\nUnsubscribe at any time.",
	},
	{
		from:    model.Address{Name: "Dr. Patel's Office", Email: "frontdesk@clinic.example.com"},
		subject: "Appointment reminder",
		body: "This is a reminder of your checkup appointment on " +
			"{{nextWeek}} at 10:30 am.\n\nPlease arrive 15 minutes early.",
	},
}

// DefaultRules returns the automation rules installed on first run.
// The support auto-reply ships disabled so the demo does not answer
// mail until the user opts in.
func DefaultRules() []model.Rule {
	return []model.Rule{
		{
			ID:          "rule-client-emails",
			Name:        "Client Emails",
			Condition:   model.ConditionFrom,
			Value:       "@clientcompany.com",
			Action:      model.ActionLabel,
			ActionValue: "Client",
			Enabled:     true,
		},
		{
			ID:          "rule-newsletter-filter",
			Name:        "Newsletter Filter",
			Condition:   model.ConditionSubject,
			Value:       "newsletter",
			Action:      model.ActionMove,
			ActionValue: string(model.FolderArchive),
			Enabled:     true,
		},
		{
			ID:          "rule-support-auto-reply",
			Name:        "Auto-Reply to Support",
			Condition:   model.ConditionTo,
			Value:       "support@mycompany.com",
			Action:      model.ActionReply,
			ActionValue: "Thank you for contacting support. We'll get back to you within 24 hours.",
			Enabled:     false,
		},
	}
}

// DefaultSchedules returns the scheduled emails installed on first run.
func DefaultSchedules() []model.ScheduledEmail {
	return []model.ScheduledEmail{
		{
			ID:      "schedule-weekly-status",
			To:      "team@example.com",
			Subject: "Weekly Status Update",
			Body:    "Here's our weekly status update...",
			Cadence: model.CadenceWeekly,
			Day:     "Monday",
			Time:    "09:00",
			Enabled: true,
		},
		{
			ID:      "schedule-progress-report",
			To:      "client@example.com",
			Subject: "Project Progress Report",
			Body:    "Progress update on our ongoing project...",
			Cadence: model.CadenceMonthly,
			Day:     "1",
			Time:    "10:00",
			Enabled: true,
		},
	}
}

// DemoFeed serves the canned mailbox and a rotating set of simulated
// incoming messages. It is safe for concurrent use.
type DemoFeed struct {
	mu   sync.Mutex
	next int
}

// NewDemoFeed creates the built-in demo feed.
func NewDemoFeed() *DemoFeed {
	return &DemoFeed{}
}

func (f *DemoFeed) Name() string { return "demo" }

// Seed returns the canned mailbox with dates shifted relative to now.
func (f *DemoFeed) Seed(_ context.Context, now time.Time) ([]model.Message, error) {
	msgs := make([]model.Message, 0, len(seedMailbox))
	for i, s := range seedMailbox {
		msgs = append(msgs, model.Message{
			ID:      fmt.Sprintf("seed-%d", i+1),
			From:    s.from,
			To:      []string{model.DefaultAccountEmail},
			Subject: s.subject,
			Body:    s.body,
			Date:    now.Add(-s.age),
			Read:    s.read,
			Starred: s.starred,
			Labels:  append([]string(nil), s.labels...),
			Folder:  model.FolderInbox,
		})
	}
	return msgs, nil
}

// Next returns the next message from the rotation. The demo feed never
// runs dry; it cycles forever with fresh IDs and dates.
func (f *DemoFeed) Next(_ context.Context, now time.Time) (model.Message, bool, error) {
	f.mu.Lock()
	in := incomingRotation[f.next%len(incomingRotation)]
	f.next++
	f.mu.Unlock()

	body := expandBody(in.body, now)

	return model.Message{
		ID:      uuid.NewString(),
		From:    in.from,
		To:      []string{model.DefaultAccountEmail},
		Subject: in.subject,
		Body:    body,
		Date:    now,
		Folder:  model.FolderInbox,
	}, true, nil
}

// expandBody fills date placeholders so extraction finds a real date
// no matter when the demo runs.
func expandBody(body string, now time.Time) string {
	nextWeek := now.AddDate(0, 0, 7)
	stamp := fmt.Sprintf("%s %d, %d", nextWeek.Month(), nextWeek.Day(), nextWeek.Year())
	return strings.ReplaceAll(body, "{{nextWeek}}", stamp)
}
