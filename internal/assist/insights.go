package assist

import (
	"fmt"
	"sort"
	"time"

	"github.com/darkmailhq/darkmail/internal/model"
)

// ContactCount is one entry in the top-contacts ranking.
type ContactCount struct {
	Name  string
	Email string
	Count int
}

// TopicCount is one entry in the common-topics ranking, keyed by the
// extracted category of the message body.
type TopicCount struct {
	Topic string
	Count int
}

// InsightsReport aggregates mailbox statistics for the insights panel.
// Unlike the summary heuristics this is honest arithmetic over the
// stored messages; only the framing pretends to be analysis.
type InsightsReport struct {
	TotalMessages int
	UnreadCount   int
	StarredUnread int
	TopContacts   []ContactCount
	BusiestDay    time.Weekday
	BusiestCount  int
	CommonLabels  []TopicCount
	Highlights    []string
}

const topContactLimit = 3

// Insights computes a mailbox report over the given messages. Only
// inbox mail counts toward contact and activity rankings; sent mail
// would skew them toward the account owner.
func Insights(msgs []model.Message) InsightsReport {
	report := InsightsReport{TotalMessages: len(msgs)}

	contacts := make(map[string]*ContactCount)
	days := make(map[time.Weekday]int)
	labels := make(map[string]int)

	for _, m := range msgs {
		if m.Folder == model.FolderSent {
			continue
		}
		if !m.Read {
			report.UnreadCount++
			if m.Starred {
				report.StarredUnread++
			}
		}

		c, ok := contacts[m.From.Email]
		if !ok {
			c = &ContactCount{Name: m.From.Name, Email: m.From.Email}
			contacts[m.From.Email] = c
		}
		c.Count++

		days[m.Date.Weekday()]++
		for _, label := range m.Labels {
			labels[label]++
		}
	}

	for _, c := range contacts {
		report.TopContacts = append(report.TopContacts, *c)
	}
	sort.Slice(report.TopContacts, func(i, j int) bool {
		a, b := report.TopContacts[i], report.TopContacts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Email < b.Email
	})
	if len(report.TopContacts) > topContactLimit {
		report.TopContacts = report.TopContacts[:topContactLimit]
	}

	for day := time.Sunday; day <= time.Saturday; day++ {
		if days[day] > report.BusiestCount {
			report.BusiestDay = day
			report.BusiestCount = days[day]
		}
	}

	for label, count := range labels {
		report.CommonLabels = append(report.CommonLabels, TopicCount{Topic: label, Count: count})
	}
	sort.Slice(report.CommonLabels, func(i, j int) bool {
		a, b := report.CommonLabels[i], report.CommonLabels[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Topic < b.Topic
	})

	report.Highlights = highlights(report)
	return report
}

// highlights renders the report as short sentences for the summary tab.
func highlights(r InsightsReport) []string {
	var lines []string
	if r.BusiestCount > 0 {
		lines = append(lines, fmt.Sprintf(
			"Your busiest day was %s with %d incoming emails", r.BusiestDay, r.BusiestCount))
	}
	if len(r.TopContacts) > 0 {
		lines = append(lines, fmt.Sprintf(
			"You've received the most email from %s", r.TopContacts[0].Name))
	}
	if r.UnreadCount > 0 {
		lines = append(lines, fmt.Sprintf(
			"%d emails are awaiting your response", r.UnreadCount))
	}
	if r.StarredUnread > 0 {
		lines = append(lines, fmt.Sprintf(
			"%d starred emails are still unread", r.StarredUnread))
	}
	if len(lines) == 0 {
		lines = append(lines, "Your mailbox is all caught up")
	}
	return lines
}
