package assist

import (
	"fmt"
	"strings"
	"time"

	"github.com/darkmailhq/darkmail/internal/model"
)

// SearchResult pairs the matched messages with a human-readable
// restatement of how the query was understood. The restatement is what
// makes a plain keyword filter read like a language model answered.
type SearchResult struct {
	Interpretation string
	Matches        []model.Message
}

// Search runs a natural-language-flavored query over the given
// messages. Recognized phrasings ("invoice", "from <name>", "project",
// "last month") get dedicated filters; anything else falls back to a
// substring scan over sender, subject, and body. Relative ranges
// resolve against now.
func Search(query string, msgs []model.Message, now time.Time) SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))

	switch {
	case strings.Contains(q, "invoice") || strings.Contains(q, "bill"):
		return SearchResult{
			Interpretation: "Searching for emails with invoices or billing information",
			Matches: filter(msgs, func(m model.Message) bool {
				return containsAny(m.Subject, "invoice", "bill") ||
					containsAny(m.Body, "invoice", "bill")
			}),
		}

	// "last month" is checked before the sender clause so that "from
	// last month" reads as a date range, not a sender named "last".
	case strings.Contains(q, "last month"):
		lastMonth := now.AddDate(0, -1, 0)
		return SearchResult{
			Interpretation: fmt.Sprintf("Searching for emails from %s", lastMonth.Month()),
			Matches: filter(msgs, func(m model.Message) bool {
				return m.Date.Month() == lastMonth.Month() && m.Date.Year() == lastMonth.Year()
			}),
		}

	case senderTerm(q) != "":
		name := senderTerm(q)
		return SearchResult{
			Interpretation: fmt.Sprintf("Searching for emails from %s", capitalize(name)),
			Matches: filter(msgs, func(m model.Message) bool {
				return containsAny(m.From.Name, name) || containsAny(m.From.Email, name)
			}),
		}

	case strings.Contains(q, "project"):
		return SearchResult{
			Interpretation: "Searching for emails about projects",
			Matches: filter(msgs, func(m model.Message) bool {
				return containsAny(m.Subject, "project") || containsAny(m.Body, "project")
			}),
		}

	default:
		return SearchResult{
			Interpretation: fmt.Sprintf("Searching for emails matching %q", query),
			Matches: filter(msgs, func(m model.Message) bool {
				return containsAny(m.Subject, q) ||
					containsAny(m.Body, q) ||
					containsAny(m.From.Name, q) ||
					containsAny(m.From.Email, q)
			}),
		}
	}
}

// senderTerm extracts the name following "from " in the query, or ""
// when the query has no sender clause.
func senderTerm(q string) string {
	_, after, ok := strings.Cut(q, "from ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimSpace(after), " ")
	return name
}

func filter(msgs []model.Message, keep func(model.Message) bool) []model.Message {
	var out []model.Message
	for _, m := range msgs {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func containsAny(haystack string, needles ...string) bool {
	h := strings.ToLower(haystack)
	for _, n := range needles {
		if n != "" && strings.Contains(h, n) {
			return true
		}
	}
	return false
}
