// Package thread groups messages into conversations by normalized
// subject. Threading here is heuristic: reply and forward prefixes are
// stripped and the remainder compared case-insensitively, which is
// enough for a mailbox that never sees real-world header chains.
package thread

import (
	"regexp"
	"sort"
	"strings"

	"github.com/darkmailhq/darkmail/internal/model"
)

// replyPrefix matches any run of leading Re:/Fwd:/Fw: markers.
var replyPrefix = regexp.MustCompile(`(?i)^(\s*(re|fwd?|fw)\s*:\s*)+`)

// NormalizeSubject strips reply and forward prefixes and collapses
// whitespace, yielding the conversation key for a subject line.
func NormalizeSubject(subject string) string {
	s := replyPrefix.ReplaceAllString(subject, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// Conversation is a group of messages sharing a normalized subject,
// ordered oldest first.
type Conversation struct {
	Key      string
	Subject  string // subject of the earliest message, prefix-free
	Messages []model.Message
}

// Latest returns the most recent message of the conversation.
func (c Conversation) Latest() model.Message {
	return c.Messages[len(c.Messages)-1]
}

// Unread reports whether any message in the conversation is unread.
func (c Conversation) Unread() bool {
	for _, m := range c.Messages {
		if !m.Read {
			return true
		}
	}
	return false
}

// Group partitions messages into conversations. Conversations are
// ordered by their most recent message, newest first; messages within
// a conversation are ordered oldest first. Messages with an empty
// normalized subject each form their own conversation.
func Group(msgs []model.Message) []Conversation {
	byKey := make(map[string]*Conversation)
	var order []*Conversation

	for _, m := range msgs {
		key := NormalizeSubject(m.Subject)
		if key == "" {
			// No usable subject; keep the message alone under its ID.
			key = "msg:" + m.ID
		}

		c, ok := byKey[key]
		if !ok {
			c = &Conversation{Key: key}
			byKey[key] = c
			order = append(order, c)
		}
		c.Messages = append(c.Messages, m)
	}

	for _, c := range order {
		sort.SliceStable(c.Messages, func(i, j int) bool {
			return c.Messages[i].Date.Before(c.Messages[j].Date)
		})
		c.Subject = replyPrefix.ReplaceAllString(c.Messages[0].Subject, "")
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Latest().Date.After(order[j].Latest().Date)
	})

	out := make([]Conversation, 0, len(order))
	for _, c := range order {
		out = append(out, *c)
	}
	return out
}
