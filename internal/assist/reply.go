package assist

import (
	"strings"

	"github.com/darkmailhq/darkmail/internal/model"
)

// SuggestReply proposes a one-click reply body for the given message.
// The suggestion is chosen by subject keywords, falling back to a
// generic acknowledgement. First matching pattern wins.
func SuggestReply(msg model.Message) string {
	subject := strings.ToLower(msg.Subject)

	switch {
	case strings.Contains(subject, "meeting"):
		return "I'm available for the meeting. Looking forward to discussing the project progress."
	case strings.Contains(subject, "invoice"):
		return "Thank you for sending the invoice. I'll process the payment right away."
	case strings.Contains(subject, "update"):
		return "Thanks for the update. I appreciate you keeping me informed on the progress."
	case strings.Contains(subject, "question"):
		return "Good question. Let me look into it and get back to you with a full answer."
	default:
		return "Thank you for your email. I'll review the information and respond shortly."
	}
}
