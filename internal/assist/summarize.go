package assist

import (
	"regexp"
	"strings"

	"github.com/darkmailhq/darkmail/internal/model"
)

// Summary is the structured analysis produced for a single message. All
// of it is derived locally from the message text with keyword and
// sentence heuristics; it is a plausible simulation, not understanding.
type Summary struct {
	Text        string
	KeyPoints   []string
	Sentiment   string
	ActionItems []string
	Priority    string
}

const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

var (
	positiveWords = regexp.MustCompile(`(?i)\b(thanks?|great|pleased|excited|happy|appreciate|congratulations?|exceeded|excellent|wonderful)\b`)
	negativeWords = regexp.MustCompile(`(?i)\b(unfortunately|problem|issue|delay(?:ed)?|concern(?:ed)?|sorry|failed|overdue|complaint|wrong)\b`)

	urgentWords  = regexp.MustCompile(`(?i)\b(urgent|asap|immediately|today|end of day|eod|right away)\b`)
	requestWords = regexp.MustCompile(`(?i)\b(please|can (?:you|we)|could (?:you|we)|let me know|would you)\b`)

	// keyPointWords marks a sentence as worth surfacing on its own.
	keyPointWords = regexp.MustCompile(`(?i)\b(meeting|deadline|due|invoice|payment|schedule|review|launch|results?|targets?|budget|confirm)\b`)

	numberish = regexp.MustCompile(`\d|%|\$`)
)

const (
	maxKeyPoints    = 4
	maxActionItems  = 3
	summarySentence = 2
)

// Summarize analyzes one message and returns its simulated summary.
func Summarize(msg model.Message) Summary {
	sentences := splitSentences(msg.Body)

	return Summary{
		Text:        summaryText(sentences),
		KeyPoints:   keyPoints(sentences),
		Sentiment:   sentiment(msg.Body),
		ActionItems: actionItems(msg, sentences),
		Priority:    priority(msg),
	}
}

// summaryText uses the leading sentences of the body as the summary.
func summaryText(sentences []string) string {
	n := summarySentence
	if len(sentences) < n {
		n = len(sentences)
	}
	if n == 0 {
		return "This email contains no body text."
	}
	return strings.Join(sentences[:n], " ")
}

// keyPoints picks sentences that carry concrete facts: numbers,
// amounts, or scheduling vocabulary.
func keyPoints(sentences []string) []string {
	var points []string
	for _, s := range sentences {
		if len(points) == maxKeyPoints {
			break
		}
		if numberish.MatchString(s) || keyPointWords.MatchString(s) {
			points = append(points, s)
		}
	}
	return points
}

// sentiment counts positive and negative keyword hits and reports the
// winner, defaulting to neutral on a tie.
func sentiment(body string) string {
	pos := len(positiveWords.FindAllString(body, -1))
	neg := len(negativeWords.FindAllString(body, -1))
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// actionItems derives suggested follow-ups from the request-like
// sentences of the message.
func actionItems(msg model.Message, sentences []string) []string {
	var items []string

	text := strings.ToLower(msg.Subject + " " + msg.Body)
	if strings.Contains(text, "meeting") || strings.Contains(text, "schedule") {
		items = append(items, "Respond to the meeting request")
	}
	if strings.Contains(text, "invoice") || strings.Contains(text, "payment") {
		items = append(items, "Process the payment")
	}

	for _, s := range sentences {
		if len(items) == maxActionItems {
			break
		}
		if requestWords.MatchString(s) {
			items = append(items, "Follow up: "+s)
		}
	}

	if len(items) == 0 {
		items = append(items, "Reply to "+msg.From.Name)
	}
	if len(items) > maxActionItems {
		items = items[:maxActionItems]
	}
	return items
}

// priority estimates how quickly a reply is expected.
func priority(msg model.Message) string {
	switch {
	case urgentWords.MatchString(msg.Subject) || urgentWords.MatchString(msg.Body):
		return "High priority - Respond within 24 hours"
	case requestWords.MatchString(msg.Body) || strings.Contains(msg.Body, "?"):
		return "Medium priority - Respond within 2-3 days"
	default:
		return "Low priority - No response required"
	}
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// splitSentences breaks body text into trimmed, non-empty sentences.
func splitSentences(body string) []string {
	var sentences []string
	rest := strings.TrimSpace(body)
	for rest != "" {
		loc := sentenceEnd.FindStringIndex(rest)
		if loc == nil {
			sentences = append(sentences, rest)
			break
		}
		if s := strings.TrimSpace(rest[:loc[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		rest = rest[loc[1]:]
	}
	return sentences
}
