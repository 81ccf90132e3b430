package assist

import "strings"

// draftRule maps a trigger in the draft text to a canned continuation.
// Rules are checked in order and the first hit wins, so more specific
// triggers sit above generic ones.
type draftRule struct {
	contains []string // any substring match, case-insensitive
	suffix   string   // exact suffix match, checked when contains is empty
	text     string
}

var draftRules = []draftRule{
	{contains: []string{"meeting", "discuss"}, text: " I'm available this week on Tuesday or Thursday afternoon if that works for you."},
	{contains: []string{"proposal", "project"}, text: " I've attached the detailed proposal for your review. Please let me know if you have any questions."},
	{contains: []string{"thank"}, text: " for your time and consideration. I look forward to hearing back from you soon."},
	{contains: []string{"schedule", "calendar"}, text: " a time that works best for you. My calendar is open most afternoons next week."},
	{contains: []string{"update", "progress"}, text: " on our current progress. We've completed about 75% of the planned work and are on track to meet the deadline."},
	{contains: []string{"question", "wondering"}, text: " if you could provide more details about the requirements for this project."},
	{contains: []string{"follow"}, text: " up on our conversation from last week regarding the new marketing strategy."},
	{contains: []string{"confirm"}, text: " that I've received your message and will process your request by the end of the week."},
	{suffix: "I ", text: "wanted to follow up on our previous discussion about the project timeline."},
	{suffix: "Please ", text: "let me know if you need any additional information or have any questions."},
	{suffix: "We ", text: "should schedule a meeting to discuss the next steps for this project."},
	{suffix: "The ", text: "project is progressing well and we expect to meet all the deadlines as planned."},
}

const defaultCompletion = "I look forward to your response and am happy to provide any additional information needed."

// CompleteDraft suggests a continuation for a partially written email
// body. The result is meant to be appended to the draft as-is; leading
// whitespace in the suggestion is therefore significant.
func CompleteDraft(draft string) string {
	lower := strings.ToLower(draft)
	for _, r := range draftRules {
		for _, c := range r.contains {
			if strings.Contains(lower, c) {
				return r.text
			}
		}
		if r.suffix != "" && strings.HasSuffix(draft, r.suffix) {
			return r.text
		}
	}
	return defaultCompletion
}
