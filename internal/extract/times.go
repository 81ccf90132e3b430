package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hourMinutePattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourOnlyPattern   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
	namedTimePattern  = regexp.MustCompile(`(?i)\b(noon|midnight)\b`)
)

// timeGrammars is the ordered time grammar cascade. A missing am/pm
// marker defaults to AM, matching the original heuristic.
var timeGrammars = []grammar[string]{
	{
		// H:MM with optional am/pm
		pattern: hourMinutePattern,
		parse: func(m []string) (string, bool) {
			hour, err := strconv.Atoi(m[1])
			if err != nil || hour > 23 {
				return "", false
			}
			period := strings.ToUpper(m[3])
			if period == "" {
				period = "AM"
			}
			return fmt.Sprintf("%d:%s %s", hour, m[2], period), true
		},
	},
	{
		// Bare hour with am/pm
		pattern: hourOnlyPattern,
		parse: func(m []string) (string, bool) {
			hour, err := strconv.Atoi(m[1])
			if err != nil || hour > 23 {
				return "", false
			}
			return fmt.Sprintf("%d:00 %s", hour, strings.ToUpper(m[2])), true
		},
	},
	{
		pattern: namedTimePattern,
		parse: func(m []string) (string, bool) {
			if strings.EqualFold(m[1], "noon") {
				return "12:00 PM", true
			}
			return "12:00 AM", true
		},
	},
}
