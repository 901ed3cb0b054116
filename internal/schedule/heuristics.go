package schedule

import (
	"regexp"
	"strings"
)

// Keyword scan order matters: the first keyword found wins.
var (
	areaKeywords     = []string{"CORPORATE", "HUB", "LA MOLINA", "BAW", "KIDS"}
	durationKeywords = []string{"30", "45", "60", "CEIBAL", "KIDS"}
)

var (
	parenthesizedRe = regexp.MustCompile(`\((.*?)\)`)
	keywordRe       = compileKeywords(append(append([]string{}, areaKeywords...), durationKeywords...))
)

func compileKeywords(keywords []string) map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(keywords))
	for _, k := range keywords {
		m[k] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`)
	}
	return m
}

func hasKeyword(text, keyword string) bool {
	return keywordRe[keyword].MatchString(text)
}

// ExtractParenthesized returns the contents of every "(...)" group in text,
// joined by ", " in order of appearance. Text without parentheses is returned as is.
//
//	ExtractParenthesized("9:00 (09:00 AM) - 10:00 (10:00 AM)") // "09:00 AM, 10:00 AM"
func ExtractParenthesized(text string) string {
	matches := parenthesizedRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text
	}
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m[1]
	}
	return strings.Join(parts, ", ")
}

// ExtractAreaKeyword returns the first area keyword found in text as a whole
// word, ignoring case. Returns "" when none matches.
func ExtractAreaKeyword(text string) string {
	for _, k := range areaKeywords {
		if hasKeyword(text, k) {
			return k
		}
	}
	return ""
}

// ExtractDurationKeyword classifies a program name into a billed duration.
//
// "30" and "45" are returned as found. A "60" program is billed as "30" because
// those classes are split into two units. Once the scan reaches the CEIBAL entry
// the result is "45" whether or not CEIBAL or KIDS appear in text, so any program
// without a numeric duration is billed as 45 minutes.
func ExtractDurationKeyword(text string) string {
	for _, k := range durationKeywords {
		switch k {
		case "CEIBAL", "KIDS":
			return "45"
		case "60":
			if hasKeyword(text, k) {
				return "30"
			}
		default:
			if hasKeyword(text, k) {
				return k
			}
		}
	}
	return ""
}

// NormalizeAmPm rewrites the "a.m."/"p.m." markers used by the source sheets.
func NormalizeAmPm(text string) string {
	return strings.NewReplacer("a.m.", "AM", "p.m.", "PM").Replace(text)
}

// ClassifyShift returns the shift label for a class start time.
// Times that cannot be parsed fall into the afternoon shift.
func ClassifyShift(startTime string) string {
	t, ok := ParseClock(startTime)
	if !ok {
		return ShiftAfternoon
	}
	if t.Hour() < 14 {
		return ShiftMorning
	}
	return ShiftAfternoon
}
