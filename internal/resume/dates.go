package resume

import (
	"regexp"
	"strings"
)

const month = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

var (
	monthYearRe = regexp.MustCompile(`(?i)\b` + month + `\s+(?:19|20)\d{2}\b`)
	numMonthRe  = regexp.MustCompile(`\b(?:0?[1-9]|1[0-2])/(?:19|20)\d{2}\b`)
	yearRangeRe = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*(?:-|–|—|to)\s*(?:(?:19|20)\d{2}\b|present\b|current\b|now\b)`)
	dateTokenRe = regexp.MustCompile(`(?i)\b` + month + `\s+(?:19|20)\d{2}\b|\b(?:0?[1-9]|1[0-2])/(?:19|20)\d{2}\b|\b(?:19|20)\d{2}\b`)
	presentRe   = regexp.MustCompile(`(?i)\b(present|current|now)\b`)
)

// isDateLine reports whether a line carries a month-year date or a year range.
func isDateLine(s string) bool {
	return monthYearRe.MatchString(s) || numMonthRe.MatchString(s) || yearRangeRe.MatchString(s)
}

// dateRange is the start/end pair found on a date line. A zero col means
// the token starts the line.
type dateRange struct {
	Start, End       string
	StartCol, EndCol int
	Current          bool
}

// parseDateRange takes the first date token as the start and the second date
// token, or a Present/Current/Now keyword as written, as the end.
func parseDateRange(s string) dateRange {
	var dr dateRange
	tokens := dateTokenRe.FindAllStringIndex(s, 2)
	if len(tokens) > 0 {
		dr.Start = s[tokens[0][0]:tokens[0][1]]
		dr.StartCol = tokens[0][0]
	}
	if loc := presentRe.FindStringIndex(s); loc != nil && (len(tokens) == 0 || loc[0] > tokens[0][0]) {
		dr.End = s[loc[0]:loc[1]]
		dr.EndCol = loc[0]
		dr.Current = true
		return dr
	}
	if len(tokens) > 1 {
		dr.End = s[tokens[1][0]:tokens[1][1]]
		dr.EndCol = tokens[1][0]
	}
	return dr
}

// IsCurrentEndDate reports whether an end date denotes an ongoing position.
func IsCurrentEndDate(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "current", "now":
		return true
	}
	return false
}
