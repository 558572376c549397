package resume

import (
	"regexp"
	"strings"

	"resumeparse/internal/domain"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`(?:\+?\d{1,2}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)
	urlRe      = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?[a-z0-9][a-z0-9\-]*(?:\.[a-z0-9\-]+)*\.(?:com|org|net|io|dev|me|co|edu|ai|app|info|tech|us|uk)\b(?:/[^\s|,;]*)?`)
	locationRe = regexp.MustCompile(`\b([A-Z][A-Za-z.']+(?:[ \-][A-Z][A-Za-z.']+)*),\s*([A-Z]{2})\b(?:\s+\d{5}(?:-\d{4})?)?`)
	postalRe   = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	stateRe    = regexp.MustCompile(`\b[A-Z]{2}\b`)
	nameSplit  = regexp.MustCompile(`\s{2,}|\t|\s*[|/]\s*`)
	nameChars  = regexp.MustCompile(`^[\p{L}\s\-'.]+$`)
)

// jobTitleWords keeps job titles that share a header line with the name out
// of the full-name candidates.
var jobTitleWords = []string{
	"manager", "engineer", "director", "developer", "designer", "analyst",
	"consultant", "specialist", "coordinator", "officer", "architect",
	"administrator", "lead", "intern", "scientist", "assistant", "executive",
	"president", "founder", "senior", "junior", "head", "programmer",
	"accountant", "associate", "technician", "resume", "curriculum", "vitae",
}

// extractPersonal scans the personal region for contact fields. Every slot
// but location is always present, empty with zero confidence when nothing
// matched.
func extractPersonal(lines []Line) []domain.ParsedField {
	var (
		email, phone, location, linkedin, website *domain.ParsedField
	)
	for _, ln := range lines {
		emailSpans := emailRe.FindAllStringIndex(ln.Text, -1)
		if email == nil && len(emailSpans) > 0 {
			f := newField(domain.FieldEmail, ln.Text[emailSpans[0][0]:emailSpans[0][1]], confEmail, ln, emailSpans[0][0])
			email = &f
		}
		if phone == nil {
			if loc := phoneRe.FindStringIndex(ln.Text); loc != nil && !overlaps(loc, emailSpans) {
				f := newField(domain.FieldPhone, ln.Text[loc[0]:loc[1]], confPhone, ln, loc[0])
				phone = &f
			}
		}
		for _, loc := range urlRe.FindAllStringIndex(ln.Text, -1) {
			if overlaps(loc, emailSpans) {
				continue
			}
			url := ln.Text[loc[0]:loc[1]]
			if strings.Contains(strings.ToLower(url), "linkedin") {
				if linkedin == nil {
					f := newField(domain.FieldLinkedIn, url, confLinkedIn, ln, loc[0])
					linkedin = &f
				}
			} else if website == nil {
				f := newField(domain.FieldWebsite, url, confWebsite, ln, loc[0])
				website = &f
			}
		}
		if location == nil {
			if m := locationRe.FindStringIndex(ln.Text); m != nil {
				f := newField(domain.FieldLocation, ln.Text[m[0]:m[1]], confLocation, ln, m[0])
				location = &f
			}
		}
	}

	fields := []domain.ParsedField{extractName(lines)}
	fields = append(fields, orEmpty(email, domain.FieldEmail, "no email address found"))
	fields = append(fields, orEmpty(phone, domain.FieldPhone, "no phone number found"))
	if location != nil {
		fields = append(fields, *location)
	}
	fields = append(fields, orEmpty(linkedin, domain.FieldLinkedIn, "no LinkedIn URL found"))
	fields = append(fields, orEmpty(website, domain.FieldWebsite, "no website found"))
	return fields
}

// extractName guesses the full name from the first line of the region.
func extractName(lines []Line) domain.ParsedField {
	if len(lines) == 0 {
		return emptyField(domain.FieldFullName, "no full name found")
	}
	first := lines[0]

	stripped := first.Text
	for _, re := range []*regexp.Regexp{emailRe, urlRe, phoneRe, postalRe, stateRe} {
		stripped = re.ReplaceAllString(stripped, "  ")
	}

	var candidates []string
	for _, seg := range nameSplit.Split(stripped, -1) {
		seg = strings.Trim(strings.TrimSpace(seg), ",;:-–•·")
		seg = strings.TrimSpace(seg)
		if seg != "" {
			candidates = append(candidates, seg)
		}
	}
	if len(candidates) == 0 {
		return emptyField(domain.FieldFullName, "no full name found")
	}

	for _, c := range candidates {
		if looksLikeName(c) {
			return newField(domain.FieldFullName, c, confNameFiltered, first, strings.Index(first.Text, c))
		}
	}

	f := newField(domain.FieldFullName, candidates[0], confNameFallback, first, strings.Index(first.Text, candidates[0]))
	f.Warnings = append(f.Warnings, "name guessed from the first line; it may be a job title")
	return f
}

func looksLikeName(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	if !nameChars.MatchString(s) {
		return false
	}
	for _, w := range words {
		w = strings.ToLower(strings.Trim(w, ".'-"))
		for _, kw := range jobTitleWords {
			if w == kw || w == kw+"s" {
				return false
			}
		}
	}
	return true
}

func overlaps(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] < s[1] && s[0] < loc[1] {
			return true
		}
	}
	return false
}

func orEmpty(f *domain.ParsedField, name, warning string) domain.ParsedField {
	if f != nil {
		return *f
	}
	return emptyField(name, warning)
}
