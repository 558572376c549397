package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"resumeparse/internal/domain"
)

const (
	maxTitleLen  = 80
	minBulletLen = 5
)

var bulletRe = regexp.MustCompile(`^(?:[•\-*–·▪◦●■○>]|\d{1,2}[.)])\s*`)

func isBullet(s string) bool {
	return bulletRe.MatchString(s)
}

func stripBullet(s string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(s, ""))
}

// looksLikeTitle reports whether a line may name a position.
func looksLikeTitle(s string) bool {
	return !isBullet(s) && utf8.RuneCountInString(s) <= maxTitleLen && !isDateLine(s)
}

// hasCompanyDash reports whether a line has the "company - text" shape.
func hasCompanyDash(s string) bool {
	return !isBullet(s) && strings.Contains(s, " - ")
}

// startsEntry reports whether line i opens a new position: a title-like line
// followed by a "company - text" line.
func startsEntry(lines []Line, i int) bool {
	return looksLikeTitle(lines[i].Text) && i+1 < len(lines) && hasCompanyDash(lines[i+1].Text)
}

// extractExperience walks the span with a title / company / dates cursor and
// accumulates the lines that follow as achievement bullets.
func extractExperience(lines []Line) []domain.ParsedField {
	var fields []domain.ParsedField
	entryID := ""
	entries := 0

	meta := func(f domain.ParsedField) domain.ParsedField {
		return withMeta(f, domain.MetaEntryID, entryID)
	}

	for i := 0; i < len(lines); {
		ln := lines[i]
		if looksLikeTitle(ln.Text) && (entries == 0 || startsEntry(lines, i)) {
			entryID = uuid.NewString()
			entries++
			fields = append(fields, meta(newField(domain.FieldPosition, ln.Text, confPosition, ln, 0)))
			i++

			company := emptyField(domain.FieldCompany, "no company found for position")
			if i < len(lines) && !isDateLine(lines[i].Text) && !isBullet(lines[i].Text) {
				cl := lines[i]
				if name, _, ok := strings.Cut(cl.Text, " - "); ok {
					company = newField(domain.FieldCompany, name, confCompany, cl, 0)
				} else {
					company = newField(domain.FieldCompany, cl.Text, confCompanyBare, cl, 0)
				}
				i++
			}
			fields = append(fields, meta(company))

			start := emptyField(domain.FieldStartDate, "no start date found for position")
			end := emptyField(domain.FieldEndDate, "no end date found for position")
			if i < len(lines) && isDateLine(lines[i].Text) {
				dl := lines[i]
				dr := parseDateRange(dl.Text)
				if dr.Start != "" {
					start = newField(domain.FieldStartDate, dr.Start, confDate, dl, dr.StartCol)
				}
				if dr.End != "" {
					end = newField(domain.FieldEndDate, dr.End, confDate, dl, dr.EndCol)
				}
				i++
			}
			fields = append(fields, meta(start), meta(end))
			continue
		}

		if entries > 0 {
			if text := stripBullet(ln.Text); utf8.RuneCountInString(text) >= minBulletLen {
				fields = append(fields, meta(newField(domain.FieldAchievement, text, confBullet, ln, strings.Index(ln.Text, text))))
			}
		}
		i++
	}

	if entries == 0 {
		return []domain.ParsedField{emptyField(domain.FieldPosition, "no positions found in experience section")}
	}
	return fields
}
