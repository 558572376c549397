package resume

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"resumeparse/internal/domain"
)

var (
	degreeLongRe  = regexp.MustCompile(`(?i)\b(bachelor|master|doctor(?:ate)?|associate|diploma|ph\.?\s?d)(?:'?s)?\b`)
	degreeShortRe = regexp.MustCompile(`\b(BS|BSc|B\.S\.?|B\.Sc\.?|MS|MSc|M\.S\.?|M\.Sc\.?|MBA|BBA|BEng|MEng|B\.Tech|M\.Tech|BTech|MTech|B\.E\.|M\.E\.)(\W|$)|\bB\.A\.|\bM\.A\.`)
	studyRe       = regexp.MustCompile(`(?i)\bin\s+([A-Za-z][A-Za-z &]*[A-Za-z])`)
	gpaRe         = regexp.MustCompile(`(?i)\bgpa\b\s*[:\-]?\s*(\d\.\d{1,2})`)
)

func isDegreeLine(s string) bool {
	return degreeLongRe.MatchString(s) || degreeShortRe.MatchString(s)
}

// extractEducation finds degree lines and reads the institution and dates
// from the lines that follow. A single date token is taken as the end
// (graduation) date. field and gpa are emitted only when present.
func extractEducation(lines []Line) []domain.ParsedField {
	var fields []domain.ParsedField
	for i := 0; i < len(lines); {
		ln := lines[i]
		if !isDegreeLine(ln.Text) {
			i++
			continue
		}

		entryID := uuid.NewString()
		meta := func(f domain.ParsedField) domain.ParsedField {
			return withMeta(f, domain.MetaEntryID, entryID)
		}
		block := []Line{ln}

		degree := meta(newField(domain.FieldDegree, ln.Text, confDegree, ln, 0))
		var study *domain.ParsedField
		if m := studyRe.FindStringSubmatchIndex(ln.Text); m != nil {
			f := meta(newField(domain.FieldStudy, ln.Text[m[2]:m[3]], confStudy, ln, m[2]))
			study = &f
		}
		i++

		institution := meta(emptyField(domain.FieldInstitution, "no institution found for degree"))
		start := meta(emptyField(domain.FieldStartDate, "no start date found for degree"))
		end := meta(emptyField(domain.FieldEndDate, "no end date found for degree"))

		if i < len(lines) && !isDegreeLine(lines[i].Text) && !isDateLine(lines[i].Text) && !yearOnly(lines[i].Text) {
			il := lines[i]
			name, _, _ := strings.Cut(il.Text, " - ")
			institution = meta(newField(domain.FieldInstitution, name, confInstitution, il, 0))
			block = append(block, il)
			i++
		}
		if i < len(lines) && !isDegreeLine(lines[i].Text) {
			dl := lines[i]
			if tokens := dateTokenRe.FindAllStringIndex(dl.Text, 2); len(tokens) > 0 {
				dr := parseDateRange(dl.Text)
				if len(tokens) == 2 || dr.Current {
					start = meta(newField(domain.FieldStartDate, dr.Start, confEduDate, dl, dr.StartCol))
					end = meta(newField(domain.FieldEndDate, dr.End, confEduDate, dl, dr.EndCol))
				} else {
					end = meta(newField(domain.FieldEndDate, dr.Start, confEduDate, dl, dr.StartCol))
				}
				block = append(block, dl)
				i++
			}
		}

		fields = append(fields, degree, institution)
		if study != nil {
			fields = append(fields, *study)
		}
		fields = append(fields, start, end)

		if i < len(lines) && gpaRe.MatchString(lines[i].Text) && !isDegreeLine(lines[i].Text) {
			block = append(block, lines[i])
			i++
		}
		for _, bl := range block {
			if m := gpaRe.FindStringSubmatchIndex(bl.Text); m != nil {
				fields = append(fields, meta(newField(domain.FieldGPA, bl.Text[m[2]:m[3]], confGPA, bl, m[2])))
				break
			}
		}
	}
	if len(fields) == 0 {
		return []domain.ParsedField{emptyField(domain.FieldDegree, "no degrees found in education section")}
	}
	return fields
}

var yearOnlyRe = regexp.MustCompile(`^\(?(?:19|20)\d{2}\)?$`)

func yearOnly(s string) bool {
	return yearOnlyRe.MatchString(strings.TrimSpace(s))
}
