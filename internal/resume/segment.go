package resume

import (
	"regexp"
	"strings"

	"resumeparse/internal/domain"
)

// headerPatterns are tested in this order; the first section type whose
// pattern matches a line wins.
var headerPatterns = []struct {
	section  domain.SectionType
	patterns []*regexp.Regexp
}{
	{domain.SectionExperience, []*regexp.Regexp{
		regexp.MustCompile(`^((professional|work|relevant|industry|employment|career)\s+)?experience$`),
		regexp.MustCompile(`^(work|employment|career|professional)\s+history$`),
		regexp.MustCompile(`^employment$`),
		regexp.MustCompile(`^experience\s*(&|and)\s*\w+$`),
		regexp.MustCompile(`^\w+\s*(&|and)\s*experience$`),
	}},
	{domain.SectionEducation, []*regexp.Regexp{
		regexp.MustCompile(`^education(al)?(\s+(background|history|&\s*training|and\s+training))?$`),
		regexp.MustCompile(`^academic\s+(background|history|qualifications)$`),
		regexp.MustCompile(`^(qualifications|degrees)$`),
	}},
	{domain.SectionSkills, []*regexp.Regexp{
		regexp.MustCompile(`^((technical|core|key|professional|relevant)\s+)?(skills|competencies|competences|proficiencies)$`),
		regexp.MustCompile(`^skills\s*(&|and)\s*\w+$`),
		regexp.MustCompile(`^(technologies|tools\s*(&|and)\s*technologies|technical\s+expertise|areas\s+of\s+expertise|expertise)$`),
	}},
	{domain.SectionSummary, []*regexp.Regexp{
		regexp.MustCompile(`^((professional|career|executive|personal)\s+)?(summary|profile|objective|overview)$`),
		regexp.MustCompile(`^about(\s+me)?$`),
		regexp.MustCompile(`^summary\s+of\s+qualifications$`),
	}},
}

const maxHeaderLen = 50

const headerTrim = ":-–—=*#|_•· \t"

var multiSpaces = regexp.MustCompile(`\s+`)

// classifyHeader reports the section type a line introduces, if any.
func classifyHeader(line string) (domain.SectionType, bool) {
	h := strings.Trim(strings.TrimSpace(line), headerTrim)
	if h == "" || len([]rune(h)) > maxHeaderLen {
		return "", false
	}
	h = multiSpaces.ReplaceAllString(strings.ToLower(h), " ")
	for _, hp := range headerPatterns {
		for _, re := range hp.patterns {
			if re.MatchString(h) {
				return hp.section, true
			}
		}
	}
	return "", false
}

// Segment splits text into section spans. The first span is always the
// implicit personal region, running from the first line to the first
// recognized header. Each header opens a span on the following line that
// ends at the next header or the end of the document.
func Segment(text *domain.ExtractedText) []domain.SectionSpan {
	lines := text.Lines()
	spans := []domain.SectionSpan{{
		SectionType: domain.SectionPersonal,
		StartLine:   0,
		EndLine:     len(lines),
	}}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		section, ok := classifyHeader(line)
		if !ok {
			continue
		}
		spans[len(spans)-1].EndLine = i
		spans = append(spans, domain.SectionSpan{
			SectionType: section,
			StartLine:   i + 1,
			EndLine:     len(lines),
		})
	}
	return spans
}
