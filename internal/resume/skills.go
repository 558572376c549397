package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resumeparse/internal/domain"
)

const (
	DefaultSkillLevel    = "intermediate"
	DefaultSkillCategory = "technical"

	minSkillLen = 2
	maxSkillLen = 49
)

var (
	skillSplitRe = regexp.MustCompile(`[,;•·▪●|]`)
	skillLabelRe = regexp.MustCompile(`^([A-Za-z][A-Za-z /&+\-]{1,40}):\s*(.+)$`)
	numericRe    = regexp.MustCompile(`^[\d.,%+\-\s]+$`)
)

// extractSkills splits every line on list delimiters. A "Label: a, b" line
// files its skills under Label. Duplicates are dropped.
func extractSkills(lines []Line) []domain.ParsedField {
	var fields []domain.ParsedField
	seen := make(map[string]bool)
	for _, ln := range lines {
		body, bodyCol := ln.Text, 0
		category, conf := DefaultSkillCategory, confSkill
		if m := skillLabelRe.FindStringSubmatchIndex(ln.Text); m != nil {
			if label := strings.TrimSpace(ln.Text[m[2]:m[3]]); !strings.EqualFold(label, "skills") {
				category = label
			}
			body, bodyCol = ln.Text[m[4]:m[5]], m[4]
			conf = confSkillLabeled
		}

		bounds := append(skillSplitRe.FindAllStringIndex(body, -1), []int{len(body), len(body)})
		start := 0
		for _, b := range bounds {
			part := body[start:b[0]]
			partCol := bodyCol + start
			start = b[1]

			name := strings.TrimSpace(stripBullet(strings.TrimSpace(part)))
			n := utf8.RuneCountInString(name)
			if n < minSkillLen || n > maxSkillLen || numericRe.MatchString(name) || strings.EqualFold(name, "skills") {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true

			f := newField(domain.FieldSkill, name, conf, ln, partCol+strings.Index(part, name))
			fields = append(fields, withMeta(f, domain.MetaLevel, DefaultSkillLevel, domain.MetaCategory, category))
		}
	}
	if len(fields) == 0 {
		return []domain.ParsedField{emptyField(domain.FieldSkill, "no skills found in skills section")}
	}
	return fields
}
