package review

import (
	"strings"

	"resumeparse/internal/domain"
	"resumeparse/internal/resume"
)

// Project maps reviewed sections onto a résumé record. Only known field names
// are mapped; anything else is ignored. Blank and unknown values are
// omitted, and entries whose fields are all blank are dropped.
func Project(sections []domain.ParsedSection) domain.ResumeRecord {
	rec := domain.ResumeRecord{
		Experience: []domain.Experience{},
		Education:  []domain.Education{},
		Skills:     []domain.Skill{},
	}
	var pi domain.PersonalInfo
	var exp entryGroups[domain.Experience]
	var edu entryGroups[domain.Education]

	for _, sec := range sections {
		for _, f := range sec.Fields {
			v := strings.TrimSpace(f.CorrectedValue)
			if v == "" || f.Status == domain.FieldStatusUnknown {
				continue
			}
			switch sec.SectionType {
			case domain.SectionPersonal, domain.SectionSummary:
				setPersonal(&pi, f.FieldName, v)
			case domain.SectionExperience:
				setExperience(exp.get(f.Metadata[domain.MetaEntryID]), f.FieldName, v)
			case domain.SectionEducation:
				setEducation(edu.get(f.Metadata[domain.MetaEntryID]), f.FieldName, v)
			case domain.SectionSkills:
				if f.FieldName == domain.FieldSkill {
					rec.Skills = append(rec.Skills, domain.Skill{
						Name:     v,
						Level:    metaOr(f.Metadata, domain.MetaLevel, resume.DefaultSkillLevel),
						Category: metaOr(f.Metadata, domain.MetaCategory, resume.DefaultSkillCategory),
					})
				}
			}
		}
	}

	if pi != (domain.PersonalInfo{}) {
		rec.PersonalInfo = &pi
	}
	for _, e := range exp.items {
		if e.Achievements == nil {
			e.Achievements = []string{}
		}
		e.Current = resume.IsCurrentEndDate(e.EndDate)
		e.Description = strings.Join(e.Achievements, "\n")
		rec.Experience = append(rec.Experience, *e)
	}
	for _, e := range edu.items {
		rec.Education = append(rec.Education, *e)
	}
	return rec
}

// entryGroups collects fields sharing an entry id, in first-seen order.
type entryGroups[T any] struct {
	index map[string]*T
	items []*T
}

func (g *entryGroups[T]) get(key string) *T {
	if g.index == nil {
		g.index = make(map[string]*T)
	}
	if v, ok := g.index[key]; ok {
		return v
	}
	v := new(T)
	g.index[key] = v
	g.items = append(g.items, v)
	return v
}

func setPersonal(pi *domain.PersonalInfo, name, v string) {
	switch name {
	case domain.FieldFullName:
		pi.FullName = v
	case domain.FieldEmail:
		pi.Email = v
	case domain.FieldPhone:
		pi.Phone = v
	case domain.FieldLocation:
		pi.Location = v
	case domain.FieldLinkedIn:
		pi.LinkedIn = v
	case domain.FieldWebsite:
		pi.Website = v
	case domain.FieldSummary:
		pi.Summary = v
	}
}

func setExperience(e *domain.Experience, name, v string) {
	switch name {
	case domain.FieldPosition:
		e.Position = v
	case domain.FieldCompany:
		e.Company = v
	case domain.FieldStartDate:
		e.StartDate = v
	case domain.FieldEndDate:
		e.EndDate = v
	case domain.FieldAchievement:
		e.Achievements = append(e.Achievements, v)
	}
}

func setEducation(e *domain.Education, name, v string) {
	switch name {
	case domain.FieldDegree:
		e.Degree = v
	case domain.FieldInstitution:
		e.Institution = v
	case domain.FieldStudy:
		e.Field = v
	case domain.FieldStartDate:
		e.StartDate = v
	case domain.FieldEndDate:
		e.EndDate = v
	case domain.FieldGPA:
		e.GPA = v
	}
}

func metaOr(meta map[string]string, key, def string) string {
	if v := meta[key]; v != "" {
		return v
	}
	return def
}
