package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparse/internal/domain"
)

func linesFrom(text string) []Line {
	et := &domain.ExtractedText{Text: text}
	return linesOf(et, domain.SectionSpan{StartLine: 0, EndLine: len(et.Lines())})
}

func valuesByName(fields []domain.ParsedField) map[string][]string {
	out := make(map[string][]string)
	for _, f := range fields {
		out[f.FieldName] = append(out[f.FieldName], f.CorrectedValue)
	}
	return out
}

func TestExtractPersonal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "one field per line",
			text: "John Smith\njohn@x.com\n555-123-4567",
			want: map[string]string{"fullName": "John Smith", "email": "john@x.com", "phone": "555-123-4567"},
		},
		{
			name: "title next to name on one line",
			text: "Senior Software Engineer | Maria Garcia | maria@garcia.dev\n(415) 555-0199 | San Francisco, CA 94105",
			want: map[string]string{
				"fullName": "Maria Garcia",
				"email":    "maria@garcia.dev",
				"phone":    "(415) 555-0199",
				"location": "San Francisco, CA 94105",
			},
		},
		{
			name: "linkedin and website are classified",
			text: "Alex Chen\nalex@chen.io  linkedin.com/in/alexchen  https://alexchen.dev",
			want: map[string]string{
				"fullName": "Alex Chen",
				"email":    "alex@chen.io",
				"linkedin": "linkedin.com/in/alexchen",
				"website":  "https://alexchen.dev",
			},
		},
		{
			name: "multi-space delimited header",
			text: "Priya Nair    priya.nair@mail.com    +1 312-555-0100",
			want: map[string]string{"fullName": "Priya Nair", "email": "priya.nair@mail.com", "phone": "+1 312-555-0100"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := extractPersonal(linesFrom(tt.text))
			got := valuesByName(fields)
			for k, v := range tt.want {
				require.Len(t, got[k], 1, k)
				assert.Equal(t, v, got[k][0], k)
			}
		})
	}
}

func TestExtractPersonal_EmailDomainIsNotWebsite(t *testing.T) {
	fields := extractPersonal(linesFrom("John Smith\njohn@acme.com"))

	got := valuesByName(fields)
	assert.Equal(t, []string{""}, got["website"])
}

func TestExtractPersonal_MissingSlotsAreEmptyWithZeroConfidence(t *testing.T) {
	fields := extractPersonal(linesFrom("John Smith"))

	require.Len(t, fields, 5)
	assert.InDelta(t, confNameFiltered/5, SectionConfidence(fields), 1e-9)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.FieldName
	}
	assert.Equal(t, []string{domain.FieldFullName, domain.FieldEmail, domain.FieldPhone, domain.FieldLinkedIn, domain.FieldWebsite}, names)
	for _, f := range fields[1:] {
		assert.Empty(t, f.CorrectedValue)
		assert.Zero(t, f.Confidence)
		assert.NotEmpty(t, f.Warnings)
		assert.Nil(t, f.Provenance)
	}
}

func TestExtractName_FallsBackToFirstSegment(t *testing.T) {
	f := extractName(linesFrom("Engineering Manager | Platform Lead"))

	assert.Equal(t, "Engineering Manager", f.CorrectedValue)
	assert.Equal(t, confNameFallback, f.Confidence)
	assert.NotEmpty(t, f.Warnings)
}

func TestExtractName_ProvenancePointsAtName(t *testing.T) {
	f := extractName(linesFrom("Product Designer | Ana Lima"))

	require.NotNil(t, f.Provenance)
	assert.Equal(t, "Ana Lima", f.CorrectedValue)
	assert.Equal(t, 0, f.Provenance.Line)
	assert.Equal(t, strings.Index("Product Designer | Ana Lima", "Ana"), f.Provenance.Offset)
	assert.Equal(t, "Product Designer | Ana Lima", f.Provenance.SourceText)
}

func TestExtractExperience(t *testing.T) {
	text := strings.Join([]string{
		"Senior Engineer",
		"Acme Corp - Remote",
		"Jan 2020 - Present",
		"• Built the billing platform",
		"• Led a team of five",
		"- ok",
		"Software Engineer",
		"Initech - Austin, TX",
		"2016 to 2019",
		"Maintained TPS report tooling",
	}, "\n")

	fields := extractExperience(linesFrom(text))
	got := valuesByName(fields)

	assert.Equal(t, []string{"Senior Engineer", "Software Engineer"}, got["position"])
	assert.Equal(t, []string{"Acme Corp", "Initech"}, got["company"])
	assert.Equal(t, []string{"Jan 2020", "2016"}, got["startDate"])
	assert.Equal(t, []string{"Present", "2019"}, got["endDate"])
	assert.Equal(t, []string{"Built the billing platform", "Led a team of five", "Maintained TPS report tooling"}, got["achievement"])

	entries := map[string]int{}
	for _, f := range fields {
		entries[f.Metadata[domain.MetaEntryID]]++
	}
	assert.Len(t, entries, 2)
}

func TestExtractExperience_DateDirectlyAfterTitle(t *testing.T) {
	fields := extractExperience(linesFrom("Data Analyst\nMarch 2018 - June 2020\nBuilt dashboards"))
	got := valuesByName(fields)

	assert.Equal(t, []string{"Data Analyst"}, got["position"])
	assert.Equal(t, []string{""}, got["company"])
	assert.Equal(t, []string{"March 2018"}, got["startDate"])
	assert.Equal(t, []string{"June 2020"}, got["endDate"])
}

func TestExtractExperience_NoPositions(t *testing.T) {
	fields := extractExperience(linesFrom("• just a bullet"))

	require.Len(t, fields, 1)
	assert.Equal(t, domain.FieldPosition, fields[0].FieldName)
	assert.Zero(t, fields[0].Confidence)
	assert.NotEmpty(t, fields[0].Warnings)
}

func TestExtractEducation(t *testing.T) {
	text := strings.Join([]string{
		"Bachelor of Science in Computer Science",
		"State University - Springfield",
		"2012 - 2016",
		"GPA: 3.85",
		"MBA",
		"Wharton School",
		"2019",
	}, "\n")

	fields := extractEducation(linesFrom(text))
	got := valuesByName(fields)

	assert.Equal(t, []string{"Bachelor of Science in Computer Science", "MBA"}, got["degree"])
	assert.Equal(t, []string{"State University", "Wharton School"}, got["institution"])
	assert.Equal(t, []string{"Computer Science"}, got["field"])
	assert.Equal(t, []string{"2012", ""}, got["startDate"])
	assert.Equal(t, []string{"2016", "2019"}, got["endDate"])
	assert.Equal(t, []string{"3.85"}, got["gpa"])
}

func TestExtractEducation_NoDegree(t *testing.T) {
	fields := extractEducation(linesFrom("Some online courses"))

	require.Len(t, fields, 1)
	assert.Equal(t, domain.FieldDegree, fields[0].FieldName)
	assert.Empty(t, fields[0].CorrectedValue)
}

func TestExtractSkills(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		want       []string
		categories []string
	}{
		{"comma list", "Python, Go, SQL", []string{"Python", "Go", "SQL"}, []string{"technical", "technical", "technical"}},
		{"mixed delimiters", "Docker; Kubernetes • Terraform", []string{"Docker", "Kubernetes", "Terraform"}, []string{"technical", "technical", "technical"}},
		{"drops numbers and the word skills", "Skills, 2020, Go, x", []string{"Go"}, []string{"technical"}},
		{"labelled line", "Languages: English, Spanish", []string{"English", "Spanish"}, []string{"Languages", "Languages"}},
		{"duplicates dropped", "Go, go, GO", []string{"Go"}, []string{"technical"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := extractSkills(linesFrom(tt.text))
			var names, cats []string
			for _, f := range fields {
				names = append(names, f.CorrectedValue)
				cats = append(cats, f.Metadata[domain.MetaCategory])
				assert.Equal(t, DefaultSkillLevel, f.Metadata[domain.MetaLevel])
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.categories, cats)
		})
	}
}

func TestExtractSkills_ProvenanceOffset(t *testing.T) {
	fields := extractSkills(linesFrom("Python • Go"))

	require.Len(t, fields, 2)
	assert.Equal(t, 0, fields[0].Provenance.Offset)
	assert.Equal(t, len([]rune("Python • ")), fields[1].Provenance.Offset)
}

func TestExtractSummary(t *testing.T) {
	fields := extractSummary(linesFrom("Backend engineer with   ten years\nof experience building APIs."))

	require.Len(t, fields, 1)
	assert.Equal(t, "Backend engineer with ten years of experience building APIs.", fields[0].CorrectedValue)
	assert.Equal(t, domain.FieldStatusPending, fields[0].Status)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		in      string
		start   string
		end     string
		current bool
	}{
		{"Jan 2020 - Present", "Jan 2020", "Present", true},
		{"September 2015 – March 2019", "September 2015", "March 2019", false},
		{"2018 to 2021", "2018", "2021", false},
		{"2019 to Current", "2019", "Current", true},
		{"Mar 2021 - now", "Mar 2021", "now", true},
		{"05/2017 - 08/2019", "05/2017", "08/2019", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, isDateLine(tt.in))
			dr := parseDateRange(tt.in)
			assert.Equal(t, tt.start, dr.Start)
			assert.Equal(t, tt.end, dr.End)
			assert.Equal(t, tt.current, dr.Current)
		})
	}
}
