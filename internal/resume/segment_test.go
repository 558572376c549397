package resume_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparse/internal/domain"
	"resumeparse/internal/resume"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.SectionSpan
	}{
		{
			name: "no headers",
			text: "Jane Doe\njane@doe.org",
			want: []domain.SectionSpan{{SectionType: domain.SectionPersonal, StartLine: 0, EndLine: 2}},
		},
		{
			name: "sample resume",
			text: sampleResume,
			want: []domain.SectionSpan{
				{SectionType: domain.SectionPersonal, StartLine: 0, EndLine: 4},
				{SectionType: domain.SectionExperience, StartLine: 5, EndLine: 10},
				{SectionType: domain.SectionSkills, StartLine: 11, EndLine: 12},
			},
		},
		{
			name: "decorated headers",
			text: "Jane\n== Professional Summary ==\ntext\nWork History:\nx\n# Education\ny\nCore Competencies\nz",
			want: []domain.SectionSpan{
				{SectionType: domain.SectionPersonal, StartLine: 0, EndLine: 1},
				{SectionType: domain.SectionSummary, StartLine: 2, EndLine: 3},
				{SectionType: domain.SectionExperience, StartLine: 4, EndLine: 5},
				{SectionType: domain.SectionEducation, StartLine: 6, EndLine: 7},
				{SectionType: domain.SectionSkills, StartLine: 8, EndLine: 9},
			},
		},
		{
			name: "header matching two sections takes the earlier priority",
			text: "Jane\nSkills & Experience\nGo",
			want: []domain.SectionSpan{
				{SectionType: domain.SectionPersonal, StartLine: 0, EndLine: 1},
				{SectionType: domain.SectionExperience, StartLine: 2, EndLine: 3},
			},
		},
		{
			name: "prose mentioning a header word is not a header",
			text: "Jane\nI have ten years of experience in Go",
			want: []domain.SectionSpan{{SectionType: domain.SectionPersonal, StartLine: 0, EndLine: 2}},
		},
		{
			name: "header on the first line leaves an empty personal span",
			text: "SKILLS\nGo",
			want: []domain.SectionSpan{
				{SectionType: domain.SectionPersonal, StartLine: 0, EndLine: 0},
				{SectionType: domain.SectionSkills, StartLine: 1, EndLine: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resume.Segment(&domain.ExtractedText{Text: tt.text})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSegment_Deterministic(t *testing.T) {
	first := resume.Segment(&domain.ExtractedText{Text: sampleResume})
	for i := 0; i < 20; i++ {
		require.Equal(t, first, resume.Segment(&domain.ExtractedText{Text: sampleResume}))
	}
}
