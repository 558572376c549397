package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"resumeparse/internal/domain"
)

const (
	sheetFields     = "Fields"
	sheetPersonal   = "Personal"
	sheetExperience = "Experience"
	sheetEducation  = "Education"
	sheetSkills     = "Skills"
)

// XLSX renders a review as a workbook: the raw field grid plus one sheet per
// résumé block of the projected record.
func XLSX(data *domain.ParseReviewData, rec *domain.ResumeRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetFields); err != nil {
		return nil, fmt.Errorf("xlsx rename sheet: %w", err)
	}
	var rows [][]any
	for i := range data.Sections {
		for j := range data.Sections[i].Fields {
			rows = append(rows, toAny(fieldRow(&data.Sections[i], &data.Sections[i].Fields[j])))
		}
	}
	if err := writeSheet(f, sheetFields, fieldColumns, rows); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheetFields, "A", "A", 22)
	_ = f.SetColWidth(sheetFields, "E", "F", 40)
	_ = f.SetColWidth(sheetFields, "K", "K", 60)

	if rec != nil {
		if err := writeRecord(f, rec); err != nil {
			return nil, err
		}
	}

	summary := fmt.Sprintf("%s (overall confidence %s)", data.OriginalFileName, formatConfidence(data.OverallConfidence))
	_ = f.SetDocProps(&excelize.DocProperties{Title: summary, Creator: "resumeparse"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf, nil
}

func writeRecord(f *excelize.File, rec *domain.ResumeRecord) error {
	var personal [][]any
	if pi := rec.PersonalInfo; pi != nil {
		for _, kv := range [][2]string{
			{"Full Name", pi.FullName}, {"Email", pi.Email}, {"Phone", pi.Phone},
			{"Location", pi.Location}, {"LinkedIn", pi.LinkedIn}, {"Website", pi.Website},
			{"Summary", pi.Summary},
		} {
			if kv[1] != "" {
				personal = append(personal, []any{kv[0], escapeFormula(kv[1])})
			}
		}
	}
	if err := writeSheet(f, sheetPersonal, []string{"Field", "Value"}, personal); err != nil {
		return err
	}

	var exp [][]any
	for _, e := range rec.Experience {
		exp = append(exp, []any{e.Position, e.Company, e.StartDate, e.EndDate, formatBool(e.Current), escapeFormula(e.Description)})
	}
	if err := writeSheet(f, sheetExperience, []string{"Position", "Company", "Start Date", "End Date", "Current", "Description"}, exp); err != nil {
		return err
	}

	var edu [][]any
	for _, e := range rec.Education {
		edu = append(edu, []any{e.Degree, e.Institution, e.Field, e.StartDate, e.EndDate, e.GPA})
	}
	if err := writeSheet(f, sheetEducation, []string{"Degree", "Institution", "Field", "Start Date", "End Date", "GPA"}, edu); err != nil {
		return err
	}

	var skills [][]any
	for _, s := range rec.Skills {
		skills = append(skills, []any{s.Name, s.Level, s.Category})
	}
	return writeSheet(f, sheetSkills, []string{"Name", "Level", "Category"}, skills)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("xlsx new sheet %s: %w", sheet, err)
		}
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx write row: %w", err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
