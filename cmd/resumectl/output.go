package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"resumeparse/internal/domain"
	"resumeparse/internal/review"
)

// documentResult is what the CLI prints for one parsed document.
type documentResult struct {
	File              string               `json:"file" yaml:"file"`
	Error             string               `json:"error,omitempty" yaml:"error,omitempty"`
	OverallConfidence float64              `json:"overallConfidence" yaml:"overallConfidence"`
	Decision          review.Decision      `json:"decision,omitempty" yaml:"decision,omitempty"`
	Sections          []sectionResult      `json:"sections,omitempty" yaml:"sections,omitempty"`
	Resume            *domain.ResumeRecord `json:"resume,omitempty" yaml:"-"`
	ResumeYAML        map[string]any       `json:"-" yaml:"resume,omitempty"`
}

type sectionResult struct {
	Name       string             `json:"name" yaml:"name"`
	Type       domain.SectionType `json:"type" yaml:"type"`
	Confidence float64            `json:"confidence" yaml:"confidence"`
	Fields     []fieldResult      `json:"fields" yaml:"fields"`
}

type fieldResult struct {
	Name       string   `json:"name" yaml:"name"`
	Value      string   `json:"value" yaml:"value"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Line       int      `json:"line" yaml:"line"`
	Warnings   []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func newDocumentResult(file string, data *domain.ParseReviewData, err error) documentResult {
	res := documentResult{File: file}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.OverallConfidence = data.OverallConfidence
	res.Decision = review.DefaultPolicy().Decide(data.OverallConfidence)
	for _, sec := range data.Sections {
		sr := sectionResult{
			Name:       sec.SectionName,
			Type:       sec.SectionType,
			Confidence: sec.Confidence,
			Fields:     make([]fieldResult, 0, len(sec.Fields)),
		}
		for _, f := range sec.Fields {
			fr := fieldResult{
				Name:       f.FieldName,
				Value:      f.CorrectedValue,
				Confidence: f.Confidence,
				Warnings:   f.Warnings,
			}
			if f.Provenance != nil {
				fr.Line = f.Provenance.Line
			}
			sr.Fields = append(sr.Fields, fr)
		}
		res.Sections = append(res.Sections, sr)
	}
	rec := review.Project(data.Sections)
	res.Resume = &rec
	return res
}

// writeResults prints results in the requested format.
func writeResults(w io.Writer, format string, results []documentResult) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml", "yml":
		for i := range results {
			if results[i].Resume == nil {
				continue
			}
			m, err := jsonMap(results[i].Resume)
			if err != nil {
				return err
			}
			results[i].ResumeYAML = m
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// jsonMap converts a value to a generic map so YAML output keeps the JSON key names.
func jsonMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
