// Package schema validates finalized résumé records against the JSON schema
// shipped with the service.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"resumeparse/internal/domain"
)

//go:embed resume.schema.json
var resumeSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func resumeValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("resume.schema.json", bytes.NewReader(resumeSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("resume.schema.json")
	})
	return compiled, compileErr
}

// ValidateResume checks a record against the résumé schema. A mismatch wraps
// domain.ErrInvalidResume.
func ValidateResume(rec *domain.ResumeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}
	return ValidateResumeJSON(data)
}

// ValidateResumeJSON checks raw JSON against the résumé schema.
func ValidateResumeJSON(data []byte) error {
	s, err := resumeValidator()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal resume: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResume, err)
	}
	return nil
}
