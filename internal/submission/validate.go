package submission

import (
	"fmt"

	"github.com/fieldmed/dictation-platform/internal/record"
)

// MaxCPTCodes caps the cpt list; the downstream table schema assumes it.
const MaxCPTCodes = 10

// ValidationError describes the first schema violation found in a
// submitted record.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "submission: invalid record: " + e.Reason }

// Validate checks a finished record's shape before it is handed to the
// storage client. Checks short-circuit: the first violation is reported
// and the rest are not examined.
func Validate(rec record.Record) error {
	for _, section := range []string{"patient", "procedure", "coding"} {
		if _, ok := rec[section]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("missing required section: %s", section)}
		}
	}

	for _, field := range []string{"name", "age", "sex", "medical_record_number"} {
		if !record.IsFieldComplete(rec, "patient."+field) {
			return &ValidationError{Reason: fmt.Sprintf("missing required patient field: %s", field)}
		}
	}

	for _, field := range []string{"date", "location", "procedures_performed"} {
		if !record.IsFieldComplete(rec, "procedure."+field) {
			return &ValidationError{Reason: fmt.Sprintf("missing required procedure field: %s", field)}
		}
	}

	if !record.IsFieldComplete(rec, "coding.cpt") {
		return &ValidationError{Reason: "missing CPT codes in coding section"}
	}
	return validateCPTCodes(rec)
}

func validateCPTCodes(rec record.Record) error {
	coding, _ := rec["coding"].(map[string]any)
	cpt, ok := coding["cpt"].([]any)
	if !ok {
		return &ValidationError{Reason: "CPT codes must be a list"}
	}
	if len(cpt) > MaxCPTCodes {
		return &ValidationError{Reason: fmt.Sprintf("number of CPT codes exceeds the maximum limit of %d", MaxCPTCodes)}
	}
	for _, entry := range cpt {
		m, ok := entry.(map[string]any)
		if !ok {
			return &ValidationError{Reason: "each CPT code must be an object with 'code' and 'description' fields"}
		}
		if _, ok := m["code"]; !ok {
			return &ValidationError{Reason: "each CPT code must be an object with 'code' and 'description' fields"}
		}
		if _, ok := m["description"]; !ok {
			return &ValidationError{Reason: "each CPT code must be an object with 'code' and 'description' fields"}
		}
	}
	return nil
}
