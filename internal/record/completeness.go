package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// conversationalFields drives the next-question flow, in priority order.
// The first incomplete field is the one surfaced to the user.
var conversationalFields = []string{
	"patient.name",
	"patient.age",
	"patient.sex",
	"patient.medical_record_number",
	"procedure.date",
	"procedure.location",
	"procedure.preoperative_diagnosis",
	"procedure.postoperative_diagnosis",
	"procedure.procedures_performed",
	"procedure.surgeon",
	"coding.cpt",
}

// submissionFields is the stricter gate checked before a record may be
// written downstream. It is independent of the conversational set:
// "no more questions" and "ready to insert" can diverge and both
// signals are reported to the caller.
var submissionFields = []string{
	"patient.name",
	"patient.age",
	"patient.sex",
	"procedure.date",
	"procedure.location",
	"procedure.procedures_performed",
	"coding.cpt",
}

// Prompt names the next outstanding field and the question to ask for it.
type Prompt struct {
	Field  string `json:"field"`
	Prompt string `json:"prompt"`
}

// IsFieldComplete reports whether the dotted path resolves to a populated
// value. Missing intermediate keys resolve to an empty object rather than
// failing. Zero numbers count as incomplete, so an age of 0 still prompts.
func IsFieldComplete(rec Record, path string) bool {
	var current any = map[string]any(rec)
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		current, ok = m[key]
		if !ok {
			current = map[string]any{}
		}
	}
	return populated(current)
}

// NextPrompt walks the conversational field list in order and returns a
// prompt for the first incomplete field, or nil when every field is
// populated.
func NextPrompt(rec Record) *Prompt {
	for _, field := range conversationalFields {
		if !IsFieldComplete(rec, field) {
			return &Prompt{
				Field:  field,
				Prompt: fmt.Sprintf("Please provide the %s:", fieldLabel(field)),
			}
		}
	}
	return nil
}

// ReadyToInsert reports whether the record satisfies the stricter
// submission field set.
func ReadyToInsert(rec Record) bool {
	for _, field := range submissionFields {
		if !IsFieldComplete(rec, field) {
			return false
		}
	}
	return true
}

// populated implements the truthiness semantics of the completeness check:
// non-empty string, non-zero number, non-empty list or object.
func populated(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// fieldLabel turns a dotted path into a human-readable label, e.g.
// "patient.medical_record_number" -> "Patient Medical Record Number".
func fieldLabel(path string) string {
	words := strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
