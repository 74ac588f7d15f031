package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MalformedResponseError reports model output that could not be parsed as
// strict JSON. It carries both the raw and sanitized text for diagnostics.
type MalformedResponseError struct {
	Raw       string
	Sanitized string
	Err       error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assistant: malformed model response: %v", e.Err)
	}
	return "assistant: malformed model response"
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Models occasionally emit JSON with // or /* */ comments despite the
// instructions forbidding them.
var jsonCommentPattern = regexp.MustCompile(`(?ms)//.*?$|/\*.*?\*/`)

// SanitizeModelJSON normalizes raw model output into canonical JSON:
// strips a leading byte-order mark and surrounding whitespace, removes
// line and block comments, parses strictly, and re-serializes with
// non-ASCII passthrough. Any parse failure is returned as a
// *MalformedResponseError; nothing is partially accepted.
func SanitizeModelJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\ufeff")
	s = jsonCommentPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return "", &MalformedResponseError{Raw: raw, Sanitized: s, Err: err}
	}
	// Trailing content after the top-level value is as malformed as a
	// syntax error inside it.
	if dec.More() {
		return "", &MalformedResponseError{Raw: raw, Sanitized: s, Err: fmt.Errorf("trailing data after JSON value")}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(parsed); err != nil {
		return "", &MalformedResponseError{Raw: raw, Sanitized: s, Err: err}
	}
	return strings.TrimSpace(buf.String()), nil
}
