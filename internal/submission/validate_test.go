package submission

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fieldmed/dictation-platform/internal/record"
)

func validRecord() record.Record {
	rec := record.New()
	p := rec["patient"].(map[string]any)
	p["name"] = "Sgt John Doe"
	p["age"] = 28
	p["sex"] = "M"
	p["medical_record_number"] = "1234567890"

	proc := rec["procedure"].(map[string]any)
	proc["date"] = "2023-10-27"
	proc["location"] = "Field Surgical Unit Alpha"
	proc["procedures_performed"] = []any{"Exploratory laparotomy"}

	rec["coding"].(map[string]any)["cpt"] = []any{
		map[string]any{"code": "35256", "description": "Repair blood vessel with vein graft"},
	}
	return rec
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	if err := Validate(validRecord()); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestValidateShortCircuitsOnFirstViolation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(record.Record)
		wantMsg string
	}{
		{
			name:    "missing section",
			mutate:  func(r record.Record) { delete(r, "coding") },
			wantMsg: "missing required section: coding",
		},
		{
			name:    "empty patient name",
			mutate:  func(r record.Record) { r["patient"].(map[string]any)["name"] = "" },
			wantMsg: "missing required patient field: name",
		},
		{
			name:    "zero age",
			mutate:  func(r record.Record) { r["patient"].(map[string]any)["age"] = 0 },
			wantMsg: "missing required patient field: age",
		},
		{
			name:    "missing procedure date",
			mutate:  func(r record.Record) { r["procedure"].(map[string]any)["date"] = "" },
			wantMsg: "missing required procedure field: date",
		},
		{
			name: "empty procedures list",
			mutate: func(r record.Record) {
				r["procedure"].(map[string]any)["procedures_performed"] = []any{}
			},
			wantMsg: "missing required procedure field: procedures_performed",
		},
		{
			name:    "no cpt codes",
			mutate:  func(r record.Record) { r["coding"].(map[string]any)["cpt"] = []any{} },
			wantMsg: "missing CPT codes",
		},
		{
			name: "cpt entry without description",
			mutate: func(r record.Record) {
				r["coding"].(map[string]any)["cpt"] = []any{
					map[string]any{"code": "35256"},
				}
			},
			wantMsg: "'code' and 'description'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			err := Validate(rec)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateRejectsTooManyCPTCodes(t *testing.T) {
	rec := validRecord()
	cpt := make([]any, 0, MaxCPTCodes+1)
	for i := 0; i <= MaxCPTCodes; i++ {
		cpt = append(cpt, map[string]any{
			"code":        fmt.Sprintf("%05d", 10000+i),
			"description": "procedure",
		})
	}
	rec["coding"].(map[string]any)["cpt"] = cpt

	err := Validate(rec)
	if err == nil {
		t.Fatalf("expected validation error for 11 CPT codes")
	}
	if !strings.Contains(err.Error(), "maximum limit of 10") {
		t.Fatalf("expected max-limit message, got %q", err.Error())
	}
}

func TestValidateRejectsNonListCPT(t *testing.T) {
	rec := validRecord()
	rec["coding"].(map[string]any)["cpt"] = map[string]any{"code": "35256"}

	err := Validate(rec)
	if err == nil || !strings.Contains(err.Error(), "must be a list") {
		t.Fatalf("expected list-type error, got %v", err)
	}
}
