package record

// Record is the in-progress procedure record assembled across a
// conversation. It is map-shaped: the model proposes partial updates as
// free-form JSON and the merge step decides what survives. The schema
// itself is fixed; Merge drops anything outside it.
type Record map[string]any

// New returns an empty record matching the fixed schema, with zero values
// for every field.
func New() Record {
	return Record{
		"patient": map[string]any{
			"name":                  "",
			"age":                   0,
			"sex":                   "",
			"medical_record_number": "",
		},
		"procedure": map[string]any{
			"date":                    "",
			"location":                "",
			"preoperative_diagnosis":  "",
			"postoperative_diagnosis": "",
			"procedures_performed":    []any{},
			"surgeon":                 "",
			"assistant_surgeon":       "",
			"anesthesiologist":        "",
			"estimated_blood_loss":    "",
			"fluids_administered":     "",
			"complications":           "",
			"disposition":             "",
		},
		"coding": map[string]any{
			"snomed_ct": []any{},
			"icd_10":    []any{},
			"cpt":       []any{},
		},
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record(deepCopyMap(r))
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case Record:
		return deepCopyMap(val)
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}

// section returns the named top-level section if it exists as an object.
func (r Record) section(name string) (map[string]any, bool) {
	m, ok := r[name].(map[string]any)
	return m, ok
}
