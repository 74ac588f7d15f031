package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldmed/dictation-platform/pkg/logging"
)

// MergeStats summarizes what a merge discarded. The schema is closed, so
// proposed keys outside it are dropped rather than added; every drop is
// logged and counted.
type MergeStats struct {
	DroppedFields []string
	RejectedDates []string
}

// Merge folds a model-proposed partial update into the record in place.
// Only sections and fields already present on the record are touched:
//   - coding lists are unioned keyed by code, last description winning;
//   - procedure.date must parse as YYYY-MM-DD or the update is skipped
//     and the prior value kept;
//   - diagnosis fields are coerced to a single string, joining list
//     input with "; ";
//   - every other recognized field is overwritten verbatim.
//
// Merge never removes or empties a previously populated field.
func Merge(rec Record, update map[string]any, logger *logging.Logger) MergeStats {
	if logger == nil {
		logger = logging.Default()
	}
	var stats MergeStats

	for section, raw := range update {
		target, ok := rec.section(section)
		if !ok {
			stats.drop(logger, section)
			continue
		}
		data, ok := raw.(map[string]any)
		if !ok {
			stats.drop(logger, section)
			continue
		}
		if section == "coding" {
			mergeCoding(target, data, logger, &stats)
			continue
		}
		mergeFields(section, target, data, logger, &stats)
	}
	return stats
}

// mergeCoding unions each proposed code list into the existing one,
// keyed by code. A repeated code keeps a single entry with the most
// recent description. Surviving order is not guaranteed.
func mergeCoding(target, data map[string]any, logger *logging.Logger, stats *MergeStats) {
	for codingType, proposed := range data {
		existing, ok := target[codingType]
		if !ok {
			stats.drop(logger, "coding."+codingType)
			continue
		}
		proposedList, ok := proposed.([]any)
		if !ok {
			stats.drop(logger, "coding."+codingType)
			continue
		}

		byCode := map[string]map[string]any{}
		if existingList, ok := existing.([]any); ok {
			for _, entry := range existingList {
				if m, code, ok := codeEntry(entry); ok {
					byCode[code] = m
				}
			}
		}
		for _, entry := range proposedList {
			m, code, ok := codeEntry(entry)
			if !ok {
				stats.drop(logger, "coding."+codingType+"[no code]")
				continue
			}
			byCode[code] = m
		}

		merged := make([]any, 0, len(byCode))
		for _, entry := range byCode {
			merged = append(merged, entry)
		}
		target[codingType] = merged
	}
}

func mergeFields(section string, target, data map[string]any, logger *logging.Logger, stats *MergeStats) {
	for field, value := range data {
		if _, known := target[field]; !known {
			stats.drop(logger, section+"."+field)
			continue
		}
		switch field {
		case "date":
			s, ok := value.(string)
			if !ok || !validDate(s) {
				stats.RejectedDates = append(stats.RejectedDates, fmt.Sprint(value))
				logger.Warn("invalid date format, skipping update", "section", section, "value", value)
				continue
			}
			target[field] = s
		case "preoperative_diagnosis", "postoperative_diagnosis":
			target[field] = coerceDiagnosis(value)
		default:
			target[field] = value
		}
	}
}

func (s *MergeStats) drop(logger *logging.Logger, path string) {
	s.DroppedFields = append(s.DroppedFields, path)
	logger.Warn("dropping unrecognized field from proposed update", "field", path)
}

// codeEntry extracts a coding entry and its code key. Entries without a
// code cannot be deduplicated and are rejected.
func codeEntry(entry any) (map[string]any, string, bool) {
	m, ok := entry.(map[string]any)
	if !ok {
		return nil, "", false
	}
	code, ok := m["code"]
	if !ok {
		return nil, "", false
	}
	key := fmt.Sprint(code)
	if key == "" {
		return nil, "", false
	}
	return m, key, true
}

// coerceDiagnosis forces diagnosis fields to a scalar string; the model
// sometimes proposes a list despite instructions.
func coerceDiagnosis(value any) string {
	if list, ok := value.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, "; ")
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
