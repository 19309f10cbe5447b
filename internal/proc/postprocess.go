package proc

import "time"

// dateTimeLayout is the canonical rendering for date/time values:
// zero-padded, three-digit milliseconds.
const dateTimeLayout = "2006-01-02 15:04:05.000"

// FormatDateTime renders t without shifting its wall clock. The driver
// hands back DATETIME values exactly as the database stored them;
// converting to UTC here would corrupt them.
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// PostProcess recursively walks a returned structure, rendering date/time
// values to the canonical string and leaving everything else unchanged.
func PostProcess(value any) any {
	switch v := value.(type) {
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, item := range v {
			out[i] = postProcessRow(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = PostProcess(item)
		}
		return out
	case map[string]any:
		return postProcessRow(v)
	case time.Time:
		return FormatDateTime(v)
	default:
		return value
	}
}

// PostProcessRecords applies PostProcess to a record set, preserving the
// concrete slice type for callers.
func PostProcessRecords(records []map[string]any) []map[string]any {
	if records == nil {
		return []map[string]any{}
	}
	out := make([]map[string]any, len(records))
	for i, row := range records {
		out[i] = postProcessRow(row)
	}
	return out
}

func postProcessRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = PostProcess(v)
	}
	return out
}
