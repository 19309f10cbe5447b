package proc

import (
	"testing"
	"time"
)

func TestFormatDateTimePadding(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	if got := FormatDateTime(ts); got != "2024-01-02 03:04:05.006" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatDateTimePreservesWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, 6, 15, 23, 59, 59, 999_000_000, loc)
	if got := FormatDateTime(ts); got != "2024-06-15 23:59:59.999" {
		t.Fatalf("got %q", got)
	}
}

func TestPostProcessNestedStructure(t *testing.T) {
	ts := time.Date(2023, 12, 31, 18, 30, 0, 0, time.UTC)
	input := []map[string]any{
		{
			"name":       "keep me",
			"created_at": ts,
			"count":      int64(3),
			"nested": map[string]any{
				"updated_at": ts,
				"note":       "also untouched",
			},
			"history": []any{ts, "plain"},
		},
	}

	out := PostProcessRecords(input)
	row := out[0]
	if row["name"] != "keep me" || row["count"] != int64(3) {
		t.Fatalf("scalars modified: %v", row)
	}
	if row["created_at"] != "2023-12-31 18:30:00.000" {
		t.Fatalf("created_at = %v", row["created_at"])
	}
	nested := row["nested"].(map[string]any)
	if nested["updated_at"] != "2023-12-31 18:30:00.000" || nested["note"] != "also untouched" {
		t.Fatalf("nested = %v", nested)
	}
	history := row["history"].([]any)
	if history[0] != "2023-12-31 18:30:00.000" || history[1] != "plain" {
		t.Fatalf("history = %v", history)
	}

	// Input must not be mutated.
	if _, ok := input[0]["created_at"].(time.Time); !ok {
		t.Fatal("input was mutated")
	}
}

func TestPostProcessRecordsNil(t *testing.T) {
	out := PostProcessRecords(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty slice, got %v", out)
	}
}

func TestPostProcessScalarPassThrough(t *testing.T) {
	if got := PostProcess("unchanged"); got != "unchanged" {
		t.Fatalf("got %v", got)
	}
	if got := PostProcess(nil); got != nil {
		t.Fatalf("got %v", got)
	}
}
