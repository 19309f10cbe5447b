package proc

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// int32 range bounds for choosing between int and bigint.
const (
	int32Max = 2147483647
	int32Min = -2147483648
)

// Infer converts a raw parameter set into typed call parameters, applying
// the coercion rules in order:
//
//  1. the string "null" or "" becomes an explicit NULL;
//  2. explicit NULL binds as nvarchar (a missing key is simply never seen);
//  3. an integer-valued numeric string with no leading zero is converted to
//     a number (leading zeros mark identifiers such as postal codes and the
//     string is preserved);
//  4. the value is classified: integers by int32 range, other numerics as
//     decimal(10,2), bools as bit, dates and structured values rendered to
//     text.
//
// Parameters are returned in name order so binding is deterministic.
func Infer(raw map[string]any) []Param {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]Param, 0, len(names))
	for _, name := range names {
		params = append(params, inferOne(name, raw[name]))
	}
	return params
}

func inferOne(name string, value any) Param {
	if s, ok := value.(string); ok {
		if s == "null" || s == "" {
			return Param{Name: name, Type: TypeNVarChar, Value: nil}
		}
		if n, ok := numericString(s); ok {
			value = n
		}
	}

	switch v := value.(type) {
	case nil:
		return Param{Name: name, Type: TypeNVarChar, Value: nil}
	case bool:
		return Param{Name: name, Type: TypeBit, Value: v}
	case float64:
		return numberParam(name, v)
	case float32:
		return numberParam(name, float64(v))
	case int:
		return numberParam(name, float64(v))
	case int32:
		return numberParam(name, float64(v))
	case int64:
		return numberParam(name, float64(v))
	case string:
		return Param{Name: name, Type: TypeNVarChar, Value: v}
	case time.Time:
		return Param{Name: name, Type: TypeNVarChar, Value: FormatDateTime(v)}
	default:
		// Structured objects and sequences bind as their canonical JSON text.
		encoded, err := json.Marshal(v)
		if err != nil {
			return Param{Name: name, Type: TypeNVarChar, Value: ""}
		}
		return Param{Name: name, Type: TypeNVarChar, Value: string(encoded)}
	}
}

// numericString reports whether s is an integer-valued number that is safe
// to convert: non-empty after trimming, parseable, round-trips to an
// integer, and carries no leading zero.
func numericString(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	if len(trimmed) > 1 && strings.HasPrefix(trimmed, "0") {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	if math.Trunc(n) != n || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func numberParam(name string, n float64) Param {
	if math.Trunc(n) == n && !math.IsInf(n, 0) {
		if n > int32Max || n < int32Min {
			return Param{Name: name, Type: TypeBigInt, Value: int64(n)}
		}
		return Param{Name: name, Type: TypeInt, Value: int64(n)}
	}
	return Param{Name: name, Type: TypeDecimal, Value: n}
}

// OutputsFor registers the output parameters a route entry declares,
// defaulting unrecognized hints to nvarchar. Names are sorted for
// deterministic binding.
func OutputsFor(hints map[string]string) []Output {
	if len(hints) == 0 {
		return nil
	}
	names := make([]string, 0, len(hints))
	for name := range hints {
		names = append(names, name)
	}
	sort.Strings(names)

	outputs := make([]Output, 0, len(names))
	for _, name := range names {
		outputs = append(outputs, Output{Name: name, Type: ParseTypeHint(hints[name])})
	}
	return outputs
}
