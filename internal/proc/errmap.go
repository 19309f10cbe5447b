package proc

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
)

// statusPrefixRe matches the "XXX: message" convention procedures use to
// signal an arbitrary HTTP status through RAISERROR text.
var statusPrefixRe = regexp.MustCompile(`^(\d{3}):\s*(.+)`)

// SQL Server error numbers handled by the classification chain.
const (
	errPrimaryKeyViolation = 2627
	errDuplicateIndexRow   = 2601
	errForeignKeyConflict  = 547

	errNullNotAllowed   = 515
	errDataTruncated    = 8152
	errMissingParameter = 201
	errConversionFailed = 245
	errTypeConversion   = 8114

	errCustomRaised = 50000
)

// MapError classifies any error raised during procedure execution into an
// HTTP status code and message. The rule chain runs in priority order:
// explicit "XXX:" prefixes beat numeric driver codes, numeric codes beat
// keyword matching, and keyword matching beats the generic fallbacks.
func MapError(err error) (int, string) {
	msg := "Unknown Database Error"
	var number int32

	if err != nil {
		var sqlErr mssql.Error
		if errors.As(err, &sqlErr) {
			number = sqlErr.Number
			msg = sqlErr.Message
		} else if m := err.Error(); m != "" {
			msg = m
		}
	}

	// 1. Dynamic status extraction: "402: Payment Required".
	if m := statusPrefixRe.FindStringSubmatch(msg); m != nil {
		code, convErr := strconv.Atoi(m[1])
		if convErr == nil {
			return code, m[2]
		}
	}

	// 2. Constraint violations.
	switch number {
	case errPrimaryKeyViolation, errDuplicateIndexRow, errForeignKeyConflict:
		return 409, msg
	}

	// 3. Data validity errors.
	switch number {
	case errNullNotAllowed, errDataTruncated, errMissingParameter,
		errConversionFailed, errTypeConversion:
		return 400, msg
	}

	// 4. Keyword fallback for drivers and procedures that do not use
	// structured codes.
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "already inside"),
		strings.Contains(lower, "conflict"),
		strings.Contains(lower, "already exists"),
		strings.Contains(lower, "duplicate"):
		return 409, msg
	case strings.Contains(lower, "not found"),
		strings.Contains(lower, "does not exist"):
		return 404, msg
	case strings.Contains(lower, "expects parameter"),
		strings.Contains(lower, "parameter"),
		strings.Contains(lower, "not supplied"),
		strings.Contains(lower, "missing"),
		strings.Contains(lower, "required"),
		strings.Contains(lower, "invalid"),
		strings.Contains(lower, "convert"),
		strings.Contains(lower, "truncated"):
		return 400, msg
	}

	// 5. Custom RAISERROR without a recognized keyword is still a
	// validation failure, not a server fault.
	if number == errCustomRaised {
		return 400, msg
	}

	// 6. Everything else.
	return 500, msg
}
