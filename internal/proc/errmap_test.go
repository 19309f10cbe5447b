package proc

import (
	"errors"
	"fmt"
	"testing"

	mssql "github.com/microsoft/go-mssqldb"
)

func TestMapErrorDynamicPrefix(t *testing.T) {
	status, msg := MapError(errors.New("402: Quota Exceeded"))
	if status != 402 || msg != "Quota Exceeded" {
		t.Fatalf("got (%d, %q)", status, msg)
	}
}

func TestMapErrorPrefixBeatsNumericCode(t *testing.T) {
	err := mssql.Error{Number: 50000, Message: "409: Seat already taken"}
	status, msg := MapError(err)
	if status != 409 || msg != "Seat already taken" {
		t.Fatalf("got (%d, %q)", status, msg)
	}
}

func TestMapErrorConstraintNumbers(t *testing.T) {
	for _, number := range []int32{2627, 2601, 547} {
		status, _ := MapError(mssql.Error{Number: number, Message: "Violation of PRIMARY KEY constraint"})
		if status != 409 {
			t.Fatalf("number %d: got %d, want 409", number, status)
		}
	}
}

func TestMapErrorDataValidityNumbers(t *testing.T) {
	for _, number := range []int32{515, 8152, 201, 245, 8114} {
		status, _ := MapError(mssql.Error{Number: number, Message: "Cannot insert the value NULL into column"})
		if status != 400 {
			t.Fatalf("number %d: got %d, want 400", number, status)
		}
	}
}

func TestMapErrorWrappedDriverError(t *testing.T) {
	wrapped := fmt.Errorf("execute procedure: %w", mssql.Error{Number: 2627, Message: "duplicate key"})
	status, _ := MapError(wrapped)
	if status != 409 {
		t.Fatalf("got %d, want 409", status)
	}
}

func TestMapErrorKeywordFallback(t *testing.T) {
	cases := []struct {
		msg  string
		want int
	}{
		{"User already exists", 409},
		{"Member already inside the room", 409},
		{"Record does not exist", 404},
		{"Data not found", 404},
		{"Procedure expects parameter '@user_id'", 400},
		{"Invalid date range", 400},
		{"String would be truncated", 400},
	}
	for _, tc := range cases {
		status, msg := MapError(errors.New(tc.msg))
		if status != tc.want || msg != tc.msg {
			t.Fatalf("%q: got (%d, %q), want %d", tc.msg, status, msg, tc.want)
		}
	}
}

func TestMapErrorCustomRaisedFallsBackTo400(t *testing.T) {
	status, _ := MapError(mssql.Error{Number: 50000, Message: "Business rule violated"})
	if status != 400 {
		t.Fatalf("got %d, want 400", status)
	}
}

func TestMapErrorDefault(t *testing.T) {
	status, msg := MapError(errors.New("connection reset by peer"))
	if status != 500 || msg != "connection reset by peer" {
		t.Fatalf("got (%d, %q)", status, msg)
	}
	status, msg = MapError(nil)
	if status != 500 || msg != "Unknown Database Error" {
		t.Fatalf("nil error: got (%d, %q)", status, msg)
	}
}
