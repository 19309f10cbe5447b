// Package proc converts untyped HTTP input into typed stored-procedure
// parameters, executes procedures against SQL Server, and reshapes results
// and errors for the HTTP layer.
package proc

import "strings"

// Type is the SQL parameter type a value binds as.
type Type int

const (
	TypeNVarChar Type = iota
	TypeInt
	TypeBigInt
	TypeBit
	TypeDate
	TypeDateTime
	TypeDecimal // decimal(10,2)
	TypeFloat
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBigInt:
		return "bigint"
	case TypeBit:
		return "bit"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "datetime"
	case TypeDecimal:
		return "decimal"
	case TypeFloat:
		return "float"
	default:
		return "nvarchar"
	}
}

// Param is a typed input parameter bound to a procedure call.
type Param struct {
	Name  string
	Type  Type
	Value any
}

// Output declares an output parameter registered on a procedure call.
type Output struct {
	Name string
	Type Type
}

// Result carries the first record set and any output parameter values
// returned by a procedure.
type Result struct {
	Recordset []map[string]any
	Output    map[string]any
}

// ParseTypeHint maps a route-config type hint to a Type. Unrecognized
// hints fall back to nvarchar.
func ParseTypeHint(hint string) Type {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "int":
		return TypeInt
	case "bigint":
		return TypeBigInt
	case "bit":
		return TypeBit
	case "date":
		return TypeDate
	case "datetime":
		return TypeDateTime
	case "decimal":
		return TypeDecimal
	case "float":
		return TypeFloat
	case "varchar", "nvarchar":
		return TypeNVarChar
	default:
		return TypeNVarChar
	}
}
