package proc

import (
	"context"
	"database/sql"
	"time"
)

// Executor runs stored procedures against a pooled connection manager.
// The pool serializes physical connections; an Executor holds no state of
// its own and is safe for concurrent use.
type Executor struct {
	db *sql.DB
}

// NewExecutor wraps a connection pool.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Exec invokes the named procedure with typed inputs and registered
// outputs. The first record set is scanned into generic rows; output
// parameter values are read after the record set is fully consumed, which
// is when SQL Server sends them.
func (e *Executor) Exec(ctx context.Context, procedure string, params []Param, outputs []Output) (*Result, error) {
	args := make([]any, 0, len(params)+len(outputs))
	for _, p := range params {
		args = append(args, sql.Named(p.Name, bindValue(p)))
	}

	dests := make(map[string]any, len(outputs))
	for _, o := range outputs {
		dest := outputDest(o.Type)
		dests[o.Name] = dest
		args = append(args, sql.Named(o.Name, sql.Out{Dest: dest}))
	}

	rows, err := e.db.QueryContext(ctx, procedure, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recordset, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	output := make(map[string]any, len(dests))
	for name, dest := range dests {
		output[name] = derefOutput(dest)
	}
	return &Result{Recordset: recordset, Output: output}, nil
}

// bindValue converts an inferred parameter value into the concrete form
// the driver expects for its type.
func bindValue(p Param) any {
	if p.Value == nil {
		return nil
	}
	switch p.Type {
	case TypeInt, TypeBigInt:
		switch v := p.Value.(type) {
		case int64:
			return v
		case float64:
			return int64(v)
		}
	case TypeDecimal, TypeFloat:
		if v, ok := p.Value.(float64); ok {
			return v
		}
	}
	return p.Value
}

// outputDest allocates a scan destination for a declared output type.
func outputDest(t Type) any {
	switch t {
	case TypeInt, TypeBigInt:
		return new(int64)
	case TypeBit:
		return new(bool)
	case TypeDecimal, TypeFloat:
		return new(float64)
	case TypeDate, TypeDateTime:
		return new(time.Time)
	default:
		return new(string)
	}
}

func derefOutput(dest any) any {
	switch v := dest.(type) {
	case *int64:
		return *v
	case *bool:
		return *v
	case *float64:
		return *v
	case *time.Time:
		return *v
	case *string:
		return *v
	default:
		return nil
	}
}

// scanRows reads the first record set into generic row maps.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	recordset := make([]map[string]any, 0)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		recordset = append(recordset, row)
	}
	return recordset, rows.Err()
}

// normalizeValue keeps scanned values JSON-friendly. Byte slices become
// strings; everything else passes through, including time.Time which the
// post-processor formats.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
