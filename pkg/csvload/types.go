// Package csvload fetches CSV resources and turns them into typed records.
//
// A load reads the whole resource, parses the header line, checks required
// columns, and feeds each data line through a caller-supplied transform.
// Rows that cannot be parsed or transformed are logged and dropped; only
// resource-level problems abort the load.
package csvload

import (
	"bytes"
	"encoding/json"
)

// Row is one parsed data line keyed by the trimmed header names.
type Row struct {
	// Columns are the header names in file order.
	Columns []string

	// Values are the trimmed field values, aligned with Columns.
	Values []string
}

func newRow(header, values []string) Row {
	row := Row{
		Columns: header,
		Values:  make([]string, len(values)),
	}
	for i, v := range values {
		row.Values[i] = trimField(v)
	}
	return row
}

// Lookup returns the value of the named column.
// When a header repeats a name, the right-most column wins.
func (r Row) Lookup(name string) (string, bool) {
	for i := len(r.Columns) - 1; i >= 0; i-- {
		if r.Columns[i] == name {
			return r.Values[i], true
		}
	}
	return "", false
}

// Get returns the value of the named column, or "" if it is absent.
func (r Row) Get(name string) string {
	v, _ := r.Lookup(name)
	return v
}

// Map returns the row as a column-to-value map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the row as an object whose keys keep file column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TransformFunc converts a Row into a record.
// Returning ok == false discards the row without a warning.
// Returning an error drops the row and logs a warning.
type TransformFunc[T any] func(Row) (record T, ok bool, err error)

// Options controls a single load.
type Options[T any] struct {
	// RequiredColumns must all appear in the header or the load fails.
	RequiredColumns []string

	// Transform is applied to every well-formed row.
	// It may be nil only when T is Row.
	Transform TransformFunc[T]
}
