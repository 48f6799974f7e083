package output

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
)

// Table is a rectangular rendering of records for text output.
type Table struct {
	Columns []string
	Rows    [][]string
}

var (
	rowType  = reflect.TypeOf(csvload.Row{})
	timeType = reflect.TypeOf(time.Time{})
)

// TableOf converts a slice of csvload.Row or of structs into a Table.
// Struct columns are named by their json tags.
func TableOf(records any) (Table, error) {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return Table{}, fmt.Errorf("records must be a slice, got %T", records)
	}
	if v.Len() == 0 {
		return Table{}, nil
	}

	elem := v.Type().Elem()
	switch {
	case elem == rowType:
		return rowTable(v), nil
	case elem.Kind() == reflect.Struct:
		return structTable(v), nil
	default:
		return Table{}, fmt.Errorf("unsupported record type %s", elem)
	}
}

func rowTable(v reflect.Value) Table {
	t := Table{Rows: make([][]string, v.Len())}
	for i := range t.Rows {
		r := v.Index(i).Interface().(csvload.Row)
		if i == 0 {
			t.Columns = r.Columns
		}
		t.Rows[i] = r.Values
	}
	return t
}

func structTable(v reflect.Value) Table {
	elem := v.Type().Elem()

	var (
		t      Table
		fields []int
	)
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		t.Columns = append(t.Columns, name)
		fields = append(fields, i)
	}

	t.Rows = make([][]string, v.Len())
	for r := 0; r < v.Len(); r++ {
		item := v.Index(r)
		row := make([]string, len(fields))
		for c, i := range fields {
			row[c] = formatValue(item.Field(i))
		}
		t.Rows[r] = row
	}
	return t
}

func formatValue(v reflect.Value) string {
	if v.Type() == timeType {
		return v.Interface().(time.Time).Format("2006-01-02")
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprint(v.Interface())
	}
}
