package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
)

// Field maps one CSV column onto a dotted path through the exported row, e.g.
// "category.name". Paths resolve against json tags, so they read the same as
// the API payloads.
type Field struct {
	Header string
	Path   string
}

// Filename stamps the entity name with the export time, e.g.
// "products_20260831_120000.csv".
func Filename(entity string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", entity, now.Format("20060102_150405"))
}

// MarshalCSV renders rows into a CSV document with one column per field. A
// path that resolves through a nil reference or names an unknown field yields
// an empty cell rather than failing the export.
func MarshalCSV(fields []Field, rows any) ([]byte, error) {
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no export fields selected")
	}

	value := reflect.ValueOf(rows)
	if value.Kind() != reflect.Slice {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "export rows must be a slice")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv header")
	}

	record := make([]string, len(fields))
	for i := 0; i < value.Len(); i++ {
		row := value.Index(i)
		for j, f := range fields {
			record[j] = resolvePath(row, f.Path)
		}
		if err := w.Write(record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv record")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flushing csv")
	}
	return buf.Bytes(), nil
}

func resolvePath(row reflect.Value, path string) string {
	current := row
	for _, segment := range strings.Split(path, ".") {
		for current.Kind() == reflect.Pointer || current.Kind() == reflect.Interface {
			if current.IsNil() {
				return ""
			}
			current = current.Elem()
		}
		if current.Kind() != reflect.Struct {
			return ""
		}
		field, ok := fieldBySegment(current, segment)
		if !ok {
			return ""
		}
		current = field
	}
	return formatValue(current)
}

func fieldBySegment(value reflect.Value, segment string) (reflect.Value, bool) {
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == segment || strings.EqualFold(f.Name, segment) {
			return value.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func formatValue(value reflect.Value) string {
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}
	if !value.IsValid() {
		return ""
	}

	switch v := value.Interface().(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format("2006-01-02 15:04:05")
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}

	switch value.Kind() {
	case reflect.String:
		return value.String()
	case reflect.Bool:
		if value.Bool() {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", value.Interface())
	}
}
