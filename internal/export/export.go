// Package export serializes single events for download: JSON as a direct
// marshal of the record, CSV as a one-row flattening with dot-separated
// column names and spreadsheet-formula-injection defense.
package export

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/obessu/eventflow/internal/model"
)

// JSON returns the indented JSON serialization of the event.
func JSON(ev *model.Event) ([]byte, error) {
	return json.MarshalIndent(ev, "", "  ")
}

// CSV returns a two-line CSV document: dot-separated headers and one value
// row. Nested records flatten with dot-separated keys; list fields join with
// "; ". Values starting with =, +, -, @, tab, or carriage return are
// prefixed with a quote so spreadsheets treat them as text, not formulas.
func CSV(ev *model.Event) ([]byte, error) {
	pairs := flatten(reflect.ValueOf(ev).Elem(), "")

	headers := make([]string, len(pairs))
	values := make([]string, len(pairs))
	for i, p := range pairs {
		headers[i] = p.key
		values[i] = sanitizeCell(p.value)
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")
	b.WriteString(strings.Join(values, ","))
	return []byte(b.String()), nil
}

// FileName derives a download filename from the event name: lowercase with
// every non-alphanumeric run replaced by underscores.
func FileName(ev *model.Event, ext string) string {
	var b strings.Builder
	for _, r := range ev.Analysis.EventName {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune('_')
		}
	}
	return b.String() + "." + ext
}

type pair struct {
	key   string
	value string
}

// flatten walks the struct in field-declaration order, producing dot-keyed
// leaf values. Column order is therefore deterministic across exports.
func flatten(v reflect.Value, prefix string) []pair {
	var out []pair
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := jsonName(field)
		if name == "" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		fv := v.Field(i)

		switch {
		case fv.Type() == reflect.TypeOf(time.Time{}):
			out = append(out, pair{key, fv.Interface().(time.Time).Format(time.RFC3339)})
		case fv.Kind() == reflect.Struct:
			out = append(out, flatten(fv, key)...)
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
			parts := make([]string, fv.Len())
			for j := 0; j < fv.Len(); j++ {
				parts[j] = fv.Index(j).String()
			}
			out = append(out, pair{key, strings.Join(parts, "; ")})
		default:
			out = append(out, pair{key, fmt.Sprintf("%v", fv.Interface())})
		}
	}
	return out
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		name = field.Name
	}
	return name
}

// dangerousPrefixes trigger formula evaluation in common spreadsheet tools.
var dangerousPrefixes = []string{"=", "+", "-", "@", "\t", "\r"}

func sanitizeCell(v string) string {
	sanitized := strings.ReplaceAll(v, `"`, `""`)
	for _, prefix := range dangerousPrefixes {
		if strings.HasPrefix(sanitized, prefix) {
			return `"'` + sanitized + `"`
		}
	}
	return `"` + sanitized + `"`
}
