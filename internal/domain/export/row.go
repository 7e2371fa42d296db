// Package export turns heterogeneous report rows into CSV tables.
//
// Report queries hand back either typed structs or column maps. Both are read
// through the Row accessor, so a single header list can be resolved against
// either shape.
package export

import (
	"reflect"
	"strings"
	"sync"
)

// Row is a read-only view of a single report record.
type Row interface {
	// Lookup returns the value stored under key and whether it was present.
	Lookup(key string) (any, bool)
}

// MapRow is a Row backed by a column map (e.g. pgx.RowToMap output).
type MapRow map[string]any

// Lookup implements Row.
func (r MapRow) Lookup(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// StructRow is a Row backed by a struct value. Fields are addressed by their
// csv, json or db tag or field name, then by any of those ignoring case.
type StructRow struct {
	value reflect.Value
	meta  *structMeta
}

// NewStructRow wraps a struct or pointer to struct. A nil pointer yields a row
// with no fields.
func NewStructRow(v any) StructRow {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return StructRow{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return StructRow{}
	}
	return StructRow{value: rv, meta: metaFor(rv.Type())}
}

// Lookup implements Row.
func (r StructRow) Lookup(key string) (any, bool) {
	if r.meta == nil {
		return nil, false
	}

	path, ok := r.meta.byKey[key]
	if !ok {
		path, ok = r.meta.byFold[strings.ToLower(key)]
	}
	if !ok {
		return nil, false
	}

	f, err := r.value.FieldByIndexErr(path)
	if err != nil {
		// nil embedded pointer
		return nil, false
	}
	return f.Interface(), true
}

// AsRow adapts v to a Row. Rows pass through, string-keyed maps become MapRow,
// structs become StructRow. Anything else is an empty row.
func AsRow(v any) Row {
	switch row := v.(type) {
	case nil:
		return MapRow(nil)
	case Row:
		return row
	case map[string]any:
		return MapRow(row)
	case map[string]string:
		m := make(MapRow, len(row))
		for k, s := range row {
			m[k] = s
		}
		return m
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		return NewStructRow(rv.Interface())
	}
	return MapRow(nil)
}

// structMeta holds field paths for a struct type, keyed for lookup.
type structMeta struct {
	byKey  map[string][]int
	byFold map[string][]int
}

var metaCache sync.Map // map[reflect.Type]*structMeta

func metaFor(t reflect.Type) *structMeta {
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*structMeta)
	}

	meta := &structMeta{
		byKey:  make(map[string][]int),
		byFold: make(map[string][]int),
	}
	collectFields(t, nil, meta)

	actual, _ := metaCache.LoadOrStore(t, meta)
	return actual.(*structMeta)
}

// collectFields walks exported fields, descending into embedded structs.
// Outer fields win over promoted ones and the first registration of a key wins.
func collectFields(t reflect.Type, prefix []int, meta *structMeta) {
	var embedded []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		path := make([]int, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = i

		// unexported embedded structs still promote their exported fields
		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				field.Index = path
				embedded = append(embedded, field)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}

		for _, tag := range []string{"csv", "json", "db"} {
			if name := tagName(field.Tag.Get(tag)); name != "" {
				register(meta.byKey, name, path)
				register(meta.byFold, strings.ToLower(name), path)
			}
		}
		register(meta.byKey, field.Name, path)
		register(meta.byFold, strings.ToLower(field.Name), path)
	}

	for _, field := range embedded {
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		collectFields(ft, field.Index, meta)
	}
}

func register(m map[string][]int, key string, path []int) {
	if _, exists := m[key]; !exists {
		m[key] = path
	}
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
