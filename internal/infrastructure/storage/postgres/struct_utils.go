package postgres

import (
	"reflect"
	"sync"
)

// columnMeta is the cached db-tag layout of a struct type.
type columnMeta struct {
	columns []string
	paths   [][]int
}

var columnCache sync.Map // map[reflect.Type]*columnMeta

// ExtractDBColumns lists the "db" tag names of T in field order, including
// those promoted from embedded structs. Repositories call it once at
// construction to build their SELECT lists.
func ExtractDBColumns[T any]() []string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	meta := columnsOf(t)
	return append([]string(nil), meta.columns...)
}

// StructToMap converts a struct (or pointer to one) to a column map using
// its "db" tags. Non-struct values yield nil.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := columnsOf(rv.Type())
	out := make(map[string]any, len(meta.columns))
	for i, col := range meta.columns {
		f, err := rv.FieldByIndexErr(meta.paths[i])
		if err != nil {
			continue
		}
		out[col] = f.Interface()
	}
	return out
}

func columnsOf(t reflect.Type) *columnMeta {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.(*columnMeta)
	}

	meta := &columnMeta{}
	if t.Kind() == reflect.Struct {
		walkColumns(t, nil, meta)
	}
	actual, _ := columnCache.LoadOrStore(t, meta)
	return actual.(*columnMeta)
}

func walkColumns(t reflect.Type, prefix []int, meta *columnMeta) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				walkColumns(ft, path, meta)
				continue
			}
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" || !field.IsExported() {
			continue
		}
		meta.columns = append(meta.columns, tag)
		meta.paths = append(meta.paths, path)
	}
}
