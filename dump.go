package logging

import (
	"fmt"
	"reflect"
)

const (
	// maxDumpDepth bounds recursion into nested values.
	maxDumpDepth = 10
	// maxDumpElements is the number of slice or array elements written.
	maxDumpElements = 10
)

// Dump writes the contents of v at debug level, one line per node: exported
// struct fields, map entries and the first elements of slices.
func (h *Handle) Dump(v interface{}) {
	if h == nil || !LevelDebug.Enabled(h.level) || !h.router.Enabled(LevelDebug) {
		return
	}
	if v == nil {
		h.DebugWith().Msg("Dump: <nil>")
		return
	}
	d := &dumper{handle: h, visited: make(map[uintptr]bool)}
	d.value(v, emptyString, 0)
}

type dumper struct {
	handle  *Handle
	visited map[uintptr]bool
}

func (d *dumper) line(format string, args ...interface{}) {
	d.handle.DebugWith().Leaf("Dump").Msgf(format, args...)
}

func (d *dumper) value(v interface{}, prefix string, depth int) {
	if depth > maxDumpDepth {
		d.line("%s: <max depth reached>", prefix)
		return
	}
	if v == nil {
		d.line("%s: <nil>", prefix)
		return
	}

	val, ok := d.deref(reflect.ValueOf(v), prefix)
	if !ok {
		return
	}
	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		if prefix == emptyString {
			d.line("Struct: %s", typ.Name())
		} else {
			d.line("%s: %s {", prefix, typ.Name())
		}
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !field.CanInterface() {
				continue
			}
			name := typ.Field(i).Name
			if prefix != emptyString {
				name = prefix + "." + name
			}
			d.value(field.Interface(), name, depth+1)
		}
		if prefix != emptyString {
			d.line("%s: }", prefix)
		}

	case reflect.Map:
		d.line("%s: map[%s]%s (len: %d) {", prefix, typ.Key(), typ.Elem(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			d.value(iter.Value().Interface(), fmt.Sprintf("%s[%v]", prefix, iter.Key().Interface()), depth+1)
		}
		d.line("%s: }", prefix)

	case reflect.Slice, reflect.Array:
		d.line("%s: %s (len: %d, cap: %d) {", prefix, typ, val.Len(), val.Cap())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			elem := val.Index(i)
			if !elem.CanInterface() {
				elem = reflect.Zero(elem.Type())
			}
			d.value(elem.Interface(), fmt.Sprintf("%s[%d]", prefix, i), depth+1)
		}
		if val.Len() > maxDumpElements {
			d.line("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}
		d.line("%s: }", prefix)

	default:
		if val.IsValid() && val.CanInterface() {
			d.line("%s: %v", prefix, val.Interface())
		} else {
			d.line("%s: %v", prefix, v)
		}
	}
}

// deref unwraps interfaces and pointers. It reports false once it has
// written a line for a nil or already visited value.
func (d *dumper) deref(val reflect.Value, prefix string) (reflect.Value, bool) {
	for {
		switch val.Kind() {
		case reflect.Interface:
			if val.IsNil() {
				d.line("%s: <nil>", prefix)
				return val, false
			}
			val = val.Elem()
			continue
		case reflect.Ptr:
			if val.IsNil() {
				d.line("%s: <nil>", prefix)
				return val, false
			}
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.line("%s: <circular reference>", prefix)
				return val, false
			}
			d.visited[ptr] = true
			val = val.Elem()
			continue
		default:
		}
		return val, true
	}
}
