package sanitize

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"time"

	"github.com/roach88/dbattr/internal/ir"
)

var timeType = reflect.TypeOf(time.Time{})

// Sanitize restricts an arbitrary value tree to the closed ir.Value set.
//
// Resolution order:
//  1. Exact supported kinds (string, int64, float64, bool, time.Time and
//     primitive ir values) are returned unchanged.
//  2. Maps with text keys become ir.Map; an entry whose value cannot be
//     sanitized is dropped.
//  3. Slices and arrays become ir.List (order kept); map[K]struct{} and
//     ir.Set become ir.Set. Members that cannot be sanitized are dropped.
//  4. Named types built on a supported kind, and other integer/float
//     widths, are coerced to the base kind.
//  5. Anything else fails with *UnsupportedTypeError, as does text that is
//     not valid UTF-8 and a time whose year is outside 0000-9999. Neither
//     can be stored without loss.
//
// Only a failure at the top level is returned. Nested failures are
// swallowed by the enclosing composite.
func Sanitize(v any) (ir.Value, error) {
	// Fast path: exact types need no reflection.
	switch val := v.(type) {
	case nil:
		return nil, &UnsupportedTypeError{Type: nil}
	case string:
		return sanitizeText(reflect.TypeOf(val), val)
	case int64:
		return ir.Int(val), nil
	case float64:
		return ir.Float(val), nil
	case bool:
		return ir.Bool(val), nil
	case time.Time:
		return sanitizeTime(reflect.TypeOf(val), val)
	case ir.String:
		return sanitizeText(reflect.TypeOf(val), string(val))
	case ir.Time:
		return sanitizeTime(reflect.TypeOf(val), time.Time(val))
	case ir.Int, ir.Float, ir.Bool:
		return val.(ir.Value), nil
	case ir.List:
		return sanitizeList(reflect.ValueOf([]ir.Value(val))), nil
	case ir.Set:
		return sanitizeSet(reflect.ValueOf([]ir.Value(val))), nil
	case ir.Map:
		return sanitizeMap(reflect.ValueOf(map[string]ir.Value(val))), nil
	}

	return sanitizeValue(reflect.ValueOf(v))
}

// sanitizeValue handles everything the fast path does not: composites,
// named types and the other numeric widths.
func sanitizeValue(rv reflect.Value) (ir.Value, error) {
	if !rv.IsValid() {
		return nil, &UnsupportedTypeError{Type: nil}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, &UnsupportedTypeError{Type: rv.Type()}
		}
		return Sanitize(rv.Elem().Interface())

	case reflect.Map:
		if isSetType(rv.Type()) {
			return sanitizeSetKeys(rv), nil
		}
		switch rv.Type().Key().Kind() {
		case reflect.String, reflect.Interface:
		default:
			return nil, &UnsupportedTypeError{Type: rv.Type(), Reason: "map keys must be text"}
		}
		return sanitizeMap(rv), nil

	case reflect.Slice, reflect.Array:
		return sanitizeList(rv), nil

	case reflect.String:
		return sanitizeText(rv.Type(), rv.String())

	case reflect.Bool:
		return ir.Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, &UnsupportedTypeError{Type: rv.Type(), Reason: "unsigned value overflows int64"}
		}
		return ir.Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return ir.Float(rv.Float()), nil

	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return sanitizeTime(rv.Type(), rv.Convert(timeType).Interface().(time.Time))
		}
	}

	return nil, &UnsupportedTypeError{Type: rv.Type()}
}

func sanitizeText(t reflect.Type, s string) (ir.Value, error) {
	if !ir.ValidText(s) {
		return nil, &UnsupportedTypeError{Type: t, Reason: "text is not valid UTF-8"}
	}
	return ir.String(s), nil
}

func sanitizeTime(t reflect.Type, ts time.Time) (ir.Value, error) {
	if !ir.TimeInRange(ts) {
		return nil, &UnsupportedTypeError{Type: t, Reason: fmt.Sprintf("year %d is outside 0000-9999", ts.Year())}
	}
	return ir.Time(ts), nil
}

// sanitizeMap converts a text-keyed map, dropping entries whose values fail.
// Interface-keyed maps (as produced by YAML decoders) keep only the entries
// whose dynamic key is text.
func sanitizeMap(rv reflect.Value) ir.Map {
	out := make(ir.Map, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface && !k.IsNil() {
			k = k.Elem()
		}
		if k.Kind() != reflect.String {
			logDropped("map entry", k, &UnsupportedTypeError{Type: k.Type(), Reason: "map keys must be text"})
			continue
		}
		key := k.String()
		if !ir.ValidText(key) {
			logDropped("map entry", key, &UnsupportedTypeError{Type: k.Type(), Reason: "key is not valid UTF-8"})
			continue
		}
		val, err := sanitizeMember(iter.Value())
		if err != nil {
			logDropped("map entry", key, err)
			continue
		}
		out[key] = val
	}
	return out
}

// sanitizeList converts a slice or array, dropping elements that fail and
// keeping the relative order of the rest.
func sanitizeList(rv reflect.Value) ir.List {
	out := make(ir.List, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		val, err := sanitizeMember(rv.Index(i))
		if err != nil {
			logDropped("list element", i, err)
			continue
		}
		out = append(out, val)
	}
	return out
}

// sanitizeSet converts the elements of a slice into a set.
func sanitizeSet(rv reflect.Value) ir.Set {
	elems := make([]ir.Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		val, err := sanitizeMember(rv.Index(i))
		if err != nil {
			logDropped("set element", i, err)
			continue
		}
		elems = append(elems, val)
	}
	return ir.NewSet(elems...)
}

// sanitizeSetKeys converts the keys of a map[K]struct{} into a set.
func sanitizeSetKeys(rv reflect.Value) ir.Set {
	elems := make([]ir.Value, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		val, err := sanitizeMember(iter.Key())
		if err != nil {
			logDropped("set element", iter.Key(), err)
			continue
		}
		elems = append(elems, val)
	}
	return ir.NewSet(elems...)
}

// sanitizeMember sanitizes a nested value. Unexported struct fields can not
// reach here: only maps, slices and arrays are walked.
func sanitizeMember(rv reflect.Value) (ir.Value, error) {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, &UnsupportedTypeError{Type: nil}
		}
		rv = rv.Elem()
	}
	return Sanitize(rv.Interface())
}

// isSetType reports whether t is the conventional Go set shape map[K]struct{}.
func isSetType(t reflect.Type) bool {
	elem := t.Elem()
	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

func logDropped(what string, at any, err error) {
	var ute *UnsupportedTypeError
	if errors.As(err, &ute) {
		slog.Debug("sanitize: dropping unsupported member", "member", what, "at", at, "type", ute.TypeName())
		return
	}
	slog.Debug("sanitize: dropping member", "member", what, "at", at, "error", err)
}
