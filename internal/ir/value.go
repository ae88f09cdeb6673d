package ir

import (
	"math"
	"slices"
	"time"
)

// Value is a sealed interface representing the closed set of kinds that may
// be written to a blob column.
// Only String, Int, Float, Bool, Time, List, Set and Map implement it.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// String represents a text value.
type String string

func (String) irValue() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) irValue() {}

// Float represents a floating-point value. Always float64.
type Float float64

func (Float) irValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) irValue() {}

// Time represents a timestamp value.
// Timestamps are naive: no zone conversion is applied on write or read.
type Time time.Time

func (Time) irValue() {}

// List represents an ordered sequence of values.
type List []Value

func (List) irValue() {}

// Set represents an unordered collection of distinct values.
// Construct with NewSet so duplicates are collapsed.
type Set []Value

func (Set) irValue() {}

// Map represents a mapping from text keys to values.
// Use SortedKeys() for deterministic iteration.
type Map map[string]Value

func (Map) irValue() {}

// NewList creates a List from values.
func NewList(vals ...Value) List {
	return List(vals)
}

// NewSet creates a Set from values, dropping duplicates.
// Elements are ordered by their blob encoding so equal sets compare equal.
func NewSet(vals ...Value) Set {
	type keyed struct {
		key string
		val Value
	}
	seen := make(map[string]struct{}, len(vals))
	items := make([]keyed, 0, len(vals))
	for _, v := range vals {
		k := Key(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		items = append(items, keyed{key: k, val: v})
	}
	slices.SortFunc(items, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	set := make(Set, len(items))
	for i, it := range items {
		set[i] = it.val
	}
	return set
}

// Pair represents a key-value pair for Map construction.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: NewMap(P("name", String("cart")), P("count", Int(5)))
func P(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// NewMap creates a Map from key-value pairs.
func NewMap(pairs ...Pair) Map {
	m := make(Map, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// SortedKeys returns the map keys in byte order.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Contains reports whether v is an element of the set.
func (s Set) Contains(v Value) bool {
	for _, elem := range s {
		if Equal(elem, v) {
			return true
		}
	}
	return false
}

// Kind returns the kind tag of a value, as used in the blob encoding.
func Kind(v Value) string {
	switch v.(type) {
	case String:
		return KindString
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case Bool:
		return KindBool
	case Time:
		return KindTime
	case List:
		return KindList
	case Set:
		return KindSet
	case Map:
		return KindMap
	default:
		return ""
	}
}

// Kind tags.
const (
	KindString = "str"
	KindInt    = "int"
	KindFloat  = "float"
	KindBool   = "bool"
	KindTime   = "time"
	KindList   = "list"
	KindSet    = "set"
	KindMap    = "map"
)

// Equal reports whether two values are structurally equal.
// Times compare by instant; sets compare without regard to order; NaN
// equals NaN so that decoded blobs compare equal to their source.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		if !ok {
			return false
		}
		if math.IsNaN(float64(x)) && math.IsNaN(float64(y)) {
			return true
		}
		return x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Time:
		y, ok := b.(Time)
		return ok && time.Time(x).Equal(time.Time(y))
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Set:
		y, ok := b.(Set)
		if !ok || len(x) != len(y) {
			return false
		}
		for _, elem := range x {
			if !y.Contains(elem) {
				return false
			}
		}
		return true
	case Map:
		y, ok := b.(Map)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// Key returns a string identifying v by content: its blob encoding.
func Key(v Value) string {
	data, err := EncodeBlob(v)
	if err != nil {
		// Only a nil or foreign Value fails to encode; neither can be a
		// member of a set built by this package.
		return ""
	}
	return string(data)
}

// Native converts a value to plain Go types: string, int64, float64, bool,
// time.Time, []any and map[string]any. Sets become []any in set order.
func Native(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Time:
		return time.Time(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Native(elem)
		}
		return out
	case Set:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Native(elem)
		}
		return out
	case Map:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Native(elem)
		}
		return out
	default:
		return nil
	}
}
