// Package literal parses and compares the literal expressions an encoder
// prints for a parsed document: nested dicts, lists and tuples whose leaves
// are strings, integers, floats, booleans and None.
//
// The grammar is closed. Nothing in the input is ever evaluated; anything
// outside the grammar is rejected with a *SyntaxError.
package literal

import (
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the type of a literal value.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindTuple
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindDict:
		return "dict"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a parsed literal.
type Value struct {
	Kind    Kind
	Bool    bool     // KindBool
	Int     *big.Int // KindInt, arbitrary precision
	Float   float64  // KindFloat
	Str     string   // KindString
	Items   []Value  // KindList, KindTuple
	Entries []Entry  // KindDict, in first-insertion order
}

// Entry is a key/value pair of a dict.
type Entry struct {
	Key   Value
	Value Value
}

// None returns the None value.
func None() Value { return Value{Kind: KindNone} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: big.NewInt(i)} }

// BigInt returns an integer value holding a copy of i.
func BigInt(i *big.Int) Value { return Value{Kind: KindInt, Int: new(big.Int).Set(i)} }

// Float returns a float value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// List returns a list of the given items.
func List(items ...Value) Value { return Value{Kind: KindList, Items: items} }

// Tuple returns a tuple of the given items.
func Tuple(items ...Value) Value { return Value{Kind: KindTuple, Items: items} }

// Dict builds a dict from entries. A repeated key keeps the position of its
// first occurrence and the value of its last one.
func Dict(entries ...Entry) Value {
	b := newDictBuilder()
	for _, e := range entries {
		b.set(e.Key, e.Value)
	}
	return b.value()
}

// Pair is shorthand for an Entry with a string key.
func Pair(key string, v Value) Entry { return Entry{Key: String(key), Value: v} }

// Len returns the number of items or entries of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.Kind {
	case KindList, KindTuple:
		return len(v.Items)
	case KindDict:
		return len(v.Entries)
	}
	return 0
}

// IsContainer reports whether v is a list, tuple or dict.
func (v Value) IsContainer() bool {
	return v.Kind == KindList || v.Kind == KindTuple || v.Kind == KindDict
}

// Lookup returns the value stored under key in a dict.
func (v Value) Lookup(key Value) (Value, bool) {
	if v.Kind != KindDict {
		return Value{}, false
	}
	k, ok := hashKey(key)
	if !ok {
		return Value{}, false
	}
	for _, e := range v.Entries {
		if ek, _ := hashKey(e.Key); ek == k {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether v and o are structurally equal.
func (v Value) Equal(o Value) bool { return Equal(v, o) }

// String returns the one-line representation of v.
func (v Value) String() string {
	var sb strings.Builder
	writeRepr(&sb, v)
	return sb.String()
}

func (v Value) isNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// hashKey returns a canonical key for hashable values. Two hashable values
// are Equal exactly when their keys match.
func hashKey(v Value) (string, bool) {
	switch v.Kind {
	case KindNone:
		return "N", true
	case KindBool:
		if v.Bool {
			return "b1", true
		}
		return "b0", true
	case KindString:
		return "s" + strconv.Itoa(len(v.Str)) + ":" + v.Str, true
	case KindInt:
		return "n" + v.Int.String(), true
	case KindFloat:
		if i, ok := integralFloat(v.Float); ok {
			return "n" + i.String(), true
		}
		return "f" + strconv.FormatFloat(v.Float, 'g', -1, 64), true
	case KindTuple:
		var sb strings.Builder
		sb.WriteString("t(")
		for i, item := range v.Items {
			k, ok := hashKey(item)
			if !ok {
				return "", false
			}
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(k)
		}
		sb.WriteByte(')')
		return sb.String(), true
	}
	return "", false
}

type dictBuilder struct {
	entries []Entry
	index   map[string]int
}

func newDictBuilder() *dictBuilder {
	return &dictBuilder{index: make(map[string]int)}
}

// set stores an entry; the key must be hashable.
func (b *dictBuilder) set(key, val Value) bool {
	k, ok := hashKey(key)
	if !ok {
		return false
	}
	if i, exists := b.index[k]; exists {
		b.entries[i].Value = val
		return true
	}
	b.index[k] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Value: val})
	return true
}

func (b *dictBuilder) value() Value {
	return Value{Kind: KindDict, Entries: b.entries}
}
