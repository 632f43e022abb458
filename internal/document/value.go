package document

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"sparql-flatten/internal/model"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Members is the insertion-ordered member list of an object.
type Members = orderedmap.OrderedMap[string, Value]

// Value is a tagged union over the JSON value types. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents or number literal
	arr  []Value
	obj  *orderedmap.OrderedMap[string, Value]
}

// NewMembers returns an empty ordered member list.
func NewMembers() *Members {
	return orderedmap.New[string, Value]()
}

func NullValue() Value                { return Value{} }
func BoolValue(b bool) Value          { return Value{kind: Bool, b: b} }
func StringValue(s string) Value      { return Value{kind: String, s: s} }
func ArrayValue(vs []Value) Value     { return Value{kind: Array, arr: vs} }
func NumberValue(n json.Number) Value { return Value{kind: Number, s: n.String()} }

// ObjectValue wraps m. A nil m is treated as an empty object.
func ObjectValue(m *Members) Value {
	if m == nil {
		m = NewMembers()
	}
	return Value{kind: Object, obj: m}
}

func (v Value) Kind() Kind { return v.kind }

// Str returns the contents of a string value.
func (v Value) Str() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// Number returns the literal text of a number value.
func (v Value) Number() (json.Number, bool) {
	if v.kind != Number {
		return "", false
	}
	return json.Number(v.s), true
}

// Members returns the ordered members of an object value.
func (v Value) Members() (*Members, bool) {
	if v.kind != Object {
		return nil, false
	}
	return v.obj, true
}

// Elements returns the items of an array value, or a shape mismatch error.
func (v Value) Elements() ([]Value, error) {
	if v.kind != Array {
		return nil, model.ShapeMismatchf("", "expected array, got %s", v.kind)
	}
	return v.arr, nil
}

// Get looks up key without failing; ok is false for non-objects and missing keys.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Field is the checked form of Get. A non-object receiver or a missing key
// is reported as a shape mismatch at key.
func (v Value) Field(key string) (Value, error) {
	return v.At(key)
}

// At walks keys from v. The error path is the dotted prefix walked so far.
func (v Value) At(keys ...string) (Value, error) {
	cur := v
	for i, key := range keys {
		path := strings.Join(keys[:i+1], ".")
		if cur.kind != Object {
			return Value{}, model.ShapeMismatchf(path, "expected object, got %s", cur.kind)
		}
		next, ok := cur.obj.Get(key)
		if !ok {
			return Value{}, model.ShapeMismatchf(path, "missing key %q", key)
		}
		cur = next
	}
	return cur, nil
}

// MarshalJSON lets a Value be embedded in other encoded structures.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v)
}
