// Package payload builds request bodies whose optional fields may be left
// unset. Unset entries are dropped from objects by Normalize before the body
// is encoded, so an absent field never reaches the wire as null, false or 0.
package payload

import (
	"encoding/json"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindAbsent marks an unset value. It is the zero Kind.
	KindAbsent Kind = iota
	KindScalar
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Value is one node of a payload tree. The zero Value is absent.
type Value struct {
	kind   Kind
	scalar any
	object Object
	list   List
}

// Object is a JSON object whose entries may be absent.
type Object map[string]Value

// List is a JSON array. Lists are never filtered, only the objects inside them.
type List []Value

// Absent returns the unset sentinel.
func Absent() Value {
	return Value{}
}

// Scalar wraps a JSON scalar. A nil interface is treated as absent; Objects,
// Lists and Values are returned in their own variant. Use Opt for pointers.
func Scalar(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case Object:
		return t.Value()
	case List:
		return t.Value()
	}
	return Value{kind: KindScalar, scalar: v}
}

// Opt returns the pointed-to value, or Absent when p is nil.
func Opt[T any](p *T) Value {
	if p == nil {
		return Value{}
	}
	return Scalar(*p)
}

// Strings builds a list of string scalars.
func Strings(ss []string) Value {
	l := make(List, len(ss))
	for i, s := range ss {
		l[i] = Scalar(s)
	}
	return l.Value()
}

// Value wraps the object. A nil Object becomes an empty, present object.
func (o Object) Value() Value {
	if o == nil {
		o = Object{}
	}
	return Value{kind: KindObject, object: o}
}

// Value wraps the list.
func (l List) Value() Value {
	if l == nil {
		l = List{}
	}
	return Value{kind: KindList, list: l}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether v is the unset sentinel.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// ScalarValue returns the wrapped scalar.
func (v Value) ScalarValue() (any, bool) {
	return v.scalar, v.kind == KindScalar
}

// ObjectValue returns the wrapped object.
func (v Value) ObjectValue() (Object, bool) {
	return v.object, v.kind == KindObject
}

// ListValue returns the wrapped list.
func (v Value) ListValue() (List, bool) {
	return v.list, v.kind == KindList
}

// Normalize returns a copy of v with every absent object entry removed at
// every depth. Present values, including false, 0 and "", are kept. An object
// left empty by stripping stays in its parent as an empty object. The input
// is not modified.
func Normalize(v Value) Value {
	switch v.kind {
	case KindObject:
		return v.object.Normalize().Value()
	case KindList:
		out := make(List, len(v.list))
		for i, item := range v.list {
			out[i] = Normalize(item)
		}
		return out.Value()
	default:
		return v
	}
}

// Normalize returns a stripped copy of o. See the package-level Normalize.
func (o Object) Normalize() Object {
	out := make(Object, len(o))
	for k, v := range o {
		if v.kind == KindAbsent {
			continue
		}
		out[k] = Normalize(v)
	}
	return out
}

// MarshalJSON encodes v. Absent values encode as null; callers are expected
// to Normalize first so that absent object entries are gone.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindObject:
		if v.object == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(map[string]Value(v.object))
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal([]Value(v.list))
	default:
		return []byte("null"), nil
	}
}

// Interface converts v into plain Go values: map[string]any for objects,
// []any for lists, the scalar itself, or nil when absent. Absent object
// entries are kept as nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindObject:
		m := make(map[string]any, len(v.object))
		for k, item := range v.object {
			m[k] = item.Interface()
		}
		return m
	case KindList:
		s := make([]any, len(v.list))
		for i, item := range v.list {
			s[i] = item.Interface()
		}
		return s
	default:
		return nil
	}
}
