package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the shape of a parameter value.
type Kind int

const (
	kindInvalid Kind = iota
	// KindScalar is a single string or number.
	KindScalar
	// KindList is an ordered sequence of scalars.
	KindList
	// KindMap is an ordered mapping from string keys to scalars.
	KindMap
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Pair is one entry of a map-valued parameter.
type Pair struct {
	Key   string
	Value string
}

// Value is a single request parameter value. Use String, Int, Float, List or
// Mapping to build one; the zero Value is rejected by the encoders.
type Value struct {
	kind    Kind
	scalar  string
	list    []string
	entries []Pair
}

// String returns a scalar value.
func String(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// Int returns a scalar value holding a decimal integer.
func Int(n int64) Value {
	return Value{kind: KindScalar, scalar: strconv.FormatInt(n, 10)}
}

// Float returns a scalar value holding a number in its shortest representation.
func Float(f float64) Value {
	return Value{kind: KindScalar, scalar: strconv.FormatFloat(f, 'f', -1, 64)}
}

// List returns a sequence value. The elements are copied.
func List(values ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), values...)}
}

// Mapping returns a mapping value that keeps the given entry order. The entries are copied.
func Mapping(entries ...Pair) Value {
	return Value{kind: KindMap, entries: append([]Pair(nil), entries...)}
}

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar string. It is empty for non-scalar values.
func (v Value) Scalar() string { return v.scalar }

// Items returns a copy of the list elements.
func (v Value) Items() []string { return append([]string(nil), v.list...) }

// Entries returns a copy of the map entries.
func (v Value) Entries() []Pair { return append([]Pair(nil), v.entries...) }

// Values returns the scalar strings held by v in order: the scalar itself, the
// list elements, or the map values.
func (v Value) Values() []string {
	switch v.kind {
	case KindScalar:
		return []string{v.scalar}
	case KindList:
		return v.Items()
	case KindMap:
		out := make([]string, len(v.entries))
		for i, e := range v.entries {
			out[i] = e.Value
		}
		return out
	default:
		return nil
	}
}

// Params is an ordered set of request parameters. Setting an existing key
// replaces its value in place; new keys are appended.
type Params struct {
	keys   []string
	values map[string]Value
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]Value)}
}

// Set stores v under key and returns p for chaining.
func (p *Params) Set(key string, v Value) *Params {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
	return p
}

// SetString is shorthand for Set(key, String(s)).
func (p *Params) SetString(key, s string) *Params {
	return p.Set(key, String(s))
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Delete removes key. Removing a missing key is a no-op.
func (p *Params) Delete(key string) {
	if p == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Clone returns a copy of p. A nil receiver yields an empty set.
func (p *Params) Clone() *Params {
	out := NewParams()
	if p == nil {
		return out
	}
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// ValueOf converts a decoded Go value into a parameter value. Strings, bools,
// numbers and json.Number become scalars; []any and []string become lists;
// map[string]any and map[string]string become maps with sorted keys. Nesting
// beyond one level is rejected with an *EncodingError.
func ValueOf(key string, raw any) (Value, error) {
	if s, ok := scalarOf(raw); ok {
		return String(s), nil
	}

	switch v := raw.(type) {
	case []string:
		return List(v...), nil
	case []any:
		items := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := scalarOf(item)
			if !ok {
				return Value{}, &EncodingError{Key: fmt.Sprintf("%s[%d]", key, i), Reason: "list elements must be scalars"}
			}
			items = append(items, s)
		}
		return List(items...), nil
	case map[string]string:
		entries := make([]Pair, 0, len(v))
		for _, k := range sortedKeys(v) {
			entries = append(entries, Pair{Key: k, Value: v[k]})
		}
		return Mapping(entries...), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Pair, 0, len(v))
		for _, k := range keys {
			s, ok := scalarOf(v[k])
			if !ok {
				return Value{}, &EncodingError{Key: fmt.Sprintf("%s[%s]", key, k), Reason: "map values must be scalars"}
			}
			entries = append(entries, Pair{Key: k, Value: s})
		}
		return Mapping(entries...), nil
	case *Map:
		entries := make([]Pair, 0, v.Len())
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			s, ok := scalarOf(item)
			if !ok {
				return Value{}, &EncodingError{Key: fmt.Sprintf("%s[%s]", key, k), Reason: "map values must be scalars"}
			}
			entries = append(entries, Pair{Key: k, Value: s})
		}
		return Mapping(entries...), nil
	default:
		return Value{}, &EncodingError{Key: key, Reason: fmt.Sprintf("unsupported value type %T", raw)}
	}
}

// ParamsFromJSON decodes a JSON object into a parameter set. Top-level keys keep
// their document order.
func ParamsFromJSON(data []byte) (*Params, error) {
	doc, err := decodeOrdered(data)
	if err != nil {
		return nil, &EncodingError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	obj, ok := doc.(*Map)
	if !ok {
		return nil, &EncodingError{Reason: "JSON parameters must be an object"}
	}
	p := NewParams()
	for _, k := range obj.Keys() {
		raw, _ := obj.Get(k)
		v, err := ValueOf(k, raw)
		if err != nil {
			return nil, err
		}
		p.Set(k, v)
	}
	return p, nil
}

// scalarOf reports whether raw is a scalar and returns its string form.
func scalarOf(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		// form encoders render true as "1" and false as ""
		if v {
			return "1", true
		}
		return "", true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
