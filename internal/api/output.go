package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputMode controls how response bodies are handed back to the caller.
type OutputMode int32

const (
	// OutputRaw returns the body exactly as the server sent it.
	OutputRaw OutputMode = iota
	// OutputObject parses the body into a generic tree of map[string]any,
	// []any, string, json.Number, bool and nil.
	OutputObject
	// OutputMap parses the body into a tree of *Map and []any that keeps the
	// document's key order.
	OutputMap
)

// OutputModeNames lists the names accepted by ParseOutputMode.
var OutputModeNames = []string{"json", "raw", "object", "array", "map"}

// ParseOutputMode maps a mode name to an OutputMode. "json" and "raw" select
// OutputRaw, "object" selects OutputObject, "array" and "map" select OutputMap.
func ParseOutputMode(name string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "raw":
		return OutputRaw, nil
	case "object":
		return OutputObject, nil
	case "array", "map":
		return OutputMap, nil
	default:
		return OutputRaw, &ConfigError{
			Field:  "output",
			Reason: fmt.Sprintf("invalid output type %q (use %s)", name, strings.Join(OutputModeNames, ", ")),
		}
	}
}

// String returns the canonical name of the mode.
func (m OutputMode) String() string {
	switch m {
	case OutputRaw:
		return "json"
	case OutputObject:
		return "object"
	case OutputMap:
		return "array"
	default:
		return fmt.Sprintf("OutputMode(%d)", int32(m))
	}
}

// Parsed reports whether the mode decodes the body.
func (m OutputMode) Parsed() bool {
	return m == OutputObject || m == OutputMap
}

func (m OutputMode) valid() bool {
	return m == OutputRaw || m.Parsed()
}

// decodeBody converts body according to mode. OutputRaw never fails.
func decodeBody(mode OutputMode, body []byte) (any, error) {
	switch mode {
	case OutputRaw:
		return nil, nil
	case OutputObject:
		v, err := decodeGeneric(body)
		if err != nil {
			return nil, &ResponseParseError{Body: body, Err: err}
		}
		return v, nil
	case OutputMap:
		v, err := decodeOrdered(body)
		if err != nil {
			return nil, &ResponseParseError{Body: body, Err: err}
		}
		return v, nil
	default:
		return nil, &ConfigError{Field: "output", Reason: fmt.Sprintf("unknown output mode %d", int32(mode))}
	}
}

func decodeGeneric(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return v, nil
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		m := NewMap()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key has type %T", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		list := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// Map is a JSON object that remembers key order.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores v under key. Existing keys keep their position.
func (m *Map) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in document order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Plain converts m and everything below it into map[string]any and []any.
func (m *Map) Plain() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = Plain(m.values[k])
	}
	return out
}

// MarshalJSON encodes m with its keys in order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes m as a YAML mapping with its keys in order.
func (m *Map) MarshalYAML() (any, error) {
	return YAMLNode(m)
}

// YAMLNode builds a YAML node for a decoded response value. *Map keys keep
// their order, map[string]any keys are sorted and json.Number stays numeric.
func YAMLNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.keys {
			val, err := YAMLNode(t.values[k])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				val,
			)
		}
		return node, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := &Map{keys: keys, values: t}
		return YAMLNode(m)
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			val, err := YAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, val)
		}
		return node, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(t), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(t)}, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}

// Plain returns v with every *Map replaced by a map[string]any, so trees
// decoded in either parsed mode can be compared directly.
func Plain(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Plain()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Plain(item)
		}
		return out
	default:
		return v
	}
}
