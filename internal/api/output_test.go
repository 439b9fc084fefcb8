package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOutputMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"json", OutputRaw},
		{"raw", OutputRaw},
		{"object", OutputObject},
		{"OBJECT", OutputObject},
		{"array", OutputMap},
		{" map ", OutputMap},
	}
	for _, tt := range tests {
		got, err := ParseOutputMode(tt.in)
		if err != nil {
			t.Errorf("ParseOutputMode(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	_, err := ParseOutputMode("xml")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "output", cfgErr.Field)
}

func TestOutputModeString(t *testing.T) {
	assert.Equal(t, "json", OutputRaw.String())
	assert.Equal(t, "object", OutputObject.String())
	assert.Equal(t, "array", OutputMap.String())
	assert.Equal(t, "OutputMode(9)", OutputMode(9).String())
	assert.False(t, OutputRaw.Parsed())
	assert.True(t, OutputMap.Parsed())
}

func TestDecodeBodyRawNeverFails(t *testing.T) {
	v, err := decodeBody(OutputRaw, []byte("<html>oops"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDecodeBodyParseErrors(t *testing.T) {
	for _, mode := range []OutputMode{OutputObject, OutputMap} {
		for _, body := range []string{"<html>", `{"a":1} trailing`, ""} {
			_, err := decodeBody(mode, []byte(body))
			assert.True(t, IsResponseParseError(err), "mode %v body %q: %v", mode, body, err)
		}
	}
	_, err := decodeBody(OutputMode(42), []byte("{}"))
	assert.True(t, IsConfigError(err))
}

func TestOutputModesAgree(t *testing.T) {
	body := []byte(`{"products":[{"id":42,"name":"Eco","tags":["a","b"],"price":{"month":12.5}}],"total":1,"next":null,"ok":true}`)

	obj, err := decodeBody(OutputObject, body)
	require.NoError(t, err)
	ordered, err := decodeBody(OutputMap, body)
	require.NoError(t, err)

	_, isMap := ordered.(*Map)
	require.True(t, isMap)
	assert.Equal(t, Plain(obj), Plain(ordered))
}

func TestMapKeepsDocumentOrder(t *testing.T) {
	v, err := decodeOrdered([]byte(`{"z":1,"a":{"y":2,"b":3},"m":[{"k":1,"c":2}]}`))
	require.NoError(t, err)
	m := v.(*Map)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	inner, _ := m.Get("a")
	assert.Equal(t, []string{"y", "b"}, inner.(*Map).Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":2,"b":3},"m":[{"k":1,"c":2}]}`, string(out))
}

func TestMapZeroValue(t *testing.T) {
	var m Map
	m.Set("a", 1)
	m.Set("a", 2)
	assert.Equal(t, 1, m.Len())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMapMarshalYAML(t *testing.T) {
	v, err := decodeOrdered([]byte(`{"z":1,"a":[true,"x",1.5],"n":null}`))
	require.NoError(t, err)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na:\n    - true\n    - x\n    - 1.5\nn: null\n", string(out))
}

func TestYAMLNodeSortsPlainMaps(t *testing.T) {
	node, err := YAMLNode(map[string]any{"b": json.Number("2"), "a": "x"})
	require.NoError(t, err)
	out, err := yaml.Marshal(node)
	require.NoError(t, err)
	assert.Equal(t, "a: x\nb: 2\n", string(out))
}
