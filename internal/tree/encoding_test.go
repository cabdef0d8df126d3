package tree

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestJSONPreservesKeyOrder(t *testing.T) {
	doc := `{"zeta":{"b":{},"a":{}},"alpha":{},"mid":{"x":{"y":{}}}}`

	var n Node
	require.NoError(t, json.Unmarshal([]byte(doc), &n))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, n.Names())
	assert.Equal(t, []string{"b", "a"}, n.Child("zeta").Names())
	assert.Equal(t, doc, mustJSON(t, &n))
}

func TestJSONNullIsEmptyFolder(t *testing.T) {
	n := mustParse(t, `{"a":null}`)
	assert.Equal(t, `{"a":{}}`, mustJSON(t, n))
}

func TestJSONRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"array", `["a"]`},
		{"scalar child", `{"a":1}`},
		{"duplicate key", `{"a":{},"a":{}}`},
		{"separator in name", `{"a/b":{}}`},
		{"truncated", `{"a":{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Node
			assert.Error(t, json.Unmarshal([]byte(tt.doc), &n))
		})
	}
}

func TestJSONIndentStillDecodes(t *testing.T) {
	n := mustParse(t, `{"a":{"b":{}},"c":{}}`)

	data, err := json.MarshalIndent(n, "", "  ")
	require.NoError(t, err)

	back := mustParse(t, string(data))
	assert.True(t, Equal(n, back))
}

func TestYAMLRoundTripKeepsOrder(t *testing.T) {
	n := mustParse(t, `{"src":{"cmd":{},"internal":{}},"docs":{}}`)

	data, err := yaml.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "src:\n    cmd: {}\n    internal: {}\ndocs: {}\n", string(data))

	var back Node
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.True(t, Equal(n, &back))
}

func TestYAMLNullValues(t *testing.T) {
	var n Node
	require.NoError(t, yaml.Unmarshal([]byte("a:\nb:\n  c:\n"), &n))

	assert.Equal(t, `{"a":{},"b":{"c":{}}}`, mustJSON(t, &n))
}

func TestYAMLRejectsSequences(t *testing.T) {
	var n Node
	assert.Error(t, yaml.Unmarshal([]byte("- a\n- b\n"), &n))
}

func TestYAMLAliases(t *testing.T) {
	t.Run("reused anchor expands", func(t *testing.T) {
		var n Node
		require.NoError(t, yaml.Unmarshal([]byte("a: &x\n  c: {}\nb: *x\n"), &n))
		assert.Equal(t, `{"a":{"c":{}},"b":{"c":{}}}`, mustJSON(t, &n))
	})

	t.Run("self reference fails", func(t *testing.T) {
		var n Node
		err := yaml.Unmarshal([]byte("a: &x\n  b: *x\n"), &n)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refers to itself")
	})

	t.Run("nested self reference fails", func(t *testing.T) {
		var n Node
		err := yaml.Unmarshal([]byte("a: &x\n  b:\n    c: *x\n"), &n)
		assert.Error(t, err)
	})

	t.Run("alias bomb is capped", func(t *testing.T) {
		doc := "l0: &l0 {a: {}, b: {}, c: {}, d: {}, e: {}, f: {}, g: {}, h: {}, i: {}, j: {}}\n"
		for i := 1; i <= 6; i++ {
			doc += fmt.Sprintf("l%d: &l%d {a: *l%d, b: *l%d, c: *l%d, d: *l%d, e: *l%d, f: *l%d, g: *l%d, h: *l%d, i: *l%d, j: *l%d}\n",
				i, i, i-1, i-1, i-1, i-1, i-1, i-1, i-1, i-1, i-1, i-1)
		}
		var n Node
		assert.Error(t, yaml.Unmarshal([]byte(doc), &n))
	})
}
