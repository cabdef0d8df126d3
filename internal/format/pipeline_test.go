package format

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleApply(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		in   string
		want string
	}{
		{"delete all occurrences", Delete("_"), "a_b_c", "abc"},
		{"replace all occurrences", Replace("-", " "), "a-b-c", "a b c"},
		{"replace with empty", Replace("x", ""), "xax", "a"},
		{"no match", Delete("zz"), "abc", "abc"},
		{"disabled", Rule{Kind: KindDelete, Target: "a", Enabled: false}, "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPipelineOrder(t *testing.T) {
	p := NewPipeline(Delete("draft_"), Replace("_v2", "_final"))

	assert.Equal(t, "report_final", p.Apply("draft_report_v2"))

	require.NoError(t, p.Toggle(0))
	assert.Equal(t, "draft_report_final", p.Apply("draft_report_v2"))
}

func TestPipelineRulesSeePriorOutput(t *testing.T) {
	p := NewPipeline(Replace("a", "b"), Replace("b", "c"))
	assert.Equal(t, "cc", p.Apply("ab"))

	require.NoError(t, p.Move(1, 0))
	assert.Equal(t, "bc", p.Apply("ab"))
}

func TestPipelineApplyAllDoesNotTouchInput(t *testing.T) {
	p := NewPipeline(Delete("x"))
	names := []string{"xa", "bx"}

	out := p.ApplyAll(names)

	assert.Equal(t, []string{"a", "b"}, out)
	assert.Equal(t, []string{"xa", "bx"}, names)
}

func TestPipelineIndexErrors(t *testing.T) {
	p := NewPipeline(Delete("a"))

	for _, idx := range []int{-1, 1, 5} {
		var ierr *IndexOutOfRangeError
		err := p.Remove(idx)
		require.ErrorAs(t, err, &ierr)
		assert.Equal(t, idx, ierr.Index)
		assert.True(t, errors.Is(p.Toggle(idx), ErrIndexOutOfRange))
		assert.True(t, errors.Is(p.Move(0, idx), ErrIndexOutOfRange))
	}
	assert.Equal(t, 1, p.Len())
}

func TestPipelineAddValidates(t *testing.T) {
	p := NewPipeline()

	assert.Error(t, p.Add(Rule{Kind: KindDelete, Enabled: true}))
	assert.Error(t, p.Add(Rule{Kind: "upper", Target: "a"}))
	assert.Error(t, p.Add(Rule{Kind: KindDelete, Target: "a", Replacement: "b"}))
	require.NoError(t, p.Add(Replace("a", "")))

	require.NoError(t, p.Remove(0))
	assert.Equal(t, 0, p.Len())
}

func TestLoadPipelineMissingFile(t *testing.T) {
	p, err := LoadPipeline(filepath.Join(t.TempDir(), "rules.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestSaveLoadPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rules.json")
	p := NewPipeline(Delete("draft_"), Replace("_v2", "_final"))
	require.NoError(t, p.Toggle(1))

	require.NoError(t, SavePipeline(path, p))
	loaded, err := LoadPipeline(path)
	require.NoError(t, err)

	assert.Equal(t, p.Rules(), loaded.Rules())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadPipelineAcceptsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	doc := `{
  // display rules
  "schema": 1,
  "rules": [
    {"kind": "delete", "target": "tmp_", "enabled": true}, /* strip prefix */
  ],
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := LoadPipeline(path)
	require.NoError(t, err)
	assert.Equal(t, "x", p.Apply("tmp_x"))
}

func TestLoadPipelineRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"rules":[{"kind":"delete","target":""}]}`), 0o644))
	_, err := LoadPipeline(bad)
	assert.Error(t, err)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"schema":99,"rules":[]}`), 0o644))
	_, err = LoadPipeline(future)
	assert.Error(t, err)
}
