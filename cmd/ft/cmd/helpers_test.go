package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tormodhaugland/ft/internal/format"
	"github.com/tormodhaugland/ft/internal/store"
	"github.com/tormodhaugland/ft/internal/tree"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/", nil},
		{"src", []string{"src"}},
		{"src/internal", []string{"src", "internal"}},
		{"/src//internal/", []string{"src", "internal"}},
		{" a / b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePath(tt.in))
		})
	}
}

func TestWriteTree(t *testing.T) {
	root := tree.NewNode()
	src := root.Add("draft_src")
	src.Add("cmd")
	src.Add("internal")
	root.Add("docs")

	var buf bytes.Buffer
	writeTree(&buf, root, format.NewPipeline(format.Delete("draft_")))

	want := "├── src/\n" +
		"│   ├── cmd/\n" +
		"│   └── internal/\n" +
		"└── docs/\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	writeTree(&buf, root, nil)
	assert.Contains(t, buf.String(), "draft_src/")
}

func TestResolveTemplate(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemoryBackend())
	for _, name := range []string{"go-service", "python-lib", "notes"} {
		_, err := st.Create(ctx, name)
		require.NoError(t, err)
	}

	name, err := resolveTemplate(ctx, st, "notes")
	require.NoError(t, err)
	assert.Equal(t, "notes", name)

	name, err = resolveTemplate(ctx, st, "gosvc")
	require.NoError(t, err)
	assert.Equal(t, "go-service", name)

	_, err = resolveTemplate(ctx, st, "zzz")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRuleIndex(t *testing.T) {
	i, err := ruleIndex("1")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = ruleIndex("first")
	assert.Error(t, err)
}

func TestImportFormatFor(t *testing.T) {
	assert.Equal(t, "yaml", importFormatFor("layout.yml"))
	assert.Equal(t, "yaml", importFormatFor("layout.YAML"))
	assert.Equal(t, "json", importFormatFor("layout.json"))
	assert.Equal(t, "json", importFormatFor("-"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "svc", describe("svc", nil))
	assert.Equal(t, "svc:src/cmd", describe("svc", []string{"src", "cmd"}))
}

func TestCountNamesIgnoresBlanks(t *testing.T) {
	tr := tree.New()
	_, err := tr.CreateFolders("src")
	require.NoError(t, err)

	args := []string{"src", "", "  ", "docs"}
	created, err := tr.CreateFolders(args...)
	require.NoError(t, err)

	assert.Equal(t, 2, countNames(args))
	assert.Equal(t, 1, countNames(args)-len(created), "only src is an existing folder")
}
