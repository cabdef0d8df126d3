package materialize

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tormodhaugland/ft/internal/tree"
)

type recordingFS struct {
	home    string
	created []string
	onMkdir func(n int)
	fail    string
}

func (f *recordingFS) CreateDirectory(path string) error {
	if path == f.fail {
		return errors.New("permission denied")
	}
	f.created = append(f.created, path)
	if f.onMkdir != nil {
		f.onMkdir(len(f.created))
	}
	return nil
}

func (f *recordingFS) HomeDirectory() (string, error) {
	return f.home, nil
}

func parse(t *testing.T, doc string) *tree.Node {
	t.Helper()
	var n tree.Node
	require.NoError(t, json.Unmarshal([]byte(doc), &n))
	return &n
}

func listDirs(t *testing.T, root string) []string {
	t.Helper()
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(dirs)
	return dirs
}

func TestMaterializeCreatesExactlyTheTree(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "x")
	root := parse(t, `{"A":{"B":{}},"C":{}}`)

	result, err := New().Materialize(context.Background(), root, dest)
	require.NoError(t, err)

	want := []string{
		dest,
		filepath.Join(dest, "A"),
		filepath.Join(dest, "A", "B"),
		filepath.Join(dest, "C"),
	}
	assert.Equal(t, want, result.Created)
	assert.Equal(t, want, listDirs(t, dest))

	// Second run is a no-op on disk and not an error.
	_, err = New().Materialize(context.Background(), root, dest)
	require.NoError(t, err)
	assert.Equal(t, want, listDirs(t, dest))
}

func TestMaterializeDoesNotMutateTree(t *testing.T) {
	root := parse(t, `{"A":{"B":{}},"C":{}}`)
	before := root.Clone()

	_, err := New().Materialize(context.Background(), root, t.TempDir())
	require.NoError(t, err)
	assert.True(t, tree.Equal(before, root))
}

func TestMaterializeParentsFirst(t *testing.T) {
	fsys := &recordingFS{}
	e := &Engine{FS: fsys}

	_, err := e.Materialize(context.Background(), parse(t, `{"a":{"b":{"c":{}}},"d":{}}`), "/dest")
	require.NoError(t, err)

	assert.Equal(t, []string{"/dest", "/dest/a", "/dest/a/b", "/dest/a/b/c", "/dest/d"}, fsys.created)
}

func TestMaterializeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fsys := &recordingFS{onMkdir: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	e := &Engine{FS: fsys}

	result, err := e.Materialize(ctx, parse(t, `{"a":{},"b":{},"c":{}}`), "/dest")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"/dest", "/dest/a"}, fsys.created)
	assert.Equal(t, fsys.created, result.Created)
}

func TestMaterializeDryRun(t *testing.T) {
	fsys := &recordingFS{}
	e := &Engine{FS: fsys, DryRun: true}

	result, err := e.Materialize(context.Background(), parse(t, `{"a":{}}`), "/dest")
	require.NoError(t, err)

	assert.Empty(t, fsys.created)
	assert.Equal(t, []string{"/dest", "/dest/a"}, result.Created)
	assert.True(t, result.DryRun)
}

func TestMaterializeReportsFailingPath(t *testing.T) {
	fsys := &recordingFS{fail: "/dest/a"}
	e := &Engine{FS: fsys}

	_, err := e.Materialize(context.Background(), parse(t, `{"a":{"b":{}},"c":{}}`), "/dest")

	var derr *DirectoryError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "/dest/a", derr.Path)
	assert.Equal(t, []string{"/dest"}, fsys.created)
}

func TestResolveDestination(t *testing.T) {
	e := &Engine{FS: &recordingFS{home: "/home/me"}}

	tests := []struct {
		in   string
		want string
	}{
		{"", "/home/me"},
		{"~", "/home/me"},
		{"~/projects/new", "/home/me/projects/new"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		got, err := e.ResolveDestination(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
