package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/tormodhaugland/ft/internal/tree"
)

// Backend persists template trees by name. Implementations return an error
// matching ErrNotFound for unknown names and wrap IO failures unchanged.
type Backend interface {
	Read(ctx context.Context, name string) (*tree.Node, error)
	Write(ctx context.Context, name string, root *tree.Node) error
	Exists(ctx context.Context, name string) (bool, error)
	Names(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// templateNamePattern validates template names; they become file names.
var templateNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

const maxNameLength = 128

// ValidateName checks a template name is safe to use as a file name.
func ValidateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "template name is required"}
	}
	if len(name) > maxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("longer than %d characters", maxNameLength)}
	}
	if !templateNamePattern.MatchString(name) {
		return &ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("%q must match pattern %s", name, templateNamePattern.String()),
		}
	}
	return nil
}

// Codec encodes a tree as a document.
type Codec interface {
	Ext() string
	Marshal(root *tree.Node) ([]byte, error)
	Unmarshal(data []byte) (*tree.Node, error)
}

// JSONCodec stores templates as indented JSON. Comments are tolerated on read.
type JSONCodec struct{}

func (JSONCodec) Ext() string { return ".json" }

func (JSONCodec) Marshal(root *tree.Node) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSONCodec) Unmarshal(data []byte) (*tree.Node, error) {
	root := tree.NewNode()
	if err := json.Unmarshal(jsonc.ToJSON(data), root); err != nil {
		return nil, err
	}
	return root, nil
}

// YAMLCodec stores templates as YAML mappings.
type YAMLCodec struct{}

func (YAMLCodec) Ext() string { return ".yaml" }

func (YAMLCodec) Marshal(root *tree.Node) ([]byte, error) {
	return yaml.Marshal(root)
}

func (YAMLCodec) Unmarshal(data []byte) (*tree.Node, error) {
	root := tree.NewNode()
	if err := yaml.Unmarshal(data, root); err != nil {
		return nil, err
	}
	return root, nil
}

// CodecFor returns the codec for a format name ("json" or "yaml").
func CodecFor(format string) (Codec, error) {
	switch format {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported template format %q (must be json or yaml)", format)
	}
}

// MemoryBackend keeps encoded templates in memory.
type MemoryBackend struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(_ context.Context, name string) (*tree.Node, error) {
	b.mu.Lock()
	data, ok := b.docs[name]
	b.mu.Unlock()
	if !ok {
		return nil, &TemplateNotFoundError{Name: name}
	}
	return JSONCodec{}.Unmarshal(data)
}

func (b *MemoryBackend) Write(_ context.Context, name string, root *tree.Node) error {
	data, err := json.Marshal(root)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.docs[name] = data
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Exists(_ context.Context, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.docs[name]
	return ok, nil
}

func (b *MemoryBackend) Names(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.docs))
	for name := range b.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (b *MemoryBackend) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.docs[name]; !ok {
		return &TemplateNotFoundError{Name: name}
	}
	delete(b.docs, name)
	return nil
}
