package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/tormodhaugland/ft/internal/config"
	"github.com/tormodhaugland/ft/internal/format"
	"github.com/tormodhaugland/ft/internal/log"
	"github.com/tormodhaugland/ft/internal/store"
	"github.com/tormodhaugland/ft/internal/tree"
)

// session bundles what most commands need.
type session struct {
	cfg   *config.Config
	store *store.Store
	close func() error
}

func openSession() (*session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	backend, closeFn, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, store: store.New(backend), close: closeFn}, nil
}

func (s *session) Close() {
	if s.close != nil {
		s.close()
	}
}

func openBackend(cfg *config.Config) (store.Backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		b, err := store.OpenSQLite(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open template database: %w", err)
		}
		return b, b.Close, nil
	default:
		codec, err := store.CodecFor(cfg.Format)
		if err != nil {
			return nil, nil, err
		}
		return store.NewDirBackend(cfg.TemplatesDir, codec), nil, nil
	}
}

func loadPipeline(cfg *config.Config) (*format.Pipeline, error) {
	p, err := format.LoadPipeline(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load formatting rules: %w", err)
	}
	return p, nil
}

// resolveTemplate returns query if such a template exists, otherwise the best
// fuzzy match among known template names.
func resolveTemplate(ctx context.Context, st *store.Store, query string) (string, error) {
	if store.ValidateName(query) == nil {
		exists, err := st.Exists(ctx, query)
		if err != nil {
			return "", err
		}
		if exists {
			return query, nil
		}
	}

	names, err := st.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list templates: %w", err)
	}

	matches := fuzzy.Find(query, names)
	if len(matches) == 0 || matches[0].Score < -10 {
		return "", &store.TemplateNotFoundError{Name: query}
	}

	best := matches[0]
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		log.FromContext(ctx).Printf("Ambiguous match, using: %s\n", best.Str)
	}
	return best.Str, nil
}

// parsePath splits a slash separated folder path. Empty segments are ignored,
// so "", "/" and "a//b/" are accepted.
func parsePath(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// writeTree renders root as an indented tree using display names.
func writeTree(w io.Writer, root *tree.Node, pipeline *format.Pipeline) {
	writeTreeLevel(w, root, pipeline, "")
}

func writeTreeLevel(w io.Writer, n *tree.Node, pipeline *format.Pipeline, prefix string) {
	names := n.Names()
	for i, name := range names {
		branch, next := "├── ", "│   "
		if i == len(names)-1 {
			branch, next = "└── ", "    "
		}
		display := name
		if pipeline != nil {
			display = pipeline.Apply(name)
		}
		fmt.Fprintf(w, "%s%s%s/\n", prefix, branch, display)
		writeTreeLevel(w, n.Child(name), pipeline, prefix+next)
	}
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
