// Package doctor checks the template store and rules file for damage.
package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/tormodhaugland/ft/internal/format"
	"github.com/tormodhaugland/ft/internal/fs"
	"github.com/tormodhaugland/ft/internal/store"
)

// BrokenTemplate is a stored template that could not be read.
type BrokenTemplate struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Issue string `json:"issue"`
}

// Report is the outcome of Check.
type Report struct {
	Checked    int              `json:"checked"`
	Broken     []BrokenTemplate `json:"broken"`
	StaleTemp  []string         `json:"stale_temp"`
	RulesError string           `json:"rules_error,omitempty"`
}

// Healthy reports whether nothing needs attention.
func (r *Report) Healthy() bool {
	return len(r.Broken) == 0 && len(r.StaleTemp) == 0 && r.RulesError == ""
}

// Check reads every template in backend and the rules file. When the backend
// is a directory, leftover temp files from interrupted writes are listed too.
func Check(ctx context.Context, backend store.Backend, rulesFile string) (*Report, error) {
	names, err := backend.Names(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Broken: []BrokenTemplate{}, StaleTemp: []string{}}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Checked++
		if _, err := backend.Read(ctx, name); err != nil {
			report.Broken = append(report.Broken, brokenFrom(name, err))
		}
	}

	if dir, ok := backend.(*store.DirBackend); ok {
		stale, err := fs.ListStaleTemp(dir.Dir())
		if err != nil {
			return nil, err
		}
		report.StaleTemp = append(report.StaleTemp, stale...)
	}
	if rulesFile != "" {
		if _, err := os.Stat(rulesFile + fs.TempSuffix); err == nil {
			report.StaleTemp = append(report.StaleTemp, rulesFile+fs.TempSuffix)
		}
		if _, err := format.LoadPipeline(rulesFile); err != nil {
			report.RulesError = err.Error()
		}
	}

	return report, nil
}

func brokenFrom(name string, err error) BrokenTemplate {
	b := BrokenTemplate{Name: name, Issue: err.Error()}
	var docErr *store.InvalidDocumentError
	if errors.As(err, &docErr) {
		b.Path = docErr.Path
		if docErr.Err != nil {
			b.Issue = docErr.Err.Error()
		}
	}
	return b
}

// RemoveStale deletes the given temp files and returns those removed.
// Files already gone count as removed.
func RemoveStale(paths []string) ([]string, error) {
	removed := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed = append(removed, p)
	}
	return removed, nil
}
