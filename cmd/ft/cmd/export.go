package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/store"
)

var (
	exportFormat string
	exportOutput string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <template>",
	Short: "Write a template document to stdout or a file",
	Long: `Exports a template as JSON or YAML. The folder order is preserved, so an
export can be imported again unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := store.CodecFor(exportFormat)
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		name, err := resolveTemplate(ctx, s.store, args[0])
		if err != nil {
			return err
		}
		t, err := s.store.Load(ctx, name)
		if err != nil {
			return err
		}

		data, err := codec.Marshal(t.Root())
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %s to %s\n", name, exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <name> <file>",
	Short: "Create a template from a JSON or YAML document",
	Long: `Creates a new template from a document produced by 'ft export'. Use - to
read from stdin. The format follows the file extension unless --format is set.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]

		var data []byte
		var err error
		if path == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		codec, err := store.CodecFor(importFormatFor(path))
		if err != nil {
			return err
		}
		root, err := codec.Unmarshal(data)
		if err != nil {
			return &store.InvalidDocumentError{Path: path, Err: err}
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.store.Import(cmd.Context(), name, root); err != nil {
			return fmt.Errorf("failed to import template: %w", err)
		}
		fmt.Printf("Imported %s (%d folders)\n", name, root.Count())
		return nil
	},
}

func importFormatFor(path string) string {
	if importFormat != "" {
		return importFormat
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json or yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format (json or yaml)")
}
