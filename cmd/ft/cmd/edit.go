package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [template]",
	Short: "Edit a template interactively",
	Long: `Opens the tree editor for a template. Without an argument a picker lists
the existing templates. Changes are saved with 's' or on quit with 'q'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return fmt.Errorf("edit requires an interactive terminal")
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return runEditor(cmd, query)
	},
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

func runEditor(cmd *cobra.Command, query string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	name := ""
	if query != "" {
		if name, err = resolveTemplate(ctx, s.store, query); err != nil {
			return err
		}
	} else {
		names, err := s.store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		if len(names) == 0 {
			fmt.Println("No templates found")
			fmt.Println("\nCreate one with: ft template new <name>")
			return nil
		}
		summaries := make([]tui.TemplateSummary, 0, len(names))
		for _, n := range names {
			t, err := s.store.Load(ctx, n)
			if err != nil {
				return fmt.Errorf("failed to load template %s: %w", n, err)
			}
			summaries = append(summaries, tui.TemplateSummary{Name: n, Folders: t.Root().Count()})
		}

		result, err := tui.RunPicker(summaries)
		if err != nil {
			return err
		}
		if result.Abort {
			return nil
		}
		name = result.Selected
	}

	pipeline, err := loadPipeline(s.cfg)
	if err != nil {
		return err
	}
	if err := tui.RunEditor(ctx, s.store, name, pipeline); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(editCmd)
}
