package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/format"
)

var (
	showRaw  bool
	showCopy bool
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"t"},
	Short:   "Manage folder templates",
	Long:    `Create, list, show, copy, rename and remove folder templates.`,
}

type templateInfo struct {
	Name    string `json:"name"`
	Folders int    `json:"folders"`
	Depth   int    `json:"depth"`
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	Long:    `Lists all templates with their folder count and depth.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemplateList(cmd)
	},
}

func runTemplateList(cmd *cobra.Command) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	names, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	infos := make([]templateInfo, 0, len(names))
	for _, name := range names {
		t, err := s.store.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to load template %s: %w", name, err)
		}
		infos = append(infos, templateInfo{Name: name, Folders: t.Root().Count(), Depth: t.Root().Depth()})
	}

	if jsonOut {
		return writeJSON(infos)
	}

	if len(infos) == 0 {
		fmt.Println("No templates found")
		fmt.Println("\nCreate one with: ft template new <name>")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFOLDERS\tDEPTH")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%d\n", info.Name, info.Folders, info.Depth)
	}
	w.Flush()

	return nil
}

var templateNewCmd = &cobra.Command{
	Use:   "new <name> [folders...]",
	Short: "Create a template",
	Long: `Creates an empty template. Any extra arguments are created as top-level
folders.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		t, err := s.store.Create(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		if len(args) > 1 {
			if _, err := t.CreateFolders(args[1:]...); err != nil {
				return err
			}
			if err := s.store.Save(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to save template: %w", err)
			}
		}

		fmt.Printf("Created template: %s\n", args[0])
		return nil
	},
}

var templateRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Remove a template",
	Long:    `Removes a template. The name must match exactly.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to remove template: %w", err)
		}
		fmt.Printf("Removed template: %s\n", args[0])
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's folder tree",
	Long: `Prints the template as a tree. Folder names are shown through the
formatting rules unless --raw is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if jsonOut {
			return writeJSON(t.Root())
		}

		var pipeline *format.Pipeline
		if !showRaw {
			if pipeline, err = loadPipeline(s.cfg); err != nil {
				return err
			}
		}

		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%s/\n", name)
		writeTree(&buf, t.Root(), pipeline)
		fmt.Print(buf.String())

		if showCopy {
			if err := clipboard.WriteAll(strings.TrimRight(buf.String(), "\n")); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		}
		return nil
	},
}

var templateCpCmd = &cobra.Command{
	Use:   "cp <source> <dest>",
	Short: "Copy a template",
	Long:  `Creates a new template with the same folders as an existing one.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		src, err := resolveTemplate(ctx, s.store, args[0])
		if err != nil {
			return err
		}
		if _, err := s.store.Duplicate(ctx, src, args[1]); err != nil {
			return fmt.Errorf("failed to copy template: %w", err)
		}
		fmt.Printf("Copied %s to %s\n", src, args[1])
		return nil
	},
}

var templateMvCmd = &cobra.Command{
	Use:     "mv <old> <new>",
	Aliases: []string{"rename"},
	Short:   "Rename a template",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		old, err := resolveTemplate(ctx, s.store, args[0])
		if err != nil {
			return err
		}
		if err := s.store.Rename(ctx, old, args[1]); err != nil {
			return fmt.Errorf("failed to rename template: %w", err)
		}
		fmt.Printf("Renamed %s to %s\n", old, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateNewCmd)
	templateCmd.AddCommand(templateRmCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateCpCmd)
	templateCmd.AddCommand(templateMvCmd)

	templateShowCmd.Flags().BoolVar(&showRaw, "raw", false, "show stored names without formatting rules")
	templateShowCmd.Flags().BoolVar(&showCopy, "copy", false, "copy the printed tree to the clipboard")
}
