package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/tree"
)

var folderAt string

var folderCmd = &cobra.Command{
	Use:     "folder",
	Aliases: []string{"f"},
	Short:   "Edit folders inside a template",
	Long: `Add, remove and rename folders in a template without opening the editor.
Use --at to address a folder below the root, e.g. --at src/internal.`,
}

// updateAt resolves the template, moves to --at and runs fn on the tree.
func updateAt(cmd *cobra.Command, query string, fn func(name string, t *tree.Tree) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	name, err := resolveTemplate(ctx, s.store, query)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, name, func(t *tree.Tree) error {
		if err := t.NavigateTo(parsePath(folderAt)); err != nil {
			return err
		}
		return fn(name, t)
	})
}

func location(name string, t *tree.Tree) string {
	return describe(name, t.CurrentPath())
}

var folderAddCmd = &cobra.Command{
	Use:   "add <template> <names...>",
	Short: "Create folders",
	Long: `Creates one or more folders. Names that already exist at that level are
skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateAt(cmd, args[0], func(name string, t *tree.Tree) error {
			created, err := t.CreateFolders(args[1:]...)
			if err != nil {
				return err
			}
			where := location(name, t)
			for _, c := range created {
				fmt.Printf("Created %s/%s\n", where, c)
			}
			if skipped := countNames(args[1:]) - len(created); skipped > 0 {
				fmt.Printf("Skipped %d existing folder(s)\n", skipped)
			}
			return nil
		})
	},
}

// countNames counts the names CreateFolders will consider; blank names are ignored.
func countNames(names []string) int {
	n := 0
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			n++
		}
	}
	return n
}

var folderRmCmd = &cobra.Command{
	Use:   "rm <template> <name>",
	Short: "Delete a folder and everything below it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateAt(cmd, args[0], func(name string, t *tree.Tree) error {
			if err := t.DeleteFolder(args[1]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s/%s\n", location(name, t), args[1])
			return nil
		})
	},
}

var folderMvCmd = &cobra.Command{
	Use:   "mv <template> <old> <new>",
	Short: "Rename a folder",
	Long:  `Renames a folder, keeping everything below it.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateAt(cmd, args[0], func(name string, t *tree.Tree) error {
			if err := t.RenameFolder(args[1], args[2]); err != nil {
				return err
			}
			fmt.Printf("Renamed %s/%s to %s\n", location(name, t), args[1], strings.TrimSpace(args[2]))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderRmCmd)
	folderCmd.AddCommand(folderMvCmd)

	folderCmd.PersistentFlags().StringVar(&folderAt, "at", "", "folder path inside the template, slash separated")
}
