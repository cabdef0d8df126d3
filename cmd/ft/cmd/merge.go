package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/tree"
)

var (
	mergeAt   string
	mergeFrom string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <target> <source>",
	Short: "Copy one template's folders into another",
	Long: `Merges the folders of <source> into <target>. Folders that exist on both
sides are merged recursively; nothing in the target is removed.

--at picks the folder in the target to merge into, --from picks a subtree of
the source. A template can be merged into itself only when the destination
lies outside the copied subtree.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		target, err := resolveTemplate(ctx, s.store, args[0])
		if err != nil {
			return err
		}
		source, err := resolveTemplate(ctx, s.store, args[1])
		if err != nil {
			return err
		}

		atPath := parsePath(mergeAt)
		fromPath := parsePath(mergeFrom)

		// The source must be read before the target is locked; a template
		// merged into itself is read from the locked tree instead.
		var sourceTree *tree.Tree
		if source != target {
			if sourceTree, err = s.store.Load(ctx, source); err != nil {
				return fmt.Errorf("failed to load source template: %w", err)
			}
		}

		err = s.store.Update(ctx, target, func(t *tree.Tree) error {
			src := sourceTree
			if src == nil {
				src = t
			}
			node, err := src.Resolve(fromPath)
			if err != nil {
				return err
			}
			return t.CopyInto(node, atPath)
		})
		if err != nil {
			return fmt.Errorf("failed to merge %s into %s: %w", source, target, err)
		}

		fmt.Printf("Merged %s into %s\n", describe(source, fromPath), describe(target, atPath))
		return nil
	},
}

func describe(name string, path []string) string {
	if len(path) == 0 {
		return name
	}
	return name + ":" + strings.Join(path, "/")
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVar(&mergeAt, "at", "", "folder in the target to merge into")
	mergeCmd.Flags().StringVar(&mergeFrom, "from", "", "subtree of the source to copy")
}
