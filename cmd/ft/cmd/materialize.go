package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/materialize"
)

var materializeDryRun bool

var materializeCmd = &cobra.Command{
	Use:     "materialize <template> [dest]",
	Aliases: []string{"mk"},
	Short:   "Create a template's folders on disk",
	Long: `Creates a directory for every folder in the template under dest.
Directories are created parents first. Existing directories are left alone,
so running it twice is safe.

Without dest the folders go to <default_destination>/<template>.
Stored names are used on disk; formatting rules only affect display.`,
	Args: cobra.RangeArgs(1, 2),
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

		dest := filepath.Join(s.cfg.DefaultDestination, name)
		if len(args) == 2 {
			dest = args[1]
		}

		engine := materialize.New()
		engine.DryRun = materializeDryRun
		result, err := engine.Materialize(ctx, t.Root(), dest)
		if err != nil {
			if result != nil && len(result.Created) > 0 {
				fmt.Printf("Created %d of %d directories before stopping\n", len(result.Created), t.Root().Count()+1)
			}
			return fmt.Errorf("failed to materialize %s: %w", name, err)
		}

		if jsonOut {
			return writeJSON(result)
		}

		if result.DryRun {
			for _, p := range result.Created {
				fmt.Println(p)
			}
			fmt.Printf("\nDry run: would create %d directories\n", len(result.Created))
			return nil
		}
		fmt.Printf("Materialized %s at %s (%d directories)\n", name, result.Root, len(result.Created))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(materializeCmd)
	materializeCmd.Flags().BoolVarP(&materializeDryRun, "dry-run", "n", false, "print directories without creating them")
}
