package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/doctor"
	"github.com/tormodhaugland/ft/internal/tui"
)

var (
	doctorYes    bool
	doctorDryRun bool
)

type doctorResult struct {
	*doctor.Report
	Removed []string `json:"removed,omitempty"`
	DryRun  bool     `json:"dry_run"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check templates and formatting rules",
	Long: `Reads every stored template and the rules file and reports anything that
cannot be loaded. Leftover temp files from interrupted saves can be removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := doctor.Check(cmd.Context(), s.store.Backend(), s.cfg.RulesFile)
		if err != nil {
			return fmt.Errorf("failed to check templates: %w", err)
		}
		result := doctorResult{Report: report, DryRun: doctorDryRun}

		if jsonOut {
			if doctorYes && !doctorDryRun {
				if result.Removed, err = doctor.RemoveStale(report.StaleTemp); err != nil {
					return fmt.Errorf("failed to remove temp files: %w", err)
				}
			}
			if err := writeJSON(result); err != nil {
				return err
			}
			return doctorExit(report)
		}

		if report.Healthy() {
			fmt.Printf("Checked %d template(s), no problems found\n", report.Checked)
			return nil
		}

		fmt.Printf("Checked %d template(s)\n", report.Checked)
		if len(report.Broken) > 0 {
			fmt.Printf("\nUnreadable templates (%d):\n", len(report.Broken))
			for _, b := range report.Broken {
				fmt.Printf("  - %s: %s\n", b.Name, b.Issue)
			}
		}
		if report.RulesError != "" {
			fmt.Printf("\nFormatting rules: %s\n", report.RulesError)
		}

		if len(report.StaleTemp) > 0 {
			fmt.Printf("\nLeftover temp files (%d):\n", len(report.StaleTemp))
			for _, p := range report.StaleTemp {
				fmt.Printf("  - %s\n", p)
			}

			switch {
			case doctorDryRun:
				fmt.Println("Dry run - no changes made")
			case doctorYes:
				if err := removeStale(report); err != nil {
					return err
				}
			case isInteractive():
				confirm, err := tui.RunConfirm(
					fmt.Sprintf("Remove %d leftover temp file(s)?", len(report.StaleTemp)),
					report.StaleTemp, true)
				if err != nil {
					return fmt.Errorf("prompt failed: %w", err)
				}
				if confirm.Aborted {
					return fmt.Errorf("aborted")
				}
				if confirm.Confirmed {
					if err := removeStale(report); err != nil {
						return err
					}
				}
			default:
				fmt.Println("Run 'ft doctor --yes' to remove them")
			}
		}

		return doctorExit(report)
	},
}

func removeStale(report *doctor.Report) error {
	removed, err := doctor.RemoveStale(report.StaleTemp)
	if err != nil {
		return fmt.Errorf("failed to remove temp files: %w", err)
	}
	fmt.Printf("Removed %d temp file(s)\n", len(removed))
	return nil
}

// doctorExit fails the command when templates or rules are unreadable.
func doctorExit(report *doctor.Report) error {
	if n := len(report.Broken); n > 0 || report.RulesError != "" {
		if report.RulesError != "" {
			n++
		}
		return fmt.Errorf("doctor found %d unreadable file(s)", n)
	}
	return nil
}

func init() {
	doctorCmd.Flags().BoolVarP(&doctorYes, "yes", "y", false, "remove leftover temp files without prompting")
	doctorCmd.Flags().BoolVar(&doctorDryRun, "dry-run", false, "report only, change nothing")
	rootCmd.AddCommand(doctorCmd)
}
