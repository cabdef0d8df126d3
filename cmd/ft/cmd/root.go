package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/log"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ft",
	Short: "Folder templates - define, compose and create folder structures",
	Long: `ft manages reusable folder structure templates. A template is a tree of
folder names: edit it interactively or from the command line, merge other
templates into it, rename folders for display with formatting rules, and
create the structure on disk.

Running 'ft' without arguments in a terminal opens the template picker;
otherwise it lists your templates.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := log.New(os.Stderr, verbose)
		cmd.SetContext(log.WithLogger(cmd.Context(), logger))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut || !isInteractive() {
			return runTemplateList(cmd)
		}
		return runEditor(cmd, "")
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/ft/config.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print each step")
}
