package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tormodhaugland/ft/internal/config"
	"github.com/tormodhaugland/ft/internal/format"
)

var rulesCmd = &cobra.Command{
	Use:     "rules",
	Aliases: []string{"fmt"},
	Short:   "Manage display formatting rules",
	Long: `Formatting rules rewrite folder names when they are shown. They are
applied in order and never change the names stored in templates or the
directories created on disk.

Rules are numbered from 1 as printed by 'ft rules list'.`,
}

// editRules loads the rule file, applies fn and saves it back.
func editRules(fn func(p *format.Pipeline) error) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	p, err := loadPipeline(cfg)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := format.SavePipeline(cfg.RulesFile, p); err != nil {
		return nil, fmt.Errorf("failed to save formatting rules: %w", err)
	}
	return cfg, nil
}

// ruleIndex converts a 1-based argument to a pipeline index.
func ruleIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid rule number %q", arg)
	}
	return n - 1, nil
}

var rulesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List formatting rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		p, err := loadPipeline(cfg)
		if err != nil {
			return err
		}

		rules := p.Rules()
		if jsonOut {
			if rules == nil {
				rules = []format.Rule{}
			}
			return writeJSON(rules)
		}

		if len(rules) == 0 {
			fmt.Println("No formatting rules")
			fmt.Printf("\nRules file: %s\n", cfg.RulesFile)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tKIND\tTARGET\tREPLACEMENT\tENABLED")
		for i, r := range rules {
			fmt.Fprintf(w, "%d\t%s\t%q\t%q\t%t\n", i+1, r.Kind, r.Target, r.Replacement, r.Enabled)
		}
		w.Flush()
		return nil
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a formatting rule",
}

var rulesAddDeleteCmd = &cobra.Command{
	Use:   "delete <target>",
	Short: "Remove every occurrence of <target> from displayed names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addRule(format.Delete(args[0]))
	},
}

var rulesAddReplaceCmd = &cobra.Command{
	Use:   "replace <target> <replacement>",
	Short: "Replace every occurrence of <target> in displayed names",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addRule(format.Replace(args[0], args[1]))
	},
}

func addRule(r format.Rule) error {
	var n int
	_, err := editRules(func(p *format.Pipeline) error {
		if err := p.Add(r); err != nil {
			return err
		}
		n = p.Len()
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added rule %d: %s\n", n, r)
	return nil
}

var rulesRmCmd = &cobra.Command{
	Use:   "rm <n>",
	Short: "Remove a formatting rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := ruleIndex(args[0])
		if err != nil {
			return err
		}
		var removed format.Rule
		_, err = editRules(func(p *format.Pipeline) error {
			if i >= 0 && i < p.Len() {
				removed = p.Rules()[i]
			}
			return p.Remove(i)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Removed rule %d: %s\n", i+1, removed)
		return nil
	},
}

var rulesToggleCmd = &cobra.Command{
	Use:   "toggle <n>",
	Short: "Enable or disable a formatting rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := ruleIndex(args[0])
		if err != nil {
			return err
		}
		var toggled format.Rule
		_, err = editRules(func(p *format.Pipeline) error {
			if err := p.Toggle(i); err != nil {
				return err
			}
			toggled = p.Rules()[i]
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Rule %d: %s\n", i+1, toggled)
		return nil
	},
}

var rulesMvCmd = &cobra.Command{
	Use:   "mv <from> <to>",
	Short: "Move a formatting rule to another position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := ruleIndex(args[0])
		if err != nil {
			return err
		}
		to, err := ruleIndex(args[1])
		if err != nil {
			return err
		}
		if _, err := editRules(func(p *format.Pipeline) error { return p.Move(from, to) }); err != nil {
			return err
		}
		fmt.Printf("Moved rule %d to position %d\n", from+1, to+1)
		return nil
	},
}

var rulesApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Show how a folder name is displayed",
	Long:  `Runs a name through the formatting rules and prints the result.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		p, err := loadPipeline(cfg)
		if err != nil {
			return err
		}
		fmt.Println(p.Apply(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesAddCmd.AddCommand(rulesAddDeleteCmd)
	rulesAddCmd.AddCommand(rulesAddReplaceCmd)
	rulesCmd.AddCommand(rulesRmCmd)
	rulesCmd.AddCommand(rulesToggleCmd)
	rulesCmd.AddCommand(rulesMvCmd)
	rulesCmd.AddCommand(rulesApplyCmd)
}
