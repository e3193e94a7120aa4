// Command uistate is a developer tool for machine configurations: it
// validates YAML machine definitions and walks them interactively,
// stepping transitions and dumping the resulting log.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/storefront-labs/ui-common/cli"
	"github.com/storefront-labs/ui-common/devtools"
	"github.com/storefront-labs/ui-common/fsm"
	"github.com/storefront-labs/ui-common/logger"
)

const (
	choiceRollback = "[rollback]"
	choiceLog      = "[log]"
	choiceQuit     = "[quit]"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "uistate",
		Short:        "Inspect and walk UI state machine configurations",
		SilenceUsage: true,
	}

	root.PersistentFlags().Bool("json-logs", false, "emit logs as JSON")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		opts := []logger.Option{logger.WithOutput(os.Stderr)}
		if jsonLogs {
			opts = append(opts, logger.WithJSON())
		}

		logger.ConfigureLogging("uistate", opts...)
	}

	root.AddCommand(validateCmd())
	root.AddCommand(walkCmd())

	return root
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a machine configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fsm.LoadConfig(args[0])
			if err != nil {
				return err
			}

			err = cfg.Validate()
			if err != nil {
				return err
			}

			cmd.Printf("%s: ok (%d states, %d transition rules)\n",
				cfg.Name, len(cfg.States), len(cfg.Transitions))

			return nil
		},
	}
}

func walkCmd() *cobra.Command {
	var exportPath string

	walk := &cobra.Command{
		Use:   "walk <config.yaml>",
		Short: "Step through a machine interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fsm.LoadConfig(args[0])
			if err != nil {
				return err
			}

			recorder := devtools.NewRecorder()

			machine, err := cfg.Build(fsm.WithObserver(recorder))
			if err != nil {
				return err
			}

			err = runWalk(cmd, cfg, machine)
			if err != nil {
				return err
			}

			if exportPath != "" {
				return exportSession(recorder, exportPath)
			}

			return nil
		},
	}

	walk.Flags().StringVar(&exportPath, "export", "", "write a gzipped session report to this file on exit")

	return walk
}

func runWalk(cmd *cobra.Command, cfg *fsm.Config, machine *fsm.Machine) error {
	ctx := context.Background()

	for {
		cmd.Printf("\n%s: %s\n", machine.Name(), machine.Current())

		choice, err := cli.Select("Next step", walkChoices(cfg, machine))
		if err != nil {
			return err
		}

		switch choice {
		case choiceQuit:
			return nil
		case choiceLog:
			printLog(cmd, machine)
		case choiceRollback:
			if !machine.Rollback() {
				cmd.Println("Nothing to roll back")
			}
		default:
			err = step(ctx, machine, fsm.Kind(choice))
			if err != nil {
				cmd.Printf("Rejected: %v\n", err)
			}
		}
	}
}

// walkChoices lists the legal targets from the current state plus the
// walker's own commands.
func walkChoices(cfg *fsm.Config, machine *fsm.Machine) []string {
	var targets []string

	for _, kind := range cfg.States {
		if kind != machine.Current() && machine.CanTransitionTo(kind) {
			targets = append(targets, string(kind))
		}
	}

	sort.Strings(targets)

	return slices.Concat(targets, []string{choiceRollback, choiceLog, choiceQuit})
}

func step(ctx context.Context, machine *fsm.Machine, to fsm.Kind) error {
	reason, err := cli.PromptStringEmptyOk("Reason")
	if err != nil {
		return err
	}

	err = machine.Transition(ctx, to, reason, nil)

	var terr *fsm.TransitionError
	if errors.As(err, &terr) {
		return terr
	}

	return err
}

func printLog(cmd *cobra.Command, machine *fsm.Machine) {
	log := machine.Log()
	if len(log) == 0 {
		cmd.Println("Log is empty")

		return
	}

	for _, rec := range log {
		line := fmt.Sprintf("%s  %s -> %s", rec.Timestamp.Format("15:04:05.000"), rec.From, rec.To)
		if rec.Reason != "" {
			line += "  (" + rec.Reason + ")"
		}

		cmd.Println(line)
	}
}

func exportSession(recorder *devtools.Recorder, path string) error {
	f, err := os.Create(path) //nolint:gosec // Path is chosen by the operator.
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	err = recorder.ExportGzip(f)
	if err != nil {
		f.Close() //nolint:errcheck,gosec // already failing

		return err
	}

	return f.Close()
}
