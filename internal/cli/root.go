// Package cli implements the refmark command line.
package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/refmark/internal/config"
	"github.com/sprite-ai/refmark/internal/logging"
)

// ExitError carries a non-zero exit status out of a command that otherwise
// succeeded, e.g. `check` finding high risk problems.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// app is the state shared by every command of one root.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *log.Logger
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "refmark",
		Short: "Turn refactoring detections into display entries and history chains",
		Long: `refmark reads the refactorings a mining engine detected in a commit and
builds a display entry for it: deduplicated events, grouped by kind, with
before/after line markings. Entries fold into history chains that follow a
method across renames and class moves.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./refmark.yaml or ~/.config/refmark/refmark.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(
		newBuildCmd(a),
		newShowCmd(a),
		newHistoryCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
