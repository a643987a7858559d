// effectcore evaluates a 4X ruleset's effect groups against a universe and
// explains the resulting meter values.
//
// Usage: effectcore [command] [--config FILE] [--log-level LEVEL]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nathoo/effectcore/config"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	contentDir string
	scenario   string
}

// load reads the config file and applies flag overrides.
func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.contentDir != "" {
		cfg.Content.Dir = o.contentDir
	}
	if o.scenario != "" {
		cfg.Content.Scenario = o.scenario
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "effectcore",
		Short: "Rule-based effects engine for 4X content",
		Long: `effectcore loads Lua-authored techs and buildings, evaluates their
effect groups against a scenario universe and writes the results to
meters, keeping a ledger that explains every value.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML, default effectcore.yaml if present)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.contentDir, "content", "", "Content directory of .lua files")
	pf.StringVar(&opts.scenario, "scenario", "", "Scenario YAML file")

	cmd.AddCommand(
		runCmd(opts),
		explainCmd(opts),
		validateCmd(opts),
		consoleCmd(opts),
		tuiCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "effectcore %s (commit %s, built %s)\n", version, commit, date)
			},
		},
	)

	return cmd
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
