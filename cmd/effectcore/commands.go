package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/effectcore/cli"
	"github.com/nathoo/effectcore/engine"
	"github.com/nathoo/effectcore/engine/report"
	"github.com/nathoo/effectcore/engine/resolve"
	"github.com/nathoo/effectcore/loader"
	"github.com/nathoo/effectcore/tui"
	"github.com/nathoo/effectcore/types"
)

func runCmd(opts *options) *cobra.Command {
	var (
		turn    int
		asJSON  bool
		save    bool
		showAll bool
		replay  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one effect pass and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.close()

			if !cmd.Flags().Changed("turn") {
				turn = app.scenario.Turn
			}
			if replay != "" {
				prev, err := report.ReadFile(replay)
				if err != nil {
					return fmt.Errorf("reading replay report: %w", err)
				}
				if !cmd.Flags().Changed("turn") {
					turn = prev.Turn
				}
				app.engine.RNG = prev.RNG()
				app.logger.Info("replaying pass", "pass", prev.Pass, "turn", turn, "shuffled", app.engine.RNG != nil)
			}
			res, passErr := app.engine.RunPass(cmd.Context(), turn)
			if res == nil {
				return passErr
			}

			out := cmd.OutOrStdout()
			r, err := report.Build(app.engine)
			if err != nil {
				return err
			}
			if save {
				path, err := report.WriteFile(app.cfg.Reports.Dir, r)
				if err != nil {
					return err
				}
				app.logger.Info("report written", "path", path)
			}

			if asJSON {
				data, err := report.Save(r)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return passErr
			}

			fmt.Fprintf(out, "%s turn %d: %d effect groups, %d ledger entries, %d meter fields changed\n",
				app.scenario.Name, res.Turn, res.ActiveGroups, res.Entries, res.MetersWritten)
			for _, row := range r.Meters {
				if !showAll && row.Initial == row.Effective {
					continue
				}
				obj, _ := app.engine.Universe.Object(row.Object)
				fmt.Fprintf(out, "  #%-4d %-16s %-28s current %g -> %g  max %g -> %g\n",
					row.Object, obj.Name, row.Meter,
					row.Initial.Current, row.Effective.Current, row.Initial.Max, row.Effective.Max)
			}
			for _, d := range res.Diagnostics {
				fmt.Fprintln(out, "  "+engine.FormatDiagnostic(d))
			}
			return passErr
		},
	}

	cmd.Flags().IntVar(&turn, "turn", 0, "Turn to evaluate (default: the scenario's turn)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the pass report as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Also write the report to the reports directory")
	cmd.Flags().BoolVar(&showAll, "all", false, "List unchanged meters too")
	cmd.Flags().StringVar(&replay, "replay", "", "Reproduce the turn and group order of a saved report")
	return cmd
}

func explainCmd(opts *options) *cobra.Command {
	var turn int

	cmd := &cobra.Command{
		Use:   "explain OBJECT METER...",
		Short: "Run a pass and account for meter values",
		Example: `  effectcore explain Valiant max:capacity@FT_HANGAR_2
  effectcore explain 20 structure max:structure`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.close()

			if !cmd.Flags().Changed("turn") {
				turn = app.scenario.Turn
			}
			if res, err := app.engine.RunPass(cmd.Context(), turn); res == nil {
				return err
			}

			id, err := resolve.Object(app.engine.Universe, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range args[1:] {
				ref, err := types.ParseMeterRef(m)
				if err != nil {
					return err
				}
				exp, err := app.engine.Explain(id, ref)
				if err != nil {
					return err
				}
				for _, line := range engine.FormatExplanation(exp) {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&turn, "turn", 0, "Turn to evaluate (default: the scenario's turn)")
	return cmd
}

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [DIR]",
		Short: "Load content and report authoring errors and warnings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			dir := cfg.Content.Dir
			if len(args) == 1 {
				dir = args[0]
			}

			out := cmd.OutOrStdout()
			reg, warnings, err := loader.Check(dir)
			for _, w := range warnings {
				fmt.Fprintln(out, "warning: "+w)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d records OK, %d warnings\n", dir, reg.Len(), len(warnings))
			return nil
		},
	}
}

func consoleCmd(opts *options) *cobra.Command {
	var (
		script string
		trace  bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive line console",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.close()

			c := cli.New(app.engine, app.scenario.Name, app.cfg.Reports.Dir)
			c.Out = cmd.OutOrStdout()
			c.Trace = trace
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				c.In = f
				c.EchoInput = true
			}
			c.Run(cmd.Context())
			return nil
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Read commands from a file and echo them")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print diagnostics after every pass")
	return cmd
}

func tuiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full-screen terminal UI (falls back to the console when not a terminal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				app, err := setup(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer app.close()

				c := cli.New(app.engine, app.scenario.Name, app.cfg.Reports.Dir)
				c.Run(cmd.Context())
				return nil
			}

			// The alt screen owns the terminal; pass logs would corrupt it.
			app, err := setupWithLog(cmd.Context(), opts, io.Discard)
			if err != nil {
				return err
			}
			defer app.close()
			return tui.Run(cmd.Context(), app.engine, app.scenario.Name, app.cfg.Reports.Dir)
		},
	}
}
