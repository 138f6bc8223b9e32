package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/report"
)

// checkCommand creates the check command running the full conformance
// pipeline over a corpus.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		noCache     bool
		interactive bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "check [corpus-root]",
		Short: "Run conformance checks over a schema corpus",
		Long: `Check every schema document under the corpus root: meta-schema
conformance, compilability, reference cycles and test vectors. The corpus
root argument overrides the configured one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.CorpusRoot = args[0]
			}

			var rep *report.Report
			if interactive {
				rep, err = c.runInteractive(ctx, cfg, noCache)
			} else {
				rep, err = c.runPlain(ctx, cfg, noCache)
			}
			if err != nil {
				return err
			}
			if rep == nil {
				return context.Canceled
			}

			if output != "" {
				if err := report.WriteFile(rep, output); err != nil {
					return err
				}
				printFile(output)
				printNextStep("Inspect the report", "armschema serve --report "+output)
			}
			if cfg.History.MongoURI != "" {
				c.saveHistory(ctx, cfg, rep)
			}

			c.printSummary(rep)
			if rep.Failed() > 0 {
				return fmt.Errorf("%d of %d documents failed conformance", rep.Failed(), rep.Total())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "check every document even if cached")
	cmd.Flags().BoolVarP(&interactive, "progress", "p", false, "show live progress while checking")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the run report to a JSON file")

	return cmd
}

// runPlain runs the corpus with a spinner and no per-document output.
func (c *CLI) runPlain(ctx context.Context, cfg Config, noCache bool) (*report.Report, error) {
	runner, store, err := c.newRunner(ctx, cfg, noCache, nil)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	prog := newProgress(c.Logger)
	sp := newSpinnerWithContext(ctx, "Checking "+cfg.CorpusRoot)
	sp.Start()
	rep, err := runner.Run(ctx)
	sp.Stop()
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Checked %d documents", rep.Total()))
	return rep, nil
}

// runInteractive runs the corpus behind a live bubbletea progress view.
// Returns a nil report when the user aborts.
func (c *CLI) runInteractive(ctx context.Context, cfg Config, noCache bool) (*report.Report, error) {
	results := make(chan report.DocumentResult, 64)
	runner, store, err := c.newRunner(ctx, cfg, noCache, func(res report.DocumentResult) {
		results <- res
	})
	if err != nil {
		return nil, err
	}
	defer store.Close()

	total, err := runner.Discover()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan runDoneMsg, 1)
	go func() {
		rep, err := runner.Run(runCtx)
		close(results)
		done <- runDoneMsg{rep: rep, err: err}
	}()

	final, err := tea.NewProgram(NewRunModel(len(total), results, done)).Run()
	if err != nil {
		return nil, err
	}

	m := final.(RunModel)
	if m.Canceled {
		cancel()
		<-done
		return nil, nil
	}
	return m.Report, m.Err
}

// saveHistory stores the report in the configured MongoDB history.
// History failures are logged, not fatal: the run result already exists.
func (c *CLI) saveHistory(ctx context.Context, cfg Config, rep *report.Report) {
	store, err := report.NewHistoryStore(ctx, cfg.History.MongoURI)
	if err != nil {
		c.Logger.Warn("history store unavailable", "err", err)
		return
	}
	defer store.Close(ctx)

	if err := store.Save(ctx, rep); err != nil {
		c.Logger.Warn("saving run history failed", "err", err)
		return
	}
	c.Logger.Debug("run saved to history", "id", rep.ID)
}

// printSummary prints the human-readable outcome of a run.
func (c *CLI) printSummary(rep *report.Report) {
	if rep.Passed() {
		printSuccess("All %d documents passed", rep.Total())
		printStats(rep.Total(), 0, cachedCount(rep) > 0)
		return
	}

	printError("%d of %d documents failed", rep.Failed(), rep.Total())
	for _, res := range rep.Results {
		if res.Passed() {
			continue
		}
		printDetail("%s", res.Path)
		checks := []struct {
			name  string
			check report.Check
		}{
			{"meta-schema", res.MetaSchema},
			{"compile", res.Compile},
			{"cycles", res.Cycles},
		}
		for _, chk := range checks {
			if chk.check.Status == report.StatusFailed {
				printDetail("  %s: %s", chk.name, chk.check.Message)
			}
		}
		for _, v := range res.Vectors {
			if !v.Passed {
				printDetail("  vector %s: %s", v.Name, v.Message)
			}
		}
	}
}

func cachedCount(rep *report.Report) int {
	n := 0
	for _, res := range rep.Results {
		if res.Cached {
			n++
		}
	}
	return n
}
