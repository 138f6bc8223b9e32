package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/report"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/server"
)

// serveCommand creates the serve command exposing run reports over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest run report over HTTP",
		Long: `Start a local HTTP server exposing the run report, per-document
results and rendered reference graphs. The report is loaded from --report,
or from the configured MongoDB history when available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			srv := server.New(cfg.Server.Addr, cfg.CorpusRoot, c.Logger)

			rep, err := c.loadReport(ctx, cfg, reportPath)
			if err != nil {
				return err
			}
			if rep != nil {
				srv.SetReport(rep)
				printInfo("Serving run %s", rep.ID)
			} else {
				printWarning("No run report available; /report will 404")
			}
			printInfo("Listening on http://%s", cfg.Server.Addr)

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&reportPath, "report", "", "report JSON file to serve")

	return cmd
}

// loadReport picks the report to serve: an explicit file wins, then the most
// recent run in the history store. No report at all is not an error.
func (c *CLI) loadReport(ctx context.Context, cfg Config, path string) (*report.Report, error) {
	if path != "" {
		return report.ReadFile(path)
	}
	if cfg.History.MongoURI == "" {
		return nil, nil
	}

	store, err := report.NewHistoryStore(ctx, cfg.History.MongoURI)
	if err != nil {
		c.Logger.Warn("history store unavailable", "err", err)
		return nil, nil
	}
	defer store.Close(ctx)
	return store.Latest(ctx, cfg.CorpusRoot)
}
