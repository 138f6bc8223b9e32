package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/template"
)

// lintCommand creates the lint command validating deployment templates.
func (c *CLI) lintCommand() *cobra.Command {
	var schemaURI string

	cmd := &cobra.Command{
		Use:   "lint <template.json>...",
		Short: "Validate deployment templates against the deployment schema",
		Long: `Validate one or more deployment templates the way the editor
validation service would, using the local corpus instead of the published
mirror. The --schema flag names the deployment schema to validate against.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			linter := template.NewSchemaLinter(c.newEngine(cfg), schemaURI)

			failed := 0
			for _, path := range args {
				doc, err := schema.ParseFile(path)
				if err != nil {
					printError("%s: %v", path, err)
					failed++
					continue
				}

				issues, err := linter.Lint(ctx, doc)
				if err != nil {
					return err
				}
				if len(issues) == 0 {
					printSuccess("%s", path)
					continue
				}

				failed++
				printError("%s: %d issues", path, len(issues))
				for _, is := range issues {
					printDetail("%s: %s", is.Path, is.Message)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d templates failed linting", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaURI, "schema", "", "deployment schema URI or path to validate against")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
