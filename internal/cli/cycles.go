package cli

import (
	"github.com/spf13/cobra"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/errors"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema/cycles"
)

// cyclesCommand creates the cycles command running the detector on a
// single schema document.
func (c *CLI) cyclesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cycles <schema.json>",
		Short: "Detect reference cycles in one schema document",
		Long: `Walk the document's $ref and combinator edges and report the first
reference cycle found. Exits non-zero when the document is cyclic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			c.Logger.Debug("detecting cycles", "path", path)

			doc, err := schema.ParseFile(path)
			if err != nil {
				return err
			}

			cyc := cycles.Detect(doc)
			if cyc == nil {
				printSuccess("No reference cycles in %s", path)
				return nil
			}

			printError("Reference cycle in %s", path)
			printDetail("%s", cyc.String())
			return errors.New(errors.ErrCodeCycleDetected, "%s", cyc.String())
		},
	}
}
