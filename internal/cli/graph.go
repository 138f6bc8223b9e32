package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/refgraph"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

// Output formats for the graph command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

// graphCommand creates the graph command exporting a document's reference
// graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "graph <schema.json>",
		Short: "Export or render a document's reference graph",
		Long: `Build the reference graph of one schema document and write it as
JSON, Graphviz DOT, or a rendered SVG/PNG image. Without --output the result
goes to stdout (json and dot only).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			doc, err := schema.ParseFile(path)
			if err != nil {
				return err
			}
			g := refgraph.Build(doc)
			c.Logger.Debug("reference graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

			var data []byte
			switch format {
			case formatJSON:
				data, err = refgraph.Marshal(g)
			case formatDOT:
				data = []byte(refgraph.ToDOT(g))
			case formatSVG:
				data, err = refgraph.RenderSVG(cmd.Context(), refgraph.ToDOT(g))
			case formatPNG:
				data, err = refgraph.RenderPNG(cmd.Context(), refgraph.ToDOT(g))
			default:
				return fmt.Errorf("unknown format %q (want json, dot, svg or png)", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				if format == formatSVG || format == formatPNG {
					return fmt.Errorf("--output is required for %s", format)
				}
				fmt.Print(string(data))
				return nil
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Graph written")
			printDetail("%d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, dot, svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout for json/dot)")

	return cmd
}
