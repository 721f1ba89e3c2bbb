package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/diagram"
	"github.com/matzehuels/sortnet/pkg/errors"
)

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	var (
		flags     runFlags
		format    string
		output    string
		groups    bool
		maxRounds int
	)

	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Draw a run as a Graphviz diagram",
		Long: `Draw a run as one row of processors per round, top to bottom.

The format defaults to the extension of --output, or svg. PNG and PDF output
need rsvg-convert (librsvg).`,
		Example: `  sortnet diagram --values 5,3,8,1,9,2 -o alternate.svg
  sortnet diagram -s oddeven -n 8 --groups -f dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if format == "" {
				format = formatFromPath(output)
			}

			opts, err := flags.resolve(cmd, c.settings())
			if err != nil {
				return err
			}
			opts.Trace = true
			opts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			data, err := diagram.Render(ctx, res.RoundLog(), format, diagram.Options{
				Groups:    groups,
				MaxRounds: maxRounds,
			})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", output)
			}
			printSuccess(cmd.ErrOrStderr(), "Drew %d rounds of %s", res.Rounds, res.Strategy)
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	flags.bind(cmd, true)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg, png or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&groups, "groups", false, "shade the groups of every round")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 0, "draw at most this many rounds (0 = all)")
	return cmd
}

// formatFromPath derives the output format from a file extension.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case diagram.FormatDOT, diagram.FormatSVG, diagram.FormatPNG, diagram.FormatPDF:
		return ext
	case "gv":
		return diagram.FormatDOT
	}
	return diagram.FormatSVG
}

