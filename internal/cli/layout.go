package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing graph layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  captureFlags
		output string
		opts   pipeline.LayoutOptions
	)

	cmd := &cobra.Command{
		Use:   "layout <left> [right]",
		Short: "Compute a layout for a capture or a diff of two captures",
		Long: `Compute a layout for a capture or a diff of two captures.

With one input the nodes of the chosen slot are placed on a grid. With two
inputs the layout covers both sides and every node carries its diff status
(added, removed or changed).

The output is a layout.json file that 'visualize' renders to SVG, PNG or
PDF. Results are cached for faster subsequent runs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, flags, opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <left>.layout.json)")
	cmd.Flags().StringVar(&opts.Slot, "slot", pipeline.DefaultSlot, "slot to lay out")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: grid (default), nodelink")
	cmd.Flags().IntVar(&opts.MaxColumns, "columns", 0, "maximum grid columns (default 4)")
	cmd.Flags().Float64Var(&opts.CellWidth, "cell-width", 0, "grid cell width")
	cmd.Flags().Float64Var(&opts.CellHeight, "cell-height", 0, "grid cell height")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with their type and id")

	return cmd
}

// runLayout loads the captures, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, inputs []string, flags captureFlags, opts pipeline.LayoutOptions, output string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	left, err := loadCapture(ctx, runner, inputs[0], flags)
	if err != nil {
		return err
	}
	var right *capture.Bundle
	if len(inputs) == 2 {
		if right, err = loadCapture(ctx, runner, inputs[1], flags); err != nil {
			return err
		}
	}

	st := c.stage(ctx, stageLayout, strings.Join(inputs, " vs "))
	l, res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, left, right, opts)
	if err != nil {
		st.fail(err)
		return fmt.Errorf("layout: %w", err)
	}
	if res != nil {
		st.compared(*res)
	} else {
		st.ok("%s, slot %s, %d nodes", l.VizType, opts.Slot, len(l.Nodes))
	}

	if output == "" {
		base := strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0]))
		output = base + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Layout computed")
	printFile(output)
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	printNewline()
	printNextStep("Render", "ldgraph visualize "+output)
	return nil
}
