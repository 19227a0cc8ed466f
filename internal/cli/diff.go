package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
)

// errChanges is returned by diff --exit-code when the captures differ.
var errChanges = errors.New("captures differ")

// diffCommand creates the diff command.
func (c *CLI) diffCommand() *cobra.Command {
	var (
		flags    captureFlags
		slot     string
		all      bool
		asJSON   bool
		exitCode bool
	)

	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare the structured data of two captures",
		Long: `Compare the structured data of two captures.

Each input is an HTML file, a capture bundle or a JSON-LD document. Nodes are
matched by @id and compared by their canonical form, so key order never
counts as a change. Blocks are compared by their canonical text.

By default only the --slot slot is compared; --all compares every slot
present on either side.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.runDiff(cmd.Context(), args[0], args[1], flags, slot, all)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					printDiff(res)
				}
			}
			if exitCode && hasChanges(results) {
				return errChanges
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&slot, "slot", pipeline.DefaultSlot, "slot to compare")
	cmd.Flags().BoolVar(&all, "all", false, "compare every slot")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with an error when the captures differ")

	return cmd
}

func (c *CLI) runDiff(ctx context.Context, leftPath, rightPath string, flags captureFlags, slot string, all bool) ([]diff.Result, error) {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	left, err := loadCapture(ctx, runner, leftPath, flags)
	if err != nil {
		return nil, err
	}
	right, err := loadCapture(ctx, runner, rightPath, flags)
	if err != nil {
		return nil, err
	}

	if all {
		return runner.CompareAll(ctx, left, right), nil
	}
	return []diff.Result{runner.Compare(ctx, left, right, slot)}, nil
}

func hasChanges(results []diff.Result) bool {
	for _, r := range results {
		if r.Available() && !r.Empty() {
			return true
		}
	}
	return false
}

// =============================================================================
// Diff Output
// =============================================================================

// printDiff prints a heading and, when there are changes, the change table.
func printDiff(res diff.Result) {
	title := StyleTitle.Render("Slot " + res.Slot)
	switch {
	case !res.Available():
		fmt.Println(title)
		printWarning("%s", res.Summary())
	case res.Empty():
		fmt.Println(title)
		printSuccess("%s", res.Summary())
	default:
		fmt.Println(title + " " + StyleDim.Render(res.Summary()))
		fmt.Println(diffTable(res))
	}
	printNewline()
}

// diffRow is one line of the change table.
type diffRow struct {
	status string
	kind   string
	key    string
}

// diffRows lists the changes of a result: nodes first, then blocks.
func diffRows(res diff.Result) []diffRow {
	var rows []diffRow
	add := func(status, kind string, keys []string) {
		for _, k := range keys {
			rows = append(rows, diffRow{status: status, kind: kind, key: k})
		}
	}
	add(graph.StatusAdded, "node", res.AddedNodes)
	add(graph.StatusRemoved, "node", res.RemovedNodes)
	add(graph.StatusChanged, "node", res.ChangedNodes)
	add(graph.StatusAdded, "block", res.AddedBlocks)
	add(graph.StatusRemoved, "block", res.RemovedBlocks)
	return rows
}

// diffTable renders the changes of a result as a bordered table.
func diffTable(res diff.Result) string {
	rows := diffRows(res)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		mark, _ := statusMark(r.status)
		cells[i] = []string{mark, r.kind, truncate(r.key, 80)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "Key").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			_, style := statusMark(rows[row].status)
			if col == 1 {
				return StyleDim
			}
			return style
		})
	return t.Render()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
