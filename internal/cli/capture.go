package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
)

// captureFlags are shared by every command that reads captures.
type captureFlags struct {
	mode    string
	inject  bool
	refresh bool
	noCache bool
}

func (f *captureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", pipeline.DefaultMode, "capture mode: local, remote")
	cmd.Flags().BoolVar(&f.inject, "inject", false, "capture with client-side injection enabled")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached captures")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// captureCommand creates the capture command.
func (c *CLI) captureCommand() *cobra.Command {
	var (
		flags  captureFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "capture [page.html|bundle.json]",
		Short: "Capture the structured data of a page into a bundle",
		Long: `Capture the structured data of a page into a bundle.

HTML files are scanned for <script type="application/ld+json"> blocks, which
land in the "server" slot. JSON files are read as bundles produced by an
external capture tool, or as a single JSON-LD document.

Captures are cached by target, mode and inject flag; use --refresh to
re-capture.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCapture(cmd.Context(), args[0], flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.bundle.json)")

	return cmd
}

func (c *CLI) runCapture(ctx context.Context, target string, flags captureFlags, output string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st := c.stage(ctx, stageCapture, target)
	b, cacheHit, err := runner.Capture(ctx, captureOptions(target, flags.mode, flags.inject, flags.refresh))
	if err != nil {
		st.fail(err)
		return err
	}
	st.ok("%d slot(s) [%s]", len(b.SlotNames()), strings.Join(b.SlotNames(), ", "))
	for _, w := range b.Warnings {
		st.warn("%s", w)
	}

	if output == "" {
		output = strings.TrimSuffix(target, filepath.Ext(target)) + ".bundle.json"
	}
	data, err := b.Marshal()
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Captured %s", StyleHighlight.Render(b.Key().String()))
	printFile(output)
	printBundle(b, cacheHit)
	printNewline()
	printNextStep("Compare", "ldgraph diff "+output+" <other>")
	return nil
}

// printBundle prints the bundle id and the document count of every slot.
func printBundle(b *capture.Bundle, cached bool) {
	printKeyValue("ID", b.ID)
	printKeyValue("Captured", b.CapturedAt.Format("2006-01-02 15:04:05"))
	for _, name := range b.SlotNames() {
		docs, _ := b.Slot(name)
		printKeyValue("Slot "+name, fmt.Sprintf("%d document(s)", len(docs)))
	}
	printStats(0, 0, cached)
}

// loadCapture captures one CLI input through the runner.
func loadCapture(ctx context.Context, runner *pipeline.Runner, target string, flags captureFlags) (*capture.Bundle, error) {
	b, cacheHit, err := runner.Capture(ctx, captureOptions(target, flags.mode, flags.inject, flags.refresh))
	if err != nil {
		return nil, err
	}
	runner.Logger.Debug("loaded capture", "target", target, "cached", cacheHit, "slots", strings.Join(b.SlotNames(), ","))
	return b, nil
}
