package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/config"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
)

// buildCommand creates the build command that emits one page's JSON-LD graph.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		pagePath string
		output   string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "build --page <page.toml>",
		Short: "Build the JSON-LD graph for one page",
		Long: `Build the JSON-LD graph for one page.

The site entities (organization, person, publisher, logo and website) come
from the config file; the page node, article and breadcrumb come from the
page summary given with --page. Both files may be TOML, YAML or JSON.

The document is written to stdout unless -o is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pagePath == "" {
				return fmt.Errorf("--page is required")
			}
			return c.runBuild(cmd.Context(), pagePath, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&pagePath, "page", "p", "", "page summary file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, pagePath, output string, noCache bool) error {
	f, err := c.loadConfig()
	if err != nil {
		return err
	}
	page, err := config.LoadPage(pagePath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	doc, cacheHit, err := runner.BuildWithCacheInfo(ctx, pipeline.BuildOptions{Config: f.Config, Page: page})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	prog.done(fmt.Sprintf("Built %d nodes for %s", len(doc.Graph), page.URL))

	if len(doc.Graph) == 0 {
		c.Logger.Warn("empty graph; check site_url and the page title", "page", pagePath)
	}

	if output == "" {
		return graph.WriteDocument(doc, os.Stdout)
	}
	if err := graph.WriteDocumentFile(doc, output); err != nil {
		return err
	}

	printSuccess("Graph built")
	printFile(output)
	printStats(len(doc.Graph), countRefs(doc), cacheHit)
	printNewline()
	printNextStep("Lay out", "ldgraph layout "+output)
	return nil
}

// countRefs counts the id references between top-level nodes.
func countRefs(doc graph.Document) int {
	n := 0
	for _, node := range doc.Graph {
		for _, k := range node.Attrs.Keys() {
			v, _ := node.Get(k)
			n += refsIn(v)
		}
	}
	return n
}

func refsIn(v any) int {
	switch x := v.(type) {
	case graph.Ref:
		return 1
	case []any:
		n := 0
		for _, e := range x {
			n += refsIn(e)
		}
		return n
	}
	return 0
}
