package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/server"
)

// serveCommand creates the serve command for the preview HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview HTTP API",
		Long: `Run the preview HTTP API.

The server exposes build, diff, layout and render under /v1 and a health
check at /healthz. It shares the cache configured for the CLI. The address
defaults to the config file's server.addr (or LDGRAPH_ADDR).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = f.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayAddr turns a bare ":port" into a clickable localhost address.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
