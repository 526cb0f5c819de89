package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/urlkit/pkg/server"
)

func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP service",
		Long: `Run the urlkit HTTP service.

Settings come from urlkit.json (see --config); --addr overrides the
listen address.

Examples:
  urlkit serve
  urlkit serve --addr 0.0.0.0:9090
  urlkit serve --config /etc/urlkit/urlkit.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := newServer(opts, addr, cmd)
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from urlkit.json)")

	return cmd
}

// newServer loads the configuration and builds the service without
// starting it.
func newServer(opts *options, addr string, cmd *cobra.Command) (*server.Server, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	sc := server.ConfigFrom(cfg)
	if addr != "" {
		sc.Address = addr
	}
	sc.Logger = newLogger(cfg, cmd.ErrOrStderr())

	return server.New(sc), nil
}
