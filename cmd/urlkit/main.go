package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/urlkit/internal/config"
	kerrors "github.com/vango-dev/urlkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		kerrors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "urlkit",
		Short: "Parse, resolve and inspect URLs",
		Long: `urlkit parses URLs into their components, resolves relative
references against a base, and decodes query strings.

It can also run as a JSON HTTP service exposing the same operations.

Examples:
  urlkit parse "https://example.com/a?x=1#top"
  urlkit resolve https://example.com/dir/page ../newpage?x=1
  urlkit params "b=2&a=1&a=3" --sort
  urlkit serve --addr :8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to urlkit.json (default: ./urlkit.json if present)")

	rootCmd.AddCommand(
		parseCmd(opts),
		resolveCmd(opts),
		paramsCmd(),
		serveCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads the --config file, or ./urlkit.json when it exists,
// or falls back to defaults.
func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	if config.Exists(".") {
		return config.Load(".")
	}
	return config.New(), nil
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// field prints one aligned "name: value" line.
func field(w io.Writer, name, value string) {
	fmt.Fprintf(w, "  %-10s %s\n", name+":", value)
}
