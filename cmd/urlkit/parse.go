package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/urlkit/pkg/urlgrammar"
	"github.com/vango-dev/urlkit/pkg/weburl"
)

// urlOutput is the --json form of a URL.
type urlOutput struct {
	Kind         string      `json:"kind"`
	Href         string      `json:"href"`
	Origin       string      `json:"origin"`
	Protocol     string      `json:"protocol"`
	Username     string      `json:"username"`
	Password     string      `json:"password"`
	Host         string      `json:"host"`
	Hostname     string      `json:"hostname"`
	Port         string      `json:"port"`
	Pathname     string      `json:"pathname"`
	Search       string      `json:"search"`
	Hash         string      `json:"hash"`
	SearchParams [][2]string `json:"search_params"`
}

func parseCmd(opts *options) *cobra.Command {
	var (
		base   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "parse <input>",
		Short: "Parse a URL into its components",
		Long: `Parse a URL and print its components.

Relative references need a base, given with --base or as
default_base in urlkit.json.

Examples:
  urlkit parse "https://user@example.com:8080/p?q=1#frag"
  urlkit parse ../other --base https://example.com/dir/page
  urlkit parse //cdn.example.com/lib.js --base https://example.com --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if base == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				base = cfg.DefaultBase
			}
			return runParse(cmd.OutOrStdout(), args[0], base, asJSON)
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Base URL for relative input")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func resolveCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <base> <relative>",
		Short: "Resolve a reference against a base URL",
		Long: `Resolve a relative reference against a base URL and print the
resulting href.

Examples:
  urlkit resolve https://example.com/dir/page ../newpage?x=1
  urlkit resolve https://base.com //example.com/path`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, kind, err := build(args[1], args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), newURLOutput(kind, u))
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.Href())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print all components as JSON")

	return cmd
}

func runParse(w io.Writer, input, base string, asJSON bool) error {
	u, kind, err := build(input, base)
	if err != nil {
		return err
	}

	out := newURLOutput(kind, u)
	if asJSON {
		return printJSON(w, out)
	}

	field(w, "kind", out.Kind)
	field(w, "href", out.Href)
	field(w, "origin", out.Origin)
	field(w, "protocol", out.Protocol)
	if out.Username != "" || out.Password != "" {
		field(w, "username", out.Username)
		field(w, "password", out.Password)
	}
	field(w, "hostname", out.Hostname)
	field(w, "port", out.Port)
	field(w, "pathname", out.Pathname)
	field(w, "search", out.Search)
	field(w, "hash", out.Hash)
	for _, p := range out.SearchParams {
		field(w, "param", p[0]+" = "+p[1])
	}
	return nil
}

// build parses input, against base when base is non-empty, and reports
// which grammar the input matched.
func build(input, base string) (*weburl.URL, urlgrammar.Kind, error) {
	parsed, err := urlgrammar.Parse(input)
	if err != nil {
		return nil, urlgrammar.KindInvalid, err
	}

	var u *weburl.URL
	if base != "" {
		u, err = weburl.NewWithBase(input, base)
	} else {
		u, err = weburl.New(input)
	}
	if err != nil {
		return nil, parsed.Kind, err
	}
	return u, parsed.Kind, nil
}

func newURLOutput(kind urlgrammar.Kind, u *weburl.URL) urlOutput {
	out := urlOutput{
		Kind:         kind.String(),
		Href:         u.Href(),
		Origin:       u.Origin(),
		Protocol:     u.Protocol(),
		Username:     u.Username(),
		Password:     u.Password(),
		Host:         u.Host(),
		Hostname:     u.Hostname(),
		Port:         u.Port(),
		Pathname:     u.Pathname(),
		Search:       u.Search(),
		Hash:         u.Hash(),
		SearchParams: [][2]string{},
	}
	u.SearchParams().ForEach(func(key, value string) {
		out.SearchParams = append(out.SearchParams, [2]string{key, value})
	})
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
