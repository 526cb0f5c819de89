package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
	"github.com/vango-dev/urlkit/pkg/searchparams"
)

func paramsCmd() *cobra.Command {
	var (
		sortKeys bool
		locale   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "params <query>",
		Short: "Decode a query string",
		Long: `Decode a query string into its key/value pairs, in order.

With --sort, pairs are stably sorted by key. --locale sorts with the
collation rules of a BCP 47 language tag instead of code-unit order.

Examples:
  urlkit params "b=2&a=1&a=3"
  urlkit params "?b=2&a=1&a=3" --sort
  urlkit params "b=1&ä=2&a=3" --sort --locale de`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := searchparams.New(args[0])
			if err != nil {
				return err
			}

			if sortKeys || locale != "" {
				if locale != "" {
					tag, err := language.Parse(locale)
					if err != nil {
						return kerrors.Newf(kerrors.CategoryCLI, "unknown locale %q", locale).Wrap(err)
					}
					p.SortCollated(tag)
				} else {
					p.Sort()
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, p)
			}
			for key, value := range p.All() {
				field(w, key, value)
			}
			fmt.Fprintln(w, p.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&sortKeys, "sort", "s", false, "Sort pairs by key")
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Collate keys for this language tag (implies --sort)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the serialized query as JSON")

	return cmd
}
