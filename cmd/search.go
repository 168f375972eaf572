package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/errors"
	"github.com/grandcamel/confluence-skills/internal/format"
	"github.com/grandcamel/confluence-skills/internal/validation"
)

var (
	searchLimitFlag int
	searchJSONFlag  bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <cql>",
	Short: "Search content with CQL",
	Long: `Run a CQL query against the site.

Examples:
  confluence search 'text ~ "roadmap"'
  confluence search 'space = DEV and type = page' --limit 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cql, err := validation.CQL(strings.Join(args, " "))
	if err != nil {
		return err
	}
	limit, err := validation.Limit(searchLimitFlag, validation.DefaultLimit)
	if err != nil {
		return err
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	results, err := cc.Client.Search(cmd.Context(), cql, limit)
	if err != nil {
		return err
	}

	if searchJSONFlag {
		out, err := format.JSON(results)
		if err != nil {
			return errors.WrapError(err, "failed to encode results", errors.ExitGeneralError)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), format.SearchResults(results))
	return nil
}

func init() {
	searchCmd.Flags().IntVar(&searchLimitFlag, "limit", validation.DefaultLimit, "Maximum results (1-250)")
	searchCmd.Flags().BoolVar(&searchJSONFlag, "json", false, "Print raw JSON results")
	rootCmd.AddCommand(searchCmd)
}
