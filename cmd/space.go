package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/format"
)

var spaceLimitFlag int

// spaceCmd represents the space command group
var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Inspect spaces",
}

var spaceGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		space, err := cc.Client.GetSpace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), format.Space(space))
		return nil
	},
}

var spaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible spaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		spaces, err := cc.Client.ListSpaces(cmd.Context(), spaceLimitFlag)
		if err != nil {
			return err
		}
		if len(spaces) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No spaces.")
			return nil
		}
		rows := make([][]string, 0, len(spaces))
		for _, s := range spaces {
			rows = append(rows, []string{s.Key, s.Name, s.Type})
		}
		fmt.Fprint(cmd.OutOrStdout(), format.Table([]string{"KEY", "NAME", "TYPE"}, rows))
		return nil
	},
}

func init() {
	spaceListCmd.Flags().IntVar(&spaceLimitFlag, "limit", 0, "Maximum results, 0 for all")
	spaceCmd.AddCommand(spaceGetCmd, spaceListCmd)
	rootCmd.AddCommand(spaceCmd)
}
