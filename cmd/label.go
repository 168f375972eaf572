package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/format"
	"github.com/grandcamel/confluence-skills/internal/validation"
)

var labelPagesFlag []string

// labelCmd groups label operations under "page label".
var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage page labels",
}

var labelListCmd = &cobra.Command{
	Use:   "list <page-id>",
	Short: "List the labels on a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageID, err := validation.PageID(args[0])
		if err != nil {
			return err
		}

		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		labels, err := cc.Client.GetLabels(cmd.Context(), pageID)
		if err != nil {
			return err
		}
		if len(labels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No labels.")
			return nil
		}
		rows := make([][]string, 0, len(labels))
		for _, l := range labels {
			rows = append(rows, []string{l.Prefix, l.Name})
		}
		fmt.Fprint(cmd.OutOrStdout(), format.Table([]string{"PREFIX", "NAME"}, rows))
		return nil
	},
}

var labelAddCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Add labels to one or more pages",
	Long: `Add labels. A single --page labels that page; repeating --page labels
many pages concurrently, bounded by the configured worker count, and
reports per-page failures without aborting the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLabelAdd,
}

func runLabelAdd(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		name, err := validation.Label(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
	}
	pageIDs := make([]string, 0, len(labelPagesFlag))
	for _, p := range labelPagesFlag {
		id, err := validation.PageID(p)
		if err != nil {
			return err
		}
		pageIDs = append(pageIDs, id)
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	results := cc.Client.BulkAddLabels(cmd.Context(), pageIDs, names, cc.Config.GetMaxWorkers())
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "page %s: %v\n", r.PageID, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "page %s: labelled\n", r.PageID)
	}
	if failed > 0 {
		return fmt.Errorf("labelling failed for %d of %d pages", failed, len(results))
	}
	return nil
}

var labelRemoveCmd = &cobra.Command{
	Use:   "remove <page-id> <name>",
	Short: "Remove a label from a page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageID, err := validation.PageID(args[0])
		if err != nil {
			return err
		}
		name, err := validation.Label(args[1])
		if err != nil {
			return err
		}

		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		if err := cc.Client.RemoveLabel(cmd.Context(), pageID, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed label %q from page %s\n", name, pageID)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <page-id>...",
	Short: "Watch pages for changes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		results := cc.Client.BulkWatch(cmd.Context(), args, cc.Config.GetMaxWorkers())
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "page %s: %v\n", r.PageID, r.Err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %s: watching\n", r.PageID)
		}
		if failed > 0 {
			return fmt.Errorf("watch failed for %d of %d pages", failed, len(results))
		}
		return nil
	},
}

var unwatchCmd = &cobra.Command{
	Use:   "unwatch <page-id>",
	Short: "Stop watching a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		if err := cc.Client.UnwatchPage(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stopped watching page %s\n", args[0])
		return nil
	},
}

func init() {
	labelAddCmd.Flags().StringSliceVar(&labelPagesFlag, "page", nil, "Page ID to label (repeatable)")
	labelAddCmd.MarkFlagRequired("page")

	labelCmd.AddCommand(labelListCmd, labelAddCmd, labelRemoveCmd)
	pageCmd.AddCommand(labelCmd, watchCmd, unwatchCmd)
}
