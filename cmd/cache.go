package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/cache"
)

// cacheCmd represents the cache command group
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the response cache",
}

// openConfiguredCache opens the cache at the configured path.
func openConfiguredCache() (*cache.Cache, *CommandContext, error) {
	cc, err := newLocalContext()
	if err != nil {
		return nil, nil, err
	}
	c, err := cache.Open(cc.Config.Cache.GetPath(), cc.Config.Cache.GetTTL())
	if err != nil {
		cc.Close()
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, cc, nil
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cc, err := openConfiguredCache()
		if err != nil {
			return err
		}
		defer cc.Close()
		defer c.Close()

		stats, err := c.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entries: %d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Fprintf(cmd.OutOrStdout(), "Size:    %d KB\n", stats.SizeKB)
		fmt.Fprintf(cmd.OutOrStdout(), "Path:    %s\n", cc.Config.Cache.GetPath())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cc, err := openConfiguredCache()
		if err != nil {
			return err
		}
		defer cc.Close()
		defer c.Close()

		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cc, err := openConfiguredCache()
		if err != nil {
			return err
		}
		defer cc.Close()
		defer c.Close()

		removed, err := c.Purge()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired entries.\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
