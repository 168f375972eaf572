package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/config"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newLocalContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		cfg := cc.Config
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Site URL:    %s\n", orUnset(cfg.Site.SiteURL))
		fmt.Fprintf(out, "Email:       %s\n", orUnset(cfg.Site.Email))
		fmt.Fprintf(out, "API token:   %s\n", redactToken(cfg.Site.APIToken))
		fmt.Fprintf(out, "Timeout:     %s\n", cfg.Site.GetTimeout())
		fmt.Fprintf(out, "Retries:     %d\n", cfg.Site.GetRetries())
		fmt.Fprintf(out, "Backoff:     %.1f\n", cfg.Site.GetBackoff())
		fmt.Fprintf(out, "Verify SSL:  %t\n", cfg.Site.GetVerifySSL())
		fmt.Fprintf(out, "Cache:       enabled=%t path=%s ttl=%s\n",
			cfg.Cache.Enabled, cfg.Cache.GetPath(), cfg.Cache.GetTTL())
		fmt.Fprintf(out, "Max workers: %d\n", cfg.GetMaxWorkers())
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that credentials are present and well-formed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newLocalContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		if err := config.ValidateCredentials(&cc.Config.Site); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Credentials look valid.")
		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

// redactToken keeps only the token's length visible.
func redactToken(token string) string {
	if token == "" {
		return "(unset)"
	}
	return fmt.Sprintf("[REDACTED] (%d chars)", len(token))
}

func init() {
	configCmd.AddCommand(configShowCmd, configCheckCmd)
	rootCmd.AddCommand(configCmd)
}
