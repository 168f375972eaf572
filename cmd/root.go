package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/errors"
)

var (
	debugFlag   bool
	verboseFlag bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "confluence",
	Short: "Confluence Cloud client and rich-text conversion toolkit",
	Long: `Work with Confluence Cloud from the command line.

Convert content between plain text, Markdown, storage-format XHTML, and
ADF; read, create, and update pages; search with CQL; and manage spaces,
labels, and attachments. Credentials come from CONFLUENCE_SITE_URL,
CONFLUENCE_EMAIL, and CONFLUENCE_API_TOKEN (a .env file works too).`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// codedError is satisfied by every error built on the base error type.
type codedError interface {
	GetUserMessage() string
	Code() errors.ExitCode
}

// Execute runs the root command and exits with the error's code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if ce, ok := err.(codedError); ok {
			fmt.Fprintln(os.Stderr, ce.GetUserMessage())
			os.Exit(ce.Code().Int())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.Sanitize(err.Error()))
		os.Exit(int(errors.ExitGeneralError))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show log output on the console")
}
