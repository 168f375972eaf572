package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/convert"
	"github.com/grandcamel/confluence-skills/internal/errors"
)

var validateFormatFlag string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate storage-format XHTML or ADF JSON",
	Long: `Check content for structural problems before sending it to the API.

XHTML validation enforces balanced tags; ADF validation enforces the
document envelope (type "doc" with a content list). Exit code 3 signals
invalid content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return errors.WrapError(err, "failed to read input", errors.ExitIOError)
	}

	switch validateFormatFlag {
	case "xhtml", "storage":
		if err := convert.ValidateXHTML(input); err != nil {
			return errors.WrapError(err, "invalid storage-format XHTML", errors.ExitValidationError)
		}
	case "adf":
		var v interface{}
		if err := json.Unmarshal([]byte(input), &v); err != nil {
			return errors.WrapError(err, "invalid JSON", errors.ExitValidationError)
		}
		if err := convert.ValidateADF(v); err != nil {
			return errors.WrapError(err, "invalid ADF document", errors.ExitValidationError)
		}
	default:
		return errors.NewError(
			fmt.Sprintf("unknown format %q (want xhtml or adf)", validateFormatFlag),
			errors.ExitValidationError,
		)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Valid.")
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateFormatFlag, "format", "xhtml", "Content format: xhtml or adf")
	rootCmd.AddCommand(validateCmd)
}
