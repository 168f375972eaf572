package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/convert"
	"github.com/grandcamel/confluence-skills/internal/errors"
)

var (
	convertFromFlag string
	convertToFlag   string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert content between text, markdown, xhtml, and adf",
	Long: `Convert rich text between formats. Input comes from a file argument
or stdin; the result goes to stdout.

Formats:
  text      plain text, one paragraph per blank-line-separated chunk
  markdown  CommonMark with tables and strikethrough
  xhtml     Confluence storage format
  adf       Atlassian Document Format JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return errors.WrapError(err, "failed to read input", errors.ExitIOError)
	}

	doc, err := parseToDocument(convertFromFlag, input)
	if err != nil {
		return err
	}
	output, err := renderDocument(convertToFlag, doc)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func parseToDocument(format, input string) (*convert.Document, error) {
	switch format {
	case "text":
		return convert.TextToDocument(input), nil
	case "markdown", "md":
		return convert.MarkdownToDocument(input), nil
	case "xhtml", "storage":
		return convert.XHTMLToDocument(input), nil
	case "adf":
		adf, err := convert.ADFDocumentFromJSON([]byte(input))
		if err != nil {
			return nil, errors.WrapError(err, "invalid ADF input", errors.ExitValidationError)
		}
		return convert.ADFToDocument(adf), nil
	default:
		return nil, errors.NewError(
			fmt.Sprintf("unknown input format %q (want text, markdown, xhtml, or adf)", format),
			errors.ExitValidationError,
		)
	}
}

func renderDocument(format string, doc *convert.Document) (string, error) {
	switch format {
	case "text":
		return convert.DocumentToText(doc), nil
	case "markdown", "md":
		return convert.DocumentToMarkdown(doc), nil
	case "xhtml", "storage":
		return convert.DocumentToXHTML(doc), nil
	case "adf":
		data, err := json.MarshalIndent(convert.DocumentToADF(doc), "", "  ")
		if err != nil {
			return "", errors.WrapError(err, "failed to encode ADF", errors.ExitGeneralError)
		}
		return string(data), nil
	default:
		return "", errors.NewError(
			fmt.Sprintf("unknown output format %q (want text, markdown, xhtml, or adf)", format),
			errors.ExitValidationError,
		)
	}
}

func init() {
	convertCmd.Flags().StringVar(&convertFromFlag, "from", "markdown", "Input format: text, markdown, xhtml, adf")
	convertCmd.Flags().StringVar(&convertToFlag, "to", "xhtml", "Output format: text, markdown, xhtml, adf")
	rootCmd.AddCommand(convertCmd)
}
