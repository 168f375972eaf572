package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/convert"
	"github.com/grandcamel/confluence-skills/internal/errors"
	"github.com/grandcamel/confluence-skills/internal/format"
	"github.com/grandcamel/confluence-skills/internal/validation"
)

var (
	pageFormatFlag  string
	pageSpaceFlag   string
	pageTitleFlag   string
	pageParentFlag  string
	pageInputFlag   string
	pageLimitFlag   int
	pagePreviewFlag int
)

// pageCmd represents the page command group
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Read, create, update, and delete pages",
}

var pageGetCmd = &cobra.Command{
	Use:   "get <page-id>",
	Short: "Fetch a page",
	Long: `Fetch a page by ID and print it.

The default output is a summary with a plain-text preview. --format
selects the body rendering: markdown, xhtml, text, or json (the raw API
object).`,
	Args: cobra.ExactArgs(1),
	RunE: runPageGet,
}

func runPageGet(cmd *cobra.Command, args []string) error {
	pageID, err := validation.PageID(args[0])
	if err != nil {
		return err
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	page, err := cc.Client.GetPage(cmd.Context(), pageID)
	if err != nil {
		return err
	}

	switch pageFormatFlag {
	case "summary":
		fmt.Fprint(cmd.OutOrStdout(), format.Page(page, pagePreviewFlag))
	case "json":
		out, err := format.JSON(page)
		if err != nil {
			return errors.WrapError(err, "failed to encode page", errors.ExitGeneralError)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	case "markdown", "md", "text", "xhtml", "storage":
		storage := ""
		if page.Body != nil {
			storage = page.Body.Storage.Value
		}
		doc := convert.XHTMLToDocument(storage)
		out, err := renderDocument(normalizeBodyFormat(pageFormatFlag), doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	default:
		return errors.NewError(
			fmt.Sprintf("unknown format %q (want summary, markdown, xhtml, text, or json)", pageFormatFlag),
			errors.ExitValidationError,
		)
	}
	return nil
}

// normalizeBodyFormat maps page output aliases onto converter format names.
func normalizeBodyFormat(f string) string {
	switch f {
	case "md":
		return "markdown"
	case "storage":
		return "xhtml"
	}
	return f
}

var pageCreateCmd = &cobra.Command{
	Use:   "create [file]",
	Short: "Create a page from markdown or storage-format input",
	Long: `Create a page. The body comes from a file argument or stdin as
Markdown by default; --input xhtml accepts storage format directly.
--space and --title are required; --parent nests the page under an
existing one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPageCreate,
}

func runPageCreate(cmd *cobra.Command, args []string) error {
	if pageSpaceFlag == "" || pageTitleFlag == "" {
		return errors.NewError("--space and --title are required", errors.ExitValidationError)
	}
	spaceKey, err := validation.SpaceKey(pageSpaceFlag)
	if err != nil {
		return err
	}
	title, err := validation.Title(pageTitleFlag)
	if err != nil {
		return err
	}
	parentID := pageParentFlag
	if parentID != "" {
		if parentID, err = validation.ID(pageParentFlag, "parent_id"); err != nil {
			return err
		}
	}

	input, err := readInput(args)
	if err != nil {
		return errors.WrapError(err, "failed to read input", errors.ExitIOError)
	}
	storage, err := toStorage(pageInputFlag, input)
	if err != nil {
		return err
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	page, err := cc.Client.CreatePage(cmd.Context(), spaceKey, title, storage, parentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created page %s: %s\n", page.ID, page.Title)
	return nil
}

var pageUpdateCmd = &cobra.Command{
	Use:   "update <page-id> [file]",
	Short: "Replace a page body",
	Long: `Replace a page's body, bumping its version. The current title and
version are read from the API first; --title renames the page. A
concurrent edit surfaces as a version conflict (exit code 7).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPageUpdate,
}

func runPageUpdate(cmd *cobra.Command, args []string) error {
	pageID, err := validation.PageID(args[0])
	if err != nil {
		return err
	}
	if pageTitleFlag != "" {
		if _, err := validation.Title(pageTitleFlag); err != nil {
			return err
		}
	}

	input, err := readInput(args[1:])
	if err != nil {
		return errors.WrapError(err, "failed to read input", errors.ExitIOError)
	}
	storage, err := toStorage(pageInputFlag, input)
	if err != nil {
		return err
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	current, err := cc.Client.GetPage(cmd.Context(), pageID)
	if err != nil {
		return err
	}
	title := current.Title
	if pageTitleFlag != "" {
		title = pageTitleFlag
	}

	page, err := cc.Client.UpdatePageStorage(cmd.Context(), pageID, title, storage, current.Version.Number)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated page %s to version %d\n", page.ID, page.Version.Number)
	return nil
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete <page-id>",
	Short: "Delete a page",
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

		if err := cc.Client.DeletePage(cmd.Context(), pageID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted page %s\n", pageID)
		return nil
	},
}

var pageChildrenCmd = &cobra.Command{
	Use:   "children <page-id>",
	Short: "List the direct child pages of a page",
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

		children, err := cc.Client.GetChildPages(cmd.Context(), pageID, pageLimitFlag)
		if err != nil {
			return err
		}
		if len(children) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No child pages.")
			return nil
		}
		rows := make([][]string, 0, len(children))
		for _, p := range children {
			rows = append(rows, []string{p.ID, p.Title})
		}
		fmt.Fprint(cmd.OutOrStdout(), format.Table([]string{"ID", "TITLE"}, rows))
		return nil
	},
}

// toStorage converts CLI body input to storage format.
func toStorage(inputFormat, input string) (string, error) {
	switch inputFormat {
	case "markdown", "md":
		return convert.MarkdownToXHTML(input), nil
	case "xhtml", "storage":
		if err := convert.ValidateXHTML(input); err != nil {
			return "", errors.WrapError(err, "invalid storage-format XHTML", errors.ExitValidationError)
		}
		return input, nil
	case "text":
		return convert.DocumentToXHTML(convert.TextToDocument(input)), nil
	default:
		return "", errors.NewError(
			fmt.Sprintf("unknown input format %q (want markdown, xhtml, or text)", inputFormat),
			errors.ExitValidationError,
		)
	}
}

func init() {
	pageGetCmd.Flags().StringVar(&pageFormatFlag, "format", "summary", "Output: summary, markdown, xhtml, text, json")
	pageGetCmd.Flags().IntVar(&pagePreviewFlag, "preview", 200, "Preview length in the summary view, 0 for full text")

	pageCreateCmd.Flags().StringVar(&pageSpaceFlag, "space", "", "Space key (required)")
	pageCreateCmd.Flags().StringVar(&pageTitleFlag, "title", "", "Page title (required)")
	pageCreateCmd.Flags().StringVar(&pageParentFlag, "parent", "", "Parent page ID")
	pageCreateCmd.Flags().StringVar(&pageInputFlag, "input", "markdown", "Body format: markdown, xhtml, text")

	pageUpdateCmd.Flags().StringVar(&pageTitleFlag, "title", "", "New page title (default: keep current)")
	pageUpdateCmd.Flags().StringVar(&pageInputFlag, "input", "markdown", "Body format: markdown, xhtml, text")

	pageChildrenCmd.Flags().IntVar(&pageLimitFlag, "limit", 0, "Maximum results, 0 for all")

	pageCmd.AddCommand(pageGetCmd, pageCreateCmd, pageUpdateCmd, pageDeleteCmd, pageChildrenCmd)
	rootCmd.AddCommand(pageCmd)
}
