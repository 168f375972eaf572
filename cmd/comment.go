package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/errors"
	"github.com/grandcamel/confluence-skills/internal/format"
	"github.com/grandcamel/confluence-skills/internal/validation"
)

var commentInputFlag string

// commentCmd groups footer-comment operations under "page comment".
var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage footer comments",
}

var commentListCmd = &cobra.Command{
	Use:   "list <page-id>",
	Short: "List the footer comments on a page",
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

		comments, err := cc.Client.GetComments(cmd.Context(), pageID, 0)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), format.Comments(comments))
		return nil
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add <page-id> [file]",
	Short: "Add a footer comment",
	Long: `Add a footer comment to a page. The body comes from a file argument
or stdin as Markdown by default; --input xhtml accepts storage format
directly.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCommentAdd,
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	pageID, err := validation.PageID(args[0])
	if err != nil {
		return err
	}
	input, err := readInput(args[1:])
	if err != nil {
		return errors.WrapError(err, "failed to read input", errors.ExitIOError)
	}
	storage, err := toStorage(commentInputFlag, input)
	if err != nil {
		return err
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	comment, err := cc.Client.AddComment(cmd.Context(), pageID, storage)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added comment %s to page %s\n", comment.ID, pageID)
	return nil
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <comment-id> [file]",
	Short: "Replace a comment body",
	Long: `Replace a comment's body, bumping its version. The current version is
read from the page's comments first; a concurrent edit surfaces as a
version conflict (exit code 7).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCommentEdit,
}

func runCommentEdit(cmd *cobra.Command, args []string) error {
	commentID, err := validation.CommentID(args[0])
	if err != nil {
		return err
	}
	input, err := readInput(args[1:])
	if err != nil {
		return errors.WrapError(err, "failed to read input", errors.ExitIOError)
	}
	storage, err := toStorage(commentInputFlag, input)
	if err != nil {
		return err
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	// The content API serves comments from the same endpoint as pages.
	current, err := cc.Client.GetPage(cmd.Context(), commentID)
	if err != nil {
		return err
	}
	comment, err := cc.Client.UpdateComment(cmd.Context(), commentID, storage, current.Version.Number)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated comment %s to version %d\n", comment.ID, comment.Version.Number)
	return nil
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := validation.CommentID(args[0])
		if err != nil {
			return err
		}

		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		if err := cc.Client.DeleteComment(cmd.Context(), commentID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %s\n", commentID)
		return nil
	},
}

func init() {
	commentAddCmd.Flags().StringVar(&commentInputFlag, "input", "markdown", "Body format: markdown, xhtml, text")
	commentEditCmd.Flags().StringVar(&commentInputFlag, "input", "markdown", "Body format: markdown, xhtml, text")

	commentCmd.AddCommand(commentListCmd, commentAddCmd, commentEditCmd, commentDeleteCmd)
	pageCmd.AddCommand(commentCmd)
}
