package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/errors"
	"github.com/grandcamel/confluence-skills/internal/format"
	"github.com/grandcamel/confluence-skills/internal/validation"
)

var attachOutFlag string

var attachCmd = &cobra.Command{
	Use:   "attach <page-id> <file>",
	Short: "Upload a file as a page attachment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageID, err := validation.PageID(args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return errors.WrapError(err, "failed to open file", errors.ExitIOError)
		}
		defer f.Close()

		cc, err := newCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		att, err := cc.Client.UploadAttachment(cmd.Context(), pageID, filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as attachment %s\n", att.Title, att.ID)
		return nil
	},
}

var attachmentsCmd = &cobra.Command{
	Use:   "attachments <page-id>",
	Short: "List the attachments of a page",
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

		atts, err := cc.Client.ListAttachments(cmd.Context(), pageID, 0)
		if err != nil {
			return err
		}
		if len(atts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No attachments.")
			return nil
		}
		rows := make([][]string, 0, len(atts))
		for _, a := range atts {
			rows = append(rows, []string{a.ID, a.Title, a.Metadata.MediaType, fmt.Sprintf("%d", a.Extensions.FileSize)})
		}
		fmt.Fprint(cmd.OutOrStdout(), format.Table([]string{"ID", "TITLE", "TYPE", "BYTES"}, rows))
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <page-id> <filename>",
	Short: "Download a page attachment by filename",
	Args:  cobra.ExactArgs(2),
	RunE:  runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	pageID, err := validation.PageID(args[0])
	if err != nil {
		return err
	}

	cc, err := newCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	atts, err := cc.Client.ListAttachments(cmd.Context(), pageID, 0)
	if err != nil {
		return err
	}
	for _, a := range atts {
		if a.Title != args[1] {
			continue
		}
		out := attachOutFlag
		if out == "" {
			out = a.Title
		}
		f, err := os.Create(out)
		if err != nil {
			return errors.WrapError(err, "failed to create output file", errors.ExitIOError)
		}
		defer f.Close()

		if err := cc.Client.DownloadAttachment(cmd.Context(), a.Links.Download, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s to %s\n", a.Title, out)
		return nil
	}
	return errors.NewError(
		fmt.Sprintf("page %s has no attachment named %q", pageID, args[1]),
		errors.ExitNotFoundError,
	)
}

func init() {
	downloadCmd.Flags().StringVar(&attachOutFlag, "out", "", "Output path (default: the attachment filename)")
	pageCmd.AddCommand(attachCmd, attachmentsCmd, downloadCmd)
}
