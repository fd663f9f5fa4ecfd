package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"procure/models"

	"github.com/spf13/cobra"
)

func DocumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Attach, list and fetch documents",
	}
	cmd.AddCommand(
		documentsListCmd(app),
		documentsUploadCmd(app),
		documentsDownloadCmd(app),
		documentsDeleteCmd(app),
	)
	return cmd
}

func parseRef(kind, id string) (models.EntityRef, error) {
	k, err := models.ParseEntityKind(kind)
	if err != nil {
		return models.EntityRef{}, err
	}
	n, err := parseID(id, string(k)+" id")
	if err != nil {
		return models.EntityRef{}, err
	}
	return models.EntityRef{Kind: k, ID: n}, nil
}

func documentsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [kind] [id]",
		Short: "List documents of a project, rfq, quote or requirement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}
			docs, err := app.Client.ListDocuments(cmd.Context(), ref)
			if err != nil {
				return err
			}
			renderTable(app.Out, documentHeaders, documentRows(docs))
			return nil
		},
	}
}

func documentsUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [kind] [id] [file]",
		Short: "Upload a file and attach it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}
			f, err := os.Open(args[2])
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := app.Client.UploadDocument(cmd.Context(), ref, filepath.Base(args[2]), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Uploaded %s as document %d", doc.OriginalName, doc.ID)))
			return nil
		},
	}
}

func documentsDownloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "download [doc-id] [dest]",
		Short: "Save a document to a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "document id")
			if err != nil {
				return err
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			n, err := app.Client.DownloadDocument(cmd.Context(), id, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(args[1])
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Saved %d bytes to %s", n, args[1])))
			return nil
		},
	}
}

func documentsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [doc-id]",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "document id")
			if err != nil {
				return err
			}
			if err := app.confirm(cmd, fmt.Sprintf("Delete document %d?", id)); err != nil {
				return err
			}
			resp, err := app.Client.DeleteDocument(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, resp.Message)
			return nil
		},
	}
	addYesFlag(cmd)
	return cmd
}
