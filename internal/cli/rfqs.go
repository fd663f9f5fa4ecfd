package cli

import (
	"fmt"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/spf13/cobra"
)

func RfqsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rfqs",
		Short: "Manage requests for quotation",
	}
	cmd.AddCommand(
		rfqsListCmd(app),
		rfqsShowCmd(app),
		rfqsCreateCmd(app),
		rfqsUpdateCmd(app),
		rfqsDeleteCmd(app),
	)
	return cmd
}

func rfqsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List RFQs, optionally by project and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetInt("project")
			status, _ := cmd.Flags().GetString("status")
			rfqs, err := app.Client.ListRfqs(cmd.Context(), apiclient.RfqQuery{ProjectID: projectID, Status: models.RfqStatus(status)})
			if err != nil {
				return err
			}
			renderTable(app.Out, rfqHeaders, rfqRows(rfqs))
			return nil
		},
	}
	cmd.Flags().Int("project", 0, "Only RFQs of this project")
	cmd.Flags().String("status", "", "open, closed or awarded")
	return cmd
}

func rfqsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show an RFQ with its quotes and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "rfq id")
			if err != nil {
				return err
			}
			view, err := app.Dashboard.RfqDetail(cmd.Context(), id)
			if err != nil {
				return err
			}
			r := view.Rfq
			renderFields(app.Out, r.Title, [][2]string{
				{"ID", itoa(r.ID)},
				{"Project", itoa(r.ProjectID)},
				{"Status", string(r.Status)},
				{"Deadline", models.FormatDate(r.Deadline)},
				{"Contact", r.ContactPerson},
				{"Email", r.ContactEmail},
				{"Phone", r.ContactPhone},
				{"Description", r.Description},
				{"Special requirements", r.SpecialRequirements},
			})
			renderWarnings(app.Out, view.Warnings)
			fmt.Fprintln(app.Out, titleStyle.Render("Quotes"))
			renderTable(app.Out, quoteHeaders, quoteRows(view.Quotes))
			fmt.Fprintln(app.Out, titleStyle.Render("Documents"))
			renderTable(app.Out, documentHeaders, documentRows(view.Documents))
			if view.Awardable {
				fmt.Fprintln(app.Out, mutedStyle.Render(fmt.Sprintf("Award with: procure award %d <quote-id>", r.ID)))
			}
			return nil
		},
	}
}

func addRfqFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "Title")
	f.String("description", "", "Description")
	f.String("deadline", "", "Deadline (YYYY-MM-DD)")
	f.String("contact", "", "Contact person")
	f.String("contact-email", "", "Contact email")
	f.String("contact-phone", "", "Contact phone")
	f.String("special", "", "Special requirements")
}

func rfqsCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue an RFQ for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			in := apiclient.RfqInput{}
			in.ProjectID, _ = f.GetInt("project")
			in.Title, _ = f.GetString("title")
			in.Description, _ = f.GetString("description")
			in.Deadline, _ = f.GetString("deadline")
			in.ContactPerson, _ = f.GetString("contact")
			in.ContactEmail, _ = f.GetString("contact-email")
			in.ContactPhone, _ = f.GetString("contact-phone")
			in.SpecialRequirements, _ = f.GetString("special")
			rfq, err := app.Client.CreateRfq(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Created RFQ %d", rfq.ID)))
			return nil
		},
	}
	cmd.Flags().Int("project", 0, "Project id")
	addRfqFlags(cmd)
	return cmd
}

func rfqsUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change RFQ fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "rfq id")
			if err != nil {
				return err
			}
			in := apiclient.RfqUpdate{
				Title:               changedString(cmd, "title"),
				Description:         changedString(cmd, "description"),
				Deadline:            changedString(cmd, "deadline"),
				ContactPerson:       changedString(cmd, "contact"),
				ContactEmail:        changedString(cmd, "contact-email"),
				ContactPhone:        changedString(cmd, "contact-phone"),
				SpecialRequirements: changedString(cmd, "special"),
			}
			if s := changedString(cmd, "status"); s != nil {
				status := models.RfqStatus(*s)
				in.Status = &status
			}
			rfq, err := app.Client.UpdateRfq(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Updated RFQ %d (%s)", rfq.ID, rfq.Status)))
			return nil
		},
	}
	addRfqFlags(cmd)
	cmd.Flags().String("status", "", "open, closed or awarded")
	return cmd
}

func rfqsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an RFQ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "rfq id")
			if err != nil {
				return err
			}
			if err := app.confirm(cmd, fmt.Sprintf("Delete RFQ %d?", id)); err != nil {
				return err
			}
			resp, err := app.Client.DeleteRfq(cmd.Context(), id)
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
