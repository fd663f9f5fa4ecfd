package cli

import (
	"fmt"
	"strconv"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/spf13/cobra"
)

func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, &apiclient.ValidationError{Field: what, Message: fmt.Sprintf("%s must be a positive number, got %q", what, arg)}
	}
	return id, nil
}

func ProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		projectsListCmd(app),
		projectsShowCmd(app),
		projectsCreateCmd(app),
		projectsUpdateCmd(app),
		projectsDeleteCmd(app),
	)
	return cmd
}

func projectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Client.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			renderTable(app.Out, projectHeaders, projectRows(projects))
			return nil
		},
	}
}

// projectsShowCmd prints the project overview: requirements, RFQs with
// their quotes, and attached documents.
func projectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a project with its requirements, RFQs and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			view, err := app.Dashboard.ProjectOverview(cmd.Context(), id)
			if err != nil {
				return err
			}
			p := view.Project
			renderFields(app.Out, p.Name, [][2]string{
				{"ID", itoa(p.ID)},
				{"Code", p.CustomID},
				{"Location", p.Location},
				{"Deadline", models.FormatDate(p.Deadline)},
				{"Description", p.Description},
			})
			renderWarnings(app.Out, view.Warnings)

			fmt.Fprintln(app.Out, titleStyle.Render("Requirements"))
			renderTable(app.Out, requirementHeaders, requirementRows(view.Requirements))
			fmt.Fprintf(app.Out, "Total estimate: %s\n", money(view.RequirementsTotal))

			fmt.Fprintln(app.Out, titleStyle.Render("Open RFQs"))
			for _, r := range view.OpenRfqs {
				fmt.Fprintf(app.Out, "%d  %s  (%d quotes, due %s)\n", r.Rfq.ID, r.Rfq.Title, len(r.Quotes), models.FormatDate(r.Rfq.Deadline))
			}
			fmt.Fprintln(app.Out, titleStyle.Render("Closed RFQs"))
			for _, r := range view.ClosedRfqs {
				winner := "no accepted quote"
				if r.Accepted != nil {
					winner = fmt.Sprintf("awarded to quote %d at %s", r.Accepted.ID, money(r.Accepted.TotalAmount))
				}
				fmt.Fprintf(app.Out, "%d  %s  %s\n", r.Rfq.ID, r.Rfq.Title, winner)
			}

			fmt.Fprintln(app.Out, titleStyle.Render("Documents"))
			renderTable(app.Out, documentHeaders, documentRows(view.Documents))
			return nil
		},
	}
}

func projectsCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			in := apiclient.ProjectInput{}
			in.Name, _ = f.GetString("name")
			in.Description, _ = f.GetString("description")
			in.Location, _ = f.GetString("location")
			in.Deadline, _ = f.GetString("deadline")
			p, err := app.Client.CreateProject(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Created project %d", p.ID)))
			return nil
		},
	}
	addProjectFlags(cmd)
	return cmd
}

func addProjectFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "Project name")
	f.String("description", "", "Description")
	f.String("location", "", "Site location")
	f.String("deadline", "", "Deadline (YYYY-MM-DD)")
}

func projectsUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			in := apiclient.ProjectUpdate{
				Name:        changedString(cmd, "name"),
				Description: changedString(cmd, "description"),
				Location:    changedString(cmd, "location"),
				Deadline:    changedString(cmd, "deadline"),
			}
			p, err := app.Client.UpdateProject(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Updated project %d", p.ID)))
			return nil
		},
	}
	addProjectFlags(cmd)
	return cmd
}

func projectsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			if err := app.confirm(cmd, fmt.Sprintf("Delete project %d?", id)); err != nil {
				return err
			}
			resp, err := app.Client.DeleteProject(cmd.Context(), id)
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
