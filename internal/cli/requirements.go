package cli

import (
	"fmt"

	"procure/internal/apiclient"

	"github.com/spf13/cobra"
)

func RequirementsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "Manage project requirements",
	}
	cmd.AddCommand(
		requirementsListCmd(app),
		requirementsAddCmd(app),
		requirementsUpdateCmd(app),
		requirementsDeleteCmd(app),
	)
	return cmd
}

func requirementsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [project-id]",
		Short: "List the requirements of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			reqs, err := app.Client.ListRequirementsByProject(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			renderTable(app.Out, requirementHeaders, requirementRows(reqs))
			total := 0.0
			for _, r := range reqs {
				total += r.Total()
			}
			fmt.Fprintf(app.Out, "Total estimate: %s\n", money(total))
			return nil
		},
	}
}

func addRequirementFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("item", "", "Item name")
	f.String("description", "", "Description")
	f.Float64("quantity", 0, "Quantity")
	f.String("unit", "", "Unit (bags, tonnes, m3...)")
	f.Float64("rate", 0, "Rate per unit")
	f.String("category", "", "Category")
}

func requirementsAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a requirement to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			in := apiclient.RequirementInput{Rate: changedFloat(cmd, "rate")}
			in.ProjectID, _ = f.GetInt("project")
			in.ItemName, _ = f.GetString("item")
			in.Description, _ = f.GetString("description")
			in.Quantity, _ = f.GetFloat64("quantity")
			in.Unit, _ = f.GetString("unit")
			in.Category, _ = f.GetString("category")
			req, err := app.Client.CreateRequirement(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Added requirement %d (total %s)", req.ID, money(req.Total()))))
			return nil
		},
	}
	cmd.Flags().Int("project", 0, "Project id")
	addRequirementFlags(cmd)
	return cmd
}

func requirementsUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change requirement fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "requirement id")
			if err != nil {
				return err
			}
			in := apiclient.RequirementUpdate{
				ItemName:    changedString(cmd, "item"),
				Description: changedString(cmd, "description"),
				Quantity:    changedFloat(cmd, "quantity"),
				Unit:        changedString(cmd, "unit"),
				Rate:        changedFloat(cmd, "rate"),
				Category:    changedString(cmd, "category"),
			}
			req, err := app.Client.UpdateRequirement(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Updated requirement %d (total %s)", req.ID, money(req.Total()))))
			return nil
		},
	}
	addRequirementFlags(cmd)
	return cmd
}

func requirementsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "requirement id")
			if err != nil {
				return err
			}
			if err := app.confirm(cmd, fmt.Sprintf("Delete requirement %d?", id)); err != nil {
				return err
			}
			resp, err := app.Client.DeleteRequirement(cmd.Context(), id)
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
