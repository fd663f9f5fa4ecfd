package cli

import (
	"fmt"

	"procure/internal/apiclient"
	"procure/internal/dashboard"
	"procure/models"

	"github.com/spf13/cobra"
)

// DashboardCmd shows the home screen for the signed-in user's role.
func DashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for your role",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := app.Session.CurrentUser()
			if user == nil {
				return apiclient.ErrAuthRequired
			}
			if user.Role == models.RoleVendor {
				view, err := app.Dashboard.VendorDashboard(cmd.Context(), *user)
				if err != nil {
					return err
				}
				renderVendorDashboard(app, view)
				return nil
			}
			view, err := app.Dashboard.OwnerDashboard(cmd.Context())
			if err != nil {
				return err
			}
			renderOwnerDashboard(app, view)
			return nil
		},
	}
}

func renderOwnerDashboard(app *App, view *dashboard.OwnerView) {
	fmt.Fprintln(app.Out, titleStyle.Render("Projects"))
	rows := make([][]string, 0, len(view.Projects))
	for _, p := range view.Projects {
		rows = append(rows, []string{
			itoa(p.Project.ID), p.Project.Name, models.FormatDate(p.Project.Deadline), itoa(p.OpenRfqs), itoa(p.ClosedRfqs),
		})
	}
	renderTable(app.Out, []string{"ID", "Name", "Deadline", "Open RFQs", "Closed RFQs"}, rows)
	renderWarnings(app.Out, view.Warnings)
}

func vendorRfqRows(rows []dashboard.RfqRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		quoted, amount, status := "no", "-", "-"
		if r.Quoted {
			quoted = "yes"
			amount = money(r.Quote.TotalAmount)
			status = string(r.Quote.Status)
		}
		out = append(out, []string{
			itoa(r.Rfq.ID), r.Rfq.Title, models.FormatDate(r.Rfq.Deadline), quoted, status, amount,
		})
	}
	return out
}

func renderVendorDashboard(app *App, view *dashboard.VendorView) {
	if view.Vendor != nil {
		fmt.Fprintln(app.Out, titleStyle.Render(view.Vendor.CompanyName))
	} else {
		fmt.Fprintln(app.Out, mutedStyle.Render("No vendor profile yet. Create one with `procure vendors create`."))
	}
	headers := []string{"RFQ", "Title", "Deadline", "Quoted", "Status", "Amount"}
	fmt.Fprintln(app.Out, titleStyle.Render("Open RFQs"))
	renderTable(app.Out, headers, vendorRfqRows(view.OpenRfqs))
	fmt.Fprintln(app.Out, titleStyle.Render("Closed RFQs"))
	renderTable(app.Out, headers, vendorRfqRows(view.ClosedRfqs))
	renderWarnings(app.Out, view.Warnings)
}
