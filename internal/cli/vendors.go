package cli

import (
	"fmt"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/spf13/cobra"
)

func VendorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Manage vendor profiles",
	}
	cmd.AddCommand(
		vendorsListCmd(app),
		vendorsShowCmd(app),
		vendorsMeCmd(app),
		vendorsCreateCmd(app),
		vendorsUpdateCmd(app),
		vendorsDeleteCmd(app),
	)
	return cmd
}

var vendorHeaders = []string{"ID", "User", "Company", "Contact", "Email", "Phone"}

func vendorRows(vendors []models.Vendor) [][]string {
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, []string{itoa(v.ID), itoa(v.UserID), v.CompanyName, v.ContactPerson, v.Email, v.Phone})
	}
	return rows
}

func renderVendor(app *App, v *models.Vendor) {
	renderFields(app.Out, v.CompanyName, [][2]string{
		{"ID", itoa(v.ID)},
		{"User", itoa(v.UserID)},
		{"Contact", v.ContactPerson},
		{"Email", v.Email},
		{"Phone", v.Phone},
		{"Address", v.Address},
		{"GST", v.GSTNumber},
	})
}

func vendorsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vendors",
		RunE: func(cmd *cobra.Command, args []string) error {
			vendors, err := app.Client.ListVendors(cmd.Context())
			if err != nil {
				return err
			}
			renderTable(app.Out, vendorHeaders, vendorRows(vendors))
			return nil
		},
	}
}

func vendorsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "vendor id")
			if err != nil {
				return err
			}
			v, err := app.Client.GetVendor(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderVendor(app, v)
			return nil
		},
	}
}

func vendorsMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the vendor profile of the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := app.Session.CurrentUser()
			if user == nil {
				return apiclient.ErrAuthRequired
			}
			v, err := app.Client.GetVendorByUser(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			renderVendor(app, v)
			return nil
		},
	}
}

func addVendorFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("company", "", "Company name")
	f.String("contact", "", "Contact person")
	f.String("phone", "", "Phone")
	f.String("email", "", "Email")
	f.String("address", "", "Address")
	f.String("gst", "", "GST number")
}

func vendorsCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vendor profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			in := apiclient.VendorInput{}
			in.UserID, _ = f.GetInt("user")
			if in.UserID == 0 && app.Session != nil && app.Session.CurrentUser() != nil {
				in.UserID = app.Session.CurrentUser().ID
			}
			in.CompanyName, _ = f.GetString("company")
			in.ContactPerson, _ = f.GetString("contact")
			in.Phone, _ = f.GetString("phone")
			in.Email, _ = f.GetString("email")
			in.Address, _ = f.GetString("address")
			in.GSTNumber, _ = f.GetString("gst")
			v, err := app.Client.CreateVendor(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Created vendor %d (%s)", v.ID, v.CompanyName)))
			return nil
		},
	}
	cmd.Flags().Int("user", 0, "User id (defaults to the signed-in user)")
	addVendorFlags(cmd)
	return cmd
}

func vendorsUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change vendor fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "vendor id")
			if err != nil {
				return err
			}
			v, err := app.Client.UpdateVendor(cmd.Context(), id, apiclient.VendorUpdate{
				CompanyName:   changedString(cmd, "company"),
				ContactPerson: changedString(cmd, "contact"),
				Phone:         changedString(cmd, "phone"),
				Email:         changedString(cmd, "email"),
				Address:       changedString(cmd, "address"),
				GSTNumber:     changedString(cmd, "gst"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Updated vendor %d", v.ID)))
			return nil
		},
	}
	addVendorFlags(cmd)
	return cmd
}

func vendorsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a vendor profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "vendor id")
			if err != nil {
				return err
			}
			if err := app.confirm(cmd, fmt.Sprintf("Delete vendor %d?", id)); err != nil {
				return err
			}
			resp, err := app.Client.DeleteVendor(cmd.Context(), id)
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
