package cli

import (
	"fmt"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/spf13/cobra"
)

func ProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or edit your account profile",
	}
	cmd.AddCommand(profileShowCmd(app), profileUpdateCmd(app))
	return cmd
}

func renderUser(app *App, u *models.User) {
	renderFields(app.Out, u.Name, [][2]string{
		{"ID", itoa(u.ID)},
		{"Email", u.Email},
		{"Role", string(u.Role)},
		{"Company", u.CompanyName},
		{"Contact", u.ContactPerson},
		{"Phone", u.Phone},
		{"Address", u.Address},
		{"GST", u.GSTNumber},
	})
}

func currentUserID(app *App) (int, error) {
	if app.Session == nil || app.Session.CurrentUser() == nil {
		return 0, apiclient.ErrAuthRequired
	}
	return app.Session.CurrentUser().ID, nil
}

func profileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile as the API has it",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := currentUserID(app)
			if err != nil {
				return err
			}
			u, err := app.Client.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderUser(app, u)
			return nil
		},
	}
}

func profileUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := currentUserID(app)
			if err != nil {
				return err
			}
			in := apiclient.UserUpdate{
				Name:          changedString(cmd, "name"),
				Email:         changedString(cmd, "email"),
				CompanyName:   changedString(cmd, "company"),
				ContactPerson: changedString(cmd, "contact"),
				Phone:         changedString(cmd, "phone"),
				Address:       changedString(cmd, "address"),
				GSTNumber:     changedString(cmd, "gst"),
			}
			if in == (apiclient.UserUpdate{}) {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}
			u, err := app.Client.UpdateUser(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			// сохраненная сессия должна видеть новые данные
			if err := app.Session.SetUser(cmd.Context(), *u); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Updated profile for %s", u.Name)))
			return nil
		},
	}
	f := cmd.Flags()
	f.String("name", "", "Display name")
	f.String("email", "", "Email")
	f.String("company", "", "Company name")
	f.String("contact", "", "Contact person")
	f.String("phone", "", "Phone")
	f.String("address", "", "Address")
	f.String("gst", "", "GST number")
	return cmd
}
