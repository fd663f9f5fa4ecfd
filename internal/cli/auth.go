package cli

import (
	"fmt"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/spf13/cobra"
)

func LoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := app.stringValue(cmd, "email", "Email")
			if err != nil {
				return err
			}
			password, err := app.stringValue(cmd, "password", "Password")
			if err != nil {
				return err
			}
			if email == "" {
				return apiclient.Required("email", "Email")
			}
			if password == "" {
				return apiclient.Required("password", "Password")
			}
			id, err := app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Logged in as %s (%s)", id.User.Name, id.User.Role)))
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	return cmd
}

func RegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			in := apiclient.RegisterInput{}
			in.Name, _ = f.GetString("name")
			in.Email, _ = f.GetString("email")
			in.Password, _ = f.GetString("password")
			in.CompanyName, _ = f.GetString("company")
			in.ContactPerson, _ = f.GetString("contact")
			in.Phone, _ = f.GetString("phone")
			in.Address, _ = f.GetString("address")
			in.GSTNumber, _ = f.GetString("gst")
			role, _ := f.GetString("role")
			in.Role = models.Role(role)

			id, err := app.Session.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Registered %s as %s", id.User.Email, id.User.Role)))
			return nil
		},
	}
	f := cmd.Flags()
	f.String("name", "", "Full name")
	f.String("email", "", "Email")
	f.String("password", "", "Password")
	f.String("role", string(models.RoleProjectOwner), "project_owner or vendor")
	f.String("company", "", "Company name")
	f.String("contact", "", "Contact person")
	f.String("phone", "", "Phone")
	f.String("address", "", "Address")
	f.String("gst", "", "GST number")
	return cmd
}

func LogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Logged out.")
			return nil
		},
	}
}

func WhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Session.ValidateToken(cmd.Context()) {
				return apiclient.ErrAuthRequired
			}
			u := app.Session.CurrentUser()
			renderFields(app.Out, u.Name, [][2]string{
				{"ID", itoa(u.ID)},
				{"Email", u.Email},
				{"Role", string(u.Role)},
				{"Company", u.CompanyName},
				{"Contact", u.ContactPerson},
				{"Phone", u.Phone},
				{"GST", u.GSTNumber},
			})
			return nil
		},
	}
}

func ForgotPasswordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := app.stringValue(cmd, "email", "Email")
			if err != nil {
				return err
			}
			if email == "" {
				return apiclient.Required("email", "Email")
			}
			msg, err := app.Session.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, msg)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func ResetPasswordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				return apiclient.Required("token", "Reset token")
			}
			password, err := app.stringValue(cmd, "password", "New password")
			if err != nil {
				return err
			}
			if password == "" {
				return apiclient.Required("password", "New password")
			}
			msg, err := app.Session.ResetPassword(cmd.Context(), token, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, msg)
			return nil
		},
	}
	cmd.Flags().String("token", "", "Reset token from the email")
	cmd.Flags().String("password", "", "New password (prompted when omitted)")
	return cmd
}
