package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCmd(app *App) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	root := &cobra.Command{
		Use:           "procure",
		Short:         "Procurement workflow client: projects, RFQs, quotes and awards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init(cmd.Context(), configPath, verbose)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		LoginCmd(app),
		RegisterCmd(app),
		LogoutCmd(app),
		WhoamiCmd(app),
		ProfileCmd(app),
		ForgotPasswordCmd(app),
		ResetPasswordCmd(app),
		ProjectsCmd(app),
		RequirementsCmd(app),
		RfqsCmd(app),
		QuotesCmd(app),
		VendorsCmd(app),
		DocumentsCmd(app),
		DashboardCmd(app),
		AwardCmd(app),
		AwardsCmd(app),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, app *App, args []string) int {
	defer app.Close()
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(app.Err, RenderError(err))
		return 1
	}
	return 0
}
