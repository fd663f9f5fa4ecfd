package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"procure/db"
	"procure/internal/award"
	"procure/models"

	"github.com/spf13/cobra"
)

// AwardCmd closes an RFQ in favour of one quote.
func AwardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "award [rfq-id] [quote-id]",
		Short: "Award an RFQ to a quote and reject the others",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rfqID, err := parseID(args[0], "rfq id")
			if err != nil {
				return err
			}
			quoteID, err := parseID(args[1], "quote id")
			if err != nil {
				return err
			}
			awards, err := app.awards()
			if err != nil {
				return err
			}
			quotes, err := app.Client.ListQuotesByRfq(cmd.Context(), rfqID)
			if err != nil {
				return err
			}

			var confirmer award.Confirmer = award.ConfirmFunc(func(ctx context.Context, plan award.Plan) (bool, error) {
				renderPlan(app, plan)
				if err := app.confirm(cmd, "Proceed?"); err != nil {
					return false, nil
				}
				return true, nil
			})
			if yes, _ := cmd.Flags().GetBool("yes"); yes {
				confirmer = award.Confirmed
			}

			res, err := awards.Award(cmd.Context(), award.Request{RfqID: rfqID, WinningQuoteID: quoteID, Quotes: quotes}, confirmer)
			if err != nil {
				return err
			}
			renderAwardResult(app, res)
			return nil
		},
	}
	addYesFlag(cmd)
	return cmd
}

func renderPlan(app *App, plan award.Plan) {
	fmt.Fprintln(app.Out, titleStyle.Render(fmt.Sprintf("Award RFQ %d", plan.RfqID)))
	fmt.Fprintf(app.Out, "  accept quote %d (%s)\n", plan.Winner.ID, money(plan.Winner.TotalAmount))
	for _, q := range plan.Rejected {
		fmt.Fprintf(app.Out, "  reject quote %d (%s)\n", q.ID, money(q.TotalAmount))
	}
}

func renderAwardResult(app *App, res *award.Result) {
	fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Award complete (run %s)", res.RunID)))
	if res.RefreshErr != nil {
		fmt.Fprintln(app.Out, warnStyle.Render("! could not reload the RFQ: "+errorMessage(res.RefreshErr)))
		return
	}
	if res.Rfq != nil {
		fmt.Fprintf(app.Out, "RFQ %d is %s\n", res.Rfq.ID, res.Rfq.Status)
	}
	renderTable(app.Out, quoteHeaders, quoteRows(res.Quotes))
}

func AwardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "awards",
		Short: "Inspect and resume journaled award runs",
	}
	cmd.AddCommand(awardsListCmd(app), awardsShowCmd(app), awardsResumeCmd(app))
	return cmd
}

func awardsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent award runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			awards, err := app.awards()
			if err != nil {
				return err
			}
			runs, err := awards.Runs(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID, itoa(r.RfqID), itoa(r.WinningQuoteID), r.Status, models.FormatDateTime(r.CreatedAt.Format(time.RFC3339)), r.LastError,
				})
			}
			renderTable(app.Out, []string{"Run", "RFQ", "Winner", "Status", "Started", "Error"}, rows)
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "Number of runs")
	cmd.Flags().Int("offset", 0, "Runs to skip")
	return cmd
}

func awardsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show the steps of an award run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			awards, err := app.awards()
			if err != nil {
				return err
			}
			steps, err := awards.Steps(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderTable(app.Out, []string{"#", "Kind", "Target", "Status", "Done"}, stepRows(steps))
			return nil
		},
	}
}

func stepRows(steps []db.AwardStep) [][]string {
	rows := make([][]string, 0, len(steps))
	for _, st := range steps {
		done := "pending"
		if st.DoneAt != nil {
			done = models.FormatDateTime(st.DoneAt.Format(time.RFC3339))
		}
		rows = append(rows, []string{itoa(st.Seq), st.Kind, itoa(st.TargetID), st.TargetStatus, done})
	}
	return rows
}

func awardsResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume [run-id]",
		Short: "Finish an award run that stopped part-way",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			awards, err := app.awards()
			if err != nil {
				return err
			}
			res, err := awards.Resume(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			renderAwardResult(app, res)
			return nil
		},
	}
}
