package cli

import (
	"fmt"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/spf13/cobra"
)

func QuotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Manage quotes",
	}
	cmd.AddCommand(
		quotesListCmd(app),
		quotesShowCmd(app),
		quotesSubmitCmd(app),
		quotesUpdateCmd(app),
		quotesDeleteCmd(app),
	)
	return cmd
}

func quotesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes of an RFQ, of a vendor, or all",
		RunE: func(cmd *cobra.Command, args []string) error {
			rfqID, _ := cmd.Flags().GetInt("rfq")
			vendorID, _ := cmd.Flags().GetInt("vendor")
			var (
				quotes []models.Quote
				err    error
			)
			switch {
			case rfqID > 0:
				quotes, err = app.Client.ListQuotesByRfq(cmd.Context(), rfqID)
			case vendorID > 0:
				quotes, err = app.Client.ListQuotesByVendor(cmd.Context(), vendorID)
			default:
				quotes, err = app.Client.ListQuotes(cmd.Context())
			}
			if err != nil {
				return err
			}
			renderTable(app.Out, quoteHeaders, quoteRows(quotes))
			return nil
		},
	}
	cmd.Flags().Int("rfq", 0, "Only quotes for this RFQ")
	cmd.Flags().Int("vendor", 0, "Only quotes by this vendor")
	return cmd
}

func quotesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "quote id")
			if err != nil {
				return err
			}
			q, err := app.Client.GetQuote(cmd.Context(), id)
			if err != nil {
				return err
			}
			fields := [][2]string{
				{"ID", itoa(q.ID)},
				{"Code", q.CustomID},
				{"RFQ", itoa(q.RfqID)},
				{"Status", string(q.Status)},
				{"Amount", money(q.TotalAmount)},
			}
			if q.VendorDetails != nil {
				fields = append(fields, [2]string{"Vendor", q.VendorDetails.CompanyName})
			}
			if q.ProjectDetails != nil {
				fields = append(fields, [2]string{"Project", q.ProjectDetails.Name})
			}
			renderFields(app.Out, "Quote "+itoa(q.ID), fields)
			return nil
		},
	}
}

func quotesSubmitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a quote for an RFQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			rfqID, _ := cmd.Flags().GetInt("rfq")
			vendorID, _ := cmd.Flags().GetInt("vendor")
			amount, _ := cmd.Flags().GetFloat64("amount")
			if vendorID == 0 && app.Session != nil && app.Session.CurrentUser() != nil {
				v, err := app.Client.GetVendorByUser(cmd.Context(), app.Session.CurrentUser().ID)
				if err != nil {
					return err
				}
				vendorID = v.ID
			}
			q, err := app.Client.CreateQuote(cmd.Context(), rfqID, vendorID, amount)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Submitted quote %d for %s", q.ID, money(q.TotalAmount))))
			return nil
		},
	}
	cmd.Flags().Int("rfq", 0, "RFQ id")
	cmd.Flags().Int("vendor", 0, "Vendor id (defaults to the signed-in vendor)")
	cmd.Flags().Float64("amount", 0, "Total amount")
	return cmd
}

func quotesUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Revise the status or amount of a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "quote id")
			if err != nil {
				return err
			}
			in := apiclient.QuoteUpdate{TotalAmount: changedFloat(cmd, "amount")}
			if s := changedString(cmd, "status"); s != nil {
				status := models.QuoteStatus(*s)
				in.Status = &status
			}
			q, err := app.Client.UpdateQuote(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, successStyle.Render(fmt.Sprintf("Quote %d is %s at %s", q.ID, q.Status, money(q.TotalAmount))))
			return nil
		},
	}
	cmd.Flags().String("status", "", "draft, submitted, revised, accepted or rejected")
	cmd.Flags().Float64("amount", 0, "Total amount")
	return cmd
}

func quotesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Withdraw a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "quote id")
			if err != nil {
				return err
			}
			if err := app.confirm(cmd, fmt.Sprintf("Delete quote %d?", id)); err != nil {
				return err
			}
			resp, err := app.Client.DeleteQuote(cmd.Context(), id)
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
