package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"procure/internal/apiclient"
	"procure/internal/award"
	"procure/internal/dashboard"
	"procure/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#E5484D")).
			Foreground(lipgloss.Color("#E5484D")).
			Padding(0, 1)

	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5A524"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#30A46C")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B8D98"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// RenderError turns err into the red-bordered block shown to the user.
func RenderError(err error) string {
	return errorStyle.Render(errorMessage(err))
}

func errorMessage(err error) string {
	var (
		vErr    *apiclient.ValidationError
		apiErr  *apiclient.APIError
		netErr  *apiclient.NetworkError
		stepErr *award.StepError
	)
	switch {
	case errors.Is(err, errAborted):
		return "Aborted."
	case errors.Is(err, apiclient.ErrAuthRequired):
		return "You are not logged in. Run `procure login` first."
	case errors.Is(err, apiclient.ErrInvalidCredentials):
		return apiclient.ErrInvalidCredentials.Error()
	case errors.As(err, &stepErr):
		return fmt.Sprintf("Award stopped at step %d (%s %d -> %s): %s\nSteps before it were applied. Resume with: procure awards resume %s",
			stepErr.Step.Seq, stepErr.Step.Kind, stepErr.Step.TargetID, stepErr.Step.TargetStatus,
			errorMessage(stepErr.Err), stepErr.RunID)
	case errors.Is(err, apiclient.ErrSessionExpired):
		return apiclient.ErrSessionExpired.Error()
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &netErr):
		return "Failed to connect to the server. Check your connection and the API address."
	}
	return err.Error()
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("(none)"))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func renderFields(w io.Writer, title string, fields [][2]string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	width := 0
	for _, f := range fields {
		width = max(width, len(f[0]))
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", mutedStyle.Render(f[0]+strings.Repeat(" ", width-len(f[0]))), f[1])
	}
}

func renderWarnings(w io.Writer, warnings []dashboard.Warning) {
	for _, warn := range warnings {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("! %s unavailable: %s", warn.Collection, warn.Message)))
	}
}

func money(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', 2, 64)
}

func itoa(v int) string { return strconv.Itoa(v) }

func projectRows(projects []models.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{itoa(p.ID), p.CustomID, p.Name, p.Location, models.FormatDate(p.Deadline)})
	}
	return rows
}

func rfqRows(rfqs []models.Rfq) [][]string {
	rows := make([][]string, 0, len(rfqs))
	for _, r := range rfqs {
		rows = append(rows, []string{itoa(r.ID), itoa(r.ProjectID), r.Title, string(r.Status), models.FormatDate(r.Deadline)})
	}
	return rows
}

func quoteRows(quotes []models.Quote) [][]string {
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		vendor := itoa(q.VendorID)
		if q.VendorDetails != nil && q.VendorDetails.CompanyName != "" {
			vendor = q.VendorDetails.CompanyName
		}
		rows = append(rows, []string{itoa(q.ID), q.CustomID, itoa(q.RfqID), vendor, string(q.Status), money(q.TotalAmount)})
	}
	return rows
}

func requirementRows(reqs []models.Requirement) [][]string {
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		rate := "-"
		if r.Rate != nil {
			rate = money(*r.Rate)
		}
		rows = append(rows, []string{
			itoa(r.ID), r.ItemName, strconv.FormatFloat(r.Quantity, 'f', -1, 64), r.Unit, rate, money(r.Total()), r.Category,
		})
	}
	return rows
}

func documentRows(docs []models.Document) [][]string {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{itoa(d.ID), d.OriginalName, d.MimeType, strconv.FormatInt(d.FileSize, 10)})
	}
	return rows
}

var (
	projectHeaders     = []string{"ID", "Code", "Name", "Location", "Deadline"}
	rfqHeaders         = []string{"ID", "Project", "Title", "Status", "Deadline"}
	quoteHeaders       = []string{"ID", "Code", "RFQ", "Vendor", "Status", "Amount"}
	requirementHeaders = []string{"ID", "Item", "Qty", "Unit", "Rate", "Total", "Category"}
	documentHeaders    = []string{"ID", "Name", "Type", "Bytes"}
)
