package models_test

import (
	"testing"

	"procure/models"

	"github.com/stretchr/testify/require"
)

func TestRequirementTotal(t *testing.T) {
	rate := 350.0
	req := models.Requirement{ItemName: "Cement", Quantity: 50, Unit: "bags", Rate: &rate}
	require.Equal(t, 17500.0, req.Total())

	req.Rate = nil
	require.Zero(t, req.Total())
}

func TestParseEntityKind(t *testing.T) {
	for _, s := range []string{"project", "rfq", "quote", "requirement"} {
		k, err := models.ParseEntityKind(s)
		require.NoError(t, err)
		require.Equal(t, s, string(k))
	}

	_, err := models.ParseEntityKind("vendor")
	require.Error(t, err)
}

func TestStatuses(t *testing.T) {
	require.True(t, models.RfqAwarded.Valid())
	require.False(t, models.RfqStatus("archived").Valid())
	require.True(t, models.QuoteRevised.Valid())
	require.False(t, models.QuoteStatus("won").Valid())
	require.True(t, models.RoleVendor.Valid())
	require.False(t, models.Role("admin").Valid())
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "Mar 5, 2025", models.FormatDate("2025-03-05"))
	require.Equal(t, "Mar 5, 2025", models.FormatDate("2025-03-05T23:30:00Z"))
	require.Equal(t, "Mar 6, 2025", models.FormatDate("2025-03-05T23:30:00-02:00"))
	require.Equal(t, "N/A", models.FormatDate(""))
	require.Equal(t, "N/A", models.FormatDate("not a date"))
	require.Equal(t, "Mar 5, 2025, 11:30 PM", models.FormatDateTime("2025-03-05T23:30:00Z"))
}
