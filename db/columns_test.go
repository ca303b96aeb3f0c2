package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	cases := map[string]string{
		"Status":            "status",
		"FullName":          "full_name",
		"TrackingCode":      "tracking_code",
		"UserID":            "user_id",
		"TaxID":             "tax_id",
		"IsVerified":        "is_verified",
		"CompletedProjects": "completed_projects",
		"UnitPrice":         "unit_price",
		"listingType":       "listing_type",
	}
	for field, want := range cases {
		require.Equal(t, want, columnName(field), "field %s", field)
	}
}
