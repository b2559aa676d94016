package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"billing-reconciliation/internal/domain"
)

func TestResolveFirst(t *testing.T) {
	candidates := []string{"BillingClient", "ContIndex", "ClientCode"}
	tests := []struct {
		name   string
		record domain.Record
		want   string
	}{
		{name: "first candidate wins", record: domain.Record{"BillingClient": "C1", "ContIndex": "C2"}, want: "C1"},
		{name: "blank candidates are skipped", record: domain.Record{"BillingClient": "  ", "ContIndex": nil, "ClientCode": "ABC"}, want: "ABC"},
		{name: "numeric ids render without exponent", record: domain.Record{"ContIndex": float64(12345678)}, want: "12345678"},
		{name: "json numbers", record: domain.Record{"ContIndex": json.Number("42")}, want: "42"},
		{name: "booleans are absent", record: domain.Record{"BillingClient": true}, want: ""},
		{name: "nothing present", record: domain.Record{"Other": "x"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFirst(tt.record, candidates))
		})
	}
}

func TestPickDisplayField(t *testing.T) {
	r := domain.Record{"Office": "Leeds"}
	assert.Equal(t, "Leeds", PickDisplayField(r, []string{"ClientOffice", "Office"}, domain.Unassigned))
	assert.Equal(t, domain.Unassigned, PickDisplayField(r, []string{"Partner"}, ""))
	assert.Equal(t, "None", PickDisplayField(r, []string{"Partner"}, "None"))
}

func TestFieldTable_Validate(t *testing.T) {
	assert.NoError(t, DefaultFieldTable().Validate())

	table := DefaultFieldTable()
	table.Office = nil
	assert.ErrorContains(t, table.Validate(), "office")
}
