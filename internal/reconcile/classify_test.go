package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-reconciliation/internal/domain"
)

func TestClassify_NotApplicable(t *testing.T) {
	id := func(client string) domain.Identity {
		return domain.Identity{ClientID: client, Office: domain.Unassigned}
	}
	draft := BuildDraftIndex([]domain.DraftLine{
		{Identity: id("C1"), ServiceCode: "TAX", Narrative: "Tax prep fee", BillAmount: decimal.NewFromInt(500)},
		{Identity: id("C2"), ServiceCode: "TAX", Narrative: "Tax prep fee", BillAmount: decimal.NewFromInt(500)},
	})
	actual := BuildActualIndex([]domain.ActualLine{
		{Identity: id("C1"), Narratives: []domain.Narrative{{Text: "Tax prep fee", BillAmount: decimal.NewFromInt(500), ServiceCode: "TAX"}}},
		{Identity: id("C3"), Narratives: []domain.Narrative{{Text: "Tax prep fee", BillAmount: decimal.NewFromInt(500), ServiceCode: "TAX"}}},
	})

	tests := []struct {
		name    string
		client  string
		service string
		key     string
		wantOK  bool
	}{
		{name: "both sides with drafted triple", client: "C1", service: "TAX", key: "tax prep fee", wantOK: true},
		{name: "draft only client", client: "C2", service: "TAX", key: "tax prep fee"},
		{name: "actual only client", client: "C3", service: "TAX", key: "tax prep fee"},
		{name: "triple never drafted", client: "C1", service: "AUD", key: "tax prep fee"},
		{name: "unknown narrative key", client: "C1", service: "TAX", key: "bookkeeping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Classify(draft, actual, tt.client, tt.service, tt.key)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestBuildActualIndex_ServiceTotalsFollowJobs(t *testing.T) {
	ix := BuildActualIndex([]domain.ActualLine{{
		Identity: domain.Identity{ClientID: "C1", Office: domain.Unassigned},
		Jobs: []domain.Job{
			{ServiceCode: "TAX", BillAmount: decimal.NewFromInt(300), WIPOutstanding: decimal.NewFromInt(400)},
			{ServiceCode: "AUD", BillAmount: decimal.NewFromInt(200), WIPOutstanding: decimal.NewFromInt(100)},
		},
		Narratives: []domain.Narrative{
			{Text: "<b>Combined</b> fee", BillAmount: decimal.NewFromInt(500), ServiceCode: domain.MultipleServices},
			{Text: "", BillAmount: decimal.NewFromInt(10), ServiceCode: domain.MultipleServices},
		},
	}})

	c, ok := ix.Client("C1")
	require.True(t, ok)
	assert.Equal(t, "500", c.Bill.String())
	assert.Equal(t, "500", c.WIP.String())
	assert.Equal(t, "1", c.Realization().String())
	assert.Equal(t, "300", c.ServiceTotals["TAX"].Bill.String())
	assert.Equal(t, "100", c.ServiceTotals["AUD"].WIP.String())

	line, ok := ix.Line("C1", domain.MultipleServices, "combined fee")
	require.True(t, ok)
	assert.Equal(t, "Combined fee", line.Label)
	assert.Equal(t, "500", line.Amount.String())
	assert.Len(t, c.LineTotals, 1, "blank narratives are never indexed")
}
