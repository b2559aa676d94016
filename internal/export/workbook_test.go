package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billing-reconciliation/internal/domain"
)

func TestWriteWorkbook(t *testing.T) {
	rec := &domain.Reconciliation{
		Clients: []domain.ClientComparison{{
			Identity:   domain.Identity{ClientID: "C1", ClientName: "Acme Ltd", Office: "Leeds"},
			DraftBill:  decimal.RequireFromString("500"),
			ActualBill: decimal.RequireFromString("450.5"),
			DeltaBill:  decimal.RequireFromString("-49.5"),
			HasDraft:   true,
			HasActual:  true,
		}},
		Lines: []domain.Classification{{
			ClientID:     "C1",
			ServiceCode:  "TAX",
			NarrativeKey: "tax prep fee",
			Label:        "Tax prep fee",
			Kind:         domain.ChangeAmount,
			DraftTotal:   decimal.RequireFromString("500"),
			ActualTotal:  decimal.RequireFromString("450.5"),
		}},
		Narratives: []domain.NarrativeStat{{
			NarrativeKey: "tax prep fee",
			Narrative:    "Tax prep fee",
			TimesDrafted: 1,
			Replacements: []domain.Replacement{{Service: "TAX", Text: "Tax return", Uses: 1}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, rec))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ClientsSheet, LinesSheet, NarrativesSheet}, f.GetSheetList())

	clients, err := f.GetRows(ClientsSheet)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Client ID", clients[0][0])
	assert.Equal(t, "C1", clients[1][0])
	assert.Equal(t, "Acme Ltd", clients[1][2])
	assert.Equal(t, "-49.5", clients[1][12])

	lines, err := f.GetRows(LinesSheet)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "amount", lines[1][4])

	narratives, err := f.GetRows(NarrativesSheet)
	require.NoError(t, err)
	require.Len(t, narratives, 2)
	assert.Equal(t, "Tax return [TAX] x1", narratives[1][8])
}

func TestWriteWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, &domain.Reconciliation{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ClientsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
