// Package export writes the reconciliation detail as an audit workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"billing-reconciliation/internal/domain"
)

// Sheet names, in workbook order.
const (
	ClientsSheet    = "Clients"
	LinesSheet      = "Lines"
	NarrativesSheet = "Narratives"
)

var (
	clientHeader = []any{
		"Client ID", "Client Code", "Client Name", "Office", "Partner", "Manager",
		"Draft Bill", "Draft WIP", "Draft Realization",
		"Actual Bill", "Actual WIP", "Actual Realization",
		"Delta Bill", "Delta Realization",
		"Narrative Changes", "Unchanged Draft", "Has Draft", "Has Actual",
	}
	lineHeader = []any{
		"Client ID", "Service", "Narrative Key", "Narrative", "Classification", "Draft Total", "Actual Total",
	}
	narrativeHeader = []any{
		"Narrative Key", "Narrative", "Times Drafted", "Unchanged", "Amount Changed", "Verbiage Changed",
		"% Unchanged", "Draft Total", "Top Replacements",
	}
)

// WriteWorkbook writes the Clients, Lines and Narratives sheets for rec to w.
func WriteWorkbook(w io.Writer, rec *domain.Reconciliation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ClientsSheet); err != nil {
		return fmt.Errorf("could not name sheet: %w", err)
	}
	for _, name := range []string{LinesSheet, NarrativesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("could not create sheet %s: %w", name, err)
		}
	}

	clients := make([][]any, 0, len(rec.Clients))
	for _, c := range rec.Clients {
		clients = append(clients, []any{
			c.ClientID, c.ClientCode, c.ClientName, c.Office, c.Partner, c.Manager,
			num(c.DraftBill), num(c.DraftWIP), num(c.DraftRealization),
			num(c.ActualBill), num(c.ActualWIP), num(c.ActualRealization),
			num(c.DeltaBill), num(c.DeltaRealization),
			c.NarrativeChanges, c.UnchangedDraft, c.HasDraft, c.HasActual,
		})
	}
	lines := make([][]any, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		lines = append(lines, []any{
			l.ClientID, l.ServiceCode, l.NarrativeKey, l.Label, string(l.Kind), num(l.DraftTotal), num(l.ActualTotal),
		})
	}
	narratives := make([][]any, 0, len(rec.Narratives))
	for _, n := range rec.Narratives {
		narratives = append(narratives, []any{
			n.NarrativeKey, n.Narrative, n.TimesDrafted, n.Unchanged, n.AmountChanged, n.VerbiageChanged,
			num(n.PercentUnchanged), num(n.DraftTotal), replacements(n.Replacements),
		})
	}

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{ClientsSheet, clientHeader, clients},
		{LinesSheet, lineHeader, lines},
		{NarrativesSheet, narrativeHeader, narratives},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("could not write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("could not write %s row %d: %w", sheet, i+2, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("could not freeze %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(rows)+1), nil)
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func replacements(rs []domain.Replacement) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, fmt.Sprintf("%s [%s] x%d", r.Text, r.Service, r.Uses))
	}
	return strings.Join(parts, "; ")
}
