package reconcile

import (
	"github.com/shopspring/decimal"

	"billing-reconciliation/internal/domain"
)

// Assemble shapes a reconciliation into the capped document published to the
// dashboard and the report generator.
func Assemble(period string, rec *domain.Reconciliation, caps Caps) *domain.Payload {
	f := rec.Firm
	p := &domain.Payload{
		Period: period,
		FirmSummary: domain.PayloadFirmSummary{
			TotalClients:                f.TotalClients,
			ClientsWithDraft:            f.ClientsWithDraft,
			ClientsWithActual:           f.ClientsWithActual,
			DraftOnlyClients:            f.DraftOnlyClients,
			ActualOnlyClients:           f.ActualOnlyClients,
			TotalDrafts:                 f.TotalDrafts,
			DraftsUnchanged:             f.DraftsUnchanged,
			ClientsWithNarrativeChanges: f.ClientsWithNarrativeChanges,
			AutoAcceptanceRate:          rate(f.AutoAcceptanceRate),
			TargetAutoAcceptanceRate:    rate(f.TargetAutoAcceptanceRate),
			MeetsTarget:                 f.MeetsTarget,
			DraftBill:                   money(f.DraftBill),
			DraftWIP:                    money(f.DraftWIP),
			DraftRealization:            rate(f.DraftRealization),
			ActualBill:                  money(f.ActualBill),
			ActualWIP:                   money(f.ActualWIP),
			ActualRealization:           rate(f.ActualRealization),
			DeltaBill:                   money(f.DeltaBill),
			DeltaRealization:            rate(f.DeltaRealization),
			TotalLines:                  f.Lines.Total,
			LinesUnchanged:              f.Lines.Unchanged,
			LinesAmountChanged:          f.Lines.AmountChanged,
			LinesVerbiageChanged:        f.Lines.VerbiageChanged,
			LineAcceptanceRate:          rate(f.Lines.AcceptanceRate),
		},
		ByOffice:      groups(rec.ByOffice, caps.Offices),
		ByService:     groups(rec.ByService, caps.Services),
		ByPartner:     groups(rec.ByPartner, caps.Partners),
		ByManager:     groups(rec.ByManager, caps.Managers),
		TopNarratives: narratives(rec.Narratives, caps),
		Sources:       domain.PayloadSources{Draft: rec.Draft, Actual: rec.Actual},
	}
	return p
}

func groups(in []domain.GroupSummary, limit int) []domain.PayloadGroup {
	in = truncate(in, limit)
	out := make([]domain.PayloadGroup, 0, len(in))
	for _, g := range in {
		out = append(out, domain.PayloadGroup{
			Key:                g.Key,
			Clients:            g.Clients,
			ComparedClients:    g.ComparedClients,
			DraftBill:          money(g.DraftBill),
			DraftWIP:           money(g.DraftWIP),
			DraftRealization:   rate(g.DraftRealization),
			ActualBill:         money(g.ActualBill),
			ActualWIP:          money(g.ActualWIP),
			ActualRealization:  rate(g.ActualRealization),
			DeltaBill:          money(g.DeltaBill),
			DeltaRealization:   rate(g.DeltaRealization),
			NarrativeChanges:   g.NarrativeChanges,
			UnchangedDrafts:    g.UnchangedDrafts,
			AutoAcceptanceRate: rate(g.AutoAcceptanceRate),
		})
	}
	return out
}

func narratives(in []domain.NarrativeStat, caps Caps) []domain.PayloadNarrative {
	in = truncate(in, caps.Narratives)
	out := make([]domain.PayloadNarrative, 0, len(in))
	for _, n := range in {
		replacements := make([]domain.Replacement, 0, len(n.Replacements))
		replacements = append(replacements, truncate(n.Replacements, caps.Replacements)...)
		out = append(out, domain.PayloadNarrative{
			Narrative:                n.Narrative,
			TimesDrafted:             n.TimesDrafted,
			Unchanged:                n.Unchanged,
			AmountChanged:            n.AmountChanged,
			VerbiageChanged:          n.VerbiageChanged,
			PercentUnchanged:         percent(n.PercentUnchanged),
			DraftTotal:               money(n.DraftTotal),
			TopReplacementNarratives: replacements,
		})
	}
	return out
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func rate(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}

func percent(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
