package reconcile

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"billing-reconciliation/internal/domain"
)

// labelSeparator joins the distinct narrative labels compared at client level.
const labelSeparator = " | "

// Aggregate rolls two indices up into the full reconciliation result.
func Aggregate(draft, actual *Index, opts Options) *domain.Reconciliation {
	lines := ClassifyAll(draft, actual)
	clients := CompareClients(draft, actual)
	return &domain.Reconciliation{
		Clients:    clients,
		Lines:      lines,
		Firm:       SummarizeFirm(clients, lines, decimal.NewFromFloat(opts.TargetAutoAcceptanceRate)),
		ByOffice:   GroupClients(clients, func(c domain.ClientComparison) string { return c.Office }),
		ByPartner:  GroupClients(clients, func(c domain.ClientComparison) string { return c.Partner }),
		ByManager:  GroupClients(clients, func(c domain.ClientComparison) string { return c.Manager }),
		ByService:  GroupServices(clients),
		Narratives: AnalyseNarratives(lines, actual, opts.Caps),
	}
}

// CompareClients builds one comparison row for every client present on
// either side, ordered by client id.
func CompareClients(draft, actual *Index) []domain.ClientComparison {
	ids := unionKeys(draft.Clients, actual.Clients)
	rows := make([]domain.ClientComparison, 0, len(ids))
	for _, id := range ids {
		d, hasDraft := draft.Client(id)
		a, hasActual := actual.Client(id)

		row := domain.ClientComparison{HasDraft: hasDraft, HasActual: hasActual}
		var dt, at Totals
		if hasDraft {
			row.Identity = d.Identity
			dt = d.Totals
		}
		if hasActual {
			at = a.Totals
			if hasDraft {
				fillIdentity(&row.Identity, a.Identity)
			} else {
				row.Identity = a.Identity
			}
		}

		row.DraftBill = dt.Bill
		row.DraftWIP = dt.WIP
		row.DraftRealization = dt.Realization()
		row.ActualBill = at.Bill
		row.ActualWIP = at.WIP
		row.ActualRealization = at.Realization()
		row.DeltaBill = at.Bill.Sub(dt.Bill)
		row.DeltaRealization = row.ActualRealization.Sub(row.DraftRealization)

		if hasDraft && hasActual {
			if labelsChanged(d.Labels, a.Labels) {
				row.NarrativeChanges = 1
			}
			if sameLineTotals(d.LineTotals, a.LineTotals) {
				row.UnchangedDraft = 1
			}
		}
		row.Services = compareServices(d, a)
		rows = append(rows, row)
	}
	return rows
}

func compareServices(d, a *ClientEntry) []domain.ServiceComparison {
	seen := make(map[string]struct{})
	for _, c := range []*ClientEntry{d, a} {
		if c == nil {
			continue
		}
		for s := range c.ServiceTotals {
			seen[s] = struct{}{}
		}
		for s := range c.Services {
			seen[s] = struct{}{}
		}
	}

	services := make([]domain.ServiceComparison, 0, len(seen))
	for _, s := range sortedKeys(seen) {
		sc := domain.ServiceComparison{ServiceCode: s}
		var db, ab *ServiceBucket
		if d != nil {
			if t, ok := d.ServiceTotals[s]; ok {
				sc.DraftBill, sc.DraftWIP = t.Bill, t.WIP
				sc.HasDraft = true
			}
			if b, ok := d.Services[s]; ok {
				db = b
				sc.HasDraft = true
			}
		}
		if a != nil {
			if t, ok := a.ServiceTotals[s]; ok {
				sc.ActualBill, sc.ActualWIP = t.Bill, t.WIP
				sc.HasActual = true
			}
			if b, ok := a.Services[s]; ok {
				ab = b
				sc.HasActual = true
			}
		}
		if db != nil && ab != nil {
			if labelsChanged(db.labels(), ab.labels()) {
				sc.NarrativeChanges = 1
			}
			if sameLineTotals(db.totals(), ab.totals()) {
				sc.UnchangedDraft = 1
			}
		}
		services = append(services, sc)
	}
	return services
}

func (b *ServiceBucket) labels() map[string]string {
	out := make(map[string]string, len(b.Lines))
	for k, e := range b.Lines {
		out[k] = e.Label
	}
	return out
}

func (b *ServiceBucket) totals() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b.Lines))
	for k, e := range b.Lines {
		out[k] = e.Amount
	}
	return out
}

// labelsChanged reports whether both sides carry narratives and their distinct
// labels, sorted and joined, differ textually.
func labelsChanged(draft, actual map[string]string) bool {
	if len(draft) == 0 || len(actual) == 0 {
		return false
	}
	return joinLabels(draft) != joinLabels(actual)
}

func joinLabels(labels map[string]string) string {
	distinct := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		distinct[l] = struct{}{}
	}
	return strings.Join(sortedKeys(distinct), labelSeparator)
}

// sameLineTotals reports whether two non-empty per-key totals match key for
// key to the cent.
func sameLineTotals(draft, actual map[string]decimal.Decimal) bool {
	if len(draft) == 0 || len(draft) != len(actual) {
		return false
	}
	for key, amount := range draft {
		other, ok := actual[key]
		if !ok || !SameCents(amount, other) {
			return false
		}
	}
	return true
}

type groupAccumulator struct {
	summary domain.GroupSummary
}

func (g *groupAccumulator) add(draftBill, draftWIP, actualBill, actualWIP decimal.Decimal, narrativeChanges, unchanged int, compared bool) {
	s := &g.summary
	s.Clients++
	if compared {
		s.ComparedClients++
		s.UnchangedDrafts += unchanged
	}
	s.DraftBill = s.DraftBill.Add(draftBill)
	s.DraftWIP = s.DraftWIP.Add(draftWIP)
	s.ActualBill = s.ActualBill.Add(actualBill)
	s.ActualWIP = s.ActualWIP.Add(actualWIP)
	s.NarrativeChanges += narrativeChanges
}

// finish derives realization from the summed bill and WIP, never from an
// average of per-client ratios.
func (g *groupAccumulator) finish() domain.GroupSummary {
	s := g.summary
	s.DraftRealization = Realization(s.DraftBill, s.DraftWIP)
	s.ActualRealization = Realization(s.ActualBill, s.ActualWIP)
	s.DeltaBill = s.ActualBill.Sub(s.DraftBill)
	s.DeltaRealization = s.ActualRealization.Sub(s.DraftRealization)
	s.AutoAcceptanceRate = countRatio(s.UnchangedDrafts, s.ComparedClients)
	return s
}

// GroupClients rolls client rows up by the key returned from keyOf.
func GroupClients(rows []domain.ClientComparison, keyOf func(domain.ClientComparison) string) []domain.GroupSummary {
	groups := make(map[string]*groupAccumulator)
	for _, row := range rows {
		g := groupFor(groups, keyOf(row))
		g.add(row.DraftBill, row.DraftWIP, row.ActualBill, row.ActualWIP, row.NarrativeChanges, row.UnchangedDraft, row.Compared())
	}
	return finishGroups(groups)
}

// GroupServices rolls the per-service slices of every client row up by service.
// A client counts once in each service it was billed or drafted under.
func GroupServices(rows []domain.ClientComparison) []domain.GroupSummary {
	groups := make(map[string]*groupAccumulator)
	for _, row := range rows {
		for _, s := range row.Services {
			g := groupFor(groups, s.ServiceCode)
			g.add(s.DraftBill, s.DraftWIP, s.ActualBill, s.ActualWIP, s.NarrativeChanges, s.UnchangedDraft, s.HasDraft && s.HasActual)
		}
	}
	return finishGroups(groups)
}

func groupFor(groups map[string]*groupAccumulator, key string) *groupAccumulator {
	if strings.TrimSpace(key) == "" {
		key = domain.Unassigned
	}
	g, ok := groups[key]
	if !ok {
		g = &groupAccumulator{summary: domain.GroupSummary{Key: key}}
		groups[key] = g
	}
	return g
}

// finishGroups orders groups by descending absolute bill delta, then by key.
func finishGroups(groups map[string]*groupAccumulator) []domain.GroupSummary {
	out := make([]domain.GroupSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.finish())
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].DeltaBill.Abs(), out[j].DeltaBill.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SummarizeFirm computes the firm-level KPIs. Bill and realization figures
// cover every client; auto-acceptance counts only clients with both sides.
func SummarizeFirm(rows []domain.ClientComparison, lines []domain.Classification, target decimal.Decimal) domain.FirmSummary {
	f := domain.FirmSummary{TargetAutoAcceptanceRate: target}
	for _, row := range rows {
		f.TotalClients++
		switch {
		case row.Compared():
			f.TotalDrafts++
			f.DraftsUnchanged += row.UnchangedDraft
			f.ClientsWithNarrativeChanges += row.NarrativeChanges
		case row.HasDraft:
			f.DraftOnlyClients++
		case row.HasActual:
			f.ActualOnlyClients++
		}
		if row.HasDraft {
			f.ClientsWithDraft++
		}
		if row.HasActual {
			f.ClientsWithActual++
		}
		f.DraftBill = f.DraftBill.Add(row.DraftBill)
		f.DraftWIP = f.DraftWIP.Add(row.DraftWIP)
		f.ActualBill = f.ActualBill.Add(row.ActualBill)
		f.ActualWIP = f.ActualWIP.Add(row.ActualWIP)
	}
	f.DraftRealization = Realization(f.DraftBill, f.DraftWIP)
	f.ActualRealization = Realization(f.ActualBill, f.ActualWIP)
	f.DeltaBill = f.ActualBill.Sub(f.DraftBill)
	f.DeltaRealization = f.ActualRealization.Sub(f.DraftRealization)
	f.AutoAcceptanceRate = countRatio(f.DraftsUnchanged, f.TotalDrafts)
	f.MeetsTarget = f.TotalDrafts > 0 && f.AutoAcceptanceRate.GreaterThanOrEqual(target)
	f.Lines = TallyLines(lines)
	return f
}

// TallyLines counts line classifications by kind.
func TallyLines(lines []domain.Classification) domain.LineTally {
	t := domain.LineTally{Total: len(lines)}
	for _, l := range lines {
		switch l.Kind {
		case domain.ChangeUnchanged:
			t.Unchanged++
		case domain.ChangeAmount:
			t.AmountChanged++
		case domain.ChangeVerbiage:
			t.VerbiageChanged++
		}
	}
	t.AcceptanceRate = countRatio(t.Unchanged, t.Total)
	return t
}

func unionKeys[A, B any](a map[string]A, b map[string]B) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	return sortedKeys(seen)
}
