package reconcile

import (
	"sort"

	"billing-reconciliation/internal/domain"
)

type replacementKey struct {
	service string
	key     string
}

type narrativeAccumulator struct {
	stat         domain.NarrativeStat
	replacements map[replacementKey]*domain.Replacement
}

// AnalyseNarratives summarises every standard narrative that was classified,
// and for verbiage changes tallies what the client actually billed under the
// same service instead. Narratives are ranked by how often they were drafted.
func AnalyseNarratives(lines []domain.Classification, actual *Index, caps Caps) []domain.NarrativeStat {
	accs := make(map[string]*narrativeAccumulator)
	for _, l := range lines {
		acc, ok := accs[l.NarrativeKey]
		if !ok {
			acc = &narrativeAccumulator{
				stat:         domain.NarrativeStat{NarrativeKey: l.NarrativeKey, Narrative: l.Label},
				replacements: make(map[replacementKey]*domain.Replacement),
			}
			accs[l.NarrativeKey] = acc
		}
		acc.add(l, actual)
	}

	stats := make([]domain.NarrativeStat, 0, len(accs))
	for _, acc := range accs {
		stats = append(stats, acc.finish(caps.Replacements))
	}
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.TimesDrafted != b.TimesDrafted {
			return a.TimesDrafted > b.TimesDrafted
		}
		if !a.DraftTotal.Equal(b.DraftTotal) {
			return a.DraftTotal.GreaterThan(b.DraftTotal)
		}
		if a.Narrative != b.Narrative {
			return a.Narrative < b.Narrative
		}
		return a.NarrativeKey < b.NarrativeKey
	})
	return truncate(stats, caps.Narratives)
}

func (acc *narrativeAccumulator) add(l domain.Classification, actual *Index) {
	s := &acc.stat
	s.TimesDrafted++
	s.DraftTotal = s.DraftTotal.Add(l.DraftTotal)
	switch l.Kind {
	case domain.ChangeUnchanged:
		s.Unchanged++
	case domain.ChangeAmount:
		s.AmountChanged++
	case domain.ChangeVerbiage:
		s.VerbiageChanged++
	}
	if l.Kind != domain.ChangeVerbiage {
		return
	}

	bucket, ok := actual.Bucket(l.ClientID, l.ServiceCode)
	if !ok {
		return
	}
	for _, key := range sortedKeys(bucket.Lines) {
		if key == l.NarrativeKey {
			continue
		}
		rk := replacementKey{service: l.ServiceCode, key: key}
		r, ok := acc.replacements[rk]
		if !ok {
			r = &domain.Replacement{Service: l.ServiceCode, Text: bucket.Lines[key].Label}
			acc.replacements[rk] = r
		}
		r.Uses++
	}
}

func (acc *narrativeAccumulator) finish(maxReplacements int) domain.NarrativeStat {
	s := acc.stat
	s.PercentUnchanged = countRatio(s.Unchanged, s.TimesDrafted).Mul(oneHundred)

	replacements := make([]domain.Replacement, 0, len(acc.replacements))
	for _, r := range acc.replacements {
		replacements = append(replacements, *r)
	}
	sort.Slice(replacements, func(i, j int) bool {
		a, b := replacements[i], replacements[j]
		if a.Uses != b.Uses {
			return a.Uses > b.Uses
		}
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		return a.Text < b.Text
	})
	s.Replacements = truncate(replacements, maxReplacements)
	return s
}

// truncate keeps the first n items; a non-positive n keeps everything.
func truncate[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
