package reconcile

import (
	"github.com/shopspring/decimal"

	"billing-reconciliation/internal/domain"
)

// Classify decides what happened to one drafted (client, service, narrative key)
// triple on the actual invoices. ok is false when the triple does not apply:
// the client is missing from either side or the draft never proposed it.
func Classify(draft, actual *Index, clientID, service, key string) (result domain.Classification, ok bool) {
	if _, found := actual.Client(clientID); !found {
		return domain.Classification{}, false
	}
	line, found := draft.Line(clientID, service, key)
	if !found {
		return domain.Classification{}, false
	}

	result = domain.Classification{
		ClientID:     clientID,
		ServiceCode:  service,
		NarrativeKey: key,
		Label:        line.Label,
		DraftTotal:   line.Amount,
		ActualTotal:  decimal.Zero,
	}

	bucket, found := actual.Bucket(clientID, service)
	if !found {
		result.Kind = domain.ChangeVerbiage
		return result, true
	}
	if match, found := bucket.Lines[key]; found {
		result.ActualTotal = match.Amount
		if SameCents(line.Amount, match.Amount) {
			result.Kind = domain.ChangeUnchanged
		} else {
			result.Kind = domain.ChangeAmount
		}
		return result, true
	}
	result.Kind = domain.ChangeVerbiage
	result.ActualTotal = bucket.Total
	return result, true
}

// ClassifyAll classifies every drafted triple of every client present on both
// sides, ordered by client, service and narrative key.
func ClassifyAll(draft, actual *Index) []domain.Classification {
	results := make([]domain.Classification, 0)
	for _, clientID := range draft.ClientIDs() {
		c := draft.Clients[clientID]
		for _, service := range sortedKeys(c.Services) {
			for _, key := range sortedKeys(c.Services[service].Lines) {
				if r, ok := Classify(draft, actual, clientID, service, key); ok {
					results = append(results, r)
				}
			}
		}
	}
	return results
}
