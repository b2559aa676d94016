package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"billing-reconciliation/internal/domain"
)

// LineEntry aggregates every line billed under one (client, service, narrative key).
type LineEntry struct {
	Label   string
	Amount  decimal.Decimal
	Sources []domain.Record
}

// ServiceBucket holds the narratives billed to one client under one service.
type ServiceBucket struct {
	Lines map[string]*LineEntry
	Total decimal.Decimal
}

// Totals is a bill / WIP pair.
type Totals struct {
	Bill decimal.Decimal
	WIP  decimal.Decimal
}

// ClientEntry aggregates one side of the billing for a client.
type ClientEntry struct {
	domain.Identity
	Totals

	// Labels maps each distinct narrative key to its display label.
	Labels map[string]string
	// LineTotals maps each narrative key to the amount billed under it.
	LineTotals    map[string]decimal.Decimal
	Services      map[string]*ServiceBucket
	ServiceTotals map[string]*Totals
}

// Index is the client -> service -> narrative key view of one side.
type Index struct {
	Clients map[string]*ClientEntry
}

func newIndex() *Index {
	return &Index{Clients: make(map[string]*ClientEntry)}
}

// BuildDraftIndex indexes draft lines.
func BuildDraftIndex(lines []domain.DraftLine) *Index {
	ix := newIndex()
	for _, l := range lines {
		c := ix.client(l.Identity)
		if c == nil {
			continue
		}
		c.Bill = c.Bill.Add(l.BillAmount)
		c.WIP = c.WIP.Add(l.WIPOutstanding)
		c.addServiceTotals(l.ServiceCode, l.BillAmount, l.WIPOutstanding)
		c.addNarrative(l.ServiceCode, l.Narrative, l.BillAmount, l.Source)
	}
	return ix
}

// BuildActualIndex indexes invoice lines. Invoice bill and WIP are counted
// per job; narratives feed the per-key totals.
func BuildActualIndex(lines []domain.ActualLine) *Index {
	ix := newIndex()
	for _, l := range lines {
		c := ix.client(l.Identity)
		if c == nil {
			continue
		}
		c.Bill = c.Bill.Add(l.BillAmount())
		c.WIP = c.WIP.Add(l.WIPOutstanding())
		if len(l.Jobs) > 0 {
			for _, j := range l.Jobs {
				c.addServiceTotals(j.ServiceCode, j.BillAmount, j.WIPOutstanding)
			}
		} else {
			for _, n := range l.Narratives {
				c.addServiceTotals(n.ServiceCode, n.BillAmount, decimal.Zero)
			}
		}
		for _, n := range l.Narratives {
			c.addNarrative(n.ServiceCode, n.Text, n.BillAmount, l.Source)
		}
	}
	return ix
}

// client returns the entry for the identity, creating it on first sight. It
// returns nil for an identity without a client id.
func (ix *Index) client(id domain.Identity) *ClientEntry {
	if id.ClientID == "" {
		return nil
	}
	c, ok := ix.Clients[id.ClientID]
	if !ok {
		c = &ClientEntry{
			Identity:      id,
			Labels:        make(map[string]string),
			LineTotals:    make(map[string]decimal.Decimal),
			Services:      make(map[string]*ServiceBucket),
			ServiceTotals: make(map[string]*Totals),
		}
		ix.Clients[id.ClientID] = c
		return c
	}
	fillIdentity(&c.Identity, id)
	return c
}

// fillIdentity replaces Unassigned display fields of dst with values from src.
func fillIdentity(dst *domain.Identity, src domain.Identity) {
	fill := func(to *string, from string) {
		if *to == domain.Unassigned && from != "" && from != domain.Unassigned {
			*to = from
		}
	}
	fill(&dst.ClientCode, src.ClientCode)
	fill(&dst.ClientName, src.ClientName)
	fill(&dst.Office, src.Office)
	fill(&dst.Partner, src.Partner)
	fill(&dst.Manager, src.Manager)
}

func (c *ClientEntry) addServiceTotals(service string, bill, wip decimal.Decimal) {
	t, ok := c.ServiceTotals[service]
	if !ok {
		t = &Totals{}
		c.ServiceTotals[service] = t
	}
	t.Bill = t.Bill.Add(bill)
	t.WIP = t.WIP.Add(wip)
}

func (c *ClientEntry) addNarrative(service, text string, amount decimal.Decimal, source domain.Record) {
	key := NormalizeNarrative(text)
	if key == "" {
		return
	}
	bucket, ok := c.Services[service]
	if !ok {
		bucket = &ServiceBucket{Lines: make(map[string]*LineEntry)}
		c.Services[service] = bucket
	}
	entry, ok := bucket.Lines[key]
	if !ok {
		entry = &LineEntry{Label: DisplayLabel(text)}
		bucket.Lines[key] = entry
	}
	entry.Amount = entry.Amount.Add(amount)
	if source != nil {
		entry.Sources = append(entry.Sources, source)
	}
	bucket.Total = bucket.Total.Add(amount)

	if _, seen := c.Labels[key]; !seen {
		c.Labels[key] = entry.Label
	}
	c.LineTotals[key] = c.LineTotals[key].Add(amount)
}

// Client returns the entry for a client id.
func (ix *Index) Client(clientID string) (*ClientEntry, bool) {
	c, ok := ix.Clients[clientID]
	return c, ok
}

// Bucket returns the narratives billed to a client under a service.
func (ix *Index) Bucket(clientID, service string) (*ServiceBucket, bool) {
	c, ok := ix.Clients[clientID]
	if !ok {
		return nil, false
	}
	b, ok := c.Services[service]
	return b, ok
}

// Line returns the entry for one (client, service, narrative key) triple.
func (ix *Index) Line(clientID, service, key string) (*LineEntry, bool) {
	b, ok := ix.Bucket(clientID, service)
	if !ok {
		return nil, false
	}
	e, ok := b.Lines[key]
	return e, ok
}

// ClientIDs returns the indexed client ids in ascending order.
func (ix *Index) ClientIDs() []string {
	return sortedKeys(ix.Clients)
}

// Realization is the client's bill / WIP ratio on this side.
func (t Totals) Realization() decimal.Decimal {
	return Realization(t.Bill, t.WIP)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
