package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"billing-reconciliation/internal/domain"
)

// FieldTable lists, per logical attribute, the source field names to try in
// order. The first candidate holding a non-empty value wins.
type FieldTable struct {
	ClientID   []string `toml:"client_id" yaml:"client_id"`
	ClientCode []string `toml:"client_code" yaml:"client_code"`
	ClientName []string `toml:"client_name" yaml:"client_name"`
	Office     []string `toml:"office" yaml:"office"`
	Partner    []string `toml:"partner" yaml:"partner"`
	Manager    []string `toml:"manager" yaml:"manager"`
	Service    []string `toml:"service" yaml:"service"`
	Narrative  []string `toml:"narrative" yaml:"narrative"`
	BillAmount []string `toml:"bill_amount" yaml:"bill_amount"`
	WIP        []string `toml:"wip" yaml:"wip"`
	Jobs       []string `toml:"jobs" yaml:"jobs"`
	Narratives []string `toml:"narratives" yaml:"narratives"`
}

// DefaultFieldTable returns the canonical precedence used by the dashboard.
func DefaultFieldTable() FieldTable {
	return FieldTable{
		ClientID:   []string{"BillingClient", "ContIndex", "ClientCode", "BillingClientCode"},
		ClientCode: []string{"ClientCode", "BillingClientCode", "Code"},
		ClientName: []string{"ClientName", "BillingClientName", "Name"},
		Office:     []string{"ClientOffice", "BillingOffice", "Office", "OfficeName"},
		Partner:    []string{"ClientPartnerName", "BillingPartnerName", "ClientPartner", "Partner", "PartnerName"},
		Manager:    []string{"ClientManagerName", "BillingManagerName", "ClientManager", "Manager", "ManagerName"},
		Service:    []string{"ServiceCode", "Service", "ServIndex", "ServiceName"},
		Narrative:  []string{"Narrative", "NarrativeText", "FeeNarrative", "Description"},
		BillAmount: []string{"BillAmount", "Amount", "DraftAmount", "FeeAmount"},
		WIP:        []string{"WIPOutstanding", "WipOutstanding", "WIP", "WipAmount"},
		Jobs:       []string{"JobSummary", "Jobs", "JobList"},
		Narratives: []string{"NarrativeSummary", "Narratives", "NarrativeList"},
	}
}

// Validate rejects tables with an empty candidate list.
func (t FieldTable) Validate() error {
	lists := []struct {
		name  string
		names []string
	}{
		{"client_id", t.ClientID},
		{"client_code", t.ClientCode},
		{"client_name", t.ClientName},
		{"office", t.Office},
		{"partner", t.Partner},
		{"manager", t.Manager},
		{"service", t.Service},
		{"narrative", t.Narrative},
		{"bill_amount", t.BillAmount},
		{"wip", t.WIP},
		{"jobs", t.Jobs},
		{"narratives", t.Narratives},
	}
	for _, l := range lists {
		if len(l.names) == 0 {
			return fmt.Errorf("field table: %s has no candidate names", l.name)
		}
	}
	return nil
}

// ResolveFirst returns the first non-empty candidate value, or "" when none is present.
func ResolveFirst(r domain.Record, candidates []string) string {
	for _, name := range candidates {
		if v := stringValue(r[name]); v != "" {
			return v
		}
	}
	return ""
}

// PickDisplayField is ResolveFirst with a fallback, domain.Unassigned when fallback is empty.
func PickDisplayField(r domain.Record, candidates []string, fallback string) string {
	if v := ResolveFirst(r, candidates); v != "" {
		return v
	}
	if fallback == "" {
		return domain.Unassigned
	}
	return fallback
}

// ResolveClientID returns the record's client id, or "" when the record cannot be attributed.
func (t FieldTable) ResolveClientID(r domain.Record) string {
	return ResolveFirst(r, t.ClientID)
}

func (t FieldTable) identity(r domain.Record) domain.Identity {
	return domain.Identity{
		ClientID:   t.ResolveClientID(r),
		ClientCode: PickDisplayField(r, t.ClientCode, domain.Unassigned),
		ClientName: PickDisplayField(r, t.ClientName, domain.Unassigned),
		Office:     PickDisplayField(r, t.Office, domain.Unassigned),
		Partner:    PickDisplayField(r, t.Partner, domain.Unassigned),
		Manager:    PickDisplayField(r, t.Manager, domain.Unassigned),
	}
}

// lookup returns the raw value of the first candidate that is present and not blank.
func lookup(r domain.Record, candidates []string) (any, bool) {
	for _, name := range candidates {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// stringValue renders scalar values as identifiers. Booleans, objects and
// arrays are treated as absent.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	default:
		return ""
	}
}
