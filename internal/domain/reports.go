package domain

import "github.com/shopspring/decimal"

// ServiceComparison restricts a client comparison to one service.
type ServiceComparison struct {
	ServiceCode      string          `json:"serviceCode"`
	DraftBill        decimal.Decimal `json:"draftBill"`
	DraftWIP         decimal.Decimal `json:"draftWip"`
	ActualBill       decimal.Decimal `json:"actualBill"`
	ActualWIP        decimal.Decimal `json:"actualWip"`
	NarrativeChanges int             `json:"narrativeChanges"`
	UnchangedDraft   int             `json:"unchangedDraft"`
	HasDraft         bool            `json:"hasDraft"`
	HasActual        bool            `json:"hasActual"`
}

// ClientComparison is the per-client draft vs actual row. Every grouped
// rollup is derived from these rows alone.
type ClientComparison struct {
	Identity
	DraftBill         decimal.Decimal     `json:"draftBill"`
	DraftWIP          decimal.Decimal     `json:"draftWip"`
	DraftRealization  decimal.Decimal     `json:"draftRealization"`
	ActualBill        decimal.Decimal     `json:"actualBill"`
	ActualWIP         decimal.Decimal     `json:"actualWip"`
	ActualRealization decimal.Decimal     `json:"actualRealization"`
	DeltaBill         decimal.Decimal     `json:"deltaBill"`
	DeltaRealization  decimal.Decimal     `json:"deltaRealization"`
	NarrativeChanges  int                 `json:"narrativeChanges"`
	UnchangedDraft    int                 `json:"unchangedDraft"`
	HasDraft          bool                `json:"hasDraft"`
	HasActual         bool                `json:"hasActual"`
	Services          []ServiceComparison `json:"services"`
}

// Compared reports whether the client has both a draft and an actual side.
func (c ClientComparison) Compared() bool {
	return c.HasDraft && c.HasActual
}

// GroupSummary is one row of an office, partner, manager or service rollup.
type GroupSummary struct {
	Key                string          `json:"key"`
	Clients            int             `json:"clients"`
	ComparedClients    int             `json:"comparedClients"`
	DraftBill          decimal.Decimal `json:"draftBill"`
	DraftWIP           decimal.Decimal `json:"draftWip"`
	DraftRealization   decimal.Decimal `json:"draftRealization"`
	ActualBill         decimal.Decimal `json:"actualBill"`
	ActualWIP          decimal.Decimal `json:"actualWip"`
	ActualRealization  decimal.Decimal `json:"actualRealization"`
	DeltaBill          decimal.Decimal `json:"deltaBill"`
	DeltaRealization   decimal.Decimal `json:"deltaRealization"`
	NarrativeChanges   int             `json:"narrativeChanges"`
	UnchangedDrafts    int             `json:"unchangedDrafts"`
	AutoAcceptanceRate decimal.Decimal `json:"autoAcceptanceRate"`
}

// LineTally counts line-level classifications.
type LineTally struct {
	Total           int             `json:"total"`
	Unchanged       int             `json:"unchanged"`
	AmountChanged   int             `json:"amountChanged"`
	VerbiageChanged int             `json:"verbiageChanged"`
	AcceptanceRate  decimal.Decimal `json:"acceptanceRate"`
}

// FirmSummary holds the firm-level KPIs of one reconciliation run.
type FirmSummary struct {
	TotalClients                int             `json:"totalClients"`
	ClientsWithDraft            int             `json:"clientsWithDraft"`
	ClientsWithActual           int             `json:"clientsWithActual"`
	DraftOnlyClients            int             `json:"draftOnlyClients"`
	ActualOnlyClients           int             `json:"actualOnlyClients"`
	TotalDrafts                 int             `json:"totalDrafts"`
	DraftsUnchanged             int             `json:"draftsUnchanged"`
	ClientsWithNarrativeChanges int             `json:"clientsWithNarrativeChanges"`
	AutoAcceptanceRate          decimal.Decimal `json:"autoAcceptanceRate"`
	TargetAutoAcceptanceRate    decimal.Decimal `json:"targetAutoAcceptanceRate"`
	MeetsTarget                 bool            `json:"meetsTarget"`
	DraftBill                   decimal.Decimal `json:"draftBill"`
	DraftWIP                    decimal.Decimal `json:"draftWip"`
	DraftRealization            decimal.Decimal `json:"draftRealization"`
	ActualBill                  decimal.Decimal `json:"actualBill"`
	ActualWIP                   decimal.Decimal `json:"actualWip"`
	ActualRealization           decimal.Decimal `json:"actualRealization"`
	DeltaBill                   decimal.Decimal `json:"deltaBill"`
	DeltaRealization            decimal.Decimal `json:"deltaRealization"`
	Lines                       LineTally       `json:"lines"`
}

// Replacement is a narrative that was billed instead of a standard one.
type Replacement struct {
	Service string `json:"service"`
	Text    string `json:"replacementText"`
	Uses    int    `json:"uses"`
}

// NarrativeStat summarises how one standard narrative fared across all drafts.
type NarrativeStat struct {
	NarrativeKey     string          `json:"narrativeKey"`
	Narrative        string          `json:"narrative"`
	TimesDrafted     int             `json:"timesDrafted"`
	Unchanged        int             `json:"unchanged"`
	AmountChanged    int             `json:"amountChanged"`
	VerbiageChanged  int             `json:"verbiageChanged"`
	PercentUnchanged decimal.Decimal `json:"percentUnchanged"`
	DraftTotal       decimal.Decimal `json:"draftTotal"`
	Replacements     []Replacement   `json:"topReplacementNarratives"`
}

// SourceStats describes what one side of the reconciliation contributed.
type SourceStats struct {
	Available bool `json:"available"`
	Records   int  `json:"records"`
	Dropped   int  `json:"droppedRecords"`
	Malformed int  `json:"malformedFields"`
}

// Reconciliation is the full, uncapped result of one engine run.
type Reconciliation struct {
	Clients    []ClientComparison `json:"clients"`
	Lines      []Classification   `json:"lines"`
	Firm       FirmSummary        `json:"firmSummary"`
	ByOffice   []GroupSummary     `json:"byOffice"`
	ByPartner  []GroupSummary     `json:"byPartner"`
	ByManager  []GroupSummary     `json:"byManager"`
	ByService  []GroupSummary     `json:"byService"`
	Narratives []NarrativeStat    `json:"narratives"`
	Draft      SourceStats        `json:"draft"`
	Actual     SourceStats        `json:"actual"`
}
