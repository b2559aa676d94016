package domain

// Payload is the bounded document consumed by the dashboard and by the
// report generator. It carries no raw source records.
type Payload struct {
	Period        string             `json:"period"`
	FirmSummary   PayloadFirmSummary `json:"firmSummary"`
	ByOffice      []PayloadGroup     `json:"byOffice"`
	ByService     []PayloadGroup     `json:"byService"`
	ByPartner     []PayloadGroup     `json:"byPartner"`
	ByManager     []PayloadGroup     `json:"byManager"`
	TopNarratives []PayloadNarrative `json:"topNarratives"`
	Sources       PayloadSources     `json:"sources"`
}

// PayloadFirmSummary is the display-ready firm summary.
type PayloadFirmSummary struct {
	TotalClients                int     `json:"totalClients"`
	ClientsWithDraft            int     `json:"clientsWithDraft"`
	ClientsWithActual           int     `json:"clientsWithActual"`
	DraftOnlyClients            int     `json:"draftOnlyClients"`
	ActualOnlyClients           int     `json:"actualOnlyClients"`
	TotalDrafts                 int     `json:"totalDrafts"`
	DraftsUnchanged             int     `json:"draftsUnchanged"`
	ClientsWithNarrativeChanges int     `json:"clientsWithNarrativeChanges"`
	AutoAcceptanceRate          float64 `json:"autoAcceptanceRate"`
	TargetAutoAcceptanceRate    float64 `json:"targetAutoAcceptanceRate"`
	MeetsTarget                 bool    `json:"meetsTarget"`
	DraftBill                   float64 `json:"draftBill"`
	DraftWIP                    float64 `json:"draftWip"`
	DraftRealization            float64 `json:"draftRealization"`
	ActualBill                  float64 `json:"actualBill"`
	ActualWIP                   float64 `json:"actualWip"`
	ActualRealization           float64 `json:"actualRealization"`
	DeltaBill                   float64 `json:"deltaBill"`
	DeltaRealization            float64 `json:"deltaRealization"`
	TotalLines                  int     `json:"totalLines"`
	LinesUnchanged              int     `json:"linesUnchanged"`
	LinesAmountChanged          int     `json:"linesAmountChanged"`
	LinesVerbiageChanged        int     `json:"linesVerbiageChanged"`
	LineAcceptanceRate          float64 `json:"lineAcceptanceRate"`
}

// PayloadGroup is one row of a grouped rollup.
type PayloadGroup struct {
	Key                string  `json:"key"`
	Clients            int     `json:"clients"`
	ComparedClients    int     `json:"comparedClients"`
	DraftBill          float64 `json:"draftBill"`
	DraftWIP           float64 `json:"draftWip"`
	DraftRealization   float64 `json:"draftRealization"`
	ActualBill         float64 `json:"actualBill"`
	ActualWIP          float64 `json:"actualWip"`
	ActualRealization  float64 `json:"actualRealization"`
	DeltaBill          float64 `json:"deltaBill"`
	DeltaRealization   float64 `json:"deltaRealization"`
	NarrativeChanges   int     `json:"narrativeChanges"`
	UnchangedDrafts    int     `json:"unchangedDrafts"`
	AutoAcceptanceRate float64 `json:"autoAcceptanceRate"`
}

// PayloadNarrative is one standard narrative with its top replacements.
type PayloadNarrative struct {
	Narrative                string        `json:"narrative"`
	TimesDrafted             int           `json:"timesDrafted"`
	Unchanged                int           `json:"unchanged"`
	AmountChanged            int           `json:"amountChanged"`
	VerbiageChanged          int           `json:"verbiageChanged"`
	PercentUnchanged         float64       `json:"percentUnchanged"`
	DraftTotal               float64       `json:"draftTotal"`
	TopReplacementNarratives []Replacement `json:"topReplacementNarratives"`
}

// PayloadSources reports the health of both inputs.
type PayloadSources struct {
	Draft  SourceStats `json:"draft"`
	Actual SourceStats `json:"actual"`
}
