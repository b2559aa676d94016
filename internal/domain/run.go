package domain

import "time"

// PeriodLayout is the bill-through date format used as a run period.
const PeriodLayout = "2006-01-02"

// Run is one archived reconciliation.
type Run struct {
	ID        string    `json:"id"`
	Period    string    `json:"period"`
	CreatedAt time.Time `json:"createdAt"`
	Payload   *Payload  `json:"payload"`
}

// RunSummary is the listing view of an archived run.
type RunSummary struct {
	ID                 string    `json:"id"`
	Period             string    `json:"period"`
	CreatedAt          time.Time `json:"createdAt"`
	AutoAcceptanceRate float64   `json:"autoAcceptanceRate"`
	MeetsTarget        bool      `json:"meetsTarget"`
}
