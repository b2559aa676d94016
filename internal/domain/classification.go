package domain

import "github.com/shopspring/decimal"

// ChangeKind describes what happened to a drafted line on the actual invoice.
type ChangeKind string

const (
	// ChangeUnchanged means the same wording was billed for the same amount.
	ChangeUnchanged ChangeKind = "unchanged"
	// ChangeAmount means the same wording was billed for a different amount.
	ChangeAmount ChangeKind = "amount"
	// ChangeVerbiage means the wording was not billed under that client and service.
	ChangeVerbiage ChangeKind = "verbiage"
)

// Classification is the verdict for one (client, service, narrative) draft triple.
type Classification struct {
	ClientID     string          `json:"clientId"`
	ServiceCode  string          `json:"serviceCode"`
	NarrativeKey string          `json:"narrativeKey"`
	Label        string          `json:"label"`
	Kind         ChangeKind      `json:"kind"`
	DraftTotal   decimal.Decimal `json:"draftTotal"`
	ActualTotal  decimal.Decimal `json:"actualTotal"`
}
