package domain

import "github.com/shopspring/decimal"

// Record is one raw flat record as decoded from a source JSON document.
type Record map[string]any

// Unassigned is the fallback for every display field that cannot be resolved.
const Unassigned = "Unassigned"

// MultipleServices is the service inherited by an actual narrative whose invoice
// bills jobs under more than one service.
const MultipleServices = "Multiple"

// Identity holds the fields shared by draft and actual lines.
type Identity struct {
	ClientID   string `json:"clientId"`
	ClientCode string `json:"clientCode"`
	ClientName string `json:"clientName"`
	Office     string `json:"office"`
	Partner    string `json:"partner"`
	Manager    string `json:"manager"`
}

// DraftLine represents one row of automated billing output.
type DraftLine struct {
	Identity
	ServiceCode    string          `json:"serviceCode"`
	Narrative      string          `json:"narrative"`
	BillAmount     decimal.Decimal `json:"billAmount"`
	WIPOutstanding decimal.Decimal `json:"wipOutstanding"`

	// Source is the raw record the line was parsed from, kept for audit exports.
	Source Record `json:"-"`
}

// Job is one job summary on an actual invoice.
type Job struct {
	ServiceCode    string          `json:"serviceCode"`
	BillAmount     decimal.Decimal `json:"billAmount"`
	WIPOutstanding decimal.Decimal `json:"wipOutstanding"`
}

// Narrative is one narrative line printed on an actual invoice.
type Narrative struct {
	Text        string          `json:"narrative"`
	BillAmount  decimal.Decimal `json:"billAmount"`
	ServiceCode string          `json:"serviceCode"`
}

// ActualLine represents one invoice that was actually sent, after human edits.
type ActualLine struct {
	Identity
	Jobs       []Job       `json:"jobs"`
	Narratives []Narrative `json:"narratives"`

	Source Record `json:"-"`
}

// BillAmount is the invoice total: the sum of its jobs, or of its narratives
// when the invoice carries no job summary.
func (a ActualLine) BillAmount() decimal.Decimal {
	total := decimal.Zero
	if len(a.Jobs) > 0 {
		for _, j := range a.Jobs {
			total = total.Add(j.BillAmount)
		}
		return total
	}
	for _, n := range a.Narratives {
		total = total.Add(n.BillAmount)
	}
	return total
}

// WIPOutstanding sums the outstanding WIP across all jobs on the invoice.
func (a ActualLine) WIPOutstanding() decimal.Decimal {
	total := decimal.Zero
	for _, j := range a.Jobs {
		total = total.Add(j.WIPOutstanding)
	}
	return total
}
