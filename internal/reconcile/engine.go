package reconcile

import (
	"fmt"

	"billing-reconciliation/internal/domain"
)

// DefaultTargetAutoAcceptanceRate is the share of drafts expected to go out without edits.
const DefaultTargetAutoAcceptanceRate = 0.80

// Caps bound the size of the published rollups.
type Caps struct {
	Offices      int `toml:"offices" yaml:"offices"`
	Partners     int `toml:"partners" yaml:"partners"`
	Managers     int `toml:"managers" yaml:"managers"`
	Services     int `toml:"services" yaml:"services"`
	Narratives   int `toml:"narratives" yaml:"narratives"`
	Replacements int `toml:"replacements_per_narrative" yaml:"replacements_per_narrative"`
}

// DefaultCaps returns the dashboard's default result caps.
func DefaultCaps() Caps {
	return Caps{
		Offices:      10,
		Partners:     20,
		Managers:     20,
		Services:     10,
		Narratives:   30,
		Replacements: 10,
	}
}

// Options configure an Engine.
type Options struct {
	Fields                   FieldTable
	TargetAutoAcceptanceRate float64
	Caps                     Caps
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Fields:                   DefaultFieldTable(),
		TargetAutoAcceptanceRate: DefaultTargetAutoAcceptanceRate,
		Caps:                     DefaultCaps(),
	}
}

// Validate checks the options for values the engine cannot work with.
func (o Options) Validate() error {
	if o.TargetAutoAcceptanceRate < 0 || o.TargetAutoAcceptanceRate > 1 {
		return fmt.Errorf("target auto-acceptance rate %v is outside [0, 1]", o.TargetAutoAcceptanceRate)
	}
	caps := map[string]int{
		"offices":                    o.Caps.Offices,
		"partners":                   o.Caps.Partners,
		"managers":                   o.Caps.Managers,
		"services":                   o.Caps.Services,
		"narratives":                 o.Caps.Narratives,
		"replacements_per_narrative": o.Caps.Replacements,
	}
	for _, name := range sortedKeys(caps) {
		if caps[name] < 1 {
			return fmt.Errorf("cap %s must be at least 1, got %d", name, caps[name])
		}
	}
	return o.Fields.Validate()
}

// Engine reconciles draft records against actual invoice records. It holds
// no state between runs and is safe for concurrent use.
type Engine struct {
	parser *Parser
	opts   Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{parser: NewParser(opts.Fields), opts: opts}
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Reconcile parses, indexes, classifies and aggregates both collections.
// Empty or nil collections yield a well-formed, all-zero result.
func (e *Engine) Reconcile(drafts, actuals []domain.Record) *domain.Reconciliation {
	draftLines, draftStats := e.parser.DraftLines(drafts)
	actualLines, actualStats := e.parser.ActualLines(actuals)

	rec := Aggregate(BuildDraftIndex(draftLines), BuildActualIndex(actualLines), e.opts)
	rec.Draft = draftStats
	rec.Actual = actualStats
	return rec
}
