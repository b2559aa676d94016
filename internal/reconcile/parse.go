package reconcile

import (
	"encoding/json"
	"strings"

	"billing-reconciliation/internal/domain"
)

// maxEncodingDepth bounds how many layers of JSON-in-a-string are unwrapped.
const maxEncodingDepth = 3

// Parser turns raw source records into draft and actual lines.
type Parser struct {
	fields FieldTable
}

// NewParser creates a parser resolving fields through the given table.
func NewParser(fields FieldTable) *Parser {
	return &Parser{fields: fields}
}

// DraftLines parses draft records. Records without a client id are dropped
// and counted; malformed amounts degrade to zero and are counted.
func (p *Parser) DraftLines(records []domain.Record) ([]domain.DraftLine, domain.SourceStats) {
	stats := domain.SourceStats{Available: true, Records: len(records)}
	lines := make([]domain.DraftLine, 0, len(records))
	for _, r := range records {
		id := p.fields.identity(r)
		if id.ClientID == "" {
			stats.Dropped++
			continue
		}
		bill, ok := resolveAmount(r, p.fields.BillAmount)
		if !ok {
			stats.Malformed++
		}
		wip, ok := resolveAmount(r, p.fields.WIP)
		if !ok {
			stats.Malformed++
		}
		lines = append(lines, domain.DraftLine{
			Identity:       id,
			ServiceCode:    PickDisplayField(r, p.fields.Service, domain.Unassigned),
			Narrative:      ResolveFirst(r, p.fields.Narrative),
			BillAmount:     bill,
			WIPOutstanding: wip,
			Source:         r,
		})
	}
	return lines, stats
}

// ActualLines parses invoice records, decoding their job and narrative summaries.
func (p *Parser) ActualLines(records []domain.Record) ([]domain.ActualLine, domain.SourceStats) {
	stats := domain.SourceStats{Available: true, Records: len(records)}
	lines := make([]domain.ActualLine, 0, len(records))
	for _, r := range records {
		id := p.fields.identity(r)
		if id.ClientID == "" {
			stats.Dropped++
			continue
		}
		line, malformed := p.actualLine(r)
		line.Identity = id
		stats.Malformed += malformed
		lines = append(lines, line)
	}
	return lines, stats
}

func (p *Parser) actualLine(r domain.Record) (domain.ActualLine, int) {
	malformed := 0
	rawJobs, hasJobs := lookup(r, p.fields.Jobs)
	rawNarratives, hasNarratives := lookup(r, p.fields.Narratives)

	// An invoice without summaries is a flat line: one job and one narrative.
	if !hasJobs && !hasNarratives {
		job, bad := p.job(r)
		malformed += bad
		line := domain.ActualLine{Jobs: []domain.Job{job}, Source: r}
		if text := ResolveFirst(r, p.fields.Narrative); text != "" {
			line.Narratives = []domain.Narrative{{Text: text, BillAmount: job.BillAmount, ServiceCode: job.ServiceCode}}
		}
		return line, malformed
	}

	line := domain.ActualLine{Source: r}
	jobRecords, ok := decodeSequence(rawJobs)
	if !ok {
		malformed++
	}
	for _, jr := range jobRecords {
		job, bad := p.job(jr)
		malformed += bad
		line.Jobs = append(line.Jobs, job)
	}

	inherited := inheritedService(line.Jobs)
	narrativeRecords, ok := decodeSequence(rawNarratives)
	if !ok {
		malformed++
	}
	for _, nr := range narrativeRecords {
		amount, ok := resolveAmount(nr, p.fields.BillAmount)
		if !ok {
			malformed++
		}
		service := ResolveFirst(nr, p.fields.Service)
		if service == "" {
			service = inherited
		}
		line.Narratives = append(line.Narratives, domain.Narrative{
			Text:        ResolveFirst(nr, p.fields.Narrative),
			BillAmount:  amount,
			ServiceCode: service,
		})
	}
	return line, malformed
}

func (p *Parser) job(r domain.Record) (domain.Job, int) {
	malformed := 0
	bill, ok := resolveAmount(r, p.fields.BillAmount)
	if !ok {
		malformed++
	}
	wip, ok := resolveAmount(r, p.fields.WIP)
	if !ok {
		malformed++
	}
	return domain.Job{
		ServiceCode:    PickDisplayField(r, p.fields.Service, domain.Unassigned),
		BillAmount:     bill,
		WIPOutstanding: wip,
	}, malformed
}

// inheritedService is the service given to narratives that name none: the
// single distinct job service, Multiple, or Unassigned.
func inheritedService(jobs []domain.Job) string {
	distinct := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		distinct[j.ServiceCode] = struct{}{}
	}
	switch len(distinct) {
	case 0:
		return domain.Unassigned
	case 1:
		return jobs[0].ServiceCode
	default:
		return domain.MultipleServices
	}
}

// decodeSequence reads a list of objects from a value that may already be a
// list, or a JSON string holding one, possibly encoded more than once. ok is
// false when the value cannot be decoded; the result is then empty.
func decodeSequence(v any) (records []domain.Record, ok bool) {
	for depth := 0; depth < maxEncodingDepth; depth++ {
		s, isString := v.(string)
		if !isString {
			break
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, false
		}
		v = decoded
	}

	switch t := v.(type) {
	case nil:
		return nil, true
	case []any:
		records = make([]domain.Record, 0, len(t))
		for _, item := range t {
			switch m := item.(type) {
			case map[string]any:
				records = append(records, domain.Record(m))
			case domain.Record:
				records = append(records, m)
			}
		}
		return records, true
	case []map[string]any:
		records = make([]domain.Record, 0, len(t))
		for _, m := range t {
			records = append(records, domain.Record(m))
		}
		return records, true
	case []domain.Record:
		return t, true
	case map[string]any:
		return []domain.Record{t}, true
	case domain.Record:
		return []domain.Record{t}, true
	default:
		return nil, false
	}
}
