package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/pgzip"

	"billing-reconciliation/internal/domain"
)

// envelopeKeys are the wrapper properties list endpoints put their rows under.
var envelopeKeys = []string{"data", "value", "records", "items"}

// decodeRecords reads a JSON document holding either a bare array of objects
// or an object wrapping one under a known envelope key. Numbers are kept as
// json.Number so amounts are not rounded through float64.
func decodeRecords(r io.Reader) ([]domain.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("could not decode records: %w", err)
	}

	if obj, ok := doc.(map[string]any); ok {
		doc = nil
		for _, key := range envelopeKeys {
			if rows, found := obj[key]; found {
				doc = rows
				break
			}
		}
		if doc == nil {
			return nil, fmt.Errorf("could not decode records: object has none of %s", strings.Join(envelopeKeys, ", "))
		}
	}

	rows, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("could not decode records: expected an array, got %T", doc)
	}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		if m, ok := row.(map[string]any); ok {
			records = append(records, domain.Record(m))
		}
	}
	return records, nil
}

// decodeMaybeGzip decodes records from data, transparently inflating it when
// it starts with the gzip magic bytes.
func decodeMaybeGzip(data []byte) ([]domain.Record, error) {
	if !isGzip(data) {
		return decodeRecords(bytes.NewReader(data))
	}
	zr, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not open gzip stream: %w", err)
	}
	defer zr.Close()
	return decodeRecords(zr)
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// validPeriod rejects periods that would escape the store layout.
func validPeriod(period string) error {
	if period == "" {
		return domain.ErrNoPeriod
	}
	if strings.ContainsAny(period, `/\`) || strings.Contains(period, "..") {
		return fmt.Errorf("invalid period %q", period)
	}
	return nil
}
