package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"billing-reconciliation/internal/domain"
)

const maxErrorBody = 512

// HTTPActualRepository fetches actual invoices from the billing workflow
// endpoint: GET <endpoint>?billingDate=<period>.
type HTTPActualRepository struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPActualRepository creates a client for endpoint. An empty apiKey
// sends no Authorization header.
func NewHTTPActualRepository(endpoint, apiKey string, timeout time.Duration) *HTTPActualRepository {
	return &HTTPActualRepository{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// GetActuals fetches the invoices sent for period.
func (r *HTTPActualRepository) GetActuals(ctx context.Context, period string) ([]domain.Record, error) {
	if r.endpoint == "" {
		return nil, domain.ErrSourceNotConfigured
	}
	if err := validPeriod(period); err != nil {
		return nil, err
	}

	u, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid actuals endpoint %q: %w", r.endpoint, err)
	}
	q := u.Query()
	q.Set("billingDate", period)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build actuals request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch actuals: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("actuals endpoint returned %s: %s", resp.Status, body)
	}
	return decodeRecords(resp.Body)
}
