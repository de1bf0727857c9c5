// Package upstream talks to the appliance-management API the portal
// proxies. Every call is a single authenticated GET with a fixed timeout;
// failures are never retried here.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/esop/appliance-portal/internal/api/metrics"
	"github.com/esop/appliance-portal/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second

	authHeader = "X-AUTH-TOKEN"
)

// Config holds the upstream connection settings. URL and APIKey are
// required; Timeout defaults to 10 seconds.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client is the HTTP client for the appliance-management API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Appliances fetches the managed appliance list.
func (c *Client) Appliances(ctx context.Context) ([]domain.Appliance, error) {
	var raw []json.RawMessage
	if err := c.getJSON(ctx, "/appliance", "appliances", &raw); err != nil {
		return nil, err
	}

	appliances := make([]domain.Appliance, 0, len(raw))
	for _, entry := range raw {
		var a domain.Appliance
		if err := json.Unmarshal(entry, &a); err != nil {
			return nil, fmt.Errorf("%w: decode appliance: %v", domain.ErrUpstream, err)
		}
		if a.ID == "" || a.NePk == "" {
			return nil, fmt.Errorf("%w: appliance entry missing id or nePk", domain.ErrUpstream)
		}
		appliances = append(appliances, a)
	}
	return appliances, nil
}

// Leases fetches all active DHCP leases, keyed by IP.
func (c *Client) Leases(ctx context.Context) (domain.LeaseMap, error) {
	return c.fetchLeases(ctx, "/dhcp/leases")
}

// ApplianceLeases fetches the DHCP leases held by a single appliance.
func (c *Client) ApplianceLeases(ctx context.Context, nePk string) (domain.LeaseMap, error) {
	return c.fetchLeases(ctx, "/appliance/"+url.PathEscape(nePk)+"/dhcpleases")
}

func (c *Client) fetchLeases(ctx context.Context, path string) (domain.LeaseMap, error) {
	var raw map[string]json.RawMessage
	if err := c.getJSON(ctx, path, "leases", &raw); err != nil {
		return nil, err
	}

	leases := make(domain.LeaseMap, len(raw))
	for ip, entry := range raw {
		lease, err := decodeLease(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: lease %s: %v", domain.ErrUpstream, ip, err)
		}
		leases[ip] = lease
	}
	return leases, nil
}

// decodeLease parses a single lease entry. Unknown upstream fields are
// ignored; missing required fields fail the whole response.
func decodeLease(raw json.RawMessage) (domain.Lease, error) {
	var l domain.Lease
	if err := json.Unmarshal(raw, &l); err != nil {
		return domain.Lease{}, err
	}

	switch {
	case l.Lease == "":
		return domain.Lease{}, fmt.Errorf("missing required field %q", "lease")
	case l.State == "":
		return domain.Lease{}, fmt.Errorf("missing required field %q", "state")
	case l.NextState == "":
		return domain.Lease{}, fmt.Errorf("missing required field %q", "nextState")
	case l.RewindBindingState == "":
		return domain.Lease{}, fmt.Errorf("missing required field %q", "rewind_binding_state")
	case l.MAC == "":
		return domain.Lease{}, fmt.Errorf("missing required field %q", "mac")
	}
	return l, nil
}

// getJSON performs an authenticated GET against path and decodes the body
// into v. Non-2xx responses and transport errors surface as
// domain.ErrUpstream.
func (c *Client) getJSON(ctx context.Context, path, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s returned %d", domain.ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstream, path, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}
