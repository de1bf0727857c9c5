package domain

import "errors"

// Appliance is a managed network appliance reported by the upstream
// orchestrator. Only the fields the portal displays are decoded; everything
// else in the upstream payload is ignored.
type Appliance struct {
	ID   string `json:"id"`
	NePk string `json:"nePk"`
	Site string `json:"site,omitempty"`
}

// Lease is a single DHCP lease entry. The upstream payload carries more
// fields than these; unknown fields are dropped, missing required fields
// fail decoding.
type Lease struct {
	Lease              string `json:"lease"`
	Starts             int64  `json:"starts"`
	Ends               int64  `json:"ends"`
	Cltt               int64  `json:"cltt"`
	State              string `json:"state"`
	NextState          string `json:"nextState"`
	RewindBindingState string `json:"rewind_binding_state"`
	MAC                string `json:"mac"`
	ClientHostname     string `json:"client-hostname,omitempty"`
}

// LeaseMap is the upstream representation of active leases, keyed by IP.
type LeaseMap map[string]Lease

// ErrUpstream marks failures of the appliance-management API: non-2xx
// responses, timeouts, and undecodable payloads. It propagates to the caller
// as a 502; the portal never retries.
var ErrUpstream = errors.New("upstream appliance API error")
