package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/core/ports"
)

// ResponseCache abstracts the upstream response cache (Redis). A nil error
// with ok=false means a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const (
	cacheKeyAppliances  = "upstream:appliances"
	cacheKeyLeases      = "upstream:leases"
	cacheKeyLeasesPerNe = "upstream:leases:" // + nePk
)

// ApplianceService serves appliance and DHCP lease data, fronting the
// upstream API with a short-lived cache. Cache failures are logged and
// degrade to a direct upstream call, never to a request failure.
type ApplianceService struct {
	client ports.UpstreamClient
	cache  ResponseCache
	log    zerolog.Logger
}

func NewApplianceService(client ports.UpstreamClient, cache ResponseCache, log zerolog.Logger) *ApplianceService {
	return &ApplianceService{client: client, cache: cache, log: log}
}

func (s *ApplianceService) Appliances(ctx context.Context) ([]domain.Appliance, error) {
	var appliances []domain.Appliance
	if s.cachedInto(ctx, cacheKeyAppliances, &appliances) {
		return appliances, nil
	}

	appliances, err := s.client.Appliances(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cacheKeyAppliances, appliances)
	return appliances, nil
}

func (s *ApplianceService) Leases(ctx context.Context) (domain.LeaseMap, error) {
	var leases domain.LeaseMap
	if s.cachedInto(ctx, cacheKeyLeases, &leases) {
		return leases, nil
	}

	leases, err := s.client.Leases(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cacheKeyLeases, leases)
	return leases, nil
}

func (s *ApplianceService) ApplianceLeases(ctx context.Context, nePk string) (domain.LeaseMap, error) {
	key := cacheKeyLeasesPerNe + nePk

	var leases domain.LeaseMap
	if s.cachedInto(ctx, key, &leases) {
		return leases, nil
	}

	leases, err := s.client.ApplianceLeases(ctx, nePk)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, leases)
	return leases, nil
}

// RefreshAppliances forces a fetch from upstream and repopulates the cache.
// Used by the background poller.
func (s *ApplianceService) RefreshAppliances(ctx context.Context) error {
	appliances, err := s.client.Appliances(ctx)
	if err != nil {
		return err
	}
	s.store(ctx, cacheKeyAppliances, appliances)
	return nil
}

// cachedInto decodes a cached payload into v, reporting whether a usable
// entry was found.
func (s *ApplianceService) cachedInto(ctx context.Context, key string, v any) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed, going upstream")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache entry undecodable, going upstream")
		return false
	}
	return true
}

func (s *ApplianceService) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
