package app

import (
	"context"
	"time"

	"trip_category/internal/domain"
)

// WarmService preloads module and offer snapshots so the first listing of a
// module is served from cache.
type WarmService struct {
	modules  domain.TripModuleProvider
	offers   domain.OfferProvider
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewWarmService(m domain.TripModuleProvider, o domain.OfferProvider, c domain.Cache, ttl time.Duration) *WarmService {
	return &WarmService{modules: m, offers: o, cache: c, cacheTTL: ttl}
}

func (s *WarmService) WarmModule(ctx context.Context, ref domain.ModuleRef) error {
	m, err := s.modules.GetTripModule(ctx, ref)
	if err != nil {
		return err
	}
	groups, err := s.offers.GetRoomCategories(ctx, ref)
	if err != nil {
		return err
	}
	ttl := int(s.cacheTTL.Seconds())
	if err := s.cache.Set(ctx, moduleKey(ref), m, ttl); err != nil {
		return err
	}
	return s.cache.Set(ctx, offersKey(ref), groups, ttl)
}
