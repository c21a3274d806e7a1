package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"trip_category/internal/adapters/observability"
	"trip_category/internal/domain"
	"trip_category/internal/reconciler"
)

// CategoryService lists a module's hotel categories and switches between them.
type CategoryService struct {
	modules  domain.TripModuleProvider
	offers   domain.OfferProvider
	booking  domain.BookingClient
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCategoryService(m domain.TripModuleProvider, o domain.OfferProvider, b domain.BookingClient, c domain.Cache, ttl time.Duration) *CategoryService {
	return &CategoryService{modules: m, offers: o, booking: b, cache: c, cacheTTL: ttl}
}

func (s *CategoryService) ListCategories(ctx context.Context, ref domain.ModuleRef) (domain.CategoryListing, error) {
	m, groups, err := s.snapshot(ctx, ref)
	if err != nil {
		return domain.CategoryListing{}, err
	}
	selectedRefID, err := m.SelectedCategoryRefID()
	if err != nil {
		observability.ObserveReconcile("list", outcome(err))
		return domain.CategoryListing{}, err
	}
	coords, err := m.SelectedCoordinates()
	if err != nil {
		observability.ObserveReconcile("list", outcome(err))
		return domain.CategoryListing{}, err
	}

	opts, err := reconciler.AvailableCategories(groups, coords)
	observability.ObserveReconcile("list", outcome(err))
	if err != nil {
		log.Warn().Err(err).Str("module", ref.String()).Msg("hotel categories not reconcilable")
		return domain.CategoryListing{}, err
	}
	return domain.CategoryListing{
		TripID:        ref.TripID,
		ModuleID:      ref.ModuleID,
		SelectedRefID: selectedRefID,
		Options:       opts,
	}, nil
}

// ChooseCategory books the rooms of category refID in place of the current ones.
// Choosing the category already booked does not call the booking service.
func (s *CategoryService) ChooseCategory(ctx context.Context, ref domain.ModuleRef, refID string) (domain.CategoryChange, error) {
	m, groups, err := s.snapshot(ctx, ref)
	if err != nil {
		return domain.CategoryChange{}, err
	}
	coords, err := m.SelectedCoordinates()
	if err != nil {
		observability.ObserveReconcile("choose", outcome(err))
		return domain.CategoryChange{}, err
	}

	rooms, err := reconciler.MatchRoomsForCategory(refID, groups, coords)
	observability.ObserveReconcile("choose", outcome(err))
	if err != nil {
		return domain.CategoryChange{}, err
	}
	change := domain.CategoryChange{TripID: ref.TripID, ModuleID: ref.ModuleID, RefID: refID, Rooms: rooms}

	if current, _ := m.SelectedCategoryRefID(); current == refID {
		observability.ObserveSwitch("unchanged")
		change.Unchanged = true
		return change, nil
	}

	rcpt, err := s.booking.ChangeRooms(ctx, ref, rooms)
	if err != nil {
		observability.ObserveSwitch("failed")
		return domain.CategoryChange{}, fmt.Errorf("change rooms for %s: %w", ref, err)
	}
	observability.ObserveSwitch("requested")
	log.Info().
		Str("module", ref.String()).
		Str("refId", refID).
		Int("rooms", len(rooms)).
		Str("requestId", rcpt.RequestID).
		Msg("hotel category change requested")

	// the booking service now holds a different selection and offer
	s.invalidate(ctx, ref)
	change.Receipt = rcpt
	return change, nil
}

func (s *CategoryService) snapshot(ctx context.Context, ref domain.ModuleRef) (domain.TripModule, []domain.HotelCategoryGroup, error) {
	m, err := s.tripModule(ctx, ref)
	if err != nil {
		return domain.TripModule{}, nil, err
	}
	groups, err := s.roomCategories(ctx, ref)
	if err != nil {
		return domain.TripModule{}, nil, err
	}
	return m, groups, nil
}

func (s *CategoryService) tripModule(ctx context.Context, ref domain.ModuleRef) (domain.TripModule, error) {
	key := moduleKey(ref)
	var m domain.TripModule
	if ok, _ := s.cache.Get(ctx, key, &m); ok {
		return m, nil
	}
	m, err := s.modules.GetTripModule(ctx, ref)
	if err != nil {
		return domain.TripModule{}, err
	}
	_ = s.cache.Set(ctx, key, m, int(s.cacheTTL.Seconds()))
	return m, nil
}

func (s *CategoryService) roomCategories(ctx context.Context, ref domain.ModuleRef) ([]domain.HotelCategoryGroup, error) {
	key := offersKey(ref)
	var groups []domain.HotelCategoryGroup
	if ok, _ := s.cache.Get(ctx, key, &groups); ok {
		return groups, nil
	}
	groups, err := s.offers.GetRoomCategories(ctx, ref)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, groups, int(s.cacheTTL.Seconds()))
	return groups, nil
}

func (s *CategoryService) invalidate(ctx context.Context, ref domain.ModuleRef) {
	_ = s.cache.Del(ctx, moduleKey(ref))
	_ = s.cache.Del(ctx, offersKey(ref))
}

func moduleKey(ref domain.ModuleRef) string {
	return fmt.Sprintf("module:%s:%s", ref.TripID, ref.ModuleID)
}

func offersKey(ref domain.ModuleRef) string {
	return fmt.Sprintf("offers:%s:%s", ref.TripID, ref.ModuleID)
}

// outcome labels a reconciliation result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCategoryNotFound):
		return "category_not_found"
	case errors.Is(err, domain.ErrNoMatchingRoom):
		return "no_matching_room"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, domain.ErrEmptyGroup):
		return "empty_group"
	case errors.Is(err, domain.ErrNoSelection):
		return "no_selection"
	default:
		return "error"
	}
}
