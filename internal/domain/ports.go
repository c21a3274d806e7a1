package domain

import (
	"context"
	"time"
)

type TripModuleProvider interface {
	GetTripModule(ctx context.Context, ref ModuleRef) (TripModule, error)
}

// OfferProvider returns every hotel category group of the module's current offer.
type OfferProvider interface {
	GetRoomCategories(ctx context.Context, ref ModuleRef) ([]HotelCategoryGroup, error)
}

// BookingClient asks the booking service to swap the module's rooms for rooms,
// one offer per booked slot.
type BookingClient interface {
	ChangeRooms(ctx context.Context, ref ModuleRef, rooms []RoomOffer) (ChangeReceipt, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ChangeReceipt is the booking service's acknowledgement of a room change.
type ChangeReceipt struct {
	RequestID   string    `json:"requestId"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Read models

type CategoryListing struct {
	TripID        string           `json:"tripId"`
	ModuleID      string           `json:"moduleId"`
	SelectedRefID string           `json:"selectedRefId"`
	Options       []CategoryOption `json:"options"`
}

type CategoryChange struct {
	TripID    string        `json:"tripId"`
	ModuleID  string        `json:"moduleId"`
	RefID     string        `json:"refId"`
	Unchanged bool          `json:"unchanged"`
	Rooms     []RoomOffer   `json:"rooms"`
	Receipt   ChangeReceipt `json:"receipt"`
}
