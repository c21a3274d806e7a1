// Package reconciler maps the rooms a module currently books onto the
// equivalent rooms of another hotel category and prices the result.
//
// The booking service does not list hotel categories. It sends every
// combination (double in 2*, single in 2*, double in 3*, ...) grouped per
// category, so the category list and the rooms to request for a switch
// are both derived here from the room coordinates of the current booking.
//
// All functions are pure over their inputs and safe for concurrent use.
package reconciler

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"trip_category/internal/domain"
)

// MatchRoomsForCategory returns, for each selected coordinate, the offer of the
// category targetRefID that books the same room slot. The result is in the
// order of selected. When a category offers the same coordinate more than once
// the first offer wins.
func MatchRoomsForCategory(targetRefID string, groups []domain.HotelCategoryGroup, selected []domain.RoomCoordinate) ([]domain.RoomOffer, error) {
	group, ok := findGroup(targetRefID, groups)
	if !ok {
		return nil, fmt.Errorf("%w: refId=%q", domain.ErrCategoryNotFound, targetRefID)
	}

	out := make([]domain.RoomOffer, 0, len(selected))
	for i, coord := range selected {
		room, n := firstMatch(group.Offers, coord)
		if n == 0 {
			return nil, fmt.Errorf("%w: refId=%q slot=%d coordinate=%+v",
				domain.ErrNoMatchingRoom, targetRefID, i, coord)
		}
		if n > 1 {
			log.Warn().
				Str("refId", targetRefID).
				Int("slot", i).
				Interface("coordinate", coord).
				Int("matches", n).
				Msg("ambiguous room coordinate, using first offer")
		}
		out = append(out, room)
	}
	return out, nil
}

// AggregatePriceDelta sums the four prices of rooms. Name and RefID are taken
// from the first room, as is the currency every sales price must be quoted in.
// Unit and diff prices the offer leaves unset count as zero in that currency.
func AggregatePriceDelta(rooms []domain.RoomOffer) (domain.AggregatePriceInfo, error) {
	if len(rooms) == 0 {
		return domain.AggregatePriceInfo{}, domain.ErrEmptySelection
	}
	currency := rooms[0].SalesPrice.Currency

	var sales, unitSales, diffSales, diffUnitSales decimal.Decimal
	for i, r := range rooms {
		if r.SalesPrice.Currency != currency {
			return domain.AggregatePriceInfo{}, fmt.Errorf("%w: room %d (refId=%q) has %q, want %q",
				domain.ErrCurrencyMismatch, i, r.RefID, r.SalesPrice.Currency, currency)
		}
		for _, m := range []domain.Money{r.UnitSalesPrice, r.DiffSalesPrice, r.DiffUnitSalesPrice} {
			if m.IsUnset() {
				continue
			}
			if m.Currency != currency {
				return domain.AggregatePriceInfo{}, fmt.Errorf("%w: room %d (refId=%q) has %q, want %q",
					domain.ErrCurrencyMismatch, i, r.RefID, m.Currency, currency)
			}
		}
		sales = sales.Add(r.SalesPrice.Amount)
		unitSales = unitSales.Add(r.UnitSalesPrice.Amount)
		diffSales = diffSales.Add(r.DiffSalesPrice.Amount)
		diffUnitSales = diffUnitSales.Add(r.DiffUnitSalesPrice.Amount)
	}

	return domain.AggregatePriceInfo{
		Name:               rooms[0].Name,
		RefID:              rooms[0].RefID,
		DiffSalesPrice:     domain.NewPriceInfo(diffSales, currency),
		DiffUnitSalesPrice: domain.NewPriceInfo(diffUnitSales, currency),
		SalesPrice:         domain.NewPriceInfo(sales, currency),
		UnitSalesPrice:     domain.NewPriceInfo(unitSales, currency),
	}, nil
}

// AvailableCategories prices every hotel category for the selected rooms.
// It returns one option per group in group order, or the first error.
func AvailableCategories(groups []domain.HotelCategoryGroup, selected []domain.RoomCoordinate) ([]domain.CategoryOption, error) {
	out := make([]domain.CategoryOption, 0, len(groups))
	for i, g := range groups {
		rep, ok := g.Representative()
		if !ok {
			return nil, fmt.Errorf("group %d: %w", i, domain.ErrEmptyGroup)
		}
		rooms, err := MatchRoomsForCategory(rep.RefID, groups, selected)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		price, err := AggregatePriceDelta(rooms)
		if err != nil {
			return nil, fmt.Errorf("group %d (refId=%q): %w", i, rep.RefID, err)
		}
		// the group, not the matched rooms, names the category
		price.Name, price.RefID = rep.Name, rep.RefID
		out = append(out, domain.CategoryOption{Name: rep.Name, RefID: rep.RefID, PriceInfo: price})
	}
	return out, nil
}

// RefIDs lists the offer ids to send to the booking service, in room order.
func RefIDs(rooms []domain.RoomOffer) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.RefID)
	}
	return out
}

func findGroup(refID string, groups []domain.HotelCategoryGroup) (domain.HotelCategoryGroup, bool) {
	for _, g := range groups {
		if rep, ok := g.Representative(); ok && rep.RefID == refID {
			return g, true
		}
	}
	return domain.HotelCategoryGroup{}, false
}

// firstMatch returns the first offer at coord and how many offers match it.
func firstMatch(offers []domain.RoomOffer, coord domain.RoomCoordinate) (domain.RoomOffer, int) {
	var (
		first domain.RoomOffer
		n     int
	)
	for _, o := range offers {
		if !o.Coordinate.Matches(coord) {
			continue
		}
		if n == 0 {
			first = o
		}
		n++
	}
	return first, n
}
