package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"trip_category/internal/domain"
	"trip_category/internal/reconciler"
)

// Wire shapes of the booking service. Amounts arrive as JSON numbers or
// strings; decimal accepts both.

type moneyDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type coordinateDTO struct {
	RoomType  string `json:"roomType"`
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	NumAdults int    `json:"numAdults"`
	Occupancy int    `json:"occupancy"`
}

type slotCategoryDTO struct {
	RefID              string        `json:"refId"`
	Name               string        `json:"name"`
	Coordinate         coordinateDTO `json:"coordinate"`
	SalesPrice         moneyDTO      `json:"salesPrice"`
	UnitSalesPrice     moneyDTO      `json:"unitSalesPrice"`
	DiffSalesPrice     moneyDTO      `json:"diffSalesPrice"`
	DiffUnitSalesPrice moneyDTO      `json:"diffUnitSalesPrice"`
}

type offerDTO struct {
	RoomCategoriesPerRoom [][]slotCategoryDTO `json:"roomCategoriesPerRoom"`
}

// The module's selected rooms use occupancy-named bounds, unlike offers.
type slotCoordinateDTO struct {
	RoomType     string `json:"roomType"`
	MinOccupancy int    `json:"minOccupancy"`
	MaxOccupancy int    `json:"maxOccupancy"`
	NumAdults    int    `json:"numAdults"`
	Occupancy    int    `json:"occupancy"`
}

type componentDTO struct {
	Product struct {
		ServiceCategory struct {
			SlotCategoryRefID      string            `json:"slotCategoryRefId"`
			SlotCategoryCoordinate slotCoordinateDTO `json:"slotCategoryCoordinate"`
		} `json:"serviceCategory"`
	} `json:"product"`
}

type tripModuleDTO struct {
	ReturnConnections []struct {
		Components []componentDTO `json:"components"`
	} `json:"returnConnections"`
}

type changeRoomDTO struct {
	RefID      string        `json:"refId"`
	Coordinate coordinateDTO `json:"coordinate"`
}

type changeRoomsDTO struct {
	RefIDs []string        `json:"refIds"`
	Rooms  []changeRoomDTO `json:"rooms"`
}

type changeReceiptDTO struct {
	RequestID   string    `json:"requestId"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
}

func (m moneyDTO) toDomain() domain.Money {
	return domain.Money{Amount: m.Amount, Currency: m.Currency}
}

func (c coordinateDTO) toDomain() domain.RoomCoordinate {
	return domain.RoomCoordinate{
		RoomType:     c.RoomType,
		MinOccupancy: c.Min,
		MaxOccupancy: c.Max,
		NumAdults:    c.NumAdults,
		Occupancy:    c.Occupancy,
	}
}

func coordinateFromDomain(c domain.RoomCoordinate) coordinateDTO {
	return coordinateDTO{
		RoomType:  c.RoomType,
		Min:       c.MinOccupancy,
		Max:       c.MaxOccupancy,
		NumAdults: c.NumAdults,
		Occupancy: c.Occupancy,
	}
}

func mapRoomCategories(in offerDTO) []domain.HotelCategoryGroup {
	out := make([]domain.HotelCategoryGroup, 0, len(in.RoomCategoriesPerRoom))
	for _, group := range in.RoomCategoriesPerRoom {
		offers := make([]domain.RoomOffer, 0, len(group))
		for _, sc := range group {
			offers = append(offers, domain.RoomOffer{
				RefID:              sc.RefID,
				Name:               sc.Name,
				Coordinate:         sc.Coordinate.toDomain(),
				SalesPrice:         sc.SalesPrice.toDomain(),
				UnitSalesPrice:     sc.UnitSalesPrice.toDomain(),
				DiffSalesPrice:     sc.DiffSalesPrice.toDomain(),
				DiffUnitSalesPrice: sc.DiffUnitSalesPrice.toDomain(),
			})
		}
		out = append(out, domain.HotelCategoryGroup{Offers: offers})
	}
	return out
}

func mapTripModule(ref domain.ModuleRef, in tripModuleDTO) domain.TripModule {
	m := domain.TripModule{TripID: ref.TripID, ModuleID: ref.ModuleID}
	for _, rc := range in.ReturnConnections {
		var conn domain.Connection
		for _, c := range rc.Components {
			sc := c.Product.ServiceCategory
			conn.Components = append(conn.Components, domain.Component{
				SlotCategoryRefID:      sc.SlotCategoryRefID,
				SlotCategoryCoordinate: domain.RoomCoordinate(sc.SlotCategoryCoordinate),
			})
		}
		m.ReturnConnections = append(m.ReturnConnections, conn)
	}
	return m
}

func newChangeRoomsDTO(rooms []domain.RoomOffer) changeRoomsDTO {
	out := changeRoomsDTO{
		RefIDs: reconciler.RefIDs(rooms),
		Rooms:  make([]changeRoomDTO, 0, len(rooms)),
	}
	for _, r := range rooms {
		out.Rooms = append(out.Rooms, changeRoomDTO{RefID: r.RefID, Coordinate: coordinateFromDomain(r.Coordinate)})
	}
	return out
}

func (r changeReceiptDTO) toDomain() domain.ChangeReceipt {
	return domain.ChangeReceipt{RequestID: r.RequestID, Status: r.Status, RequestedAt: r.RequestedAt}
}
