package domain

// RoomCoordinate identifies a room slot independent of the hotel category.
// There is no id shared across categories, so all five fields form the key.
type RoomCoordinate struct {
	RoomType     string `json:"roomType"`
	MinOccupancy int    `json:"minOccupancy"`
	MaxOccupancy int    `json:"maxOccupancy"`
	NumAdults    int    `json:"numAdults"`
	Occupancy    int    `json:"occupancy"`
}

// Matches reports whether c and o denote the same room slot.
func (c RoomCoordinate) Matches(o RoomCoordinate) bool {
	return c.RoomType == o.RoomType &&
		c.MinOccupancy == o.MinOccupancy &&
		c.MaxOccupancy == o.MaxOccupancy &&
		c.NumAdults == o.NumAdults &&
		c.Occupancy == o.Occupancy
}

// RoomOffer is a concrete bookable room. RefID is the hotel category id and is
// shared by every offer of the same category; Name is the star label.
type RoomOffer struct {
	RefID              string         `json:"refId"`
	Name               string         `json:"name"`
	Coordinate         RoomCoordinate `json:"coordinate"`
	SalesPrice         Money          `json:"salesPrice"`
	UnitSalesPrice     Money          `json:"unitSalesPrice"`
	DiffSalesPrice     Money          `json:"diffSalesPrice"`
	DiffUnitSalesPrice Money          `json:"diffUnitSalesPrice"`
}

// HotelCategoryGroup holds all room offers of one hotel category, in server order.
type HotelCategoryGroup struct {
	Offers []RoomOffer `json:"offers"`
}

// Representative returns the first offer, which names the whole group.
func (g HotelCategoryGroup) Representative() (RoomOffer, bool) {
	if len(g.Offers) == 0 {
		return RoomOffer{}, false
	}
	return g.Offers[0], true
}

// AggregatePriceInfo sums the prices of the rooms needed to book one category.
type AggregatePriceInfo struct {
	Name               string    `json:"name"`
	RefID              string    `json:"refId"`
	DiffSalesPrice     PriceInfo `json:"diffSalesPrice"`
	DiffUnitSalesPrice PriceInfo `json:"diffUnitSalesPrice"`
	SalesPrice         PriceInfo `json:"salesPrice"`
	UnitSalesPrice     PriceInfo `json:"unitSalesPrice"`
}

type CategoryOption struct {
	Name      string             `json:"name"`
	RefID     string             `json:"refId"`
	PriceInfo AggregatePriceInfo `json:"priceInfo"`
}
