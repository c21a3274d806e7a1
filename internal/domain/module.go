package domain

import "fmt"

// ModuleRef addresses one module of a trip.
type ModuleRef struct {
	TripID   string
	ModuleID string
}

func (r ModuleRef) String() string { return r.TripID + ":" + r.ModuleID }

// TripModule is the booking service's view of the "base" module of a trip.
type TripModule struct {
	TripID            string       `json:"tripId"`
	ModuleID          string       `json:"moduleId"`
	ReturnConnections []Connection `json:"returnConnections"`
}

type Connection struct {
	Components []Component `json:"components"`
}

// Component is one booked room; its service category points at the offer it
// was booked from.
type Component struct {
	SlotCategoryRefID      string         `json:"slotCategoryRefId"`
	SlotCategoryCoordinate RoomCoordinate `json:"slotCategoryCoordinate"`
}

// The base module always carries its rooms in the first return connection.
func (m TripModule) selectedComponents() ([]Component, error) {
	if len(m.ReturnConnections) == 0 || len(m.ReturnConnections[0].Components) == 0 {
		return nil, fmt.Errorf("%w: module %s:%s", ErrNoSelection, m.TripID, m.ModuleID)
	}
	return m.ReturnConnections[0].Components, nil
}

// SelectedCategoryRefID returns the hotel category currently booked.
func (m TripModule) SelectedCategoryRefID() (string, error) {
	cs, err := m.selectedComponents()
	if err != nil {
		return "", err
	}
	return cs[0].SlotCategoryRefID, nil
}

// SelectedCoordinates returns the coordinates of every booked room, in order.
func (m TripModule) SelectedCoordinates() ([]RoomCoordinate, error) {
	cs, err := m.selectedComponents()
	if err != nil {
		return nil, err
	}
	out := make([]RoomCoordinate, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.SlotCategoryCoordinate)
	}
	return out, nil
}
