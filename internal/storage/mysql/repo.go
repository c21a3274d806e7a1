package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"trip_category/internal/domain"
)

// Repo reads module and offer snapshots from the inventory read replica.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) GetRoomCategories(ctx context.Context, ref domain.ModuleRef) ([]domain.HotelCategoryGroup, error) {
	rows, err := r.db.QueryContext(ctx, listRoomOffersSQL, ref.TripID, ref.ModuleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out     []domain.HotelCategoryGroup
		lastPos = -1
	)
	for rows.Next() {
		var (
			pos      int
			o        domain.RoomOffer
			currency string
			sales    decimal.Decimal
			unit     decimal.Decimal
			diff     decimal.Decimal
			diffUnit decimal.Decimal
		)
		if err := rows.Scan(
			&pos,
			&o.RefID,
			&o.Name,
			&o.Coordinate.RoomType,
			&o.Coordinate.MinOccupancy,
			&o.Coordinate.MaxOccupancy,
			&o.Coordinate.NumAdults,
			&o.Coordinate.Occupancy,
			&currency,
			&sales, &unit, &diff, &diffUnit,
		); err != nil {
			return nil, err
		}
		o.SalesPrice = domain.Money{Amount: sales, Currency: currency}
		o.UnitSalesPrice = domain.Money{Amount: unit, Currency: currency}
		o.DiffSalesPrice = domain.Money{Amount: diff, Currency: currency}
		o.DiffUnitSalesPrice = domain.Money{Amount: diffUnit, Currency: currency}

		if pos != lastPos {
			out = append(out, domain.HotelCategoryGroup{})
			lastPos = pos
		}
		g := &out[len(out)-1]
		g.Offers = append(g.Offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("offers for %s: %w", ref, domain.ErrNotFound)
	}
	return out, nil
}

func (r *Repo) GetTripModule(ctx context.Context, ref domain.ModuleRef) (domain.TripModule, error) {
	rows, err := r.db.QueryContext(ctx, listModuleComponentsSQL, ref.TripID, ref.ModuleID)
	if err != nil {
		return domain.TripModule{}, err
	}
	defer rows.Close()

	m := domain.TripModule{TripID: ref.TripID, ModuleID: ref.ModuleID}
	lastPos := -1
	for rows.Next() {
		var (
			pos int
			c   domain.Component
		)
		if err := rows.Scan(
			&pos,
			&c.SlotCategoryRefID,
			&c.SlotCategoryCoordinate.RoomType,
			&c.SlotCategoryCoordinate.MinOccupancy,
			&c.SlotCategoryCoordinate.MaxOccupancy,
			&c.SlotCategoryCoordinate.NumAdults,
			&c.SlotCategoryCoordinate.Occupancy,
		); err != nil {
			return domain.TripModule{}, err
		}
		if pos != lastPos {
			m.ReturnConnections = append(m.ReturnConnections, domain.Connection{})
			lastPos = pos
		}
		conn := &m.ReturnConnections[len(m.ReturnConnections)-1]
		conn.Components = append(conn.Components, c)
	}
	if err := rows.Err(); err != nil {
		return domain.TripModule{}, err
	}
	if len(m.ReturnConnections) == 0 {
		return domain.TripModule{}, fmt.Errorf("module %s: %w", ref, domain.ErrNotFound)
	}
	return m, nil
}
