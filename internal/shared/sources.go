package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"trip_category/internal/adapters/booking"
	"trip_category/internal/domain"
	mysqlrepo "trip_category/internal/storage/mysql"
)

// Sources are the snapshot providers plus the booking client both commands use.
type Sources struct {
	Modules domain.TripModuleProvider
	Offers  domain.OfferProvider
	Booking *booking.Client
	db      *sql.DB
}

// OpenSources builds the booking client and, for OFFER_SOURCE=mysql, reads
// snapshots from the inventory replica instead of the booking API.
func OpenSources(cfg Config) (*Sources, error) {
	client, err := booking.New(cfg.BookingBase, cfg.BookingKey, cfg.BookingRPS)
	if err != nil {
		return nil, fmt.Errorf("booking client: %w", err)
	}
	s := &Sources{Modules: client, Offers: client, Booking: client}
	if cfg.OfferSource != "mysql" {
		log.Info().Str("source", "api").Msg("offer snapshots from booking API")
		return s, nil
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	repo := mysqlrepo.New(db)
	s.Modules, s.Offers, s.db = repo, repo, db
	log.Info().Str("source", "mysql").Msg("offer snapshots from inventory replica")
	return s, nil
}

func (s *Sources) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
