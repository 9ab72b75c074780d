package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

var ErrSessionNotFound = errors.New("repricing session not found")

// RepricingSession is one operator work unit: the uploaded inputs plus the
// merged working table. Sessions are ephemeral and expire after a TTL; the
// expiry janitor removes them.
type RepricingSession struct {
	ID               string                      `json:"id"`
	ListingColumns   []string                    `json:"listing_columns"`
	Listings         []models.ListingRow         `json:"-"`
	CompetitorPrices []models.CompetitorSnapshot `json:"-"`
	Costs            []models.CostEntry          `json:"-"`
	FeeSchedule      *models.FeeSchedule         `json:"-"`
	WorkingTable     []models.ListingRow         `json:"-"`
	ProcessedAt      *time.Time                  `json:"processed_at,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	ExpiresAt        time.Time                   `json:"expires_at"`
}

func (s *RepricingSession) Create(db *sql.DB) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `
	INSERT INTO repricing_sessions (id, listing_columns, listings, competitor_prices, costs, fee_schedule, working_table, processed_at, created_at, updated_at, expires_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	blobs, err := s.marshalBlobs()
	if err != nil {
		return err
	}

	_, err = stmt.Exec(
		s.ID,
		blobs.listingColumns,
		blobs.listings,
		blobs.competitorPrices,
		blobs.costs,
		blobs.feeSchedule,
		blobs.workingTable,
		s.ProcessedAt,
		s.CreatedAt,
		s.UpdatedAt,
		s.ExpiresAt,
	)
	return err
}

// Save persists the full session state. The working table and inputs are
// stored as JSON blobs: sessions are single-operator and always read and
// written whole, so there is nothing to gain from relational rows.
func (s *RepricingSession) Save(db *sql.DB) error {
	s.UpdatedAt = time.Now()

	query := `
	UPDATE repricing_sessions
	SET listing_columns = ?, listings = ?, competitor_prices = ?, costs = ?, fee_schedule = ?, working_table = ?, processed_at = ?, updated_at = ?
	WHERE id = ?`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	blobs, err := s.marshalBlobs()
	if err != nil {
		return err
	}

	res, err := stmt.Exec(
		blobs.listingColumns,
		blobs.listings,
		blobs.competitorPrices,
		blobs.costs,
		blobs.feeSchedule,
		blobs.workingTable,
		s.ProcessedAt,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func GetSessionByID(db *sql.DB, id string) (*RepricingSession, error) {
	query := `
	SELECT id, listing_columns, listings, competitor_prices, costs, fee_schedule, working_table, processed_at, created_at, updated_at, expires_at
	FROM repricing_sessions
	WHERE id = ?`
	row := db.QueryRow(query, id)

	var s RepricingSession
	var listingColumns, listings, competitorPrices, costs, workingTable string
	var feeSchedule sql.NullString
	var processedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&listingColumns,
		&listings,
		&competitorPrices,
		&costs,
		&feeSchedule,
		&workingTable,
		&processedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session %s: %w", id, err)
	}

	if time.Now().After(s.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	if err := json.Unmarshal([]byte(listingColumns), &s.ListingColumns); err != nil {
		return nil, fmt.Errorf("decoding listing columns for session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(listings), &s.Listings); err != nil {
		return nil, fmt.Errorf("decoding listings for session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(competitorPrices), &s.CompetitorPrices); err != nil {
		return nil, fmt.Errorf("decoding competitor prices for session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(costs), &s.Costs); err != nil {
		return nil, fmt.Errorf("decoding costs for session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(workingTable), &s.WorkingTable); err != nil {
		return nil, fmt.Errorf("decoding working table for session %s: %w", id, err)
	}
	if feeSchedule.Valid && feeSchedule.String != "" {
		if err := json.Unmarshal([]byte(feeSchedule.String), &s.FeeSchedule); err != nil {
			return nil, fmt.Errorf("decoding fee schedule for session %s: %w", id, err)
		}
	}
	if processedAt.Valid {
		s.ProcessedAt = &processedAt.Time
	}

	return &s, nil
}

func DeleteSession(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM repricing_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpiredSessions removes every session past its expiry and returns
// how many were deleted. Called periodically by the janitor in main.
func DeleteExpiredSessions(db *sql.DB) (int64, error) {
	res, err := db.Exec(`DELETE FROM repricing_sessions WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type sessionBlobs struct {
	listingColumns   string
	listings         string
	competitorPrices string
	costs            string
	workingTable     string
	feeSchedule      sql.NullString
}

func (s *RepricingSession) marshalBlobs() (*sessionBlobs, error) {
	var blobs sessionBlobs

	encode := func(name string, v any, dst *string) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s for session %s: %w", name, s.ID, err)
		}
		*dst = string(data)
		return nil
	}

	if err := encode("listing columns", emptyIfNilStrings(s.ListingColumns), &blobs.listingColumns); err != nil {
		return nil, err
	}
	if err := encode("listings", emptyIfNilRows(s.Listings), &blobs.listings); err != nil {
		return nil, err
	}
	if err := encode("competitor prices", s.CompetitorPrices, &blobs.competitorPrices); err != nil {
		return nil, err
	}
	if err := encode("costs", s.Costs, &blobs.costs); err != nil {
		return nil, err
	}
	if err := encode("working table", emptyIfNilRows(s.WorkingTable), &blobs.workingTable); err != nil {
		return nil, err
	}
	if s.FeeSchedule != nil {
		data, err := json.Marshal(s.FeeSchedule)
		if err != nil {
			return nil, fmt.Errorf("encoding fee schedule for session %s: %w", s.ID, err)
		}
		blobs.feeSchedule = sql.NullString{String: string(data), Valid: true}
	}
	return &blobs, nil
}

func emptyIfNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func emptyIfNilRows(v []models.ListingRow) []models.ListingRow {
	if v == nil {
		return []models.ListingRow{}
	}
	return v
}
