package services

import (
	"errors"
	"io"
	"time"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/model"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/models"
)

// Upload kinds accepted by StoreUpload. Each kind maps to one source parser.
const (
	UploadKindListings   = "listings"
	UploadKindCompetitor = "competitor"
	UploadKindCosts      = "costs"
	UploadKindFees       = "fees"
)

// Define common service errors
var (
	ErrParsingFailed     = errors.New("csv parsing failed")
	ErrUnknownUploadKind = errors.New("unknown upload kind")
	ErrMissingListings   = errors.New("no listings uploaded for this session")
	ErrNotProcessed      = errors.New("session has not been processed yet")
	ErrUneditableColumn  = errors.New("column is not editable")
	ErrRowOutOfRange     = errors.New("row index out of range")
	ErrNotImplemented    = errors.New("live competitor price fetch not implemented")
)

// UploadSummary reports what a single upload contributed to the session.
type UploadSummary struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
}

// TableResponse is the working table as served to the grid client.
type TableResponse struct {
	Rows        []models.ListingRow `json:"rows"`
	Columns     []string            `json:"columns"`
	ProcessedAt *time.Time          `json:"processed_at,omitempty"`
}

// BulkSelection addresses the rows of a bulk price operation.
type BulkSelection struct {
	Positions    []int   `json:"positions"`
	Amount       float64 `json:"amount"`
	AsPercentage bool    `json:"as_percentage"`
}

// SessionService drives a repricing session end to end: uploads, the merge
// pass, table reads and edits, bulk price operations, and the export.
type SessionService interface {
	CreateSession(ttl time.Duration) (*model.RepricingSession, string, error)
	StoreUpload(sessionID string, kind string, fileReader io.Reader, filename string) (*UploadSummary, error)
	Process(sessionID string) (*TableResponse, error)
	GetTable(sessionID string) (*TableResponse, error)
	EditCell(sessionID string, row int, column string, value *string) (*TableResponse, error)
	ScalePrice(sessionID string, sel BulkSelection) (*TableResponse, error)
	AlignToCompetitor(sessionID string, sel BulkSelection) (*TableResponse, error)
	ExtractASINs(sessionID string, locale string) ([]string, error)
	Export(sessionID string) ([]byte, error)
	DeleteSession(sessionID string) error
	InvalidateSessionCache(sessionID string)
}

// CompetitorPriceSource fetches current buy-box prices for a set of catalog
// codes on one marketplace. The CSV upload path is the production source;
// a direct API client can plug in here.
type CompetitorPriceSource interface {
	FetchPrices(locale string, productCodes []string) ([]models.CompetitorSnapshot, error)
}
