package services

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/config"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/export"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/logger"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/mapping"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/model"
	textparsers "github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers/costs"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers/feeschedule"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers/keepa"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/parsers/readypro"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/pricing"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/security/validation"
)

const (
	ckSessionTable         = "tbl_session_%s"
	ckSessionASINs         = "asins_session_%s_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// Editable working-table columns. Everything else is either a source feed
// passthrough or derived and owned by the recalculation pass.
const (
	ColumnListingPrice  = "listing_price"
	ColumnShippingCost  = "shipping_cost"
	ColumnPurchaseCost  = "purchase_cost"
	ColumnCategoryLabel = "category_label"
)

type sessionServiceImpl struct {
	db            *sql.DB
	reportCache   *cache.Cache
	defaultFeePct float64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionService(db *sql.DB, reportCache *cache.Cache, defaultFeePct float64) SessionService {
	return &sessionServiceImpl{
		db:            db,
		reportCache:   reportCache,
		defaultFeePct: defaultFeePct,
		locks:         make(map[string]*sync.Mutex),
	}
}

// lockSession serializes mutations per session. Reads go through the cache
// and do not need the lock.
func (s *sessionServiceImpl) lockSession(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lock, ok := s.locks[sessionID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.locks[sessionID] = lock
	return lock
}

func (s *sessionServiceImpl) forgetLock(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, sessionID)
}

func (s *sessionServiceImpl) CreateSession(ttl time.Duration) (*model.RepricingSession, string, error) {
	session := &model.RepricingSession{
		ID:        uuid.New().String(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := session.Create(s.db); err != nil {
		return nil, "", fmt.Errorf("creating session: %w", err)
	}

	token, err := IssueSessionToken(config.Cfg.SessionJWTSecret, session.ID, ttl)
	if err != nil {
		return nil, "", err
	}

	logger.L.Info("Repricing session created", "sessionID", session.ID, "expiresAt", session.ExpiresAt)
	return session, token, nil
}

func (s *sessionServiceImpl) StoreUpload(sessionID string, kind string, fileReader io.Reader, filename string) (*UploadSummary, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := model.GetSessionByID(s.db, sessionID)
	if err != nil {
		return nil, err
	}

	summary := &UploadSummary{Kind: kind, Filename: filename}
	switch kind {
	case UploadKindListings:
		result, err := readypro.NewParser().Parse(fileReader, filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrParsingFailed, err)
		}
		session.Listings = result.Rows
		session.ListingColumns = result.Columns
		summary.Rows = len(result.Rows)
	case UploadKindCompetitor:
		snapshots, err := keepa.NewParser().Parse(fileReader, filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrParsingFailed, err)
		}
		session.CompetitorPrices = snapshots
		summary.Rows = len(snapshots)
	case UploadKindCosts:
		entries, err := costs.NewParser().Parse(fileReader, filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrParsingFailed, err)
		}
		session.Costs = entries
		summary.Rows = len(entries)
	case UploadKindFees:
		schedule, err := feeschedule.NewParser().Parse(fileReader, filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrParsingFailed, err)
		}
		session.FeeSchedule = schedule
		summary.Rows = len(schedule.Categories())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUploadKind, kind)
	}

	if err := session.Save(s.db); err != nil {
		return nil, fmt.Errorf("saving session after upload: %w", err)
	}
	s.InvalidateSessionCache(sessionID)

	logger.L.Info("Upload stored", "sessionID", sessionID, "kind", kind, "filename", filename, "rows", summary.Rows)
	return summary, nil
}

// Process runs the merge pass over the uploaded inputs and derives the
// working table. It can be called again after further uploads; the table is
// rebuilt from scratch each time, dropping any manual edits.
func (s *sessionServiceImpl) Process(sessionID string) (*TableResponse, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := model.GetSessionByID(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Listings) == 0 {
		return nil, ErrMissingListings
	}

	merged := MergeInputs(session.Listings, session.CompetitorPrices, session.Costs)
	merged = AlignCategories(merged, session.FeeSchedule)
	session.WorkingTable = pricing.Recompute(merged, session.FeeSchedule, s.defaultFeePct)
	now := time.Now()
	session.ProcessedAt = &now

	if err := session.Save(s.db); err != nil {
		return nil, fmt.Errorf("saving processed session: %w", err)
	}
	s.InvalidateSessionCache(sessionID)

	logger.L.Info("Session processed", "sessionID", sessionID,
		"listings", len(session.Listings),
		"competitorPrices", len(session.CompetitorPrices),
		"costs", len(session.Costs),
		"hasFeeSchedule", session.FeeSchedule != nil)
	return tableResponse(session), nil
}

// cachedEntry wraps a cached read with the session expiry it was built
// under. The janitor deletes expired rows but not cache entries, so a hit
// past the expiry must fall through to the store.
type cachedEntry struct {
	payload   any
	expiresAt time.Time
}

func (s *sessionServiceImpl) cacheGet(cacheKey string) (any, bool) {
	cached, found := s.reportCache.Get(cacheKey)
	if !found {
		return nil, false
	}
	entry := cached.(*cachedEntry)
	if time.Now().After(entry.expiresAt) {
		s.reportCache.Delete(cacheKey)
		return nil, false
	}
	return entry.payload, true
}

func (s *sessionServiceImpl) cacheSet(cacheKey string, payload any, expiresAt time.Time) {
	s.reportCache.Set(cacheKey, &cachedEntry{payload: payload, expiresAt: expiresAt}, DefaultCacheExpiration)
}

func (s *sessionServiceImpl) GetTable(sessionID string) (*TableResponse, error) {
	cacheKey := fmt.Sprintf(ckSessionTable, sessionID)
	if cached, found := s.cacheGet(cacheKey); found {
		return cached.(*TableResponse), nil
	}

	session, err := model.GetSessionByID(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ProcessedAt == nil {
		return nil, ErrNotProcessed
	}

	response := tableResponse(session)
	s.cacheSet(cacheKey, response, session.ExpiresAt)
	return response, nil
}

// EditCell updates one editable cell and reruns the derivation pass. A nil
// value clears a numeric cell back to absent.
func (s *sessionServiceImpl) EditCell(sessionID string, row int, column string, value *string) (*TableResponse, error) {
	return s.mutateTable(sessionID, func(session *model.RepricingSession) error {
		if row < 0 || row >= len(session.WorkingTable) {
			return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
		}
		target := &session.WorkingTable[row]

		switch column {
		case ColumnListingPrice:
			target.ListingPrice = parseEditValue(value)
		case ColumnShippingCost:
			target.ShippingCost = parseEditValue(value)
		case ColumnPurchaseCost:
			target.PurchaseCost = parseEditValue(value)
		case ColumnCategoryLabel:
			if value == nil {
				target.CategoryLabel = ""
			} else {
				target.CategoryLabel = validation.SanitizeText(*value)
			}
		default:
			return fmt.Errorf("%w: %q", ErrUneditableColumn, column)
		}
		return nil
	})
}

func (s *sessionServiceImpl) ScalePrice(sessionID string, sel BulkSelection) (*TableResponse, error) {
	return s.mutateTable(sessionID, func(session *model.RepricingSession) error {
		session.WorkingTable = pricing.ScalePrice(session.WorkingTable, sel.Positions, sel.Amount, sel.AsPercentage)
		return nil
	})
}

func (s *sessionServiceImpl) AlignToCompetitor(sessionID string, sel BulkSelection) (*TableResponse, error) {
	return s.mutateTable(sessionID, func(session *model.RepricingSession) error {
		session.WorkingTable = pricing.AlignToCompetitor(session.WorkingTable, sel.Positions, sel.Amount, sel.AsPercentage)
		return nil
	})
}

// mutateTable is the shared write path for edits and bulk operations: load,
// mutate, recompute derived columns, persist, invalidate.
func (s *sessionServiceImpl) mutateTable(sessionID string, mutate func(*model.RepricingSession) error) (*TableResponse, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := model.GetSessionByID(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ProcessedAt == nil {
		return nil, ErrNotProcessed
	}

	if err := mutate(session); err != nil {
		return nil, err
	}
	session.WorkingTable = pricing.Recompute(session.WorkingTable, session.FeeSchedule, s.defaultFeePct)

	if err := session.Save(s.db); err != nil {
		return nil, fmt.Errorf("saving session after table mutation: %w", err)
	}
	s.InvalidateSessionCache(sessionID)
	return tableResponse(session), nil
}

func (s *sessionServiceImpl) ExtractASINs(sessionID string, locale string) ([]string, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if !mapping.KnownLocales()[locale] {
		return nil, fmt.Errorf("unknown locale %q", locale)
	}

	cacheKey := fmt.Sprintf(ckSessionASINs, sessionID, locale)
	if cached, found := s.cacheGet(cacheKey); found {
		return cached.([]string), nil
	}

	session, err := model.GetSessionByID(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Listings) == 0 {
		return nil, ErrMissingListings
	}

	codes := ExtractASINsForLocale(session.Listings, locale)
	s.cacheSet(cacheKey, codes, session.ExpiresAt)
	return codes, nil
}

func (s *sessionServiceImpl) Export(sessionID string) ([]byte, error) {
	session, err := model.GetSessionByID(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ProcessedAt == nil {
		return nil, ErrNotProcessed
	}
	return export.WriteReadyPro(session.WorkingTable, session.ListingColumns)
}

func (s *sessionServiceImpl) DeleteSession(sessionID string) error {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := model.DeleteSession(s.db, sessionID); err != nil {
		return err
	}
	s.InvalidateSessionCache(sessionID)
	s.forgetLock(sessionID)
	logger.L.Info("Repricing session deleted", "sessionID", sessionID)
	return nil
}

func (s *sessionServiceImpl) InvalidateSessionCache(sessionID string) {
	s.reportCache.Delete(fmt.Sprintf(ckSessionTable, sessionID))
	for locale := range mapping.KnownLocales() {
		s.reportCache.Delete(fmt.Sprintf(ckSessionASINs, sessionID, locale))
	}
}

func tableResponse(session *model.RepricingSession) *TableResponse {
	return &TableResponse{
		Rows:        session.WorkingTable,
		Columns:     session.ListingColumns,
		ProcessedAt: session.ProcessedAt,
	}
}

func parseEditValue(value *string) *float64 {
	if value == nil {
		return nil
	}
	return textparsers.ParseNullableFloat(*value)
}
