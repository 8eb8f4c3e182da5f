package holiday

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	holidayerrors "go-leave/internal/holiday/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	YearCacheKeyPrefix = "holidays:year:"
	yearCacheTTL       = 6 * time.Hour
)

func YearCacheKey(year int) string {
	return fmt.Sprintf("%s%d", YearCacheKeyPrefix, year)
}

var categoryPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Batch replaces everything one source published for one year.
type Batch struct {
	Source   string
	Year     int
	Version  string
	Operator string
	Entries  []Entry
}

type ImportRequest struct {
	Source   string
	Year     int
	URL      string
	Payload  []byte
	Operator string
}

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	EntriesBetween(ctx context.Context, start, end time.Time) ([]Entry, error)
	ReplaceForSourceAndYear(ctx context.Context, batch Batch) (ImportResult, error)
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	fetcher Fetcher
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, fetcher Fetcher, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		fetcher: fetcher,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

// EntriesBetween returns entries whose date lies in [start, end], both inclusive.
func (s *service) EntriesBetween(ctx context.Context, start, end time.Time) ([]Entry, error) {
	from, to := DateOnly(start), DateOnly(end)
	if to.Before(from) {
		return []Entry{}, nil
	}

	out := make([]Entry, 0)
	for year := from.Year(); year <= to.Year(); year++ {
		entries, err := s.yearEntries(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			d := DateOnly(e.Date)
			if d.Before(from) || d.After(to) {
				continue
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *service) yearEntries(ctx context.Context, year int) ([]Entry, error) {
	cacheKey := YearCacheKey(year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var entries []Entry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		entries, err := s.repo.FindByYear(ctx, year)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if data, err := json.Marshal(entries); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, yearCacheTTL).Err(); err != nil {
					s.logger.Warn("holiday cache write failed", zap.Int("year", year), zap.Error(err))
				}
			}
		}
		return entries, nil
	})
	if err != nil {
		s.logger.Error("load holidays failed", zap.Int("year", year), zap.Error(err))
		return nil, err
	}
	return v.([]Entry), nil
}

func (s *service) ReplaceForSourceAndYear(ctx context.Context, batch Batch) (ImportResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("replace holidays requested",
		zap.String("request_id", rid),
		zap.String("source", batch.Source),
		zap.Int("year", batch.Year),
		zap.Int("entries", len(batch.Entries)),
	)

	entries, err := normalizeBatch(batch)
	if err != nil {
		s.logger.Warn("replace holidays validation failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("replace holidays begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	removed, err := qtx.DeleteBySourceAndYear(ctx, batch.Source, batch.Year)
	if err != nil {
		s.logger.Error("replace holidays delete failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, err
	}

	if err := qtx.CreateBatch(ctx, entries); err != nil {
		if isUniqueViolation(err) {
			return ImportResult{}, holidayerrors.ErrDuplicateEntry.WithCause(err)
		}
		s.logger.Error("replace holidays insert failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("replace holidays commit failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, err
	}

	s.invalidateYear(ctx, batch.Year)
	s.logger.Info("replace holidays success",
		zap.String("request_id", rid),
		zap.String("source", batch.Source),
		zap.Int("year", batch.Year),
		zap.Int64("removed", removed),
		zap.Int("inserted", len(entries)),
	)

	return ImportResult{
		Source:   batch.Source,
		Year:     batch.Year,
		Version:  batch.Version,
		Removed:  removed,
		Inserted: len(entries),
	}, nil
}

func (s *service) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if !IsKnownSource(req.Source) {
		return ImportResult{}, holidayerrors.ErrUnknownSource
	}
	if req.Year < 1900 || req.Year > 9999 {
		return ImportResult{}, holidayerrors.ErrInvalidYear
	}

	payload := Payload{Body: req.Payload}
	if len(payload.Body) == 0 && req.URL != "" {
		if s.fetcher == nil {
			return ImportResult{}, holidayerrors.ErrSourceUnavailable
		}
		fetched, err := s.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			s.logger.Warn("holiday feed fetch failed", zap.String("url", req.URL), zap.Error(err))
			return ImportResult{}, holidayerrors.ErrSourceUnavailable.WithCause(err)
		}
		payload = fetched
	}
	if len(payload.Body) == 0 {
		return ImportResult{}, holidayerrors.ErrEmptyPayload
	}

	version := payload.Version()
	current, err := s.repo.LatestVersion(ctx, req.Source, req.Year)
	if err != nil {
		return ImportResult{}, err
	}
	if current == version {
		s.logger.Info("holiday import skipped, source unchanged",
			zap.String("source", req.Source),
			zap.Int("year", req.Year),
			zap.String("version", version),
		)
		return ImportResult{Source: req.Source, Year: req.Year, Version: version, Skipped: true}, nil
	}

	var entries []Entry
	switch req.Source {
	case SourceICS:
		entries, err = ParseICS(bytes.NewReader(payload.Body))
		if err == nil {
			entries = filterYear(entries, req.Year)
		}
	case SourceXLS:
		entries, err = ParseXLSX(bytes.NewReader(payload.Body))
	default:
		entries, err = ParseEntries(payload.Body)
	}
	if err != nil {
		s.logger.Warn("holiday source parse failed", zap.String("source", req.Source), zap.Error(err))
		return ImportResult{}, err
	}

	operator := req.Operator
	if operator == "" {
		operator = "system"
	}
	return s.ReplaceForSourceAndYear(ctx, Batch{
		Source:   req.Source,
		Year:     req.Year,
		Version:  version,
		Operator: operator,
		Entries:  entries,
	})
}

func (s *service) invalidateYear(ctx context.Context, year int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, YearCacheKey(year)).Err(); err != nil {
		s.logger.Warn("holiday cache invalidation failed", zap.Int("year", year), zap.Error(err))
	}
}

// normalizeBatch validates the batch and collapses duplicate (date, category) pairs, first one wins.
func normalizeBatch(batch Batch) ([]Entry, error) {
	if !IsKnownSource(batch.Source) {
		return nil, holidayerrors.ErrUnknownSource
	}
	if batch.Year < 1900 || batch.Year > 9999 {
		return nil, holidayerrors.ErrInvalidYear
	}

	seen := make(map[string]struct{}, len(batch.Entries))
	out := make([]Entry, 0, len(batch.Entries))
	for _, e := range batch.Entries {
		e.Date = DateOnly(e.Date)
		e.Name = strings.TrimSpace(e.Name)
		e.Category = strings.ToUpper(strings.TrimSpace(e.Category))

		if e.Date.Year() != batch.Year {
			return nil, holidayerrors.ErrDateOutsideYear
		}
		if e.Name == "" {
			return nil, holidayerrors.ErrEmptyName
		}
		if !categoryPattern.MatchString(e.Category) {
			return nil, holidayerrors.ErrInvalidCategory
		}

		key := e.Date.Format("2006-01-02") + "|" + e.Category
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		e.Source = batch.Source
		e.SourceYear = batch.Year
		e.SourceVersion = batch.Version
		e.CreatedBy = batch.Operator
		out = append(out, e)
	}
	return out, nil
}

func filterYear(entries []Entry, year int) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.Date.Year() == year {
			out = append(out, e)
		}
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
