package holiday_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/holiday"
	holidayerrors "go-leave/internal/holiday/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeHolidayRepository struct {
	findByYearFn            func(ctx context.Context, year int) ([]holiday.Entry, error)
	latestVersionFn         func(ctx context.Context, source string, year int) (string, error)
	deleteBySourceAndYearFn func(ctx context.Context, source string, year int) (int64, error)
	createBatchFn           func(ctx context.Context, entries []holiday.Entry) error
}

func (f *fakeHolidayRepository) WithTx(tx *sql.Tx) holiday.Repository {
	return f
}

func (f *fakeHolidayRepository) FindByYear(ctx context.Context, year int) ([]holiday.Entry, error) {
	if f.findByYearFn != nil {
		return f.findByYearFn(ctx, year)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) LatestVersion(ctx context.Context, source string, year int) (string, error) {
	if f.latestVersionFn != nil {
		return f.latestVersionFn(ctx, source, year)
	}
	return "", nil
}

func (f *fakeHolidayRepository) DeleteBySourceAndYear(ctx context.Context, source string, year int) (int64, error) {
	if f.deleteBySourceAndYearFn != nil {
		return f.deleteBySourceAndYearFn(ctx, source, year)
	}
	return 0, nil
}

func (f *fakeHolidayRepository) CreateBatch(ctx context.Context, entries []holiday.Entry) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, entries)
	}
	return nil
}

type fakeFetcher struct {
	payload holiday.Payload
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (holiday.Payload, error) {
	f.calls++
	return f.payload, f.err
}

type holidayServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeHolidayRepository
	fetcher   *fakeFetcher
	service   holiday.Service
}

func setupHolidayServiceTest(t *testing.T, withRedis bool) *holidayServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	var rdb *redis.Client
	var redisMock redismock.ClientMock
	if withRedis {
		rdb, redisMock = redismock.NewClientMock()
	}

	repo := &fakeHolidayRepository{}
	fetcher := &fakeFetcher{}
	return &holidayServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redisMock: redisMock,
		repo:      repo,
		fetcher:   fetcher,
		service:   holiday.NewService(db, repo, fetcher, rdb),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHolidayService_ReplaceForSourceAndYear(t *testing.T) {
	ctx := context.Background()

	t.Run("success replaces and invalidates year cache", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, true)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(holiday.YearCacheKey(2026)).SetVal(1)

		deps.repo.deleteBySourceAndYearFn = func(ctx context.Context, source string, year int) (int64, error) {
			assert.Equal(t, holiday.SourceManual, source)
			assert.Equal(t, 2026, year)
			return 3, nil
		}
		var inserted []holiday.Entry
		deps.repo.createBatchFn = func(ctx context.Context, entries []holiday.Entry) error {
			inserted = entries
			return nil
		}

		res, err := deps.service.ReplaceForSourceAndYear(ctx, holiday.Batch{
			Source:   holiday.SourceManual,
			Year:     2026,
			Version:  "v1",
			Operator: "admin",
			Entries: []holiday.Entry{
				{Date: time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC), Name: " New Year ", Category: "national_holiday"},
				{Date: day(2026, 1, 1), Name: "New Year again", Category: holiday.CategoryNationalHoliday},
				{Date: day(2026, 2, 7), Name: "Makeup", Category: holiday.CategoryMakeupWorkday},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), res.Removed)
		assert.Equal(t, 2, res.Inserted)
		assert.Len(t, inserted, 2)
		assert.Equal(t, day(2026, 1, 1), inserted[0].Date)
		assert.Equal(t, "New Year", inserted[0].Name)
		assert.Equal(t, holiday.CategoryNationalHoliday, inserted[0].Category)
		assert.Equal(t, holiday.SourceManual, inserted[0].Source)
		assert.Equal(t, 2026, inserted[0].SourceYear)
		assert.Equal(t, "v1", inserted[0].SourceVersion)
		assert.Equal(t, "admin", inserted[0].CreatedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("empty batch clears the year", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.deleteBySourceAndYearFn = func(ctx context.Context, source string, year int) (int64, error) {
			return 12, nil
		}

		res, err := deps.service.ReplaceForSourceAndYear(ctx, holiday.Batch{Source: holiday.SourceICS, Year: 2025})
		assert.NoError(t, err)
		assert.Equal(t, int64(12), res.Removed)
		assert.Equal(t, 0, res.Inserted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("validation failures never open a transaction", func(t *testing.T) {
		cases := []struct {
			name  string
			batch holiday.Batch
			want  error
		}{
			{"unknown source", holiday.Batch{Source: "RSS", Year: 2026}, holidayerrors.ErrUnknownSource},
			{"bad year", holiday.Batch{Source: holiday.SourceAPI, Year: 12}, holidayerrors.ErrInvalidYear},
			{"date outside year", holiday.Batch{Source: holiday.SourceAPI, Year: 2026, Entries: []holiday.Entry{
				{Date: day(2025, 12, 31), Name: "NYE", Category: holiday.CategoryCompanyOff},
			}}, holidayerrors.ErrDateOutsideYear},
			{"empty name", holiday.Batch{Source: holiday.SourceAPI, Year: 2026, Entries: []holiday.Entry{
				{Date: day(2026, 3, 1), Name: "  ", Category: holiday.CategoryCompanyOff},
			}}, holidayerrors.ErrEmptyName},
			{"bad category", holiday.Batch{Source: holiday.SourceAPI, Year: 2026, Entries: []holiday.Entry{
				{Date: day(2026, 3, 1), Name: "Off", Category: "company off"},
			}}, holidayerrors.ErrInvalidCategory},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				deps := setupHolidayServiceTest(t, false)
				defer deps.db.Close()

				_, err := deps.service.ReplaceForSourceAndYear(ctx, tc.batch)
				assert.ErrorIs(t, err, tc.want)
				assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
			})
		}
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createBatchFn = func(ctx context.Context, entries []holiday.Entry) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := deps.service.ReplaceForSourceAndYear(ctx, holiday.Batch{
			Source: holiday.SourceAPI,
			Year:   2026,
			Entries: []holiday.Entry{
				{Date: day(2026, 5, 1), Name: "Labour Day", Category: holiday.CategoryNationalHoliday},
			},
		})
		assert.ErrorIs(t, err, holidayerrors.ErrDuplicateEntry)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("delete failure rolls back", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		dbErr := errors.New("db down")
		deps.repo.deleteBySourceAndYearFn = func(ctx context.Context, source string, year int) (int64, error) {
			return 0, dbErr
		}

		_, err := deps.service.ReplaceForSourceAndYear(ctx, holiday.Batch{Source: holiday.SourceAPI, Year: 2026})
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestHolidayService_EntriesBetween(t *testing.T) {
	ctx := context.Background()

	entries2026 := []holiday.Entry{
		{Date: day(2026, 1, 1), Name: "New Year", Category: holiday.CategoryNationalHoliday},
		{Date: day(2026, 2, 7), Name: "Makeup", Category: holiday.CategoryMakeupWorkday},
		{Date: day(2026, 12, 25), Name: "Christmas", Category: holiday.CategoryCompanyOff},
	}

	t.Run("cache miss loads from repo and caches", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, true)
		defer deps.db.Close()

		payload, _ := json.Marshal(entries2026)
		deps.redisMock.ExpectGet(holiday.YearCacheKey(2026)).RedisNil()
		deps.redisMock.ExpectSet(holiday.YearCacheKey(2026), payload, 6*time.Hour).SetVal("OK")

		calls := 0
		deps.repo.findByYearFn = func(ctx context.Context, year int) ([]holiday.Entry, error) {
			calls++
			return entries2026, nil
		}

		got, err := deps.service.EntriesBetween(ctx, day(2026, 1, 1), time.Date(2026, 2, 7, 18, 0, 0, 0, time.UTC))
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 1, calls)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips repo", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, true)
		defer deps.db.Close()

		payload, _ := json.Marshal(entries2026)
		deps.redisMock.ExpectGet(holiday.YearCacheKey(2026)).SetVal(string(payload))
		deps.repo.findByYearFn = func(ctx context.Context, year int) ([]holiday.Entry, error) {
			t.Fatal("repo must not be called on cache hit")
			return nil, nil
		}

		got, err := deps.service.EntriesBetween(ctx, day(2026, 12, 1), day(2026, 12, 31))
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "Christmas", got[0].Name)
	})

	t.Run("range spanning two years", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		var years []int
		deps.repo.findByYearFn = func(ctx context.Context, year int) ([]holiday.Entry, error) {
			years = append(years, year)
			if year == 2026 {
				return entries2026, nil
			}
			return []holiday.Entry{{Date: day(2027, 1, 1), Name: "New Year", Category: holiday.CategoryNationalHoliday}}, nil
		}

		got, err := deps.service.EntriesBetween(ctx, day(2026, 12, 20), day(2027, 1, 5))
		assert.NoError(t, err)
		assert.Equal(t, []int{2026, 2027}, years)
		assert.Len(t, got, 2)
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		got, err := deps.service.EntriesBetween(ctx, day(2026, 3, 2), day(2026, 3, 1))
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestHolidayService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("unchanged source is skipped", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		deps.fetcher.payload = holiday.Payload{Body: []byte("BEGIN:VCALENDAR"), ETag: `"abc"`}
		deps.repo.latestVersionFn = func(ctx context.Context, source string, year int) (string, error) {
			return "etag:abc", nil
		}

		res, err := deps.service.Import(ctx, holiday.ImportRequest{Source: holiday.SourceICS, Year: 2026, URL: "https://example.test/h.ics"})
		assert.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Equal(t, 1, deps.fetcher.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("fetch failure is source unavailable", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		deps.fetcher.err = errors.New("timeout")
		_, err := deps.service.Import(ctx, holiday.ImportRequest{Source: holiday.SourceICS, Year: 2026, URL: "https://example.test/h.ics"})
		assert.ErrorIs(t, err, holidayerrors.ErrSourceUnavailable)
	})

	t.Run("manual entries replace the year", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var inserted []holiday.Entry
		deps.repo.createBatchFn = func(ctx context.Context, entries []holiday.Entry) error {
			inserted = entries
			return nil
		}

		res, err := deps.service.Import(ctx, holiday.ImportRequest{
			Source:  holiday.SourceManual,
			Year:    2026,
			Payload: []byte(`[{"date":"2026-10-10","name":"National Day"},{"date":"2026-10-09","name":"Bridge","category":"company_off"}]`),
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, res.Inserted)
		assert.Contains(t, res.Version, "sha256:")
		assert.Equal(t, "system", inserted[0].CreatedBy)
		assert.Equal(t, holiday.CategoryCompanyOff, inserted[1].Category)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing payload", func(t *testing.T) {
		deps := setupHolidayServiceTest(t, false)
		defer deps.db.Close()

		_, err := deps.service.Import(ctx, holiday.ImportRequest{Source: holiday.SourceAPI, Year: 2026})
		assert.ErrorIs(t, err, holidayerrors.ErrEmptyPayload)
	})
}
