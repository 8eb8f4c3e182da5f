package holiday

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	holidayerrors "go-leave/internal/holiday/errors"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
)

const maxFeedBytes = 10 << 20

var makeupMarkers = []string{"補班", "補行上班", "makeup", "make-up"}

// Payload is a fetched feed plus the token that identifies its revision.
type Payload struct {
	Body []byte
	ETag string
}

// Version prefers the origin ETag, else a sha256 of the body.
func (p Payload) Version() string {
	if etag := strings.Trim(p.ETag, `"`); etag != "" {
		return "etag:" + etag
	}
	sum := sha256.Sum256(p.Body)
	return "sha256:" + hex.EncodeToString(sum[:])
}

//go:generate mockgen -source=holiday_source.go -destination=mock/holiday_source_mock.go -package=mock
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Payload, error)
}

type httpFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) Fetcher {
	return &httpFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Payload{}, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Payload{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Payload{}, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return Payload{}, err
	}
	return Payload{Body: body, ETag: resp.Header.Get("ETag")}, nil
}

func classifySummary(summary string) string {
	lower := strings.ToLower(summary)
	for _, marker := range makeupMarkers {
		if strings.Contains(lower, marker) {
			return CategoryMakeupWorkday
		}
	}
	return CategoryNationalHoliday
}

// ParseICS expands every all-day VEVENT over [DTSTART, DTEND).
func ParseICS(r io.Reader) ([]Entry, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, holidayerrors.ErrMalformedSource.WithCause(err)
	}

	var entries []Entry
	for _, ev := range cal.Events() {
		name := "Holiday"
		if p := ev.GetProperty(ics.ComponentPropertySummary); p != nil && strings.TrimSpace(p.Value) != "" {
			name = strings.TrimSpace(p.Value)
		}

		start, err := ev.GetAllDayStartAt()
		if err != nil {
			return nil, holidayerrors.ErrMalformedSource.WithCause(err)
		}
		start = DateOnly(start)

		end := start.AddDate(0, 0, 1)
		if e, err := ev.GetAllDayEndAt(); err == nil && DateOnly(e).After(start) {
			end = DateOnly(e)
		}

		category := classifySummary(name)
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			entries = append(entries, Entry{Date: d, Name: name, Category: category, AllDay: true})
		}
	}
	return entries, nil
}

var sheetDateLayouts = []string{"2006-01-02", "2006/01/02", "01-02-06", "1/2/2006"}

func parseSheetDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}

// ParseXLSX reads the first sheet: a header row, then date | name | category.
func ParseXLSX(r io.Reader) ([]Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, holidayerrors.ErrMalformedSource.WithCause(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, holidayerrors.ErrMalformedSource
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, holidayerrors.ErrMalformedSource.WithCause(err)
	}

	var entries []Entry
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		if len(row) < 2 {
			return nil, holidayerrors.ErrMalformedSource.WithCause(fmt.Errorf("row %d: expected date and name", i+1))
		}
		date, err := parseSheetDate(row[0])
		if err != nil {
			return nil, holidayerrors.ErrMalformedSource.WithCause(fmt.Errorf("row %d: %w", i+1, err))
		}
		category := CategoryNationalHoliday
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			category = strings.ToUpper(strings.TrimSpace(row[2]))
		}
		entries = append(entries, Entry{
			Date:     date,
			Name:     strings.TrimSpace(row[1]),
			Category: category,
			AllDay:   true,
		})
	}
	return entries, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseEntries decodes the JSON list used by API and MANUAL imports.
func ParseEntries(body []byte) ([]Entry, error) {
	var reqs []HolidayEntryRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		return nil, holidayerrors.ErrMalformedSource.WithCause(err)
	}

	entries := make([]Entry, 0, len(reqs))
	for _, req := range reqs {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			return nil, holidayerrors.ErrMalformedSource.WithCause(err)
		}
		category := strings.ToUpper(strings.TrimSpace(req.Category))
		if category == "" {
			category = CategoryNationalHoliday
		}
		allDay := true
		if req.AllDay != nil {
			allDay = *req.AllDay
		}
		entries = append(entries, Entry{
			Date:     DateOnly(date),
			Name:     strings.TrimSpace(req.Name),
			Category: category,
			AllDay:   allDay,
		})
	}
	return entries, nil
}
