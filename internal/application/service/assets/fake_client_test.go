package assets

import (
	"context"
	"time"

	bonds "main/internal/domain/entity/bonds"

	"github.com/shopspring/decimal"
)

// fakeClient serves canned search and history payloads and records how it
// was called.
type fakeClient struct {
	searchResult *bonds.SearchResult
	searchErr    error
	searchCalls  int

	rows       []bonds.HistoryRow
	historyErr error
	fetchCalls int
	lastCodes  []string
	lastFrom   time.Time
	lastTill   time.Time
}

func (f *fakeClient) Search(_ context.Context, _ string) (*bonds.SearchResult, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchResult != nil {
		return f.searchResult, nil
	}
	return singleMatch("XXX", "RU000A0TEST0", "TQCB"), nil
}

func (f *fakeClient) GetHistory(_ context.Context, codes []string, from, till time.Time) ([]bonds.HistoryRow, error) {
	f.fetchCalls++
	f.lastCodes = codes
	f.lastFrom = from
	f.lastTill = till
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.rows, nil
}

func (f *fakeClient) GetInfo(_ context.Context, _ string) ([]bonds.SecurityInfo, error) {
	return nil, nil
}

func singleMatch(code, isin, board string) *bonds.SearchResult {
	return &bonds.SearchResult{Securities: []bonds.SecurityMatch{
		{Code: code, ISIN: isin, Board: board},
	}}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(value string) *decimal.Decimal {
	parsed := decimal.RequireFromString(value)
	return &parsed
}

// accintFor derives a per-day accrued interest value unique within a year,
// so a returned value identifies the date it was resolved on.
func accintFor(d time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(d.YearDay()))
}
