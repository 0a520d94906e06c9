package assets

import (
	"context"
	"testing"
	"time"

	bonds "main/internal/domain/entity/bonds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekOfRows() []bonds.HistoryRow {
	return []bonds.HistoryRow{
		{TradeDate: "2018-08-26", AccruedInterest: dec("1")},
		{TradeDate: "2018-08-27", AccruedInterest: dec("2")},
		{TradeDate: "2018-08-28", AccruedInterest: dec("3")},
		{TradeDate: "2018-08-29", AccruedInterest: dec("4")},
		{TradeDate: "2018-08-30", AccruedInterest: dec("5")},
		{TradeDate: "2018-08-31", AccruedInterest: dec("6")},
		{TradeDate: "2018-09-01", AccruedInterest: dec("7")},
	}
}

func newTestAsset(t *testing.T, client *fakeClient) *Asset {
	t.Helper()
	asset, err := NewAsset(client, "XXX", "")
	require.NoError(t, err)
	return asset
}

func tradeDates(records []bonds.DailyRecord) []time.Time {
	dates := make([]time.Time, 0, len(records))
	for _, rec := range records {
		dates = append(dates, rec.TradeDate)
	}
	return dates
}

func TestSliceIsInclusiveOnBothEnds(t *testing.T) {
	asset := newTestAsset(t, &fakeClient{rows: weekOfRows()})

	records, err := asset.ensureAndSlice(context.Background(), day(2018, 8, 30), day(2018, 8, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2018, 8, 30), day(2018, 8, 31)}, tradeDates(records))
}

func TestSliceBeyondAvailableDataReturnsSuffix(t *testing.T) {
	asset := newTestAsset(t, &fakeClient{rows: weekOfRows()})

	records, err := asset.ensureAndSlice(context.Background(), day(2018, 8, 31), day(2018, 9, 3))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2018, 8, 31), day(2018, 9, 1)}, tradeDates(records))
}

func TestSliceBeforeAvailableDataReturnsEarliest(t *testing.T) {
	asset := newTestAsset(t, &fakeClient{rows: weekOfRows()})

	records, err := asset.ensureAndSlice(context.Background(), day(2018, 8, 20), day(2018, 8, 26))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2018, 8, 26)}, tradeDates(records))
}

func TestSliceInvertedRangeIsEmptyWithoutFetch(t *testing.T) {
	client := &fakeClient{rows: weekOfRows()}
	asset := newTestAsset(t, client)

	records, err := asset.ensureAndSlice(context.Background(), day(2018, 8, 31), day(2018, 8, 30))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, client.fetchCalls)
}

func TestRefetchTrigger(t *testing.T) {
	client := &fakeClient{rows: weekOfRows()}
	asset := newTestAsset(t, client)
	ctx := context.Background()

	_, err := asset.ensureAndSlice(ctx, day(2018, 8, 28), day(2018, 8, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, client.fetchCalls)
	assert.Equal(t, []string{"XXX"}, client.lastCodes)
	assert.Equal(t, day(2018, 8, 28), client.lastFrom)
	assert.False(t, client.lastTill.Before(client.lastFrom))

	// The store covers this range already, no second fetch.
	_, err = asset.ensureAndSlice(ctx, day(2018, 8, 30), day(2018, 9, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, client.fetchCalls)

	// An earlier lower bound than anything fetched forces a refetch from
	// that bound.
	_, err = asset.ensureAndSlice(ctx, day(2018, 8, 25), day(2018, 8, 27))
	require.NoError(t, err)
	assert.Equal(t, 2, client.fetchCalls)
	assert.Equal(t, day(2018, 8, 25), client.lastFrom)
}

func TestRefetchCollapsesDuplicateDates(t *testing.T) {
	client := &fakeClient{rows: []bonds.HistoryRow{
		{TradeDate: "2018-08-29", ClosePrice: dec("99.1")},
		{TradeDate: "2018-08-30", ClosePrice: dec("99.2")},
		{TradeDate: "2018-08-30", ClosePrice: dec("99.9")},
		{TradeDate: "2018-08-31", ClosePrice: dec("99.3")},
	}}
	asset := newTestAsset(t, client)

	records, err := asset.ensureAndSlice(context.Background(), day(2018, 8, 29), day(2018, 8, 31))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []time.Time{day(2018, 8, 29), day(2018, 8, 30), day(2018, 8, 31)}, tradeDates(records))
	// First occurrence wins.
	assert.True(t, records[1].ClosePrice.Equal(*dec("99.2")))
}

func TestRefetchRejectsMalformedDates(t *testing.T) {
	client := &fakeClient{rows: []bonds.HistoryRow{
		{TradeDate: "29/08/2018", ClosePrice: dec("99.1")},
	}}
	asset := newTestAsset(t, client)

	_, err := asset.ensureAndSlice(context.Background(), day(2018, 8, 29), day(2018, 8, 31))
	assert.Error(t, err)
}
