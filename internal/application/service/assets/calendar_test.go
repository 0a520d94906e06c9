package assets

import (
	"context"
	"testing"

	bonds "main/internal/domain/entity/bonds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentCalendarDetectsReset(t *testing.T) {
	client := &fakeClient{rows: []bonds.HistoryRow{
		{TradeDate: "2018-08-01", AccruedInterest: dec("10"), CouponValue: dec("40")},
		{TradeDate: "2018-08-02", AccruedInterest: dec("20")},
		{TradeDate: "2018-08-03", AccruedInterest: dec("0")},
	}}
	asset := newTestAsset(t, client)

	events, err := asset.PaymentCalendar(context.Background(), day(2018, 8, 1), day(2018, 8, 5))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, day(2018, 8, 3), events[0].Date)
	assert.True(t, events[0].Price.Equal(*dec("40")), "got %s", events[0].Price)
}

func TestPaymentCalendarMultipleEvents(t *testing.T) {
	client := &fakeClient{rows: []bonds.HistoryRow{
		{TradeDate: "2018-03-01", AccruedInterest: dec("5"), CouponValue: dec("20")},
		{TradeDate: "2018-03-02", AccruedInterest: dec("0")},
		{TradeDate: "2018-03-03", AccruedInterest: dec("0.2"), CouponValue: dec("25")},
		{TradeDate: "2018-03-04", AccruedInterest: dec("0")},
	}}
	asset := newTestAsset(t, client)

	events, err := asset.PaymentCalendar(context.Background(), day(2018, 3, 1), day(2018, 3, 10))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, day(2018, 3, 2), events[0].Date)
	assert.True(t, events[0].Price.Equal(*dec("20")))
	assert.Equal(t, day(2018, 3, 4), events[1].Date)
	assert.True(t, events[1].Price.Equal(*dec("25")))
}

func TestPaymentCalendarWidensForResetAtWindowStart(t *testing.T) {
	// The positive run happened just before the requested window, the
	// reset sits right at its start. The first pass sees the zero with no
	// preceding non-zero and widens by the lookback to pick the coupon
	// value up.
	client := &fakeClient{rows: []bonds.HistoryRow{
		{TradeDate: "2018-07-25", AccruedInterest: dec("3"), CouponValue: dec("35")},
		{TradeDate: "2018-07-26", AccruedInterest: dec("5")},
		{TradeDate: "2018-08-01", AccruedInterest: dec("0")},
		{TradeDate: "2018-08-02", AccruedInterest: dec("0.5")},
	}}
	asset := newTestAsset(t, client)

	events, err := asset.PaymentCalendar(context.Background(), day(2018, 8, 1), day(2018, 8, 5))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, day(2018, 8, 1), events[0].Date)
	assert.True(t, events[0].Price.Equal(*dec("35")), "got %s", events[0].Price)
	assert.Equal(t, 2, client.fetchCalls)
}

func TestPaymentCalendarNoEvents(t *testing.T) {
	client := &fakeClient{rows: []bonds.HistoryRow{
		{TradeDate: "2018-08-01", AccruedInterest: dec("10")},
		{TradeDate: "2018-08-02", AccruedInterest: dec("11")},
		{TradeDate: "2018-08-03", AccruedInterest: dec("12")},
	}}
	asset := newTestAsset(t, client)

	events, err := asset.PaymentCalendar(context.Background(), day(2018, 8, 1), day(2018, 8, 5))
	require.NoError(t, err)
	assert.Empty(t, events)
	// No reset in the window, the builder widened and scanned again.
	assert.Equal(t, 2, client.fetchCalls)
}

func TestPaymentCalendarUnknownCouponValue(t *testing.T) {
	client := &fakeClient{rows: []bonds.HistoryRow{
		{TradeDate: "2018-08-01", AccruedInterest: dec("5")},
		{TradeDate: "2018-08-03", AccruedInterest: dec("0")},
	}}
	asset := newTestAsset(t, client)

	_, err := asset.PaymentCalendar(context.Background(), day(2018, 8, 1), day(2018, 8, 5))
	assert.ErrorIs(t, err, ErrNoCouponValue)
}
