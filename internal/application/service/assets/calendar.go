package assets

import (
	"context"
	"time"

	bonds "main/internal/domain/entity/bonds"

	"github.com/shopspring/decimal"
)

// PaymentCalendar reconstructs the historical coupon/principal payment
// events between from and to. A payment shows up in the accrued-interest
// series as a positive value followed by an exact zero, the reset after
// the payout; the event's price is the last coupon value published before
// the reset.
//
// When the requested window contains no detectable reset, the query is
// widened by the lookback to pick up a payment that occurred just before
// the window.
func (a *Asset) PaymentCalendar(ctx context.Context, from, to time.Time) ([]bonds.PaymentEvent, error) {
	from = midnight(from)
	to = midnight(to)
	window, err := a.ensureAndSlice(ctx, from, to)
	if err != nil {
		return nil, err
	}

	nonZero := -1
	found := false
	for i, rec := range window {
		if rec.AccruedInterest == nil {
			continue
		}
		if rec.AccruedInterest.IsPositive() {
			nonZero = i
		} else {
			if nonZero >= 0 {
				found = true
			}
			break
		}
	}
	if !found {
		window, err = a.ensureAndSlice(ctx, from.AddDate(0, 0, -lookbackDays), to)
		if err != nil {
			return nil, err
		}
	}

	// Walk up to the first in-range record, tracking the coupon value
	// published before the window so a reset right at the window start
	// still has a known amount.
	couponValue := decimal.Zero
	start := 0
	for i, rec := range window {
		start = i
		if !rec.TradeDate.Before(from) {
			break
		}
		if rec.CouponValue != nil {
			couponValue = *rec.CouponValue
		}
	}

	events := make([]bonds.PaymentEvent, 0)
	for _, rec := range window[start:] {
		if rec.AccruedInterest != nil && rec.AccruedInterest.IsZero() {
			if couponValue.IsZero() {
				return nil, ErrNoCouponValue
			}
			events = append(events, bonds.PaymentEvent{Date: rec.TradeDate, Price: couponValue})
		}
		if rec.CouponValue != nil {
			couponValue = *rec.CouponValue
		}
	}
	return events, nil
}
