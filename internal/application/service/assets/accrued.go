package assets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	nominal = decimal.NewFromInt(1000)
)

// AccruedInterest resolves the accrued interest per 1000 nominal on the
// given date.
//
// Preferred path is a record published exactly on the date. Otherwise the
// value is extrapolated from the most recent record carrying both an
// accrued interest and a coupon rate, accruing one calendar day at a time
// at the annual rate over 365 or 366 days depending on the year of the day
// being stepped into. When no coupon rate is known anywhere in the
// lookback window, the last published accrued interest is returned as a
// degraded estimate.
func (a *Asset) AccruedInterest(ctx context.Context, onDate time.Time) (decimal.Decimal, error) {
	onDate = midnight(onDate)
	window, err := a.ensureAndSlice(ctx, onDate.AddDate(0, 0, -lookbackDays), onDate)
	if err != nil {
		return decimal.Zero, err
	}
	if len(window) == 0 {
		return decimal.Zero, ErrNoAccruedInterest
	}

	last := window[len(window)-1]
	if last.TradeDate.Equal(onDate) && last.AccruedInterest != nil {
		return *last.AccruedInterest, nil
	}

	base := -1
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].AccruedInterest != nil && window[i].CouponPercent != nil {
			base = i
			break
		}
	}
	if base < 0 {
		for i := len(window) - 1; i >= 0; i-- {
			if window[i].AccruedInterest != nil {
				return *window[i].AccruedInterest, nil
			}
		}
		return decimal.Zero, ErrNoAccruedInterest
	}

	rate := window[base].CouponPercent.Div(hundred)
	accint := *window[base].AccruedInterest
	day := window[base].TradeDate
	for !day.Equal(onDate) {
		day = day.AddDate(0, 0, 1)
		accint = accint.Add(rate.Div(decimal.NewFromInt(daysInYear(day.Year()))).Mul(nominal))
	}
	return accint, nil
}

// PurchaseAccruedInterest maps a purchase date to its value date per the
// trading board rules, then resolves accrued interest on that date.
// On the OTC bond board trades settle T+1: Friday purchases roll to
// Monday, Saturday purchases to Monday as well. Other boards settle same
// day.
func (a *Asset) PurchaseAccruedInterest(ctx context.Context, onDate time.Time) (decimal.Decimal, error) {
	board, err := a.Board(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	onDate = midnight(onDate)
	if board == otcBondBoard {
		switch onDate.Weekday() {
		case time.Friday:
			onDate = onDate.AddDate(0, 0, 3)
		case time.Saturday:
			onDate = onDate.AddDate(0, 0, 2)
		default:
			onDate = onDate.AddDate(0, 0, 1)
		}
	}
	return a.AccruedInterest(ctx, onDate)
}
