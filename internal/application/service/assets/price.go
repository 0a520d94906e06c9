package assets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Price returns the most recent known clean price at or before the given
// date within the lookback window. A missing price is not an error: the
// defined default is zero.
func (a *Asset) Price(ctx context.Context, onDate time.Time) (decimal.Decimal, error) {
	onDate = midnight(onDate)
	window, err := a.ensureAndSlice(ctx, onDate.AddDate(0, 0, -lookbackDays), onDate)
	if err != nil {
		return decimal.Zero, err
	}
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].ClosePrice != nil {
			return *window[i].ClosePrice, nil
		}
	}
	return decimal.Zero, nil
}
