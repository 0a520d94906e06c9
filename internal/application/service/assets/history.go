package assets

import (
	"context"
	"fmt"
	"time"

	bonds "main/internal/domain/entity/bonds"
)

const tradeDateLayout = "2006-01-02"

// ensureAndSlice returns the cached daily records restricted to the
// inclusive [from, till] range, refetching the store first when it cannot
// answer the query.
//
// The single correctness rule of the cache: never answer a query whose
// lower bound lies before the earliest fetched date without re-fetching
// from that bound. A refetch always requests through today, so one fetch
// also serves later queries with later lower bounds.
func (a *Asset) ensureAndSlice(ctx context.Context, from, till time.Time) ([]bonds.DailyRecord, error) {
	if from.After(till) {
		return nil, nil
	}
	if len(a.records) == 0 || a.records[0].TradeDate.After(from) {
		if err := a.refetch(ctx, from); err != nil {
			return nil, err
		}
	}

	lo, hi := -1, -1
	for i, rec := range a.records {
		if lo < 0 && !rec.TradeDate.Before(from) {
			lo = i
		}
		if rec.TradeDate.After(till) {
			hi = i
			break
		}
	}
	if lo < 0 {
		return nil, nil
	}
	if hi < 0 {
		return a.records[lo:], nil
	}
	return a.records[lo:hi], nil
}

// refetch replaces the record store with source data covering [from, today].
// Source order is kept; consecutive rows repeating a date are dropped,
// first occurrence wins.
func (a *Asset) refetch(ctx context.Context, from time.Time) error {
	code, err := a.Code(ctx)
	if err != nil {
		return err
	}
	rows, err := a.client.GetHistory(ctx, []string{code}, from, today())
	if err != nil {
		return err
	}

	records := make([]bonds.DailyRecord, 0, len(rows))
	var prev time.Time
	for _, row := range rows {
		day, err := time.ParseInLocation(tradeDateLayout, row.TradeDate, time.UTC)
		if err != nil {
			return fmt.Errorf("parse trade date %q: %w", row.TradeDate, err)
		}
		if !prev.IsZero() && day.Equal(prev) {
			continue
		}
		prev = day
		records = append(records, bonds.DailyRecord{
			TradeDate:       day,
			AccruedInterest: row.AccruedInterest,
			CouponPercent:   row.CouponPercent,
			CouponValue:     row.CouponValue,
			ClosePrice:      row.ClosePrice,
		})
	}
	a.records = records
	return nil
}
