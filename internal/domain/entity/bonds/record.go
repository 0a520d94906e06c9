package bonds

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyRecord is one calendar day of published data for a bond.
// Every field except the trade date is nullable: a nil pointer means the
// exchange did not publish the value, which is different from a published
// zero (the accrued-interest reset after a coupon payment is an explicit 0).
type DailyRecord struct {
	TradeDate       time.Time
	AccruedInterest *decimal.Decimal
	CouponPercent   *decimal.Decimal
	CouponValue     *decimal.Decimal
	ClosePrice      *decimal.Decimal
}

// HistoryRow is a raw history record as returned by the exchange: the trade
// date is still the source's string form, parsing happens in the cache layer.
type HistoryRow struct {
	TradeDate       string
	AccruedInterest *decimal.Decimal
	CouponPercent   *decimal.Decimal
	CouponValue     *decimal.Decimal
	ClosePrice      *decimal.Decimal
}

// PaymentEvent is one historical coupon/principal payment: the date the
// accrued interest reset to zero and the coupon amount applied at the event.
type PaymentEvent struct {
	Date  time.Time
	Price decimal.Decimal
}
