package bonds

import "github.com/shopspring/decimal"

// SecurityMatch is one security returned by an identity search.
type SecurityMatch struct {
	Code  string
	ISIN  string
	Board string
}

// SearchResult is the full payload of an identity search. It is cached by
// the asset after the first resolution.
type SearchResult struct {
	Securities []SecurityMatch
}

// SecurityInfo describes a bond on one trading board.
type SecurityInfo struct {
	Code          string
	Board         string
	ShortName     string
	ISIN          string
	FaceValue     *decimal.Decimal
	CouponPercent *decimal.Decimal
	CouponValue   *decimal.Decimal
	CouponPeriod  *int64
	NextCoupon    string
	MaturityDate  string
	AccruedInt    *decimal.Decimal
}
