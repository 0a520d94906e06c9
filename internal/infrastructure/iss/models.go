package iss

import "github.com/shopspring/decimal"

// Row shapes of the ISS "extended" JSON blocks. Reference table columns
// (the securities search) are lower-case, market tables are upper-case.

type securityRow struct {
	SecID        string `json:"secid"`
	ISIN         string `json:"isin"`
	PrimaryBoard string `json:"primary_boardid"`
}

type historyRow struct {
	TradeDate       string           `json:"TRADEDATE"`
	AccruedInterest *decimal.Decimal `json:"ACCINT"`
	CouponPercent   *decimal.Decimal `json:"COUPONPERCENT"`
	CouponValue     *decimal.Decimal `json:"COUPONVALUE"`
	ClosePrice      *decimal.Decimal `json:"LEGALCLOSEPRICE"`
}

type cursorRow struct {
	Index    int64 `json:"INDEX"`
	Total    int64 `json:"TOTAL"`
	PageSize int64 `json:"PAGESIZE"`
}

type infoRow struct {
	SecID         string           `json:"SECID"`
	BoardID       string           `json:"BOARDID"`
	ShortName     string           `json:"SHORTNAME"`
	ISIN          string           `json:"ISIN"`
	FaceValue     *decimal.Decimal `json:"FACEVALUE"`
	CouponPercent *decimal.Decimal `json:"COUPONPERCENT"`
	CouponValue   *decimal.Decimal `json:"COUPONVALUE"`
	CouponPeriod  *int64           `json:"COUPONPERIOD"`
	NextCoupon    string           `json:"NEXTCOUPON"`
	MaturityDate  string           `json:"MATDATE"`
	AccruedInt    *decimal.Decimal `json:"ACCRUEDINT"`
}
