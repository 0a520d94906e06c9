// @title           Bond Data API
// @version         1.0
// @description     API for bond accrued interest, prices and payment calendars
// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	appinterfaces "main/internal/application/interfaces"
	assets "main/internal/application/service/assets"
	bonds "main/internal/domain/entity/bonds"
	interfaces "main/internal/domain/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	bondsBasePath = "/api/v1/bonds"
	dateLayout    = "2006-01-02"
)

var errMissingRange = errors.New("from/to query params required")

type Handler struct {
	router   *gin.Engine
	client   interfaces.MarketDataClient
	cache    *redis.Client
	cacheTTL time.Duration
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

func NewHandler(client interfaces.MarketDataClient, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:   router,
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	group := h.router.Group(bondsBasePath)
	if h.cache != nil {
		group.Use(h.cacheMiddleware())
	}
	{
		group.GET("/:security/price", h.getPrice)
		group.GET("/:security/accrued", h.getAccruedInterest)
		group.GET("/:security/purchase-accrued", h.getPurchaseAccruedInterest)
		group.GET("/:security/payments", h.getPaymentCalendar)
		group.GET("/:security/info", h.getInfo)
	}
}

// getPrice returns the last traded clean price
// @Summary      Clean price
// @Description  Most recent clean price at or before the date, 0 when none is published
// @Tags         bonds
// @Produce      json
// @Param        security  path      string  true   "Security code or ISIN"
// @Param        date      query     string  false  "Date (YYYY-MM-DD), defaults to today"
// @Success      200       {object}  valueResponse
// @Failure      400       {object}  map[string]string
// @Router       /bonds/{security}/price [get]
func (h *Handler) getPrice(c *gin.Context) {
	asset, onDate, ok := h.assetAndDate(c)
	if !ok {
		return
	}
	price, err := asset.Price(c.Request.Context(), onDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, valueResponse{
		Security: c.Param("security"),
		Date:     onDate.Format(dateLayout),
		Value:    price,
	})
}

// getAccruedInterest returns the accrued interest on a date
// @Summary      Accrued interest
// @Description  Accrued interest per 1000 nominal on the date, extrapolated from the coupon rate when the exact date is unpublished
// @Tags         bonds
// @Produce      json
// @Param        security  path      string  true   "Security code or ISIN"
// @Param        date      query     string  false  "Date (YYYY-MM-DD), defaults to today"
// @Success      200       {object}  valueResponse
// @Failure      404       {object}  map[string]string
// @Router       /bonds/{security}/accrued [get]
func (h *Handler) getAccruedInterest(c *gin.Context) {
	asset, onDate, ok := h.assetAndDate(c)
	if !ok {
		return
	}
	accint, err := asset.AccruedInterest(c.Request.Context(), onDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, valueResponse{
		Security: c.Param("security"),
		Date:     onDate.Format(dateLayout),
		Value:    accint,
	})
}

// getPurchaseAccruedInterest returns the accrued interest payable on purchase
// @Summary      Purchase accrued interest
// @Description  Accrued interest on the settlement date implied by the purchase date and the trading board rules
// @Tags         bonds
// @Produce      json
// @Param        security  path      string  true   "Security code or ISIN"
// @Param        date      query     string  false  "Purchase date (YYYY-MM-DD), defaults to today"
// @Success      200       {object}  valueResponse
// @Failure      404       {object}  map[string]string
// @Router       /bonds/{security}/purchase-accrued [get]
func (h *Handler) getPurchaseAccruedInterest(c *gin.Context) {
	asset, onDate, ok := h.assetAndDate(c)
	if !ok {
		return
	}
	accint, err := asset.PurchaseAccruedInterest(c.Request.Context(), onDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, valueResponse{
		Security: c.Param("security"),
		Date:     onDate.Format(dateLayout),
		Value:    accint,
	})
}

// getPaymentCalendar returns the historical payment events in a range
// @Summary      Payment calendar
// @Description  Historical coupon/principal payment events between from and to
// @Tags         bonds
// @Produce      json
// @Param        security  path      string  true  "Security code or ISIN"
// @Param        from      query     string  true  "Range start (YYYY-MM-DD)"
// @Param        to        query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200       {array}   paymentResponse
// @Failure      400       {object}  map[string]string
// @Router       /bonds/{security}/payments [get]
func (h *Handler) getPaymentCalendar(c *gin.Context) {
	asset, err := assets.NewAssetFromIdentifier(h.client, c.Param("security"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		writeError(c, http.StatusBadRequest, errMissingRange)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		writeError(c, http.StatusBadRequest, errMissingRange)
		return
	}
	events, err := asset.PaymentCalendar(c.Request.Context(), from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	payments := make([]paymentResponse, 0, len(events))
	for _, event := range events {
		payments = append(payments, paymentResponse{
			Date:  event.Date.Format(dateLayout),
			Price: event.Price,
		})
	}
	c.JSON(http.StatusOK, payments)
}

// getInfo returns the security descriptor
// @Summary      Security info
// @Description  Per-board descriptor of the bond as published by the exchange
// @Tags         bonds
// @Produce      json
// @Param        security  path      string  true  "Security code or ISIN"
// @Success      200       {array}   bonds.SecurityInfo
// @Failure      404       {object}  map[string]string
// @Router       /bonds/{security}/info [get]
func (h *Handler) getInfo(c *gin.Context) {
	asset, err := assets.NewAssetFromIdentifier(h.client, c.Param("security"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	info, err := asset.Info(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, infoResponses(info))
}

// Helpers

type valueResponse struct {
	Security string          `json:"security"`
	Date     string          `json:"date"`
	Value    decimal.Decimal `json:"value"`
}

type paymentResponse struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

type infoResponse struct {
	Code          string           `json:"code"`
	Board         string           `json:"board"`
	ShortName     string           `json:"short_name"`
	ISIN          string           `json:"isin"`
	FaceValue     *decimal.Decimal `json:"face_value,omitempty"`
	CouponPercent *decimal.Decimal `json:"coupon_percent,omitempty"`
	CouponValue   *decimal.Decimal `json:"coupon_value,omitempty"`
	CouponPeriod  *int64           `json:"coupon_period,omitempty"`
	NextCoupon    string           `json:"next_coupon,omitempty"`
	MaturityDate  string           `json:"maturity_date,omitempty"`
	AccruedInt    *decimal.Decimal `json:"accrued_interest,omitempty"`
}

func infoResponses(info []bonds.SecurityInfo) []infoResponse {
	out := make([]infoResponse, 0, len(info))
	for _, row := range info {
		out = append(out, infoResponse{
			Code:          row.Code,
			Board:         row.Board,
			ShortName:     row.ShortName,
			ISIN:          row.ISIN,
			FaceValue:     row.FaceValue,
			CouponPercent: row.CouponPercent,
			CouponValue:   row.CouponValue,
			CouponPeriod:  row.CouponPeriod,
			NextCoupon:    row.NextCoupon,
			MaturityDate:  row.MaturityDate,
			AccruedInt:    row.AccruedInt,
		})
	}
	return out
}

// assetAndDate builds the per-request asset and parses the optional date
// query param, writing the error response itself on failure.
func (h *Handler) assetAndDate(c *gin.Context) (*assets.Asset, time.Time, bool) {
	asset, err := assets.NewAssetFromIdentifier(h.client, c.Param("security"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return nil, time.Time{}, false
	}
	onDate := time.Now().UTC()
	if value := c.Query("date"); value != "" {
		onDate, err = time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			writeError(c, http.StatusBadRequest, fmt.Errorf("parse date %q: %w", value, err))
			return nil, time.Time{}, false
		}
	}
	return asset, onDate, true
}

func parseDateQuery(c *gin.Context, key string) (time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return time.Time{}, fmt.Errorf("%s query param required", key)
	}
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assets.ErrSecurityNotFound),
		errors.Is(err, assets.ErrNoAccruedInterest),
		errors.Is(err, assets.ErrNoCouponValue):
		writeError(c, http.StatusNotFound, err)
	case errors.Is(err, assets.ErrAmbiguousSecurity):
		writeError(c, http.StatusConflict, err)
	default:
		writeError(c, http.StatusBadGateway, err)
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery)
}
