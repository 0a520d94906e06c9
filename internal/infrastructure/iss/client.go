package iss

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	bonds "main/internal/domain/entity/bonds"
	interfaces "main/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public MOEX ISS endpoint.
	DefaultBaseURL = "https://iss.moex.com"

	searchPath  = "/iss/securities.json"
	historyPath = "/iss/history/engines/stock/markets/bonds/securities/%s.json"
	infoPath    = "/iss/engines/stock/markets/bonds/securities/%s.json"

	dateLayout = "2006-01-02"
)

// Client talks to the MOEX ISS JSON API for the bonds market. Calls are
// blocking; cancellation and deadlines come from the request context and
// the HTTP client timeout. Failed calls are surfaced to the caller, never
// retried here.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *logrus.Logger
}

var _ interfaces.MarketDataClient = (*Client)(nil)

// NewClient builds a client for the given ISS endpoint. An empty baseURL
// selects the public one.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Search looks a security up by code, ISIN or name fragment and returns
// every match.
func (c *Client) Search(ctx context.Context, query string) (*bonds.SearchResult, error) {
	u := fmt.Sprintf("%s%s?q=%s&iss.json=extended", c.baseURL, searchPath, url.QueryEscape(query))
	blocks, err := c.call(ctx, u)
	if err != nil {
		return nil, err
	}

	var matches []securityRow
	if err := blockRows(blocks, "securities", &matches); err != nil {
		return nil, err
	}
	result := &bonds.SearchResult{Securities: make([]bonds.SecurityMatch, 0, len(matches))}
	for _, m := range matches {
		result.Securities = append(result.Securities, bonds.SecurityMatch{
			Code:  m.SecID,
			ISIN:  m.ISIN,
			Board: m.PrimaryBoard,
		})
	}
	return result, nil
}

// GetHistory fetches the daily history rows for the given securities over
// the inclusive [from, till] range, following the history cursor until all
// pages are exhausted. Rows are returned in source order; overlapping
// pages may repeat dates.
func (c *Client) GetHistory(ctx context.Context, codes []string, from, till time.Time) ([]bonds.HistoryRow, error) {
	path := fmt.Sprintf(historyPath, strings.Join(codes, ","))

	var result []bonds.HistoryRow
	start := int64(0)
	for {
		u := fmt.Sprintf("%s%s?iss.json=extended&from=%s&till=%s&start=%d",
			c.baseURL, path, from.Format(dateLayout), till.Format(dateLayout), start)
		blocks, err := c.call(ctx, u)
		if err != nil {
			return nil, err
		}

		var page []historyRow
		if err := blockRows(blocks, "history", &page); err != nil {
			return nil, err
		}
		for _, row := range page {
			result = append(result, bonds.HistoryRow{
				TradeDate:       row.TradeDate,
				AccruedInterest: row.AccruedInterest,
				CouponPercent:   row.CouponPercent,
				CouponValue:     row.CouponValue,
				ClosePrice:      row.ClosePrice,
			})
		}

		var cursors []cursorRow
		if err := blockRows(blocks, "history.cursor", &cursors); err != nil {
			return nil, err
		}
		if len(cursors) == 0 {
			return nil, fmt.Errorf("history.cursor block of %s is empty", path)
		}
		cursor := cursors[0]
		c.logger.WithFields(logrus.Fields{
			"securities": strings.Join(codes, ","),
			"index":      cursor.Index,
			"total":      cursor.Total,
		}).Debug("fetched history page")
		if cursor.Index+cursor.PageSize >= cursor.Total {
			break
		}
		start += cursor.PageSize
	}
	return result, nil
}

// GetInfo fetches the per-board security descriptor for one code.
func (c *Client) GetInfo(ctx context.Context, code string) ([]bonds.SecurityInfo, error) {
	u := fmt.Sprintf("%s%s?iss.json=extended", c.baseURL, fmt.Sprintf(infoPath, code))
	blocks, err := c.call(ctx, u)
	if err != nil {
		return nil, err
	}

	var rows []infoRow
	if err := blockRows(blocks, "securities", &rows); err != nil {
		return nil, err
	}
	info := make([]bonds.SecurityInfo, 0, len(rows))
	for _, row := range rows {
		info = append(info, bonds.SecurityInfo{
			Code:          row.SecID,
			Board:         row.BoardID,
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
	return info, nil
}

// call performs one GET and decodes the two-element "extended" envelope:
// element 0 carries charset metadata, element 1 maps block names to
// [metadata, rows] pairs.
func (c *Client) call(ctx context.Context, u string) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build iss request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call iss: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{"url": u, "status": resp.StatusCode}).Error("iss call failed")
		return nil, fmt.Errorf("iss responded with status %d", resp.StatusCode)
	}

	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode iss response: %w", err)
	}
	if len(envelope) < 2 {
		return nil, fmt.Errorf("unexpected iss envelope of %d elements", len(envelope))
	}
	var blocks map[string]json.RawMessage
	if err := json.Unmarshal(envelope[1], &blocks); err != nil {
		return nil, fmt.Errorf("decode iss blocks: %w", err)
	}
	return blocks, nil
}

// blockRows unmarshals the row list of a named block into out.
func blockRows(blocks map[string]json.RawMessage, name string, out any) error {
	raw, ok := blocks[name]
	if !ok {
		return fmt.Errorf("iss response has no %q block", name)
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return fmt.Errorf("decode %q block: %w", name, err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("%q block has no rows", name)
	}
	if err := json.Unmarshal(pair[1], out); err != nil {
		return fmt.Errorf("decode %q rows: %w", name, err)
	}
	return nil
}
