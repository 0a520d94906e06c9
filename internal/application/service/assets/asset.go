package assets

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	bonds "main/internal/domain/entity/bonds"
	interfaces "main/internal/domain/interfaces"
)

var (
	ErrNoIdentifier      = errors.New("either code or isin is required")
	ErrSecurityNotFound  = errors.New("no security found")
	ErrAmbiguousSecurity = errors.New("more than one security found")
	ErrNoAccruedInterest = errors.New("no accrued interest for the date")
	ErrNoCouponValue     = errors.New("failed to get a coupon price")
)

// otcBondBoard settles T+1 with weekend roll-forward.
const otcBondBoard = "TQOB"

// lookbackDays tolerates gaps in published daily data.
const lookbackDays = 14

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// Asset is a single tradable bond with a lazily resolved identity and an
// in-memory daily history cache. Both live for the lifetime of the Asset
// and are never shared between assets.
//
// An Asset is not safe for concurrent use: a cache refetch replaces the
// record store and is not atomic with respect to concurrent readers.
type Asset struct {
	client interfaces.MarketDataClient

	code  string
	isin  string
	board string

	search  *bonds.SearchResult
	records []bonds.DailyRecord
}

// NewAsset builds an asset from a security code, an ISIN, or both.
// At least one identifier is required; the missing one is resolved via
// search on first use.
func NewAsset(client interfaces.MarketDataClient, code, isin string) (*Asset, error) {
	if code == "" && isin == "" {
		return nil, ErrNoIdentifier
	}
	return &Asset{client: client, code: code, isin: isin}, nil
}

// NewAssetFromIdentifier treats the identifier as an ISIN when it looks
// like one and as a security code otherwise.
func NewAssetFromIdentifier(client interfaces.MarketDataClient, identifier string) (*Asset, error) {
	if isinPattern.MatchString(identifier) {
		return NewAsset(client, "", identifier)
	}
	return NewAsset(client, identifier, "")
}

// Code returns the security code, resolving it via search if the asset was
// constructed with only an ISIN.
func (a *Asset) Code(ctx context.Context) (string, error) {
	if a.code == "" {
		match, err := a.resolve(ctx)
		if err != nil {
			return "", err
		}
		a.code = match.Code
	}
	return a.code, nil
}

// ISIN returns the ISIN, resolving it via search if the asset was
// constructed with only a security code.
func (a *Asset) ISIN(ctx context.Context) (string, error) {
	if a.isin == "" {
		match, err := a.resolve(ctx)
		if err != nil {
			return "", err
		}
		a.isin = match.ISIN
	}
	return a.isin, nil
}

// Board returns the primary trading board of the security.
func (a *Asset) Board(ctx context.Context) (string, error) {
	if a.board == "" {
		match, err := a.resolve(ctx)
		if err != nil {
			return "", err
		}
		a.board = match.Board
	}
	return a.board, nil
}

// Info fetches the security descriptor for the resolved code.
func (a *Asset) Info(ctx context.Context) ([]bonds.SecurityInfo, error) {
	code, err := a.Code(ctx)
	if err != nil {
		return nil, err
	}
	return a.client.GetInfo(ctx, code)
}

// resolve performs the identity search once and caches the full payload.
// The search must reference exactly one security.
func (a *Asset) resolve(ctx context.Context) (*bonds.SecurityMatch, error) {
	if a.search == nil {
		query := a.code
		if query == "" {
			query = a.isin
		}
		result, err := a.client.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		switch len(result.Securities) {
		case 1:
		case 0:
			return nil, fmt.Errorf("%w for %s", ErrSecurityNotFound, query)
		default:
			return nil, fmt.Errorf("%w for %s", ErrAmbiguousSecurity, query)
		}
		a.search = result
	}
	return &a.search.Securities[0], nil
}
