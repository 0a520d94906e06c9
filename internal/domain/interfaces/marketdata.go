package interfaces

import (
	"context"
	"time"

	bonds "main/internal/domain/entity/bonds"
)

// MarketDataClient is the boundary to the exchange data source.
//
// GetHistory spans the full inclusive [from, till] range in ascending date
// order. If the source paginates, the implementation exhausts all pages and
// returns one flattened sequence; overlapping pages may yield duplicate
// dates, which the caller deduplicates.
type MarketDataClient interface {
	Search(ctx context.Context, query string) (*bonds.SearchResult, error)
	GetHistory(ctx context.Context, codes []string, from, till time.Time) ([]bonds.HistoryRow, error)
	GetInfo(ctx context.Context, code string) ([]bonds.SecurityInfo, error)
}
