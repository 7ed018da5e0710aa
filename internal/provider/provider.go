package provider

import (
    "context"

    "stockdata/internal/market"
)

// HistorySource serves historical bars and company metadata
// (remote data source B).
type HistorySource interface {
    Name() string
    History(ctx context.Context, symbol, period, interval string) ([]market.Bar, error)
    CompanyInfo(ctx context.Context, symbol string) (*market.CompanyInfo, error)
}

// QuoteSource serves real-time quotes, intraday series and technical
// indicators (remote data source A).
type QuoteSource interface {
    Name() string
    Quote(ctx context.Context, symbol string) (*market.Quote, error)
    Intraday(ctx context.Context, symbol, interval, outputSize string) ([]market.Bar, error)
    Indicator(ctx context.Context, symbol string, params market.IndicatorParams) (*market.IndicatorSeries, error)
}
