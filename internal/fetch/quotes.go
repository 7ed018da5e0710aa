package fetch

import (
    "context"
    "encoding/json"
    "log"
    "time"

    "stockdata/internal/cache"
    "stockdata/internal/market"
    "stockdata/internal/metrics"
    "stockdata/internal/provider"
    "stockdata/internal/ratelimit"
)

const (
    defaultQuoteTTL     = 5 * time.Minute
    defaultIndicatorTTL = time.Hour
)

// QuotesConfig tunes a Quotes client. Zero values pick the defaults.
type QuotesConfig struct {
    QuoteTTL     time.Duration
    IndicatorTTL time.Duration
    Metrics      *metrics.Metrics
}

// Quotes fetches real-time quotes, intraday series and technical
// indicators through a cache and a rate limiter (remote data source A).
type Quotes struct {
    src     provider.QuoteSource
    cache   *cache.Cache
    limiter *ratelimit.Limiter
    cfg     QuotesConfig
}

// NewQuotes wires a Quotes client.
func NewQuotes(src provider.QuoteSource, c *cache.Cache, l *ratelimit.Limiter, cfg QuotesConfig) *Quotes {
    if cfg.QuoteTTL <= 0 {
        cfg.QuoteTTL = defaultQuoteTTL
    }
    if cfg.IndicatorTTL <= 0 {
        cfg.IndicatorTTL = defaultIndicatorTTL
    }
    return &Quotes{src: src, cache: c, limiter: l, cfg: cfg}
}

// Quote returns the real-time quote for symbol.
func (q *Quotes) Quote(ctx context.Context, symbol string, useCache bool) (*market.Quote, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }

    key := cache.QuoteKey(symbol)
    if useCache {
        if payload, ok := q.cache.Lookup(key, q.cfg.QuoteTTL); ok {
            var quote market.Quote
            if err := json.Unmarshal(payload, &quote); err == nil {
                q.cfg.Metrics.Hit("quote")
                return &quote, nil
            }
            log.Printf("quotes: discarding corrupt cache entry %s", key)
        }
        q.cfg.Metrics.Miss("quote")
    }

    if err := q.limiter.Acquire(ctx); err != nil {
        return nil, err
    }
    q.cfg.Metrics.Call(q.src.Name())
    quote, err := q.src.Quote(ctx, symbol)
    if err != nil {
        q.cfg.Metrics.Failure(q.src.Name())
        return nil, err
    }

    if useCache {
        if payload, err := json.MarshalIndent(quote, "", "  "); err == nil {
            q.cache.Store(key, payload)
        }
    }
    return quote, nil
}

// Intraday returns an intraday OHLCV series. Intraday data moves too fast
// to be worth a file-cache slot, so every call is remote (and rate-limited).
func (q *Quotes) Intraday(ctx context.Context, symbol, interval, outputSize string) ([]market.Bar, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }
    if err := q.limiter.Acquire(ctx); err != nil {
        return nil, err
    }
    q.cfg.Metrics.Call(q.src.Name())
    bars, err := q.src.Intraday(ctx, symbol, interval, outputSize)
    if err != nil {
        q.cfg.Metrics.Failure(q.src.Name())
        return nil, err
    }
    return bars, nil
}

// Indicator returns a technical indicator series for symbol.
func (q *Quotes) Indicator(ctx context.Context, symbol string, params market.IndicatorParams, useCache bool) (*market.IndicatorSeries, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }

    key := cache.IndicatorKey(symbol, params.Name, orDefault(params.Interval, "daily"),
        orDefaultInt(params.TimePeriod, 10), orDefault(params.SeriesType, "close"))
    if useCache {
        if payload, ok := q.cache.Lookup(key, q.cfg.IndicatorTTL); ok {
            var series market.IndicatorSeries
            if err := json.Unmarshal(payload, &series); err == nil {
                q.cfg.Metrics.Hit("indicator")
                return &series, nil
            }
            log.Printf("quotes: discarding corrupt cache entry %s", key)
        }
        q.cfg.Metrics.Miss("indicator")
    }

    if err := q.limiter.Acquire(ctx); err != nil {
        return nil, err
    }
    q.cfg.Metrics.Call(q.src.Name())
    series, err := q.src.Indicator(ctx, symbol, params)
    if err != nil {
        q.cfg.Metrics.Failure(q.src.Name())
        return nil, err
    }

    if useCache {
        if payload, err := json.MarshalIndent(series, "", "  "); err == nil {
            q.cache.Store(key, payload)
        }
    }
    return series, nil
}

// UsageStats exposes the limiter's view of recent call volume.
func (q *Quotes) UsageStats() ratelimit.Stats {
    return q.limiter.Stats()
}

func orDefault(s, def string) string {
    if s == "" {
        return def
    }
    return s
}

func orDefaultInt(v, def int) int {
    if v <= 0 {
        return def
    }
    return v
}
