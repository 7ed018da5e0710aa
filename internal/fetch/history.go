// Package fetch implements get-or-fetch clients: normalize the request,
// consult the file cache with the resource kind's TTL, and on a miss take
// a rate-limit slot, call the remote source, validate and re-cache.
package fetch

import (
    "context"
    "encoding/json"
    "log"
    "strings"
    "time"

    "stockdata/internal/cache"
    "stockdata/internal/market"
    "stockdata/internal/metrics"
    "stockdata/internal/provider"
    "stockdata/internal/ratelimit"
)

const (
    defaultHistoryTTL = 24 * time.Hour
    defaultInfoTTL    = 7 * 24 * time.Hour
)

// HistoryConfig tunes a History client. Zero values pick the defaults.
type HistoryConfig struct {
    HistoryTTL time.Duration // freshness window for bar series
    InfoTTL    time.Duration // freshness window for company metadata
    Metrics    *metrics.Metrics
}

// History fetches historical bars and company metadata through a cache and
// a rate limiter (remote data source B).
type History struct {
    src     provider.HistorySource
    cache   *cache.Cache
    limiter *ratelimit.Limiter
    cfg     HistoryConfig
}

// NewHistory wires a History client.
func NewHistory(src provider.HistorySource, c *cache.Cache, l *ratelimit.Limiter, cfg HistoryConfig) *History {
    if cfg.HistoryTTL <= 0 {
        cfg.HistoryTTL = defaultHistoryTTL
    }
    if cfg.InfoTTL <= 0 {
        cfg.InfoTTL = defaultInfoTTL
    }
    return &History{src: src, cache: c, limiter: l, cfg: cfg}
}

// Bars returns the OHLCV series for symbol. Case and surrounding
// whitespace in symbol do not affect the result or the cache slot.
func (h *History) Bars(ctx context.Context, symbol, period, interval string, useCache bool) ([]market.Bar, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }
    if err := market.ValidatePeriod(period); err != nil {
        return nil, err
    }
    if err := market.ValidateInterval(interval); err != nil {
        return nil, err
    }

    key := cache.HistoryKey(symbol, period, interval)
    if useCache {
        if payload, ok := h.cache.Lookup(key, h.cfg.HistoryTTL); ok {
            bars, err := market.DecodeBars(payload)
            if err == nil {
                h.cfg.Metrics.Hit("history")
                return bars, nil
            }
            // A corrupt entry is a miss, never an error.
            log.Printf("history: discarding corrupt cache entry %s: %v", key, err)
        }
        h.cfg.Metrics.Miss("history")
    }

    if err := h.limiter.Acquire(ctx); err != nil {
        return nil, err
    }
    h.cfg.Metrics.Call(h.src.Name())
    bars, err := h.src.History(ctx, symbol, period, interval)
    if err != nil {
        h.cfg.Metrics.Failure(h.src.Name())
        return nil, err
    }
    if err := validateBars(symbol, bars); err != nil {
        return nil, err
    }

    if useCache {
        if payload, err := market.EncodeBars(bars); err == nil {
            h.cache.Store(key, payload)
        } else {
            log.Printf("history: encode cache entry %s: %v", key, err)
        }
    }
    return bars, nil
}

// CompanyInfo returns the company metadata record for symbol.
func (h *History) CompanyInfo(ctx context.Context, symbol string, useCache bool) (*market.CompanyInfo, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }

    key := cache.InfoKey(symbol)
    if useCache {
        if payload, ok := h.cache.Lookup(key, h.cfg.InfoTTL); ok {
            var info market.CompanyInfo
            if err := json.Unmarshal(payload, &info); err == nil {
                h.cfg.Metrics.Hit("info")
                return &info, nil
            }
            log.Printf("history: discarding corrupt cache entry %s", key)
        }
        h.cfg.Metrics.Miss("info")
    }

    if err := h.limiter.Acquire(ctx); err != nil {
        return nil, err
    }
    h.cfg.Metrics.Call(h.src.Name())
    info, err := h.src.CompanyInfo(ctx, symbol)
    if err != nil {
        h.cfg.Metrics.Failure(h.src.Name())
        return nil, err
    }

    if useCache {
        if payload, err := json.MarshalIndent(info, "", "  "); err == nil {
            h.cache.Store(key, payload)
        }
    }
    return info, nil
}

// CurrentPrice returns the latest price for symbol: last 1-minute close of
// the day when available, then the daily close.
func (h *History) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return 0, err
    }
    if bars, err := h.Bars(ctx, symbol, "1d", "1m", false); err == nil && len(bars) > 0 {
        return bars[len(bars)-1].Close, nil
    }
    bars, err := h.Bars(ctx, symbol, "1d", "1d", false)
    if err != nil {
        return 0, market.Wrap(market.KindRemote, symbol, err, "could not get current price")
    }
    return bars[len(bars)-1].Close, nil
}

// Multiple fetches bar series for several symbols, skipping the ones that
// fail and logging why.
func (h *History) Multiple(ctx context.Context, symbols []string, period, interval string, useCache bool) (map[string][]market.Bar, error) {
    out := make(map[string][]market.Bar, len(symbols))
    for _, symbol := range symbols {
        normalized, err := market.NormalizeSymbol(symbol)
        if err != nil {
            log.Printf("history: skipping %q: %v", symbol, err)
            continue
        }
        bars, err := h.Bars(ctx, normalized, period, interval, useCache)
        if err != nil {
            if ctx.Err() != nil {
                return out, ctx.Err()
            }
            log.Printf("history: skipping %s: %v", normalized, err)
            continue
        }
        out[normalized] = bars
    }
    return out, nil
}

// ClearCache removes cached entries for symbol, or every entry when symbol
// is empty. It returns the number of files removed.
func (h *History) ClearCache(symbol string) int {
    if symbol == "" {
        return h.cache.Clear("")
    }
    normalized, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return 0
    }
    return h.cache.Clear(normalized + "_")
}

// validateBars rejects structurally empty or degenerate series instead of
// returning partial data.
func validateBars(symbol string, bars []market.Bar) error {
    if len(bars) == 0 {
        return market.Errorf(market.KindRemote, symbol, "empty data returned, symbol may be invalid")
    }
    allZero := true
    for _, b := range bars {
        if b.Close != 0 {
            allZero = false
        }
        if b.Close < 0 {
            log.Printf("history: negative close for %s at %s", symbol, b.Time.Format(time.RFC3339))
        }
    }
    if allZero {
        return market.Errorf(market.KindRemote, symbol, "all close prices are zero")
    }
    return nil
}

// commonStocks backs symbol search. A dedicated search API would replace
// this for broader coverage.
var commonStocks = []market.SymbolMatch{
    {Symbol: "AAPL", Name: "Apple Inc."},
    {Symbol: "MSFT", Name: "Microsoft Corporation"},
    {Symbol: "GOOGL", Name: "Alphabet Inc."},
    {Symbol: "AMZN", Name: "Amazon.com Inc."},
    {Symbol: "TSLA", Name: "Tesla Inc."},
    {Symbol: "META", Name: "Meta Platforms Inc."},
    {Symbol: "NVDA", Name: "NVIDIA Corporation"},
    {Symbol: "JPM", Name: "JPMorgan Chase & Co."},
    {Symbol: "V", Name: "Visa Inc."},
    {Symbol: "WMT", Name: "Walmart Inc."},
    {Symbol: "SPY", Name: "SPDR S&P 500 ETF"},
    {Symbol: "QQQ", Name: "Invesco QQQ Trust"},
    {Symbol: "VOO", Name: "Vanguard S&P 500 ETF"},
}

// Search matches query against a static table of common tickers by symbol
// or company name, case-insensitively.
func (h *History) Search(query string, limit int) []market.SymbolMatch {
    if limit <= 0 {
        limit = 10
    }
    q := strings.ToLower(strings.TrimSpace(query))
    if q == "" {
        return nil
    }
    var out []market.SymbolMatch
    for _, s := range commonStocks {
        if strings.Contains(strings.ToLower(s.Symbol), q) || strings.Contains(strings.ToLower(s.Name), q) {
            out = append(out, s)
            if len(out) >= limit {
                break
            }
        }
    }
    return out
}
