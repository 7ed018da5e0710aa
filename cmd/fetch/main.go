package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "strings"
    "time"

    "stockdata/internal/cache"
    "stockdata/internal/config"
    "stockdata/internal/fetch"
    "stockdata/internal/httpx"
    "stockdata/internal/market"
    "stockdata/internal/provider/alphavantage"
    "stockdata/internal/provider/yahoo"
    "stockdata/internal/ratelimit"
)

func main() {
    var symbolsCSV string
    var period string
    var interval string
    var wantQuote bool
    var wantInfo bool
    var indicator string
    var indicatorPeriod int
    var noCache bool
    var clearSymbol string
    var doClear bool
    var timeout int
    var configPath string

    flag.StringVar(&symbolsCSV, "symbols", getenv("SYMBOLS", "AAPL"), "comma-separated ticker symbols")
    flag.StringVar(&period, "period", getenv("PERIOD", "1y"), "history period (1d..max)")
    flag.StringVar(&interval, "interval", getenv("INTERVAL", "1d"), "history interval (1m..3mo)")
    flag.BoolVar(&wantQuote, "quote", false, "fetch a real-time quote (needs ALPHA_VANTAGE_API_KEY)")
    flag.BoolVar(&wantInfo, "info", false, "fetch company info instead of history")
    flag.StringVar(&indicator, "indicator", "", "fetch a technical indicator (e.g. SMA, RSI)")
    flag.IntVar(&indicatorPeriod, "indicator-period", 10, "indicator time period")
    flag.BoolVar(&noCache, "no-cache", false, "bypass the file cache")
    flag.BoolVar(&doClear, "clear-cache", false, "clear cached entries and exit")
    flag.StringVar(&clearSymbol, "clear-symbol", "", "limit -clear-cache to one symbol")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "request timeout seconds")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout != 0 { cfg.Server.RequestTimeoutSec = timeout }

    store, err := cache.New(cfg.Cache.Dir)
    if err != nil { log.Fatalf("cache: %v", err) }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    history := fetch.NewHistory(
        yahoo.New(httpClient),
        store,
        ratelimit.New(cfg.Yahoo.MaxRequestsPerMinute),
        fetch.HistoryConfig{
            HistoryTTL: time.Duration(cfg.Cache.HistoryTTLHours) * time.Hour,
            InfoTTL:    time.Duration(cfg.Cache.InfoTTLDays) * 24 * time.Hour,
        },
    )

    if doClear {
        removed := history.ClearCache(clearSymbol)
        fmt.Printf("cleared %d cache file(s)\n", removed)
        return
    }

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
    defer cancel()

    symbols := splitCSV(symbolsCSV)
    useCache := !noCache

    switch {
    case wantQuote || indicator != "":
        avClient, err := alphavantage.NewClient(
            cfg.AlphaVantage.APIKey,
            alphavantage.WithHTTPClient(httpClient.HTTP),
            alphavantage.WithBackoff(time.Duration(cfg.AlphaVantage.BackoffBaseSec)*time.Second, cfg.AlphaVantage.MaxRetries),
        )
        if err != nil { log.Fatalf("alphavantage client: %v", err) }
        quotes := fetch.NewQuotes(avClient, store, ratelimit.New(cfg.AlphaVantage.MaxRequestsPerMinute), fetch.QuotesConfig{
            QuoteTTL:     time.Duration(cfg.Cache.QuoteTTLMinutes) * time.Minute,
            IndicatorTTL: time.Duration(cfg.Cache.IndicatorTTLMinutes) * time.Minute,
        })
        for _, symbol := range symbols {
            if indicator != "" {
                series, err := quotes.Indicator(ctx, symbol, market.IndicatorParams{
                    Name: indicator, TimePeriod: indicatorPeriod,
                }, useCache)
                if err != nil { log.Fatalf("%s: %v", symbol, err) }
                printJSON(series)
                continue
            }
            quote, err := quotes.Quote(ctx, symbol, useCache)
            if err != nil { log.Fatalf("%s: %v", symbol, err) }
            printJSON(quote)
        }
        printJSON(quotes.UsageStats())

    case wantInfo:
        for _, symbol := range symbols {
            info, err := history.CompanyInfo(ctx, symbol, useCache)
            if err != nil { log.Fatalf("%s: %v", symbol, err) }
            printJSON(info)
        }

    default:
        results, err := history.Multiple(ctx, symbols, period, interval, useCache)
        if err != nil { log.Fatalf("fetch: %v", err) }
        for symbol, bars := range results {
            fmt.Printf("%s: %d bars, latest close %.2f\n", symbol, len(bars), bars[len(bars)-1].Close)
        }
    }
}

func printJSON(v any) {
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil { log.Fatalf("encode: %v", err) }
    fmt.Println(string(b))
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" { return v }
    return def
}

func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        if _, err := fmt.Sscanf(v, "%d", &x); err == nil { return x }
    }
    return def
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}
