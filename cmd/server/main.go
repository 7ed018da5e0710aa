package main

import (
    "context"
    "encoding/json"
    "errors"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strconv"
    "syscall"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "stockdata/internal/cache"
    "stockdata/internal/config"
    "stockdata/internal/fetch"
    "stockdata/internal/httpx"
    "stockdata/internal/market"
    "stockdata/internal/metrics"
    "stockdata/internal/provider/alphavantage"
    "stockdata/internal/provider/yahoo"
    "stockdata/internal/ratelimit"
)

func main() {
    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }

    store, err := cache.New(cfg.Cache.Dir)
    if err != nil { log.Fatalf("cache: %v", err) }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    m := metrics.New()

    history := fetch.NewHistory(
        yahoo.New(httpClient),
        store,
        ratelimit.New(cfg.Yahoo.MaxRequestsPerMinute),
        fetch.HistoryConfig{
            HistoryTTL: time.Duration(cfg.Cache.HistoryTTLHours) * time.Hour,
            InfoTTL:    time.Duration(cfg.Cache.InfoTTLDays) * 24 * time.Hour,
            Metrics:    m,
        },
    )

    var quotes *fetch.Quotes
    if cfg.AlphaVantage.APIKey == "" {
        log.Println("warning: ALPHA_VANTAGE_API_KEY not set; quote and indicator endpoints disabled")
    } else {
        avClient, err := alphavantage.NewClient(
            cfg.AlphaVantage.APIKey,
            alphavantage.WithHTTPClient(httpClient.HTTP),
            alphavantage.WithBackoff(time.Duration(cfg.AlphaVantage.BackoffBaseSec)*time.Second, cfg.AlphaVantage.MaxRetries),
        )
        if err != nil { log.Fatalf("alphavantage client: %v", err) }
        quotes = fetch.NewQuotes(avClient, store, ratelimit.New(cfg.AlphaVantage.MaxRequestsPerMinute), fetch.QuotesConfig{
            QuoteTTL:     time.Duration(cfg.Cache.QuoteTTLMinutes) * time.Minute,
            IndicatorTTL: time.Duration(cfg.Cache.IndicatorTTLMinutes) * time.Minute,
            Metrics:      m,
        })
    }

    mux := http.NewServeMux()
    mux.Handle("/metrics", promhttp.Handler())
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
    })

    mux.HandleFunc("/api/v1/history", func(w http.ResponseWriter, r *http.Request) {
        period := orDefault(r.URL.Query().Get("period"), "1y")
        interval := orDefault(r.URL.Query().Get("interval"), "1d")
        bars, err := history.Bars(r.Context(), r.URL.Query().Get("symbol"), period, interval, useCache(r))
        respond(w, bars, err)
    })
    mux.HandleFunc("/api/v1/info", func(w http.ResponseWriter, r *http.Request) {
        info, err := history.CompanyInfo(r.Context(), r.URL.Query().Get("symbol"), useCache(r))
        respond(w, info, err)
    })
    mux.HandleFunc("/api/v1/price", func(w http.ResponseWriter, r *http.Request) {
        price, err := history.CurrentPrice(r.Context(), r.URL.Query().Get("symbol"))
        respond(w, map[string]float64{"price": price}, err)
    })
    mux.HandleFunc("/api/v1/search", func(w http.ResponseWriter, r *http.Request) {
        limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
        respond(w, history.Search(r.URL.Query().Get("q"), limit), nil)
    })

    if quotes != nil {
        mux.HandleFunc("/api/v1/quote", func(w http.ResponseWriter, r *http.Request) {
            quote, err := quotes.Quote(r.Context(), r.URL.Query().Get("symbol"), useCache(r))
            respond(w, quote, err)
        })
        mux.HandleFunc("/api/v1/indicator", func(w http.ResponseWriter, r *http.Request) {
            timePeriod, _ := strconv.Atoi(r.URL.Query().Get("time_period"))
            series, err := quotes.Indicator(r.Context(), r.URL.Query().Get("symbol"), market.IndicatorParams{
                Name:       r.URL.Query().Get("name"),
                Interval:   r.URL.Query().Get("interval"),
                TimePeriod: timePeriod,
                SeriesType: r.URL.Query().Get("series_type"),
            }, useCache(r))
            respond(w, series, err)
        })
        mux.HandleFunc("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
            respond(w, quotes.UsageStats(), nil)
        })
    }

    srv := &http.Server{
        Addr:         ":" + cfg.Server.Port,
        Handler:      mux,
        ReadTimeout:  10 * time.Second,
        WriteTimeout: 2 * time.Minute,
    }

    go func() {
        log.Printf("listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatalf("server: %v", err)
        }
    }()

    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(ctx); err != nil {
        log.Printf("shutdown: %v", err)
    }
}

// respond writes v as JSON, mapping typed errors onto HTTP status codes.
func respond(w http.ResponseWriter, v any, err error) {
    w.Header().Set("Content-Type", "application/json")
    if err != nil {
        status := http.StatusInternalServerError
        switch market.KindOf(err) {
        case market.KindValidation:
            status = http.StatusBadRequest
        case market.KindRemote:
            status = http.StatusBadGateway
        }
        w.WriteHeader(status)
        json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
        return
    }
    if err := json.NewEncoder(w).Encode(v); err != nil {
        log.Printf("encode response: %v", err)
    }
}

func useCache(r *http.Request) bool {
    return r.URL.Query().Get("no_cache") == ""
}

func orDefault(s, def string) string {
    if s == "" { return def }
    return s
}
