package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Cache struct {
    Dir                 string `json:"dir"`
    HistoryTTLHours     int    `json:"history_ttl_hours"`
    QuoteTTLMinutes     int    `json:"quote_ttl_min"`
    InfoTTLDays         int    `json:"info_ttl_days"`
    IndicatorTTLMinutes int    `json:"indicator_ttl_min"`
}

type AlphaVantage struct {
    APIKey               string `json:"api_key"`
    MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
    MaxRetries           int    `json:"max_retries"`
    BackoffBaseSec       int    `json:"backoff_base_sec"`
}

type Yahoo struct {
    MaxRequestsPerMinute int `json:"max_requests_per_minute"`
}

type Config struct {
    Server       Server       `json:"server"`
    Cache        Cache        `json:"cache"`
    AlphaVantage AlphaVantage `json:"alphavantage"`
    Yahoo        Yahoo        `json:"yahoo"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 10},
        Cache: Cache{
            Dir:                 "data/cache",
            HistoryTTLHours:     24,
            QuoteTTLMinutes:     5,
            InfoTTLDays:         7,
            IndicatorTTLMinutes: 60,
        },
        AlphaVantage: AlphaVantage{
            // Free tier: 5 calls/minute, 25 calls/day.
            MaxRequestsPerMinute: 5,
            MaxRetries:           3,
            BackoffBaseSec:       1,
        },
        Yahoo: Yahoo{MaxRequestsPerMinute: 60},
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("CACHE_DIR"); v != "" { cfg.Cache.Dir = v }
    if v := os.Getenv("HISTORY_CACHE_TTL_HOURS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Cache.HistoryTTLHours = x }
    }
    if v := os.Getenv("QUOTE_CACHE_TTL_MIN"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Cache.QuoteTTLMinutes = x }
    }
    if v := os.Getenv("INFO_CACHE_TTL_DAYS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Cache.InfoTTLDays = x }
    }
    if v := os.Getenv("INDICATOR_CACHE_TTL_MIN"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Cache.IndicatorTTLMinutes = x }
    }
    if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" { cfg.AlphaVantage.APIKey = v }
    if v := os.Getenv("ALPHA_VANTAGE_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.AlphaVantage.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("ALPHA_VANTAGE_MAX_RETRIES"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.AlphaVantage.MaxRetries = x }
    }
    if v := os.Getenv("ALPHA_VANTAGE_BACKOFF_BASE_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.AlphaVantage.BackoffBaseSec = x }
    }
    if v := os.Getenv("YAHOO_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Yahoo.MaxRequestsPerMinute = x }
    }
}
