package market

import (
    "strings"
    "time"
)

// Bar is one OHLCV row of a price history series.
type Bar struct {
    Time   time.Time `json:"time"`
    Open   float64   `json:"open"`
    High   float64   `json:"high"`
    Low    float64   `json:"low"`
    Close  float64   `json:"close"`
    Volume int64     `json:"volume"`
}

// Quote is a normalized real-time quote.
// Fields the provider omits default to 0; that is a documented provider
// omission, not a parse fallback (malformed values are errors).
type Quote struct {
    Symbol           string  `json:"symbol"`
    Price            float64 `json:"price"`
    Change           float64 `json:"change"`
    ChangePercent    float64 `json:"change_percent"`
    Volume           int64   `json:"volume"`
    Open             float64 `json:"open"`
    High             float64 `json:"high"`
    Low              float64 `json:"low"`
    PreviousClose    float64 `json:"previous_close"`
    LatestTradingDay string  `json:"latest_trading_day"`
}

// CompanyInfo is a flat company metadata record.
type CompanyInfo struct {
    Symbol    string `json:"symbol"`
    Name      string `json:"name"`
    Exchange  string `json:"exchange"`
    Currency  string `json:"currency"`
    Sector    string `json:"sector"`
    Industry  string `json:"industry"`
    Website   string `json:"website"`
    Summary   string `json:"summary"`
    MarketCap int64  `json:"market_cap"`
}

// IndicatorParams selects a technical indicator series.
type IndicatorParams struct {
    Name       string // e.g. SMA, EMA, RSI, MACD
    Interval   string // e.g. daily, weekly, 60min
    TimePeriod int
    SeriesType string // close, open, high, low
}

// IndicatorPoint carries the indicator columns for one timestamp.
// Column names follow the provider (e.g. "SMA", or "MACD"/"MACD_Signal").
type IndicatorPoint struct {
    Time   time.Time          `json:"time"`
    Values map[string]float64 `json:"values"`
}

// IndicatorSeries is a time-ascending technical indicator series.
type IndicatorSeries struct {
    Symbol    string           `json:"symbol"`
    Indicator string           `json:"indicator"`
    Points    []IndicatorPoint `json:"points"`
}

// SymbolMatch is one symbol-search result.
type SymbolMatch struct {
    Symbol string `json:"symbol"`
    Name   string `json:"name"`
}

// ValidPeriods are the accepted history period tags.
var ValidPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// ValidIntervals are the accepted history interval tags.
var ValidIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

// NormalizeSymbol trims whitespace and upper-cases a ticker symbol so that
// logically identical requests hit identical cache slots.
func NormalizeSymbol(symbol string) (string, error) {
    s := strings.ToUpper(strings.TrimSpace(symbol))
    if s == "" {
        return "", Errorf(KindValidation, symbol, "symbol cannot be empty")
    }
    return s, nil
}

// ValidatePeriod rejects period tags outside ValidPeriods.
func ValidatePeriod(period string) error {
    for _, p := range ValidPeriods {
        if p == period {
            return nil
        }
    }
    return Errorf(KindValidation, "", "invalid period %q, must be one of %s", period, strings.Join(ValidPeriods, ", "))
}

// ValidateInterval rejects interval tags outside ValidIntervals.
func ValidateInterval(interval string) error {
    for _, iv := range ValidIntervals {
        if iv == interval {
            return nil
        }
    }
    return Errorf(KindValidation, "", "invalid interval %q, must be one of %s", interval, strings.Join(ValidIntervals, ", "))
}
