package cache

import (
    "fmt"
    "strings"
)

// Key is a cache filename derived deterministically from a request shape.
// Identical logical requests always map to the same key.
type Key string

func norm(symbol string) string {
    return strings.ToUpper(strings.TrimSpace(symbol))
}

// HistoryKey addresses a cached price history series.
func HistoryKey(symbol, period, interval string) Key {
    return Key(fmt.Sprintf("%s_%s_%s.csv", norm(symbol), period, interval))
}

// QuoteKey addresses a cached real-time quote.
func QuoteKey(symbol string) Key {
    return Key(fmt.Sprintf("quote_%s.json", norm(symbol)))
}

// InfoKey addresses a cached company metadata record.
func InfoKey(symbol string) Key {
    return Key(fmt.Sprintf("%s_info.json", norm(symbol)))
}

// IndicatorKey addresses a cached technical indicator series.
func IndicatorKey(symbol, indicator, interval string, timePeriod int, seriesType string) Key {
    return Key(fmt.Sprintf("%s_%s_%s_%d_%s.json",
        norm(symbol), strings.ToUpper(strings.TrimSpace(indicator)), interval, timePeriod, seriesType))
}
