package cache

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

func TestLookup_RoundTrip(t *testing.T) {
    c, err := New(t.TempDir())
    if err != nil {
        t.Fatalf("new cache: %v", err)
    }

    key := HistoryKey("AAPL", "1mo", "1d")
    payload := []byte("timestamp,open,high,low,close,volume\n")
    c.Store(key, payload)

    got, ok := c.Lookup(key, time.Hour)
    if !ok {
        t.Fatalf("want hit, got miss")
    }
    if string(got) != string(payload) {
        t.Fatalf("payload mismatch: %q", got)
    }
}

func TestLookup_MissingIsMiss(t *testing.T) {
    c, err := New(t.TempDir())
    if err != nil {
        t.Fatalf("new cache: %v", err)
    }
    if _, ok := c.Lookup(QuoteKey("AAPL"), time.Hour); ok {
        t.Fatalf("want miss for absent entry")
    }
}

func TestLookup_ExpiredIsMiss(t *testing.T) {
    now := time.Now()
    c, err := New(t.TempDir(), WithClock(func() time.Time { return now }))
    if err != nil {
        t.Fatalf("new cache: %v", err)
    }

    key := QuoteKey("AAPL")
    c.Store(key, []byte("{}"))

    if _, ok := c.Lookup(key, time.Minute); !ok {
        t.Fatalf("want hit before expiry")
    }

    // Advance past the TTL; the file mtime stays put.
    now = now.Add(2 * time.Minute)
    if _, ok := c.Lookup(key, time.Minute); ok {
        t.Fatalf("want miss after expiry")
    }
}

func TestStore_Overwrites(t *testing.T) {
    c, err := New(t.TempDir())
    if err != nil {
        t.Fatalf("new cache: %v", err)
    }

    key := InfoKey("AAPL")
    c.Store(key, []byte("old"))
    c.Store(key, []byte("new"))

    got, ok := c.Lookup(key, time.Hour)
    if !ok || string(got) != "new" {
        t.Fatalf("want overwritten payload, got %q ok=%v", got, ok)
    }
}

func TestClear_ByPrefixAndAll(t *testing.T) {
    c, err := New(t.TempDir())
    if err != nil {
        t.Fatalf("new cache: %v", err)
    }

    c.Store(HistoryKey("AAPL", "1mo", "1d"), []byte("a"))
    c.Store(HistoryKey("AAPL", "1y", "1d"), []byte("b"))
    c.Store(HistoryKey("MSFT", "1mo", "1d"), []byte("c"))

    if n := c.Clear("AAPL_"); n != 2 {
        t.Fatalf("want 2 removed for prefix, got %d", n)
    }
    if _, ok := c.Lookup(HistoryKey("MSFT", "1mo", "1d"), time.Hour); !ok {
        t.Fatalf("unrelated entry must survive a prefixed clear")
    }
    if n := c.Clear(""); n != 1 {
        t.Fatalf("want 1 removed clearing all, got %d", n)
    }
    if n := c.Clear(""); n != 0 {
        t.Fatalf("clearing an empty cache is not an error, got %d", n)
    }
}

func TestNew_CreatesDirectory(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "nested", "cache")
    if _, err := New(dir); err != nil {
        t.Fatalf("new cache: %v", err)
    }
    if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
        t.Fatalf("cache dir not created: %v", err)
    }
}

func TestKeys_Deterministic(t *testing.T) {
    // Case and whitespace differences map to the same slot.
    if HistoryKey(" aapl ", "1mo", "1d") != HistoryKey("AAPL", "1mo", "1d") {
        t.Fatalf("history key not normalized")
    }
    if QuoteKey("msft") != QuoteKey(" MSFT") {
        t.Fatalf("quote key not normalized")
    }
    if IndicatorKey("aapl", "sma", "daily", 50, "close") != IndicatorKey("AAPL", "SMA", "daily", 50, "close") {
        t.Fatalf("indicator key not normalized")
    }

    // Distinct logical requests map to distinct slots.
    if HistoryKey("AAPL", "1mo", "1d") == HistoryKey("AAPL", "1mo", "1wk") {
        t.Fatalf("interval must be part of the key")
    }
    if IndicatorKey("AAPL", "SMA", "daily", 50, "close") == IndicatorKey("AAPL", "SMA", "daily", 200, "close") {
        t.Fatalf("time period must be part of the key")
    }
}
