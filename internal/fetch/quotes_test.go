package fetch_test

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "stockdata/internal/cache"
    "stockdata/internal/fetch"
    "stockdata/internal/market"
    "stockdata/internal/ratelimit"
)

// fakeQuoteSource counts remote calls and serves canned payloads.
type fakeQuoteSource struct {
    quoteCalls     int
    indicatorCalls int
    quoteFn        func(symbol string) (*market.Quote, error)
    indicatorFn    func(symbol string, p market.IndicatorParams) (*market.IndicatorSeries, error)
}

func (f *fakeQuoteSource) Name() string { return "fake" }

func (f *fakeQuoteSource) Quote(ctx context.Context, symbol string) (*market.Quote, error) {
    f.quoteCalls++
    return f.quoteFn(symbol)
}

func (f *fakeQuoteSource) Intraday(ctx context.Context, symbol, interval, outputSize string) ([]market.Bar, error) {
    return sampleBars(3), nil
}

func (f *fakeQuoteSource) Indicator(ctx context.Context, symbol string, p market.IndicatorParams) (*market.IndicatorSeries, error) {
    f.indicatorCalls++
    return f.indicatorFn(symbol, p)
}

func newQuotesClient(t *testing.T, src *fakeQuoteSource) *fetch.Quotes {
    t.Helper()
    store, err := cache.New(t.TempDir())
    require.NoError(t, err)
    return fetch.NewQuotes(src, store, ratelimit.New(0), fetch.QuotesConfig{})
}

func TestQuote_FetchThenCacheHit(t *testing.T) {
    t.Parallel()

    src := &fakeQuoteSource{quoteFn: func(symbol string) (*market.Quote, error) {
        return &market.Quote{Symbol: symbol, Price: 190.4, Volume: 1000}, nil
    }}
    q := newQuotesClient(t, src)

    first, err := q.Quote(context.Background(), " aapl ", true)
    require.NoError(t, err)
    require.Equal(t, "AAPL", first.Symbol)
    require.Equal(t, 1, src.quoteCalls)

    second, err := q.Quote(context.Background(), "AAPL", true)
    require.NoError(t, err)
    require.Equal(t, 1, src.quoteCalls, "second request within TTL must not reach the remote source")
    require.Equal(t, first.Price, second.Price)
}

func TestQuote_CacheBypass(t *testing.T) {
    t.Parallel()

    src := &fakeQuoteSource{quoteFn: func(symbol string) (*market.Quote, error) {
        return &market.Quote{Symbol: symbol, Price: 1}, nil
    }}
    q := newQuotesClient(t, src)

    _, err := q.Quote(context.Background(), "AAPL", false)
    require.NoError(t, err)
    _, err = q.Quote(context.Background(), "AAPL", false)
    require.NoError(t, err)
    require.Equal(t, 2, src.quoteCalls)
}

func TestQuote_RemoteErrorPropagates(t *testing.T) {
    t.Parallel()

    src := &fakeQuoteSource{quoteFn: func(symbol string) (*market.Quote, error) {
        return nil, market.Errorf(market.KindRemote, symbol, "rate limit reached")
    }}
    q := newQuotesClient(t, src)

    _, err := q.Quote(context.Background(), "AAPL", true)
    require.True(t, market.IsRemote(err), "expected remote error, got %v", err)
}

func TestIndicator_FetchThenCacheHit(t *testing.T) {
    t.Parallel()

    src := &fakeQuoteSource{indicatorFn: func(symbol string, p market.IndicatorParams) (*market.IndicatorSeries, error) {
        return &market.IndicatorSeries{
            Symbol:    symbol,
            Indicator: "SMA",
            Points: []market.IndicatorPoint{
                {Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Values: map[string]float64{"SMA": 188.42}},
            },
        }, nil
    }}
    q := newQuotesClient(t, src)

    params := market.IndicatorParams{Name: "SMA", TimePeriod: 50}
    first, err := q.Indicator(context.Background(), "aapl", params, true)
    require.NoError(t, err)
    require.Equal(t, 1, src.indicatorCalls)

    second, err := q.Indicator(context.Background(), "AAPL", params, true)
    require.NoError(t, err)
    require.Equal(t, 1, src.indicatorCalls)
    require.Equal(t, first.Indicator, second.Indicator)
    require.Len(t, second.Points, 1)

    // Different parameters address a different cache slot.
    _, err = q.Indicator(context.Background(), "AAPL", market.IndicatorParams{Name: "SMA", TimePeriod: 200}, true)
    require.NoError(t, err)
    require.Equal(t, 2, src.indicatorCalls)
}

func TestIntraday_AlwaysRemote(t *testing.T) {
    t.Parallel()

    src := &fakeQuoteSource{}
    q := newQuotesClient(t, src)

    first, err := q.Intraday(context.Background(), " aapl ", "5min", "")
    require.NoError(t, err)
    require.Len(t, first, 3)

    // Intraday is never cached; every call reaches the source.
    second, err := q.Intraday(context.Background(), "AAPL", "5min", "")
    require.NoError(t, err)
    require.Len(t, second, len(first))
}

func TestUsageStats_ReflectsCalls(t *testing.T) {
    t.Parallel()

    src := &fakeQuoteSource{quoteFn: func(symbol string) (*market.Quote, error) {
        return &market.Quote{Symbol: symbol, Price: 1}, nil
    }}
    store, err := cache.New(t.TempDir())
    require.NoError(t, err)
    q := fetch.NewQuotes(src, store, ratelimit.New(5), fetch.QuotesConfig{})

    _, err = q.Quote(context.Background(), "AAPL", false)
    require.NoError(t, err)
    _, err = q.Quote(context.Background(), "MSFT", false)
    require.NoError(t, err)

    s := q.UsageStats()
    require.Equal(t, 2, s.CallsInWindow)
    require.Equal(t, 5, s.Quota)
    require.Equal(t, 3, s.Remaining)
}

func TestQuote_CacheServesWithinTTLOnly(t *testing.T) {
    t.Parallel()

    // A cache built on a movable clock shows the expiry path end to end.
    now := time.Now()
    store, err := cache.New(t.TempDir(), cache.WithClock(func() time.Time { return now }))
    require.NoError(t, err)

    src := &fakeQuoteSource{quoteFn: func(symbol string) (*market.Quote, error) {
        return &market.Quote{Symbol: symbol, Price: 190.4}, nil
    }}
    q := fetch.NewQuotes(src, store, ratelimit.New(0), fetch.QuotesConfig{QuoteTTL: 5 * time.Minute})

    _, err = q.Quote(context.Background(), "AAPL", true)
    require.NoError(t, err)
    _, err = q.Quote(context.Background(), "AAPL", true)
    require.NoError(t, err)
    require.Equal(t, 1, src.quoteCalls)

    // Advance past the quote TTL; the next call goes remote again.
    now = now.Add(6 * time.Minute)
    _, err = q.Quote(context.Background(), "AAPL", true)
    require.NoError(t, err)
    require.Equal(t, 2, src.quoteCalls)
}
