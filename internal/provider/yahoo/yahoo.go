// Package yahoo fetches historical bars and company metadata from the
// Yahoo Finance chart and quoteSummary endpoints.
package yahoo

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "time"

    "stockdata/internal/market"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Doer performs HTTP requests; satisfied by httpx.Client.
type Doer interface {
    Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the Yahoo Finance public endpoints.
type Client struct {
    baseURL string
    client  Doer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint base URL.
func WithBaseURL(baseURL string) Option {
    return func(c *Client) { c.baseURL = baseURL }
}

// New returns a Yahoo Finance client on top of hc.
func New(hc Doer, options ...Option) *Client {
    c := &Client{baseURL: defaultBaseURL, client: hc}
    for _, option := range options {
        option(c)
    }
    return c
}

func (c *Client) Name() string { return "Yahoo" }

// History returns the OHLCV series for symbol over period at interval.
// Rows without a close value are dropped.
func (c *Client) History(ctx context.Context, symbol, period, interval string) ([]market.Bar, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }

    q := url.Values{}
    q.Set("range", period)
    q.Set("interval", chartInterval(interval))
    reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

    var body chartResponse
    if err := c.getJSON(ctx, symbol, reqURL, &body); err != nil {
        return nil, err
    }
    if body.Chart.Error != nil {
        return nil, market.Errorf(market.KindRemote, symbol, "provider error: %s", body.Chart.Error.Description)
    }
    if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
        return nil, market.Errorf(market.KindRemote, symbol, "no data returned, symbol may be invalid")
    }

    res := body.Chart.Result[0]
    quote := res.Indicators.Quote[0]
    bars := make([]market.Bar, 0, len(res.Timestamp))
    for i, ts := range res.Timestamp {
        cls := at(quote.Close, i)
        if cls == nil {
            continue
        }
        bar := market.Bar{Time: time.Unix(ts, 0).UTC(), Close: *cls}
        if v := at(quote.Open, i); v != nil {
            bar.Open = *v
        }
        if v := at(quote.High, i); v != nil {
            bar.High = *v
        }
        if v := at(quote.Low, i); v != nil {
            bar.Low = *v
        }
        if v := at(quote.Volume, i); v != nil {
            bar.Volume = *v
        }
        bars = append(bars, bar)
    }
    if len(bars) == 0 {
        return nil, market.Errorf(market.KindRemote, symbol, "no data returned, symbol may be invalid")
    }
    return bars, nil
}

// CompanyInfo returns the flat company profile record for symbol.
func (c *Client) CompanyInfo(ctx context.Context, symbol string) (*market.CompanyInfo, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }

    q := url.Values{}
    q.Set("modules", "assetProfile,price")
    reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

    var body summaryResponse
    if err := c.getJSON(ctx, symbol, reqURL, &body); err != nil {
        return nil, err
    }
    if body.QuoteSummary.Error != nil {
        return nil, market.Errorf(market.KindRemote, symbol, "provider error: %s", body.QuoteSummary.Error.Description)
    }
    if len(body.QuoteSummary.Result) == 0 {
        return nil, market.Errorf(market.KindRemote, symbol, "no info available")
    }

    res := body.QuoteSummary.Result[0]
    info := &market.CompanyInfo{
        Symbol:   symbol,
        Name:     res.Price.LongName,
        Exchange: res.Price.ExchangeName,
        Currency: res.Price.Currency,
        Sector:   res.AssetProfile.Sector,
        Industry: res.AssetProfile.Industry,
        Website:  res.AssetProfile.Website,
        Summary:  res.AssetProfile.LongBusinessSummary,
    }
    if res.Price.MarketCap != nil {
        info.MarketCap = res.Price.MarketCap.Raw
    }
    if info.Name == "" && info.Sector == "" {
        return nil, market.Errorf(market.KindRemote, symbol, "no info available")
    }
    return info, nil
}

func (c *Client) getJSON(ctx context.Context, symbol, reqURL string, out any) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
    if err != nil {
        return market.Wrap(market.KindRemote, symbol, err, "creating request")
    }
    res, err := c.client.Do(ctx, req)
    if err != nil {
        return market.Wrap(market.KindRemote, symbol, err, "performing request")
    }
    defer res.Body.Close()
    if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusNotFound {
        b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
        return market.Errorf(market.KindRemote, symbol, "unexpected status code %d: %s", res.StatusCode, string(b))
    }
    if err := json.NewDecoder(res.Body).Decode(out); err != nil {
        return market.Wrap(market.KindRemote, symbol, err, "decoding response")
    }
    return nil
}

// chartInterval maps the shared interval tags onto what the chart endpoint
// accepts. Only "1h" differs.
func chartInterval(interval string) string {
    if interval == "1h" {
        return "60m"
    }
    return interval
}

func at[T any](s []*T, i int) *T {
    if i < 0 || i >= len(s) {
        return nil
    }
    return s[i]
}

type apiError struct {
    Code        string `json:"code"`
    Description string `json:"description"`
}

type chartResponse struct {
    Chart struct {
        Result []struct {
            Timestamp  []int64 `json:"timestamp"`
            Indicators struct {
                Quote []struct {
                    Open   []*float64 `json:"open"`
                    High   []*float64 `json:"high"`
                    Low    []*float64 `json:"low"`
                    Close  []*float64 `json:"close"`
                    Volume []*int64   `json:"volume"`
                } `json:"quote"`
            } `json:"indicators"`
        } `json:"result"`
        Error *apiError `json:"error"`
    } `json:"chart"`
}

type summaryResponse struct {
    QuoteSummary struct {
        Result []struct {
            AssetProfile struct {
                Sector              string `json:"sector"`
                Industry            string `json:"industry"`
                Website             string `json:"website"`
                LongBusinessSummary string `json:"longBusinessSummary"`
            } `json:"assetProfile"`
            Price struct {
                LongName     string `json:"longName"`
                ExchangeName string `json:"exchangeName"`
                Currency     string `json:"currency"`
                MarketCap    *struct {
                    Raw int64 `json:"raw"`
                } `json:"marketCap"`
            } `json:"price"`
        } `json:"result"`
        Error *apiError `json:"error"`
    } `json:"quoteSummary"`
}
