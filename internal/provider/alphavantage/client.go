package alphavantage

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/url"
    "time"

    "stockdata/internal/market"
)

const baseURL = "https://www.alphavantage.co/query"

const (
    defaultMaxRetries  = 3
    defaultBackoffBase = time.Second
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
    Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Alpha Vantage query API. Errors are signaled
// by payload content ("Error Message", "Note", "Information"), not by
// HTTP status.
type Client struct {
    // baseURL is the base URL for the API.
    baseURL string
    // httpClient performs the requests.
    httpClient HTTPClient
    // header contains additional headers sent with each request.
    header http.Header
    // query contains query parameters sent with each request (the apikey).
    query url.Values

    // maxRetries bounds transport-level retry attempts.
    maxRetries int
    // backoffBase is the first retry delay; it doubles per attempt.
    backoffBase time.Duration
    // sleep waits between attempts; replaced in tests.
    sleep func(ctx context.Context, d time.Duration) error
}

// Option is a configuration option for the Alpha Vantage client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
    return func(c *Client) {
        c.baseURL = baseURL
    }
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
    return func(c *Client) {
        c.httpClient = httpClient
    }
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
    return func(c *Client) {
        for key, values := range header {
            for _, value := range values {
                c.header.Add(key, value)
            }
        }
    }
}

// WithBackoff sets the retry schedule: base delay doubling up to maxRetries
// attempts.
func WithBackoff(base time.Duration, maxRetries int) Option {
    return func(c *Client) {
        if base > 0 {
            c.backoffBase = base
        }
        if maxRetries > 0 {
            c.maxRetries = maxRetries
        }
    }
}

// WithSleepFunc overrides the inter-attempt wait, for deterministic tests.
func WithSleepFunc(sleep func(ctx context.Context, d time.Duration) error) Option {
    return func(c *Client) {
        c.sleep = sleep
    }
}

// NewClient creates an Alpha Vantage client. The API key is required;
// a missing key is a configuration error, never retried.
func NewClient(key string, options ...Option) (*Client, error) {
    if key == "" {
        return nil, market.Errorf(market.KindConfiguration, "",
            "Alpha Vantage API key not set; get a free key at https://www.alphavantage.co/support/#api-key")
    }
    client := &Client{
        baseURL:     baseURL,
        httpClient:  http.DefaultClient,
        header:      http.Header{},
        query:       url.Values{},
        maxRetries:  defaultMaxRetries,
        backoffBase: defaultBackoffBase,
        sleep:       sleepCtx,
    }
    client.query.Add("apikey", key)
    for _, option := range options {
        option(client)
    }
    return client, nil
}

func (c *Client) Name() string { return "AlphaVantage" }

// doQuery performs one API request with bounded retry and exponential
// backoff on transport failures. Provider-reported errors and throttling
// notices come back as immediate remote errors without further attempts.
func (c *Client) doQuery(ctx context.Context, symbol string, params url.Values) (map[string]json.RawMessage, error) {
    query := url.Values{}
    for k, vs := range c.query {
        query[k] = vs
    }
    for k, vs := range params {
        query[k] = vs
    }
    reqURL := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())

    delay := c.backoffBase
    var lastErr error
    for attempt := 1; attempt <= c.maxRetries; attempt++ {
        if attempt > 1 {
            if err := c.sleep(ctx, delay); err != nil {
                return nil, err
            }
            delay *= 2
        }

        body, err := c.attempt(ctx, reqURL)
        if err != nil {
            lastErr = err
            continue
        }

        if raw, ok := body["Error Message"]; ok {
            return nil, market.Errorf(market.KindRemote, symbol, "provider error: %s", rawString(raw))
        }
        // A "Note" or "Information" payload is the provider's throttling
        // notice; surface it at once instead of retrying.
        if raw, ok := body["Note"]; ok {
            return nil, market.Errorf(market.KindRemote, symbol, "rate limit reached: %s", rawString(raw))
        }
        if raw, ok := body["Information"]; ok {
            return nil, market.Errorf(market.KindRemote, symbol, "rate limit reached: %s", rawString(raw))
        }
        return body, nil
    }
    return nil, market.Wrap(market.KindRemote, symbol, lastErr,
        fmt.Sprintf("request failed after %d attempts", c.maxRetries))
}

func (c *Client) attempt(ctx context.Context, reqURL string) (map[string]json.RawMessage, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
    if err != nil {
        return nil, fmt.Errorf("creating request: %w", err)
    }
    req.Header = c.header.Clone()

    res, err := c.httpClient.Do(req)
    if err != nil {
        return nil, fmt.Errorf("performing request: %w", err)
    }
    defer res.Body.Close()

    if res.StatusCode != http.StatusOK {
        return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
    }

    var body map[string]json.RawMessage
    if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
        return nil, fmt.Errorf("decoding response: %w", err)
    }
    return body, nil
}

func rawString(raw json.RawMessage) string {
    var s string
    if err := json.Unmarshal(raw, &s); err != nil {
        return string(raw)
    }
    return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}
