package alphavantage

import (
    "context"
    "encoding/json"
    "net/url"
    "strconv"
    "strings"

    "stockdata/internal/market"
)

// Quote retrieves a real-time GLOBAL_QUOTE for symbol.
//
// The provider is known to omit fields for thinly traded symbols; absent
// fields default to 0. A present-but-malformed numeric is an error.
func (c *Client) Quote(ctx context.Context, symbol string) (*market.Quote, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }

    params := url.Values{}
    params.Set("function", "GLOBAL_QUOTE")
    params.Set("symbol", symbol)

    body, err := c.doQuery(ctx, symbol, params)
    if err != nil {
        return nil, err
    }

    raw, ok := body["Global Quote"]
    if !ok {
        return nil, market.Errorf(market.KindRemote, symbol, "response missing Global Quote object")
    }
    var fields map[string]string
    if err := json.Unmarshal(raw, &fields); err != nil {
        return nil, market.Wrap(market.KindRemote, symbol, err, "malformed Global Quote object")
    }
    if len(fields) == 0 {
        return nil, market.Errorf(market.KindRemote, symbol, "no quote data found")
    }

    q := &market.Quote{
        Symbol:           symbol,
        LatestTradingDay: fields["07. latest trading day"],
    }
    if s, ok := fields["01. symbol"]; ok && s != "" {
        q.Symbol = s
    }
    if q.Price, err = parseFloatField(fields, "05. price", symbol); err != nil {
        return nil, err
    }
    if q.Change, err = parseFloatField(fields, "09. change", symbol); err != nil {
        return nil, err
    }
    if q.ChangePercent, err = parsePercentField(fields, "10. change percent", symbol); err != nil {
        return nil, err
    }
    if q.Open, err = parseFloatField(fields, "02. open", symbol); err != nil {
        return nil, err
    }
    if q.High, err = parseFloatField(fields, "03. high", symbol); err != nil {
        return nil, err
    }
    if q.Low, err = parseFloatField(fields, "04. low", symbol); err != nil {
        return nil, err
    }
    if q.PreviousClose, err = parseFloatField(fields, "08. previous close", symbol); err != nil {
        return nil, err
    }
    if q.Volume, err = parseIntField(fields, "06. volume", symbol); err != nil {
        return nil, err
    }
    return q, nil
}

func parseFloatField(fields map[string]string, key, symbol string) (float64, error) {
    s, ok := fields[key]
    if !ok || s == "" {
        return 0, nil
    }
    v, err := strconv.ParseFloat(s, 64)
    if err != nil {
        return 0, market.Errorf(market.KindRemote, symbol, "malformed %q value %q", key, s)
    }
    return v, nil
}

func parsePercentField(fields map[string]string, key, symbol string) (float64, error) {
    s, ok := fields[key]
    if !ok || s == "" {
        return 0, nil
    }
    v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
    if err != nil {
        return 0, market.Errorf(market.KindRemote, symbol, "malformed %q value %q", key, s)
    }
    return v, nil
}

func parseIntField(fields map[string]string, key, symbol string) (int64, error) {
    s, ok := fields[key]
    if !ok || s == "" {
        return 0, nil
    }
    v, err := strconv.ParseInt(s, 10, 64)
    if err != nil {
        return 0, market.Errorf(market.KindRemote, symbol, "malformed %q value %q", key, s)
    }
    return v, nil
}
