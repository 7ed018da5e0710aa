package alphavantage

import (
    "context"
    "encoding/json"
    "fmt"
    "net/url"
    "sort"
    "strings"
    "time"

    "stockdata/internal/market"
)

// validIntradayIntervals are the interval tags TIME_SERIES_INTRADAY accepts.
var validIntradayIntervals = []string{"1min", "5min", "15min", "30min", "60min"}

const intradayTimeLayout = "2006-01-02 15:04:05"

// Intraday retrieves an intraday OHLCV series. outputSize is "compact"
// (latest 100 points) or "full".
func (c *Client) Intraday(ctx context.Context, symbol, interval, outputSize string) ([]market.Bar, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }
    if !validIntraday(interval) {
        return nil, market.Errorf(market.KindValidation, symbol,
            "invalid intraday interval %q, must be one of %s", interval, strings.Join(validIntradayIntervals, ", "))
    }
    if outputSize == "" {
        outputSize = "compact"
    }

    params := url.Values{}
    params.Set("function", "TIME_SERIES_INTRADAY")
    params.Set("symbol", symbol)
    params.Set("interval", interval)
    params.Set("outputsize", outputSize)

    body, err := c.doQuery(ctx, symbol, params)
    if err != nil {
        return nil, err
    }

    raw, ok := body[fmt.Sprintf("Time Series (%s)", interval)]
    if !ok {
        return nil, market.Errorf(market.KindRemote, symbol, "no intraday data found")
    }
    var series map[string]map[string]string
    if err := json.Unmarshal(raw, &series); err != nil {
        return nil, market.Wrap(market.KindRemote, symbol, err, "malformed intraday series")
    }
    if len(series) == 0 {
        return nil, market.Errorf(market.KindRemote, symbol, "empty intraday series")
    }

    bars := make([]market.Bar, 0, len(series))
    for ts, row := range series {
        t, err := time.Parse(intradayTimeLayout, ts)
        if err != nil {
            return nil, market.Errorf(market.KindRemote, symbol, "malformed intraday timestamp %q", ts)
        }
        bar := market.Bar{Time: t}
        if bar.Open, err = parseFloatField(row, "1. open", symbol); err != nil {
            return nil, err
        }
        if bar.High, err = parseFloatField(row, "2. high", symbol); err != nil {
            return nil, err
        }
        if bar.Low, err = parseFloatField(row, "3. low", symbol); err != nil {
            return nil, err
        }
        if bar.Close, err = parseFloatField(row, "4. close", symbol); err != nil {
            return nil, err
        }
        if bar.Volume, err = parseIntField(row, "5. volume", symbol); err != nil {
            return nil, err
        }
        bars = append(bars, bar)
    }
    sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
    return bars, nil
}

func validIntraday(interval string) bool {
    for _, iv := range validIntradayIntervals {
        if iv == interval {
            return true
        }
    }
    return false
}
