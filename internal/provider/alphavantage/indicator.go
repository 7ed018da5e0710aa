package alphavantage

import (
    "context"
    "encoding/json"
    "net/url"
    "sort"
    "strconv"
    "strings"
    "time"

    "stockdata/internal/market"
)

const indicatorDateLayout = "2006-01-02"

// Indicator retrieves a technical indicator series (SMA, EMA, RSI, MACD, ...).
// The response key varies per indicator ("Technical Analysis: SMA"), so the
// parser scans for it.
func (c *Client) Indicator(ctx context.Context, symbol string, p market.IndicatorParams) (*market.IndicatorSeries, error) {
    symbol, err := market.NormalizeSymbol(symbol)
    if err != nil {
        return nil, err
    }
    name := strings.ToUpper(strings.TrimSpace(p.Name))
    if name == "" {
        return nil, market.Errorf(market.KindValidation, symbol, "indicator name cannot be empty")
    }
    interval := p.Interval
    if interval == "" {
        interval = "daily"
    }
    timePeriod := p.TimePeriod
    if timePeriod <= 0 {
        timePeriod = 10
    }
    seriesType := p.SeriesType
    if seriesType == "" {
        seriesType = "close"
    }

    params := url.Values{}
    params.Set("function", name)
    params.Set("symbol", symbol)
    params.Set("interval", interval)
    params.Set("time_period", strconv.Itoa(timePeriod))
    params.Set("series_type", seriesType)

    body, err := c.doQuery(ctx, symbol, params)
    if err != nil {
        return nil, err
    }

    var raw json.RawMessage
    for key, v := range body {
        if strings.Contains(key, "Technical Analysis") {
            raw = v
            break
        }
    }
    if raw == nil {
        return nil, market.Errorf(market.KindRemote, symbol, "no %s indicator data found", name)
    }
    var series map[string]map[string]string
    if err := json.Unmarshal(raw, &series); err != nil {
        return nil, market.Wrap(market.KindRemote, symbol, err, "malformed indicator series")
    }
    if len(series) == 0 {
        return nil, market.Errorf(market.KindRemote, symbol, "empty %s indicator series", name)
    }

    points := make([]market.IndicatorPoint, 0, len(series))
    for date, cols := range series {
        t, err := parseIndicatorTime(date)
        if err != nil {
            return nil, market.Errorf(market.KindRemote, symbol, "malformed indicator timestamp %q", date)
        }
        values := make(map[string]float64, len(cols))
        for col, s := range cols {
            v, err := strconv.ParseFloat(s, 64)
            if err != nil {
                return nil, market.Errorf(market.KindRemote, symbol, "malformed %q value %q", col, s)
            }
            values[col] = v
        }
        points = append(points, market.IndicatorPoint{Time: t, Values: values})
    }
    sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

    return &market.IndicatorSeries{Symbol: symbol, Indicator: name, Points: points}, nil
}

// parseIndicatorTime accepts the date-only layout used by daily/weekly
// series and the datetime layout used by intraday indicator intervals.
func parseIndicatorTime(s string) (time.Time, error) {
    if t, err := time.Parse(indicatorDateLayout, s); err == nil {
        return t, nil
    }
    return time.Parse(intradayTimeLayout, s)
}
