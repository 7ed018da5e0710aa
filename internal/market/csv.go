package market

import (
    "bytes"
    "encoding/csv"
    "fmt"
    "strconv"
    "time"
)

// barHeader is the column layout of a cached history file.
var barHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// EncodeBars renders bars as a columnar CSV payload for the file cache.
func EncodeBars(bars []Bar) ([]byte, error) {
    var buf bytes.Buffer
    w := csv.NewWriter(&buf)
    if err := w.Write(barHeader); err != nil {
        return nil, err
    }
    for _, b := range bars {
        rec := []string{
            b.Time.UTC().Format(time.RFC3339),
            strconv.FormatFloat(b.Open, 'f', -1, 64),
            strconv.FormatFloat(b.High, 'f', -1, 64),
            strconv.FormatFloat(b.Low, 'f', -1, 64),
            strconv.FormatFloat(b.Close, 'f', -1, 64),
            strconv.FormatInt(b.Volume, 10),
        }
        if err := w.Write(rec); err != nil {
            return nil, err
        }
    }
    w.Flush()
    return buf.Bytes(), w.Error()
}

// DecodeBars parses a cached CSV payload back into bars. Any structural
// problem is an error; callers treat that as a cache miss.
func DecodeBars(payload []byte) ([]Bar, error) {
    r := csv.NewReader(bytes.NewReader(payload))
    records, err := r.ReadAll()
    if err != nil {
        return nil, err
    }
    if len(records) == 0 || len(records[0]) != len(barHeader) {
        return nil, fmt.Errorf("malformed history payload")
    }
    bars := make([]Bar, 0, len(records)-1)
    for _, rec := range records[1:] {
        ts, err := time.Parse(time.RFC3339, rec[0])
        if err != nil {
            return nil, fmt.Errorf("parse timestamp %q: %w", rec[0], err)
        }
        open, err := strconv.ParseFloat(rec[1], 64)
        if err != nil {
            return nil, fmt.Errorf("parse open %q: %w", rec[1], err)
        }
        high, err := strconv.ParseFloat(rec[2], 64)
        if err != nil {
            return nil, fmt.Errorf("parse high %q: %w", rec[2], err)
        }
        low, err := strconv.ParseFloat(rec[3], 64)
        if err != nil {
            return nil, fmt.Errorf("parse low %q: %w", rec[3], err)
        }
        cls, err := strconv.ParseFloat(rec[4], 64)
        if err != nil {
            return nil, fmt.Errorf("parse close %q: %w", rec[4], err)
        }
        vol, err := strconv.ParseInt(rec[5], 10, 64)
        if err != nil {
            return nil, fmt.Errorf("parse volume %q: %w", rec[5], err)
        }
        bars = append(bars, Bar{Time: ts, Open: open, High: high, Low: low, Close: cls, Volume: vol})
    }
    return bars, nil
}
