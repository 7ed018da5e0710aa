package market

import (
    "testing"
    "time"
)

func TestNormalizeSymbol(t *testing.T) {
    cases := []struct {
        in   string
        want string
    }{
        {"AAPL", "AAPL"},
        {"aapl", "AAPL"},
        {" aapl ", "AAPL"},
        {"\tMsFt\n", "MSFT"},
        {"BRK.B", "BRK.B"},
    }
    for _, c := range cases {
        got, err := NormalizeSymbol(c.in)
        if err != nil {
            t.Fatalf("NormalizeSymbol(%q): %v", c.in, err)
        }
        if got != c.want {
            t.Fatalf("NormalizeSymbol(%q) = %q, want %q", c.in, got, c.want)
        }
    }
}

func TestNormalizeSymbol_Empty(t *testing.T) {
    for _, in := range []string{"", "   ", "\t\n"} {
        if _, err := NormalizeSymbol(in); !IsValidation(err) {
            t.Fatalf("NormalizeSymbol(%q): want validation error, got %v", in, err)
        }
    }
}

func TestValidatePeriod(t *testing.T) {
    for _, p := range ValidPeriods {
        if err := ValidatePeriod(p); err != nil {
            t.Fatalf("ValidatePeriod(%q): %v", p, err)
        }
    }
    if err := ValidatePeriod("2w"); !IsValidation(err) {
        t.Fatalf("want validation error for bad period, got %v", err)
    }
}

func TestValidateInterval(t *testing.T) {
    for _, iv := range ValidIntervals {
        if err := ValidateInterval(iv); err != nil {
            t.Fatalf("ValidateInterval(%q): %v", iv, err)
        }
    }
    if err := ValidateInterval("7m"); !IsValidation(err) {
        t.Fatalf("want validation error for bad interval, got %v", err)
    }
}

func TestErrorKinds(t *testing.T) {
    err := Errorf(KindRemote, "AAPL", "boom")
    if !IsRemote(err) || IsValidation(err) || IsConfiguration(err) {
        t.Fatalf("kind predicates wrong for %v", err)
    }
    if KindOf(err) != KindRemote {
        t.Fatalf("KindOf = %v", KindOf(err))
    }
    if got := err.Error(); got != "AAPL: boom" {
        t.Fatalf("message = %q", got)
    }
}

func TestWrap_PreservesCause(t *testing.T) {
    cause := Errorf(KindRemote, "", "inner")
    err := Wrap(KindRemote, "AAPL", cause, "request failed")
    if err.Unwrap() != cause {
        t.Fatalf("Unwrap lost the cause")
    }
    if KindOf(err) != KindRemote {
        t.Fatalf("KindOf = %v", KindOf(err))
    }
}

func TestEncodeDecodeBars(t *testing.T) {
    bars := []Bar{
        {Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Open: 189.5, High: 191.2, Low: 188.9, Close: 190.4, Volume: 51234567},
        {Time: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Open: 190.4, High: 192.0, Low: 190.0, Close: 191.8, Volume: 43210987},
    }

    payload, err := EncodeBars(bars)
    if err != nil {
        t.Fatalf("encode: %v", err)
    }

    got, err := DecodeBars(payload)
    if err != nil {
        t.Fatalf("decode: %v", err)
    }
    if len(got) != len(bars) {
        t.Fatalf("want %d bars, got %d", len(bars), len(got))
    }
    for i := range bars {
        if !got[i].Time.Equal(bars[i].Time) ||
            got[i].Open != bars[i].Open || got[i].High != bars[i].High ||
            got[i].Low != bars[i].Low || got[i].Close != bars[i].Close ||
            got[i].Volume != bars[i].Volume {
            t.Fatalf("bar %d mismatch: %+v vs %+v", i, got[i], bars[i])
        }
    }
}

func TestDecodeBars_Corrupt(t *testing.T) {
    for _, payload := range [][]byte{
        []byte("not a csv at all\x00\x01"),
        []byte("timestamp,open\n2025-01-02,1\n"),
        []byte("timestamp,open,high,low,close,volume\nnot-a-time,1,2,3,4,5\n"),
        []byte("timestamp,open,high,low,close,volume\n2025-01-02T00:00:00Z,x,2,3,4,5\n"),
    } {
        if _, err := DecodeBars(payload); err == nil {
            t.Fatalf("want error for corrupt payload %q", payload)
        }
    }
}
