package market

import (
    "errors"
    "fmt"
)

// Kind is the closed set of error classes surfaced by the data layer.
type Kind int

const (
    // KindConfiguration marks a missing or unusable credential/setting,
    // fatal at client construction.
    KindConfiguration Kind = iota + 1
    // KindValidation marks malformed request parameters, raised before
    // any network I/O.
    KindValidation
    // KindRemote marks a transport failure after exhausting retries, or a
    // provider-reported error/throttling payload.
    KindRemote
    // KindCache marks a cache read/write problem. Never surfaced by public
    // fetch operations; callers of the cache degrade it to a miss.
    KindCache
)

func (k Kind) String() string {
    switch k {
    case KindConfiguration:
        return "configuration"
    case KindValidation:
        return "validation"
    case KindRemote:
        return "remote"
    case KindCache:
        return "cache"
    default:
        return "unknown"
    }
}

// Error is the typed error returned by all public fetch operations.
type Error struct {
    Kind   Kind
    Symbol string
    Msg    string
    Err    error
}

func (e *Error) Error() string {
    s := e.Msg
    if e.Symbol != "" {
        s = fmt.Sprintf("%s: %s", e.Symbol, s)
    }
    if e.Err != nil {
        s = fmt.Sprintf("%s: %v", s, e.Err)
    }
    return s
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a typed error with a formatted message.
func Errorf(kind Kind, symbol, format string, args ...any) *Error {
    return &Error{Kind: kind, Symbol: symbol, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a typed error around an underlying cause.
func Wrap(kind Kind, symbol string, err error, msg string) *Error {
    return &Error{Kind: kind, Symbol: symbol, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, or 0 when err carries none.
func KindOf(err error) Kind {
    var e *Error
    if errors.As(err, &e) {
        return e.Kind
    }
    return 0
}

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsRemote reports whether err is a remote-fetch failure.
func IsRemote(err error) bool { return KindOf(err) == KindRemote }

// IsConfiguration reports whether err is a configuration failure.
func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }
