// Package ratelimit gates outbound provider calls with a sliding-window
// quota: at most Quota calls per window, blocking the caller until the
// oldest recorded call ages out when the quota is spent.
package ratelimit

import (
    "context"
    "sync"
    "time"
)

const defaultWindow = time.Minute

// Stats is a read-only snapshot of limiter state.
type Stats struct {
    CallsInWindow int `json:"calls_in_window"`
    Quota         int `json:"quota"`
    Remaining     int `json:"remaining"`
}

// Limiter tracks recent call timestamps. State is private to one client
// instance and not persisted across restarts.
type Limiter struct {
    quota  int
    window time.Duration

    mu      sync.Mutex
    history []time.Time

    now   func() time.Time
    sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
    return func(l *Limiter) { l.now = now }
}

// WithSleepFunc overrides the blocking wait, for deterministic tests.
func WithSleepFunc(sleep func(ctx context.Context, d time.Duration) error) Option {
    return func(l *Limiter) { l.sleep = sleep }
}

// New returns a Limiter allowing quota calls per minute. A quota <= 0
// disables limiting.
func New(quota int, options ...Option) *Limiter {
    l := &Limiter{
        quota:  quota,
        window: defaultWindow,
        now:    time.Now,
        sleep:  sleepCtx,
    }
    for _, option := range options {
        option(l)
    }
    return l
}

// Acquire records one outbound call, blocking first when the quota for the
// current window is already spent. It returns early only on ctx cancellation.
func (l *Limiter) Acquire(ctx context.Context) error {
    if l.quota <= 0 {
        return nil
    }

    l.mu.Lock()
    l.prune()
    if len(l.history) >= l.quota {
        wait := l.history[0].Add(l.window).Sub(l.now())
        l.mu.Unlock()
        if wait > 0 {
            if err := l.sleep(ctx, wait); err != nil {
                return err
            }
        }
        l.mu.Lock()
        // The window has rolled past the oldest call; start fresh.
        l.history = l.history[:0]
    }
    l.history = append(l.history, l.now())
    l.mu.Unlock()
    return nil
}

// Stats reports current usage without side effects beyond pruning.
func (l *Limiter) Stats() Stats {
    l.mu.Lock()
    defer l.mu.Unlock()
    l.prune()
    remaining := l.quota - len(l.history)
    if remaining < 0 {
        remaining = 0
    }
    return Stats{CallsInWindow: len(l.history), Quota: l.quota, Remaining: remaining}
}

// prune drops records older than the window. Callers hold l.mu.
func (l *Limiter) prune() {
    cutoff := l.now().Add(-l.window)
    i := 0
    for i < len(l.history) && !l.history[i].After(cutoff) {
        i++
    }
    if i > 0 {
        l.history = append(l.history[:0], l.history[i:]...)
    }
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
