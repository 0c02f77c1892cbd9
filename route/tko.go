package route

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pior/mcroute"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// TkoConfig controls when a destination is marked TKO (technical knockout)
// and how it recovers.
type TkoConfig struct {
	// MinRequests is the number of requests in an interval before the
	// failure ratio is considered.
	MinRequests uint32

	// FailureRatio of TKO-class replies that marks the destination TKO.
	FailureRatio float64

	// Interval clears the counts of a healthy destination. Zero never clears.
	Interval time.Duration

	// Timeout is how long a destination stays TKO before probing.
	Timeout time.Duration

	// MaxProbes is the number of requests let through while probing.
	MaxProbes uint32
}

func DefaultTkoConfig() TkoConfig {
	return TkoConfig{
		MinRequests:  3,
		FailureRatio: 0.6,
		Interval:     10 * time.Second,
		Timeout:      5 * time.Second,
		MaxProbes:    1,
	}
}

// errTkoOutcome marks a reply that counts against the destination.
var errTkoOutcome = errors.New("route: tko outcome")

// TkoTracker keeps a circuit breaker per destination. Soft and hard TKO
// errors count as failures; any other reply counts as a success. While a
// destination is TKO, Send returns a TKO reply without calling it.
type TkoTracker struct {
	config TkoConfig
	logger zerolog.Logger

	mu       sync.Mutex
	breakers map[uint64]*gobreaker.CircuitBreaker[*mcroute.Reply]
}

func NewTkoTracker(config TkoConfig, logger zerolog.Logger) *TkoTracker {
	return &TkoTracker{
		config:   config,
		logger:   logger,
		breakers: make(map[uint64]*gobreaker.CircuitBreaker[*mcroute.Reply]),
	}
}

func (t *TkoTracker) breaker(dest *mcroute.AccessPoint) *gobreaker.CircuitBreaker[*mcroute.Reply] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cb, ok := t.breakers[dest.Hash()]; ok {
		return cb
	}

	cfg := t.config
	cb := gobreaker.NewCircuitBreaker[*mcroute.Reply](gobreaker.Settings{
		Name:        dest.String(),
		MaxRequests: cfg.MaxProbes,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests || counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			event := t.logger.Info()
			if to == gobreaker.StateOpen {
				event = t.logger.Warn()
			}
			event.Str("destination", name).
				Stringer("from", from).
				Stringer("to", to).
				Msg("tko state changed")
		},
	})
	t.breakers[dest.Hash()] = cb
	return cb
}

// Send calls fn through dest's breaker.
func (t *TkoTracker) Send(ctx context.Context, dest *mcroute.AccessPoint, fn SendFunc) *mcroute.Reply {
	r, err := t.breaker(dest).Execute(func() (*mcroute.Reply, error) {
		r := send(ctx, dest, fn)
		if r.IsSoftTkoError() || r.IsHardTkoError() {
			return r, errTkoOutcome
		}
		return r, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		r = mcroute.NewTkoReply()
		r.SetDestination(dest)
	}
	return r
}

// Wrap returns fn guarded by the tracker.
func (t *TkoTracker) Wrap(fn SendFunc) SendFunc {
	return func(ctx context.Context, dest *mcroute.AccessPoint) *mcroute.Reply {
		return t.Send(ctx, dest, fn)
	}
}

// IsTko reports whether dest is currently refusing requests.
func (t *TkoTracker) IsTko(dest *mcroute.AccessPoint) bool {
	return t.breaker(dest).State() == gobreaker.StateOpen
}

// TkoStats describes one tracked destination.
type TkoStats struct {
	Destination string
	State       gobreaker.State
	Counts      gobreaker.Counts
}

// Stats returns the state of every destination seen so far.
func (t *TkoTracker) Stats() []TkoStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := make([]TkoStats, 0, len(t.breakers))
	for _, cb := range t.breakers {
		stats = append(stats, TkoStats{
			Destination: cb.Name(),
			State:       cb.State(),
			Counts:      cb.Counts(),
		})
	}
	return stats
}
