// Package stats counts reply outcomes and exports them to Prometheus.
package stats

import (
	"sync"
	"sync/atomic"

	"github.com/pior/mcroute"
	"github.com/pior/mcroute/msg"
	"github.com/pior/mcroute/result"
	"github.com/pior/mcroute/route"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Category is a reply classification counted by the Recorder.
type Category uint8

const (
	CategoryError Category = iota
	CategoryFailoverError
	CategoryTko
	CategoryHit
	CategoryMiss
	CategoryHotMiss
	CategoryStored
	numCategories
)

var categoryNames = [numCategories]string{
	CategoryError:         "error",
	CategoryFailoverError: "failover_error",
	CategoryTko:           "tko",
	CategoryHit:           "hit",
	CategoryMiss:          "miss",
	CategoryHotMiss:       "hot_miss",
	CategoryStored:        "stored",
}

var categoryPredicates = [numCategories]func(result.Code) bool{
	CategoryError:         result.IsError,
	CategoryFailoverError: result.IsFailoverError,
	CategoryTko:           result.IsTko,
	CategoryHit:           result.IsHit,
	CategoryMiss:          result.IsMiss,
	CategoryHotMiss:       result.IsHotMiss,
	CategoryStored:        result.IsStored,
}

// Categories returns every category in order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return "unknown"
}

// Snapshot is a point in time copy of the counters.
type Snapshot struct {
	Replies    uint64                 // Total replies recorded
	ByResult   map[result.Code]uint64 // Non-zero counts per result code
	ByCategory map[Category]uint64    // Counts per category, a reply may count in several
}

var (
	repliesDesc = prometheus.NewDesc(
		"mcroute_replies_total",
		"Replies recorded, by result code",
		[]string{"result"}, nil,
	)
	categoriesDesc = prometheus.NewDesc(
		"mcroute_reply_categories_total",
		"Replies recorded, by outcome category",
		[]string{"category"}, nil,
	)
	poolDesc = prometheus.NewDesc(
		"mcroute_msg_pool_messages",
		"Wire messages held by the message pool",
		[]string{"state"}, nil,
	)
	poolAcquiresDesc = prometheus.NewDesc(
		"mcroute_msg_pool_acquires_total",
		"Messages taken from the message pool",
		nil, nil,
	)
	tkoStateDesc = prometheus.NewDesc(
		"mcroute_destination_tko_state",
		"TKO state per destination (0=healthy, 1=probing, 2=tko)",
		[]string{"destination"}, nil,
	)
	tkoFailuresDesc = prometheus.NewDesc(
		"mcroute_destination_tko_failures",
		"TKO-class failures in the current interval",
		[]string{"destination"}, nil,
	)
)

// Recorder counts replies. It is safe for concurrent use and implements
// prometheus.Collector.
type Recorder struct {
	replies    atomic.Uint64
	byResult   []atomic.Uint64
	byCategory [numCategories]atomic.Uint64

	mu      sync.Mutex
	pools   []*msg.Pool
	tracker *route.TkoTracker
}

func NewRecorder() *Recorder {
	return &Recorder{
		byResult: make([]atomic.Uint64, len(result.Codes())),
	}
}

// Record counts r's result.
func (s *Recorder) Record(r *mcroute.Reply) {
	s.RecordResult(r.Result())
}

func (s *Recorder) RecordResult(c result.Code) {
	if !c.Valid() {
		c = result.Unknown
	}
	s.replies.Add(1)
	s.byResult[c].Add(1)
	for i, is := range categoryPredicates {
		if is(c) {
			s.byCategory[i].Add(1)
		}
	}
}

// TrackPool exports p's occupancy along with the reply counters.
func (s *Recorder) TrackPool(p *msg.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools = append(s.pools, p)
}

// TrackTko exports the per destination state of t.
func (s *Recorder) TrackTko(t *route.TkoTracker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker = t
}

func (s *Recorder) Snapshot() Snapshot {
	snap := Snapshot{
		Replies:    s.replies.Load(),
		ByResult:   make(map[result.Code]uint64),
		ByCategory: make(map[Category]uint64, numCategories),
	}
	for i := range s.byResult {
		if n := s.byResult[i].Load(); n > 0 {
			snap.ByResult[result.Code(i)] = n
		}
	}
	for i := range s.byCategory {
		snap.ByCategory[Category(i)] = s.byCategory[i].Load()
	}
	return snap
}

func (s *Recorder) Describe(ch chan<- *prometheus.Desc) {
	ch <- repliesDesc
	ch <- categoriesDesc
	ch <- poolDesc
	ch <- poolAcquiresDesc
	ch <- tkoStateDesc
	ch <- tkoFailuresDesc
}

func (s *Recorder) Collect(ch chan<- prometheus.Metric) {
	for i := range s.byResult {
		ch <- prometheus.MustNewConstMetric(repliesDesc, prometheus.CounterValue,
			float64(s.byResult[i].Load()), result.Code(i).String())
	}
	for i := range s.byCategory {
		ch <- prometheus.MustNewConstMetric(categoriesDesc, prometheus.CounterValue,
			float64(s.byCategory[i].Load()), Category(i).String())
	}

	s.mu.Lock()
	pools := s.pools
	tracker := s.tracker
	s.mu.Unlock()

	if len(pools) > 0 {
		var total, idle, acquired, acquires float64
		for _, p := range pools {
			ps := p.Stats()
			total += float64(ps.Total)
			idle += float64(ps.Idle)
			acquired += float64(ps.Acquired)
			acquires += float64(ps.AcquireCount)
		}
		ch <- prometheus.MustNewConstMetric(poolDesc, prometheus.GaugeValue, total, "total")
		ch <- prometheus.MustNewConstMetric(poolDesc, prometheus.GaugeValue, idle, "idle")
		ch <- prometheus.MustNewConstMetric(poolDesc, prometheus.GaugeValue, acquired, "acquired")
		ch <- prometheus.MustNewConstMetric(poolAcquiresDesc, prometheus.CounterValue, acquires)
	}

	if tracker != nil {
		for _, ts := range tracker.Stats() {
			ch <- prometheus.MustNewConstMetric(tkoStateDesc, prometheus.GaugeValue,
				tkoStateValue(ts.State), ts.Destination)
			ch <- prometheus.MustNewConstMetric(tkoFailuresDesc, prometheus.GaugeValue,
				float64(ts.Counts.TotalFailures), ts.Destination)
		}
	}
}

func tkoStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
