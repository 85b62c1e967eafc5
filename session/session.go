// Package session is the interactive shell around the simulator. It keeps
// the last parameter snapshot and its result, recomputes only when the
// parameters change (or a re-run is requested), and hands each new result
// to subscribers as a whole.
package session

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rustyeddy/kellysim/kelly"
	"github.com/rustyeddy/kellysim/metrics"
	"github.com/rustyeddy/kellysim/pkg/id"
	"github.com/rustyeddy/kellysim/sim"
	"go.uber.org/zap"
)

// Snapshot is the complete, read-only result of one run.
type Snapshot struct {
	RunID      string          `json:"run_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Trigger    string          `json:"trigger"`
	Seed       uint64          `json:"seed"`
	Params     sim.Params      `json:"params"`
	Summary    sim.Summary     `json:"summary"`
	Kelly      kelly.Estimate  `json:"kelly"`
	Trajectory *sim.Trajectory `json:"trajectory"`
}

// Triggers recorded on snapshots and in the runs_total metric.
const (
	TriggerApply = "apply"
	TriggerRerun = "rerun"
)

// Option configures a Session.
type Option func(*Session)

// WithSeed fixes the seed used by Apply. Rerun always draws a new one.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.seed = seed }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session serialises runs; the simulator itself stays single threaded.
type Session struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	seed    uint64
	now     func() time.Time

	mu   sync.Mutex
	cur  *Snapshot
	subs map[int]chan *Snapshot
	next int
}

// New returns an empty session. log and m may be nil.
func New(log *zap.Logger, m *metrics.Metrics, opts ...Option) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		log:     log,
		metrics: m,
		now:     time.Now,
		subs:    make(map[int]chan *Snapshot),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Apply makes p the current parameter snapshot. If p equals the snapshot of
// the current result nothing is recomputed and changed is false.
func (s *Session) Apply(p sim.Params) (snap *Snapshot, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil && s.cur.Params == p {
		if s.metrics != nil {
			s.metrics.MemoHits.Inc()
		}
		s.log.Debug("parameters unchanged", zap.String("run_id", s.cur.RunID))
		return s.cur, false, nil
	}

	seed := s.seed
	if seed == 0 {
		seed = freshSeed()
	}
	snap, err = s.run(p, seed, TriggerApply)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Rerun draws a fresh trajectory for the current parameters, or the
// defaults when nothing has been applied yet.
func (s *Session) Rerun() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := sim.DefaultParams()
	if s.cur != nil {
		p = s.cur.Params
	}
	return s.run(p, freshSeed(), TriggerRerun)
}

// Current returns the latest snapshot, or nil before the first run.
func (s *Session) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Subscribe returns a channel receiving every new snapshot. A slow reader
// only ever sees the newest one; stale snapshots are dropped. Call cancel to
// unsubscribe.
func (s *Session) Subscribe() (<-chan *Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *Snapshot, 1)
	key := s.next
	s.next++
	s.subs[key] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, key)
			close(ch)
		})
	}
	return ch, cancel
}

// run must be called with s.mu held.
func (s *Session) run(p sim.Params, seed uint64, trigger string) (*Snapshot, error) {
	start := time.Now()

	snap, err := s.compute(p, seed, trigger)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RunErrors.Inc()
		}
		s.log.Warn("run rejected", zap.String("trigger", trigger), zap.Error(err))
		return nil, err
	}

	s.publish(snap, time.Since(start))
	return snap, nil
}

func (s *Session) compute(p sim.Params, seed uint64, trigger string) (*Snapshot, error) {
	tr, err := sim.Run(p, sim.NewSource(seed))
	if err != nil {
		return nil, err
	}
	est, err := kelly.Compute(p.WinProbability, p.FeeFraction)
	if err != nil {
		return nil, err
	}

	created := s.now()
	return &Snapshot{
		RunID:      id.NewRun(created),
		CreatedAt:  created,
		Trigger:    trigger,
		Seed:       seed,
		Params:     p,
		Summary:    sim.Summarize(tr),
		Kelly:      est,
		Trajectory: tr,
	}, nil
}

func (s *Session) publish(snap *Snapshot, took time.Duration) {
	s.cur = snap

	if m := s.metrics; m != nil {
		m.Runs.WithLabelValues(snap.Trigger).Inc()
		m.RunDuration.Observe(took.Seconds())
		m.FinalBalance.Set(snap.Summary.EndBalance)
		m.ReturnPct.Set(snap.Summary.ReturnPct)
		m.MaxDrawdownPct.Set(snap.Summary.MaxDDPct)
		m.KellyPct.WithLabelValues("false").Set(snap.Kelly.Unadjusted.RiskFractionPercent)
		m.KellyPct.WithLabelValues("true").Set(snap.Kelly.Adjusted.RiskFractionPercent)
		if snap.Kelly.Unadjusted.Degenerate || snap.Kelly.Adjusted.Degenerate {
			m.DegenerateKelly.Inc()
		}
	}

	s.log.Info("run finished",
		zap.String("run_id", snap.RunID),
		zap.String("trigger", snap.Trigger),
		zap.Uint64("seed", snap.Seed),
		zap.Int("days", snap.Params.NumDays),
		zap.Float64("final_balance", snap.Summary.EndBalance),
		zap.Float64("kelly_pct", snap.Kelly.Unadjusted.RiskFractionPercent),
		zap.Float64("kelly_adj_pct", snap.Kelly.Adjusted.RiskFractionPercent),
		zap.Duration("took", took),
	)

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// replace the unread snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func freshSeed() uint64 {
	for {
		if v := rand.Uint64(); v != 0 {
			return v
		}
	}
}
