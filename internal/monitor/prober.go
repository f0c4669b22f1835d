package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxResults = 100
	DefaultInterval   = 1000 * time.Millisecond
	DefaultTimeout    = 800 * time.Millisecond
)

var (
	ErrAlreadyRunning = errors.New("probe is already running")
	ErrNotRunning     = errors.New("probe is not running")
	ErrEmptyTarget    = errors.New("target must not be empty")
	ErrProbeFailure   = errors.New("probe failure")
)

// ProbeError is a recoverable failure of a single tick.
// errors.Is(err, ErrProbeFailure) holds for every ProbeError.
type ProbeError struct {
	Target string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s failed: %v", e.Target, e.Err)
}

func (e *ProbeError) Unwrap() []error {
	return []error{ErrProbeFailure, e.Err}
}

// State is the lifecycle state of a Prober
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Config controls the probe loop
type Config struct {
	MaxResults int
	Interval   time.Duration
	Timeout    time.Duration
}

// withDefaults fills zero values and keeps the timeout below the interval
func (c Config) withDefaults() Config {
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout <= 0 || c.Timeout >= c.Interval {
		c.Timeout = min(DefaultTimeout, c.Interval*4/5)
	}
	return c
}

// Snapshot is a copy of the history together with the sequence number of
// the newest update it contains
type Snapshot struct {
	Results []Result
	Seq     uint64
}

// Option customises a Prober
type Option func(*Prober)

// WithClock replaces the clock used for timestamps and the tick interval
func WithClock(clock clockwork.Clock) Option {
	return func(p *Prober) {
		p.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

type run struct {
	target string
	stop   chan struct{}
	done   chan struct{}
}

// Prober probes one target per run at a fixed interval, keeps a bounded
// history and publishes every recorded result to its sink
type Prober struct {
	cfg    Config
	pinger Pinger
	sink   Sink
	clock  clockwork.Clock
	logger zerolog.Logger

	mu      sync.Mutex
	state   State
	current *run
	history *History
	seq     uint64
}

// NewProber creates an idle prober with an empty history
func NewProber(cfg Config, pinger Pinger, sink Sink, opts ...Option) *Prober {
	cfg = cfg.withDefaults()

	p := &Prober{
		cfg:     cfg,
		pinger:  pinger,
		sink:    sink,
		clock:   clockwork.NewRealClock(),
		logger:  zerolog.Nop(),
		state:   StateIdle,
		history: NewHistory(cfg.MaxResults),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start begins probing target in the background
func (p *Prober) Start(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return ErrEmptyTarget
	}

	p.mu.Lock()
	if p.state == StateRunning {
		current := p.current.target
		p.mu.Unlock()

		p.logger.Info().Str("target", target).Str("current", current).Msg("Ignoring start, probe already running")
		p.sink.Notify(Notice{Kind: NoticeAlreadyRunning, Target: current, At: p.clock.Now()})
		return ErrAlreadyRunning
	}

	prev := p.current
	r := &run{
		target: target,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.current = r
	p.state = StateRunning
	p.mu.Unlock()

	p.logger.Info().
		Str("target", target).
		Dur("interval", p.cfg.Interval).
		Dur("timeout", p.cfg.Timeout).
		Int("max_results", p.cfg.MaxResults).
		Msg("Starting probe")

	go p.loop(r, prev)

	return nil
}

// Stop asks the running loop to exit. The in-flight probe is not
// interrupted; its result is still recorded and published.
func (p *Prober) Stop() error {
	p.mu.Lock()
	if p.state != StateRunning {
		p.mu.Unlock()

		p.logger.Info().Msg("Ignoring stop, probe not running")
		p.sink.Notify(Notice{Kind: NoticeNotRunning, At: p.clock.Now()})
		return ErrNotRunning
	}

	p.state = StateIdle
	close(p.current.stop)
	target := p.current.target
	p.mu.Unlock()

	p.logger.Info().Str("target", target).Msg("Stopping probe")

	return nil
}

// Wait blocks until the most recently started loop has exited
func (p *Prober) Wait() {
	p.mu.Lock()
	r := p.current
	p.mu.Unlock()

	if r != nil {
		<-r.done
	}
}

// State returns the lifecycle state
func (p *Prober) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Running reports whether the prober is in the running state
func (p *Prober) Running() bool {
	return p.State() == StateRunning
}

// Target returns the target of the current or most recent run
func (p *Prober) Target() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return ""
	}
	return p.current.target
}

// Config returns the effective configuration
func (p *Prober) Config() Config {
	return p.cfg
}

// Snapshot returns a copy of the history
func (p *Prober) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		Results: p.history.Snapshot(),
		Seq:     p.seq,
	}
}

func (p *Prober) loop(r *run, prev *run) {
	defer close(r.done)

	// A stopped loop may still be finishing its last tick
	if prev != nil {
		<-prev.done
	}

	failing := false
	for {
		select {
		case <-r.stop:
			return
		default:
		}

		failing = p.tick(r.target, failing)

		timer := p.clock.NewTimer(p.cfg.Interval)
		select {
		case <-r.stop:
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

// tick runs one probe and reports whether it failed
func (p *Prober) tick(target string, failing bool) bool {
	rtt, err := p.probe(target)
	now := p.clock.Now()

	if err != nil {
		p.logger.Warn().Err(err).Str("target", target).Msg("Probe failed")
		p.sink.Notify(Notice{Kind: NoticeProbeFailure, Target: target, Err: err, At: now})
		return true
	}

	result := NewResult(now, rtt)

	p.mu.Lock()
	p.history.Append(result)
	p.seq++
	update := Update{Seq: p.seq, Point: result.Point()}
	p.mu.Unlock()

	p.sink.Publish(update)

	p.logger.Debug().
		Str("target", target).
		Int64("rtt_ms", result.RoundtripMs()).
		Uint64("seq", update.Seq).
		Msg("Probe succeeded")

	if failing {
		p.logger.Info().Str("target", target).Msg("Probe recovered")
		p.sink.Notify(Notice{Kind: NoticeRecovered, Target: target, At: now})
	}

	return false
}

func (p *Prober) probe(target string) (rtt time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil {
			rtt = 0
			err = &ProbeError{Target: target, Err: fmt.Errorf("unexpected error: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()

	rtt, err = p.pinger.Ping(ctx, target)
	if err != nil {
		return 0, &ProbeError{Target: target, Err: err}
	}

	return rtt, nil
}
