package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = time.Second

type step struct {
	rtt   time.Duration
	err   error
	panic bool
}

func ok(ms int) step {
	return step{rtt: time.Duration(ms) * time.Millisecond}
}

func fail(err error) step {
	return step{err: err}
}

// scriptedPinger replays steps in order, then keeps failing
type scriptedPinger struct {
	mu      sync.Mutex
	steps   []step
	calls   int
	targets []string
}

func newScriptedPinger(steps ...step) *scriptedPinger {
	return &scriptedPinger{steps: steps}
}

func (s *scriptedPinger) Ping(_ context.Context, target string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.targets = append(s.targets, target)
	s.calls++
	if s.calls > len(s.steps) {
		return 0, ErrNoReply
	}

	st := s.steps[s.calls-1]
	if st.panic {
		panic("socket exploded")
	}
	return st.rtt, st.err
}

func (s *scriptedPinger) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestProber(t *testing.T, maxResults int, pinger Pinger) (*Prober, *ChannelSink, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	sink := NewChannelSink(64)
	cfg := Config{MaxResults: maxResults, Interval: testInterval, Timeout: testInterval / 2}
	p := NewProber(cfg, pinger, sink, WithClock(clock))

	t.Cleanup(func() {
		_ = p.Stop()
		p.Wait()
	})

	return p, sink, clock
}

func waitUpdate(t *testing.T, sink *ChannelSink) Update {
	t.Helper()

	select {
	case u := <-sink.Updates():
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func waitNotice(t *testing.T, sink *ChannelSink) Notice {
	t.Helper()

	select {
	case n := <-sink.Notices():
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notice")
		return Notice{}
	}
}

// nextTick waits for the loop to sleep and then wakes it
func nextTick(t *testing.T, clock *clockwork.FakeClock) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(testInterval)
}

func roundtrips(snap Snapshot) []int64 {
	out := make([]int64, 0, len(snap.Results))
	for _, r := range snap.Results {
		out = append(out, r.RoundtripMs())
	}
	return out
}

func TestProber_EvictsOldestResult(t *testing.T) {
	pinger := newScriptedPinger(ok(10), ok(20), ok(30), ok(40))
	p, sink, clock := newTestProber(t, 3, pinger)

	require.NoError(t, p.Start("host"))

	var updates []Update
	for i := 0; i < 4; i++ {
		if i > 0 {
			nextTick(t, clock)
		}
		updates = append(updates, waitUpdate(t, sink))
	}

	require.NoError(t, p.Stop())
	p.Wait()

	snap := p.Snapshot()
	assert.Equal(t, []int64{20, 30, 40}, roundtrips(snap))
	assert.Equal(t, uint64(4), snap.Seq)

	for i, u := range updates {
		assert.Equal(t, uint64(i+1), u.Seq)
		assert.Equal(t, int64((i+1)*10), u.Point.RoundtripMs)
		if i > 0 {
			assert.Greater(t, u.Point.TimestampMs, updates[i-1].Point.TimestampMs)
		}
	}
}

func TestProber_FailureDoesNotStopLoop(t *testing.T) {
	pinger := newScriptedPinger(ok(10), fail(ErrNoReply), ok(30))
	p, sink, clock := newTestProber(t, 5, pinger)

	require.NoError(t, p.Start("host"))
	first := waitUpdate(t, sink)

	nextTick(t, clock)
	notice := waitNotice(t, sink)
	assert.Equal(t, NoticeProbeFailure, notice.Kind)
	assert.Equal(t, "host", notice.Target)
	assert.True(t, errors.Is(notice.Err, ErrProbeFailure))
	assert.True(t, errors.Is(notice.Err, ErrNoReply))

	var perr *ProbeError
	require.True(t, errors.As(notice.Err, &perr))
	assert.Equal(t, "host", perr.Target)

	assert.Equal(t, []int64{10}, roundtrips(p.Snapshot()))

	nextTick(t, clock)
	second := waitUpdate(t, sink)
	assert.Equal(t, first.Seq+1, second.Seq)
	assert.Equal(t, int64(30), second.Point.RoundtripMs)

	recovered := waitNotice(t, sink)
	assert.Equal(t, NoticeRecovered, recovered.Kind)

	assert.Equal(t, []int64{10, 30}, roundtrips(p.Snapshot()))
	assert.True(t, p.Running())
}

func TestProber_PanicIsRecoverable(t *testing.T) {
	pinger := newScriptedPinger(step{panic: true}, ok(5))
	p, sink, clock := newTestProber(t, 5, pinger)

	require.NoError(t, p.Start("host"))

	notice := waitNotice(t, sink)
	assert.Equal(t, NoticeProbeFailure, notice.Kind)
	assert.ErrorIs(t, notice.Err, ErrProbeFailure)
	assert.Contains(t, notice.Err.Error(), "socket exploded")

	nextTick(t, clock)
	u := waitUpdate(t, sink)
	assert.Equal(t, int64(5), u.Point.RoundtripMs)
}

func TestProber_StartTwice(t *testing.T) {
	pinger := newScriptedPinger(ok(1), ok(2), ok(3))
	p, sink, clock := newTestProber(t, 5, pinger)

	require.NoError(t, p.Start("host"))
	waitUpdate(t, sink)

	err := p.Start("host")
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.True(t, p.Running())

	notice := waitNotice(t, sink)
	assert.Equal(t, NoticeAlreadyRunning, notice.Kind)
	assert.Equal(t, "Probe is already running.", notice.Message())

	nextTick(t, clock)
	waitUpdate(t, sink)

	// exactly one loop: one probe per tick
	assert.Equal(t, 2, pinger.Calls())
}

func TestProber_StopTwice(t *testing.T) {
	pinger := newScriptedPinger(ok(1))
	p, sink, _ := newTestProber(t, 5, pinger)

	require.NoError(t, p.Start("host"))
	waitUpdate(t, sink)

	require.NoError(t, p.Stop())
	assert.Equal(t, StateIdle, p.State())

	err := p.Stop()
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.Equal(t, StateIdle, p.State())

	notice := waitNotice(t, sink)
	assert.Equal(t, NoticeNotRunning, notice.Kind)
	assert.Equal(t, "Probe is not running.", notice.Message())
}

func TestProber_StopWhenIdle(t *testing.T) {
	p, sink, _ := newTestProber(t, 5, newScriptedPinger())

	assert.ErrorIs(t, p.Stop(), ErrNotRunning)
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, NoticeNotRunning, waitNotice(t, sink).Kind)
	assert.Empty(t, p.Snapshot().Results)
}

func TestProber_StartRejectsEmptyTarget(t *testing.T) {
	p, _, _ := newTestProber(t, 5, newScriptedPinger())

	assert.ErrorIs(t, p.Start("   "), ErrEmptyTarget)
	assert.Equal(t, StateIdle, p.State())
}

func TestProber_RestartAfterStop(t *testing.T) {
	pinger := newScriptedPinger(ok(10), ok(20))
	p, sink, _ := newTestProber(t, 5, pinger)

	require.NoError(t, p.Start("first"))
	waitUpdate(t, sink)
	require.NoError(t, p.Stop())
	p.Wait()

	require.NoError(t, p.Start("second"))
	u := waitUpdate(t, sink)
	assert.Equal(t, uint64(2), u.Seq)
	assert.Equal(t, "second", p.Target())

	assert.Equal(t, []int64{10, 20}, roundtrips(p.Snapshot()))
	assert.Equal(t, []string{"first", "second"}, pinger.targets)
}

// blockingPinger holds each probe until released
type blockingPinger struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingPinger) Ping(ctx context.Context, _ string) (time.Duration, error) {
	b.entered <- struct{}{}
	<-b.release
	return 7 * time.Millisecond, nil
}

func TestProber_StopLetsInFlightTickFinish(t *testing.T) {
	pinger := &blockingPinger{entered: make(chan struct{}, 1), release: make(chan struct{})}
	p, sink, _ := newTestProber(t, 5, pinger)

	require.NoError(t, p.Start("host"))
	<-pinger.entered

	require.NoError(t, p.Stop())
	assert.False(t, p.Running())

	close(pinger.release)
	p.Wait()

	u := waitUpdate(t, sink)
	assert.Equal(t, int64(7), u.Point.RoundtripMs)
	assert.Len(t, p.Snapshot().Results, 1)
}

func TestProber_DisplaySeriesMirrorsHistory(t *testing.T) {
	steps := make([]step, 0, 8)
	for i := 1; i <= 8; i++ {
		steps = append(steps, ok(i))
	}
	pinger := newScriptedPinger(steps...)
	p, sink, clock := newTestProber(t, 3, pinger)
	series := NewSeries(p.Config().MaxResults)

	require.NoError(t, p.Start("host"))
	for i := 0; i < len(steps); i++ {
		if i > 0 {
			nextTick(t, clock)
		}
		series.Apply(waitUpdate(t, sink), p)

		snap := p.Snapshot()
		require.LessOrEqual(t, series.Len(), 3)
		require.Equal(t, len(snap.Results), series.Len())
	}

	want := make([]Point, 0, 3)
	for _, r := range p.Snapshot().Results {
		want = append(want, r.Point())
	}
	assert.Equal(t, want, series.Points())
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultMaxResults, cfg.MaxResults)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	cfg = Config{Interval: 500 * time.Millisecond, Timeout: time.Second}.withDefaults()
	assert.Equal(t, 400*time.Millisecond, cfg.Timeout)
}
