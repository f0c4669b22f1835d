package monitor

import (
	"sync/atomic"
	"time"
)

// Point is a chart point. TimestampMs counts milliseconds since the Unix epoch.
type Point struct {
	TimestampMs int64 `json:"timestamp_ms"`
	RoundtripMs int64 `json:"roundtrip_ms"`
}

// Time returns the point timestamp as a time.Time
func (p Point) Time() time.Time {
	return time.UnixMilli(p.TimestampMs)
}

// Update carries one newly recorded result. Seq starts at 1 and grows by
// one for every update a Prober emits.
type Update struct {
	Seq   uint64
	Point Point
}

// NoticeKind classifies an operational message
type NoticeKind string

const (
	NoticeAlreadyRunning NoticeKind = "already_running"
	NoticeNotRunning     NoticeKind = "not_running"
	NoticeProbeFailure   NoticeKind = "probe_failure"
	NoticeRecovered      NoticeKind = "recovered"
)

// Notice is a user-visible operational message
type Notice struct {
	Kind   NoticeKind
	Target string
	Err    error
	At     time.Time
}

// Message renders the notice for display
func (n Notice) Message() string {
	switch n.Kind {
	case NoticeAlreadyRunning:
		return "Probe is already running."
	case NoticeNotRunning:
		return "Probe is not running."
	case NoticeRecovered:
		return "Probe to " + n.Target + " recovered."
	case NoticeProbeFailure:
		if n.Err != nil {
			return "Probe exception: " + n.Err.Error()
		}
		return "Probe to " + n.Target + " failed."
	default:
		return string(n.Kind)
	}
}

// Sink receives updates and notices from a Prober. Implementations must
// not block: the probe loop calls them inline.
type Sink interface {
	Publish(Update)
	Notify(Notice)
}

// ChannelSink hands values to a consumer goroutine through buffered
// channels. A full buffer drops the value instead of blocking; consumers
// that see a gap in Update.Seq should resync from Prober.Snapshot.
type ChannelSink struct {
	updates chan Update
	notices chan Notice

	droppedUpdates atomic.Uint64
	droppedNotices atomic.Uint64
}

// NewChannelSink creates a sink with the given buffer size per channel
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}

	return &ChannelSink{
		updates: make(chan Update, buffer),
		notices: make(chan Notice, buffer),
	}
}

// Publish queues an update without blocking
func (s *ChannelSink) Publish(u Update) {
	select {
	case s.updates <- u:
	default:
		s.droppedUpdates.Add(1)
	}
}

// Notify queues a notice without blocking
func (s *ChannelSink) Notify(n Notice) {
	select {
	case s.notices <- n:
	default:
		s.droppedNotices.Add(1)
	}
}

// Updates returns the channel of published updates
func (s *ChannelSink) Updates() <-chan Update {
	return s.updates
}

// Notices returns the channel of published notices
func (s *ChannelSink) Notices() <-chan Notice {
	return s.notices
}

// Dropped returns how many updates and notices were discarded
func (s *ChannelSink) Dropped() (updates uint64, notices uint64) {
	return s.droppedUpdates.Load(), s.droppedNotices.Load()
}

// Snapshotter provides the authoritative window for resynchronisation
type Snapshotter interface {
	Snapshot() Snapshot
}

// Series is the consumer-side display window. It mirrors the Prober
// history one to one as long as every update is applied in order.
type Series struct {
	points  *Bounded[Point]
	lastSeq uint64
}

// NewSeries creates an empty display series
func NewSeries(capacity int) *Series {
	return &Series{points: NewBounded[Point](capacity)}
}

// Apply appends the update point. When an update was missed it reloads
// the window from src instead and reports true.
func (s *Series) Apply(u Update, src Snapshotter) bool {
	if u.Seq <= s.lastSeq {
		return false
	}

	if u.Seq == s.lastSeq+1 || src == nil {
		s.points.Append(u.Point)
		s.lastSeq = u.Seq
		return false
	}

	s.Load(src.Snapshot())
	return true
}

// Load replaces the series with the snapshot contents
func (s *Series) Load(snap Snapshot) {
	points := make([]Point, 0, len(snap.Results))
	for _, r := range snap.Results {
		points = append(points, r.Point())
	}
	s.points.Reset(points)
	s.lastSeq = snap.Seq
}

// Points returns the displayed points, oldest first
func (s *Series) Points() []Point {
	return s.points.Snapshot()
}

// Len returns the number of displayed points
func (s *Series) Len() int {
	return s.points.Len()
}

// LastSeq returns the sequence number of the newest applied update
func (s *Series) LastSeq() uint64 {
	return s.lastSeq
}
