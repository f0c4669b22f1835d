package monitor

import "time"

// NoRoundtrip marks a result whose round-trip time could not be resolved
const NoRoundtrip int64 = -1

// Result is a single timestamped latency sample
type Result struct {
	timestamp   time.Time
	roundtripMs int64
}

// NewResult creates a result, truncating the timestamp to milliseconds.
// A negative round-trip is stored as NoRoundtrip.
func NewResult(timestamp time.Time, roundtrip time.Duration) Result {
	ms := roundtrip.Milliseconds()
	if roundtrip < 0 {
		ms = NoRoundtrip
	}

	return Result{
		timestamp:   timestamp.Truncate(time.Millisecond),
		roundtripMs: ms,
	}
}

// Timestamp returns when the probe completed
func (r Result) Timestamp() time.Time {
	return r.timestamp
}

// RoundtripMs returns the latency in milliseconds or NoRoundtrip
func (r Result) RoundtripMs() int64 {
	return r.roundtripMs
}

// HasRoundtrip reports whether the latency is known
func (r Result) HasRoundtrip() bool {
	return r.roundtripMs != NoRoundtrip
}

// Point converts the result into a display point (Unix epoch milliseconds)
func (r Result) Point() Point {
	return Point{
		TimestampMs: r.timestamp.UnixMilli(),
		RoundtripMs: r.roundtripMs,
	}
}
