package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedAppendEvictsOldest(t *testing.T) {
	b := NewBounded[int](3)

	for _, v := range []int{10, 20, 30} {
		assert.False(t, b.Append(v))
	}
	assert.True(t, b.Append(40))

	assert.Equal(t, []int{20, 30, 40}, b.Snapshot())
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.Cap())
}

func TestBoundedKeepsMostRecent(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		n        int
	}{
		{"below capacity", 5, 3},
		{"at capacity", 5, 5},
		{"over capacity", 5, 12},
		{"default capacity", DefaultMaxResults, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBounded[int](tt.capacity)
			for i := 1; i <= tt.n; i++ {
				b.Append(i)
				require.Equal(t, min(i, tt.capacity), b.Len())
			}

			got := b.Snapshot()
			first := tt.n - min(tt.n, tt.capacity) + 1
			for i, v := range got {
				assert.Equal(t, first+i, v)
			}
		})
	}
}

func TestBoundedSnapshotIsCopy(t *testing.T) {
	b := NewBounded[int](2)
	b.Append(1)

	snap := b.Snapshot()
	snap[0] = 99

	assert.Equal(t, []int{1}, b.Snapshot())
}

func TestBoundedResetKeepsNewest(t *testing.T) {
	b := NewBounded[int](2)
	b.Append(7)

	b.Reset([]int{1, 2, 3})
	assert.Equal(t, []int{2, 3}, b.Snapshot())

	last, ok := b.Last()
	assert.True(t, ok)
	assert.Equal(t, 3, last)

	b.Reset(nil)
	_, ok = b.Last()
	assert.False(t, ok)
}

func TestBoundedClampsCapacity(t *testing.T) {
	b := NewBounded[string](0)
	b.Append("a")
	b.Append("b")

	assert.Equal(t, []string{"b"}, b.Snapshot())
}

func TestNewResult(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	r := NewResult(ts, 42*time.Millisecond+600*time.Microsecond)
	assert.Equal(t, int64(42), r.RoundtripMs())
	assert.True(t, r.HasRoundtrip())
	assert.Equal(t, ts.Truncate(time.Millisecond), r.Timestamp())

	p := r.Point()
	assert.Equal(t, ts.UnixMilli(), p.TimestampMs)
	assert.Equal(t, int64(42), p.RoundtripMs)
	assert.True(t, p.Time().Equal(ts.Truncate(time.Millisecond)))

	unresolved := NewResult(ts, -1)
	assert.False(t, unresolved.HasRoundtrip())
	assert.Equal(t, NoRoundtrip, unresolved.Point().RoundtripMs)
}
