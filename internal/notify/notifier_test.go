package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	title string
	text  string
}

func recorder(out *[]sent) SendFunc {
	return func(_, title, text, _ string) {
		*out = append(*out, sent{title: title, text: text})
	}
}

func TestNotifierOnlyOnTransitions(t *testing.T) {
	var got []sent
	n := NewNotifier(true).WithSender(recorder(&got))

	n.Success("host", 10*time.Millisecond)
	assert.Empty(t, got, "first success is not a recovery")

	n.Failure("host", errors.New("no echo reply"))
	n.Failure("host", errors.New("no echo reply"))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].title, "host - Unreachable")
	assert.Equal(t, "Probe failed: no echo reply", got[0].text)
	assert.Equal(t, StatusFailing, n.Status("host"))

	n.Success("host", 12*time.Millisecond)
	require.Len(t, got, 2)
	assert.Contains(t, got[1].title, "Reachable again")
	assert.Equal(t, "Round trip: 12ms", got[1].text)
	assert.Equal(t, StatusReachable, n.Status("host"))
}

func TestNotifierDisabled(t *testing.T) {
	var got []sent
	n := NewNotifier(false).WithSender(recorder(&got))

	n.Failure("host", nil)
	n.Success("host", time.Millisecond)

	assert.Empty(t, got)
	assert.Equal(t, StatusReachable, n.Status("host"))
	assert.Equal(t, StatusUnknown, n.Status("other"))
}
