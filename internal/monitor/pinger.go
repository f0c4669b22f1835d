package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// ErrNoReply is returned when no echo reply arrived before the timeout
var ErrNoReply = errors.New("no echo reply")

// Pinger issues a single echo request and returns the round-trip time
type Pinger interface {
	Ping(ctx context.Context, target string) (time.Duration, error)
}

// ICMPPinger sends ICMP echo requests using pro-bing
type ICMPPinger struct {
	timeout    time.Duration
	privileged bool
}

// NewICMPPinger creates an ICMP pinger. Privileged mode uses raw sockets
// and needs root or CAP_NET_RAW; otherwise unprivileged UDP ICMP is used.
func NewICMPPinger(timeout time.Duration, privileged bool) *ICMPPinger {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ICMPPinger{
		timeout:    timeout,
		privileged: privileged,
	}
}

// Ping sends one echo request to target and waits for its reply
func (p *ICMPPinger) Ping(ctx context.Context, target string) (time.Duration, error) {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", target, err)
	}

	pinger.Count = 1
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(p.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return 0, fmt.Errorf("ping %s: %w", target, err)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 || len(stats.Rtts) == 0 {
		return 0, fmt.Errorf("ping %s: %w within %s", target, ErrNoReply, p.timeout)
	}

	return stats.Rtts[0], nil
}
