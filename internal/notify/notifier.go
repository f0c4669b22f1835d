package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/martinlindhe/notify"
)

// Status represents the reachability of a probed target
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusReachable Status = "reachable"
	StatusFailing   Status = "failing"
)

// SendFunc delivers one desktop notification
type SendFunc func(appName, title, text, iconPath string)

// Notifier sends desktop notifications when a target changes status
type Notifier struct {
	enabled bool
	send    SendFunc

	mu       sync.Mutex
	statuses map[string]Status
}

// NewNotifier creates a new notifier instance
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled:  enabled,
		send:     notify.Notify,
		statuses: make(map[string]Status),
	}
}

// WithSender replaces the delivery function
func (n *Notifier) WithSender(send SendFunc) *Notifier {
	n.send = send
	return n
}

// Failure records a failed probe and notifies if the target was not
// already failing
func (n *Notifier) Failure(target string, err error) {
	prev := n.swap(target, StatusFailing)
	if prev == StatusFailing {
		return
	}

	message := "Probe failed"
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	n.deliver(fmt.Sprintf("⚠️  %s - Unreachable", target), message)
}

// Success records a successful probe and notifies on recovery
func (n *Notifier) Success(target string, rtt time.Duration) {
	prev := n.swap(target, StatusReachable)
	if prev != StatusFailing {
		return
	}

	n.deliver(fmt.Sprintf("✅ %s - Reachable again", target), fmt.Sprintf("Round trip: %s", rtt.String()))
}

// Status returns the last known status of target
func (n *Notifier) Status(target string) Status {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s, ok := n.statuses[target]; ok {
		return s
	}
	return StatusUnknown
}

func (n *Notifier) swap(target string, status Status) Status {
	n.mu.Lock()
	defer n.mu.Unlock()

	prev, ok := n.statuses[target]
	if !ok {
		prev = StatusUnknown
	}
	n.statuses[target] = status
	return prev
}

func (n *Notifier) deliver(title, message string) {
	if !n.enabled || n.send == nil {
		return
	}

	n.send("pingscope", title, message, "")
}
