// Package netsync holds the network-facing simulation state: connection and
// message components, their bookkeeping, and the systems that retry, time
// out and dispatch them each tick. The transport itself lives in
// internal/server; this package only tracks its state inside the world.
package netsync

import "time"

// Status is the lifecycle state of a connection.
type Status uint8

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
	StatusError
	StatusClosed
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusError:
		return "error"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Connection is the per-client connection component: status plus the
// traffic counters and latency sample used for liveness decisions.
type Connection struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	URL    string `json:"url"`

	LastActivity int64  `json:"last_activity"`
	RetryCount   uint32 `json:"retry_count"`

	LatencyMS    uint32 `json:"latency_ms"`
	LatencyKnown bool   `json:"latency_known"`

	SentMessages     uint64 `json:"sent_messages"`
	ReceivedMessages uint64 `json:"received_messages"`
}

// NewConnection returns a disconnected connection record.
func NewConnection(id, url string) Connection {
	return Connection{
		ID:           id,
		Status:       StatusDisconnected,
		URL:          url,
		LastActivity: time.Now().Unix(),
	}
}

// UpdateStatus moves the connection to a new status and refreshes its
// activity timestamp.
func (c *Connection) UpdateStatus(status Status) {
	c.Status = status
	c.touch()
}

// IncrementSent counts an outbound message.
func (c *Connection) IncrementSent() {
	c.SentMessages++
	c.touch()
}

// IncrementReceived counts an inbound message.
func (c *Connection) IncrementReceived() {
	c.ReceivedMessages++
	c.touch()
}

// IncrementRetry counts a reconnect attempt.
func (c *Connection) IncrementRetry() {
	c.RetryCount++
}

// UpdateLatency records a round-trip sample.
func (c *Connection) UpdateLatency(latencyMS uint32) {
	c.LatencyMS = latencyMS
	c.LatencyKnown = true
	c.touch()
}

// IsActive reports whether the connection has seen activity within the
// timeout.
func (c *Connection) IsActive(timeout time.Duration) bool {
	return time.Since(time.Unix(c.LastActivity, 0)) < timeout
}

func (c *Connection) touch() {
	c.LastActivity = time.Now().Unix()
}
