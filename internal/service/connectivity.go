package service

import (
	"context"
	"net"
	"time"
)

// ConnectivityChecker reports whether the extraction service is likely
// reachable. The queue worker skips claiming jobs while offline so
// attempts are not burned on a dead network.
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

type dialChecker struct {
	addr    string
	timeout time.Duration
}

// NewDialChecker probes the given host:port with a TCP dial.
func NewDialChecker(addr string) ConnectivityChecker {
	return &dialChecker{addr: addr, timeout: 3 * time.Second}
}

func (c *dialChecker) Online(ctx context.Context) bool {
	if c.addr == "" {
		return true
	}
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// alwaysOnline is used where no probe address is configured.
type alwaysOnline struct{}

func (alwaysOnline) Online(context.Context) bool { return true }

// NewAlwaysOnlineChecker returns a checker that never reports offline.
func NewAlwaysOnlineChecker() ConnectivityChecker { return alwaysOnline{} }
