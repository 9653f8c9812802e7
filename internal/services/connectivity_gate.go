package services

import (
	"context"
	"net"
	"time"

	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/logging"
)

// Reachability reports whether the device currently has network connectivity.
type Reachability interface {
	Online(ctx context.Context) bool
}

// TokenSource returns the current bearer token, or "" when there is none.
type TokenSource interface {
	CurrentSessionToken(ctx context.Context) (string, error)
}

// DialReachability treats a successful TCP dial to the API host as "online".
type DialReachability struct {
	Address string
	Timeout time.Duration
}

func NewDialReachability(address string, timeout time.Duration) *DialReachability {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DialReachability{Address: address, Timeout: timeout}
}

func (d *DialReachability) Online(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: d.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		logging.Debug("Reachability dial failed", "address", d.Address, "error", err.Error())
		return false
	}
	conn.Close()
	return true
}

// ConnectivityGate decides whether the sync cycle may submit.
type ConnectivityGate struct {
	reach  Reachability
	tokens TokenSource
}

func NewConnectivityGate(reach Reachability, tokens TokenSource) *ConnectivityGate {
	return &ConnectivityGate{reach: reach, tokens: tokens}
}

// Check returns true when the device is online and holds a session token.
// Otherwise reason carries the error code explaining why.
func (g *ConnectivityGate) Check(ctx context.Context) (bool, string) {
	if !g.reach.Online(ctx) {
		return false, constants.ErrCodeDeviceOffline
	}
	token, err := g.tokens.CurrentSessionToken(ctx)
	if err != nil {
		logging.Warn("Failed to read session token", "error", err.Error())
		return false, constants.ErrCodeSessionMissing
	}
	if token == "" {
		return false, constants.ErrCodeSessionMissing
	}
	return true, ""
}
