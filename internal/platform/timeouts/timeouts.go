// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// StandardRoll is the evaluation budget of tiers without elevated time.
const StandardRoll = 2 * time.Second

// ElevatedRoll is the evaluation budget of the elevated tier.
const ElevatedRoll = 4 * time.Second

// GRPCDial caps the wait time when dialing a gRPC peer.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time a client waits on a single roll request. It
// exceeds ElevatedRoll so the server's own timeout is reported first.
const GRPCRequest = ElevatedRoll + time.Second

// Shutdown limits how long a server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
