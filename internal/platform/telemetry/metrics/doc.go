// Package metrics records roll evaluation metrics through OpenTelemetry.
//
// # Instruments
//
//   - rollplayer.roll.evaluations: evaluations by tier and outcome kind
//   - rollplayer.roll.duration: evaluation latency in seconds
//   - rollplayer.roll.draws: dice drawn by successful evaluations
//
// The outcome attribute is "ok" for successful evaluations and the error
// kind otherwise ("syntax", "upsell", "hard_limit", "timeout",
// "invalid_argument", "internal").
//
// # Integration
//
// Recorders are built from a metric.Meter. Default uses the global meter
// provider, which stays a no-op until a process installs a real one.
package metrics
