// Package api holds transport plumbing shared by the API services.
//
// # gRPC
//
//   - grpc/metadata/: request ID and locale headers, plus the interceptor
//     that assigns request IDs.
//   - grpc/interceptors/: server interceptors such as failure logging.
//
// The roll service itself lives in internal/services/roll/api/grpc/roll and
// uses these packages. MCP tools reach it through the roll client in
// internal/services/roll/client.
package api
