// Package interceptors holds gRPC server interceptors shared by rollplayer
// services.
package interceptors

import (
	"context"
	"log"
	"time"

	grpcmeta "github.com/louisbranch/rollplayer/internal/api/grpc/metadata"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs calls that fail with a server-side code. Caller
// mistakes and limits are answered without a log line.
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		code := status.Code(err)
		if !isServerFault(code) {
			return resp, err
		}
		log.Printf("grpc %s failed: code=%s request_id=%s elapsed=%s: %v",
			info.FullMethod, code, grpcmeta.RequestIDFromContext(ctx), time.Since(start), err)
		return resp, err
	}
}

func isServerFault(code codes.Code) bool {
	switch code {
	case codes.Internal, codes.Unknown, codes.DeadlineExceeded, codes.Unavailable, codes.DataLoss:
		return true
	default:
		return false
	}
}
