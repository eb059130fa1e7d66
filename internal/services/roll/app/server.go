// Package server wires the roll engine into a gRPC server lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/louisbranch/rollplayer/internal/api/grpc/interceptors"
	grpcmeta "github.com/louisbranch/rollplayer/internal/api/grpc/metadata"
	"github.com/louisbranch/rollplayer/internal/platform/timeouts"
	"github.com/louisbranch/rollplayer/internal/roller"
	rollservice "github.com/louisbranch/rollplayer/internal/services/roll/api/grpc/roll"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Server hosts the roll gRPC API.
type Server struct {
	listener        net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
	shutdownTimeout time.Duration
}

// New creates a roll server listening on the provided port.
func New(port int, engine *roller.Engine) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), engine)
}

// NewWithAddr creates a roll server for the provided address.
func NewWithAddr(addr string, engine *roller.Engine) (*Server, error) {
	if engine == nil {
		return nil, errors.New("roll engine is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.LoggingInterceptor(),
		),
	)
	healthServer := health.NewServer()
	rollservice.RegisterRollServiceServer(grpcServer, rollservice.NewService(engine))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(rollservice.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:        listener,
		grpcServer:      grpcServer,
		health:          healthServer,
		shutdownTimeout: timeouts.Shutdown,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a roll server until context cancellation.
func Run(ctx context.Context, port int, engine *roller.Engine) error {
	server, err := New(port, engine)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation. In-flight rolls
// get the shutdown timeout to finish before the server stops hard.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("roll server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.gracefulStop()
		return serveResult(<-serveErr)
	case err := <-serveErr:
		return serveResult(err)
	}
}

func (s *Server) gracefulStop() {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	timer := time.NewTimer(s.shutdownTimeout)
	defer timer.Stop()
	select {
	case <-stopped:
	case <-timer.C:
		log.Printf("roll server shutdown exceeded %s; stopping", s.shutdownTimeout)
		s.grpcServer.Stop()
		<-stopped
	}
}

func serveResult(err error) error {
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC: %w", err)
}

// Close releases roll server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
