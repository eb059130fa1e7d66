// Package service runs the rollplayer MCP server.
//
// Tools roll in process by default. When a roll server address is
// configured, the server dials it first and every roll goes over gRPC.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"

	"github.com/louisbranch/rollplayer/internal/core/limits"
	"github.com/louisbranch/rollplayer/internal/roller"
	"github.com/louisbranch/rollplayer/internal/services/mcp/domain"
	rollclient "github.com/louisbranch/rollplayer/internal/services/roll/client"
)

const (
	serverName = "rollplayer"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Config selects where rolls are evaluated.
type Config struct {
	// RollAddr is the roll server address; empty rolls in process.
	RollAddr string
	// Table lists the tiers reported by roll_tiers and used in process.
	Table *limits.Table
	// Engine rolls in process; nil builds one from Table.
	Engine *roller.Engine
}

// Server hosts the MCP tools.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// New creates an MCP server whose tools roll through r.
func New(r rollclient.Roller, table *limits.Table) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, domain.RollExpressionTool(), domain.RollExpressionHandler(r))
	mcp.AddTool(mcpServer, domain.TierListTool(), domain.TierListHandler(table))
	return &Server{mcpServer: mcpServer}
}

// Run serves MCP over stdio until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
}

func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

func newServer(ctx context.Context, cfg Config) (*Server, error) {
	table := cfg.Table
	if table == nil {
		table = limits.DefaultTable()
	}
	if cfg.RollAddr == "" {
		engine := cfg.Engine
		if engine == nil {
			engine = roller.New(roller.WithTable(table))
		}
		return New(rollclient.Local{Engine: engine}, table), nil
	}

	remote, conn, err := rollclient.Dial(ctx, cfg.RollAddr)
	if err != nil {
		return nil, err
	}
	server := New(remote, table)
	server.conn = conn
	return server, nil
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Close releases the roll server connection, if any.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}
