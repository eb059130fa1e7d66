// Package client rolls through the engine in process or through a roll
// server, behind one interface.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	grpcmeta "github.com/louisbranch/rollplayer/internal/api/grpc/metadata"
	apperrors "github.com/louisbranch/rollplayer/internal/errors"
	platformgrpc "github.com/louisbranch/rollplayer/internal/platform/grpc"
	"github.com/louisbranch/rollplayer/internal/platform/timeouts"
	"github.com/louisbranch/rollplayer/internal/roller"
	rollservice "github.com/louisbranch/rollplayer/internal/services/roll/api/grpc/roll"
)

// Roller evaluates roll requests. Failed rolls return a *RollError carrying
// the error code and a message in the requested locale.
type Roller interface {
	Roll(ctx context.Context, req roller.Request, locale string) (roller.Report, error)
}

// RollError is a failed roll as a client sees it.
type RollError struct {
	Code    string
	Message string
}

func (e *RollError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Local evaluates in process.
type Local struct {
	Engine *roller.Engine
}

// Roll implements Roller.
func (r Local) Roll(ctx context.Context, req roller.Request, locale string) (roller.Report, error) {
	if r.Engine == nil {
		return roller.Report{}, errors.New("roll engine is not configured")
	}
	res, err := r.Engine.Roll(ctx, req)
	if err != nil {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			return roller.Report{}, err
		}
		return roller.Report{}, &RollError{Code: string(appErr.Code), Message: apperrors.Localize(err, locale)}
	}
	return roller.NewReport(res), nil
}

// Remote calls a roll server.
type Remote struct {
	Client *rollservice.Client
}

// Roll implements Roller.
func (r Remote) Roll(ctx context.Context, req roller.Request, locale string) (roller.Report, error) {
	if r.Client == nil {
		return roller.Report{}, errors.New("roll client is not configured")
	}
	fields := map[string]any{
		"expression": req.Expression,
		"tier":       string(req.Tier),
	}
	if req.Seed != nil {
		fields["seed"] = strconv.FormatInt(*req.Seed, 10)
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return roller.Report{}, fmt.Errorf("encode roll request: %w", err)
	}
	if locale != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, grpcmeta.LocaleHeader, locale)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	defer cancel()
	out, err := r.Client.Roll(ctx, in)
	if err != nil {
		return roller.Report{}, rollErrorFromStatus(err)
	}
	data, err := protojson.Marshal(out)
	if err != nil {
		return roller.Report{}, fmt.Errorf("decode roll response: %w", err)
	}
	var report roller.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return roller.Report{}, fmt.Errorf("decode roll response: %w", err)
	}
	return report, nil
}

// Dial connects to the roll server at addr and waits until its roll service
// is serving. The caller closes the returned connection.
func Dial(ctx context.Context, addr string) (Remote, *grpc.ClientConn, error) {
	conn, err := platformgrpc.Dial(ctx, platformgrpc.DialConfig{
		Addr:    addr,
		Service: rollservice.ServiceName,
		Timeout: timeouts.GRPCDial,
		Logf: func(format string, args ...any) {
			log.Printf("roll server %s", fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageConnect {
			return Remote{}, nil, fmt.Errorf("connect to roll server at %s: %w", addr, dialErr.Err)
		}
		return Remote{}, nil, err
	}
	return Remote{Client: rollservice.NewClient(conn)}, conn, nil
}

// rollErrorFromStatus reads the error code and localized message a roll
// server attaches to failed calls.
func rollErrorFromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var rollErr RollError
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			rollErr.Code = d.GetReason()
		case *errdetails.LocalizedMessage:
			rollErr.Message = d.GetMessage()
		}
	}
	if rollErr.Code == "" {
		return fmt.Errorf("roll failed: %w", err)
	}
	if rollErr.Message == "" {
		rollErr.Message = st.Message()
	}
	return &rollErr
}
