// Package roll exposes the dice engine as the rollplayer.v1.RollService gRPC
// service.
//
// Request fields:
//
//	expression  string  dice notation; empty rolls the default expression
//	tier        string  restricted, stopgap or elevated; empty uses the default tier
//	seed        string  decimal int64 that replays a previous roll
//	difficulty  number  checks every group value against it
//	locale      string  locale for error messages when the
//	                    x-rollplayer-locale header is absent
//
// The response carries the fields of roller.Report. Failed rolls return a
// status whose details hold an ErrorInfo (reason is the error code) and a
// LocalizedMessage for the caller.
package roll

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	grpcmeta "github.com/louisbranch/rollplayer/internal/api/grpc/metadata"
	"github.com/louisbranch/rollplayer/internal/core/limits"
	apperrors "github.com/louisbranch/rollplayer/internal/errors"
	"github.com/louisbranch/rollplayer/internal/roller"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service implements RollServiceServer.
type Service struct {
	engine *roller.Engine
}

// NewService creates a roll service backed by engine.
func NewService(engine *roller.Engine) *Service {
	return &Service{engine: engine}
}

// Roll evaluates one expression.
func (s *Service) Roll(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "roll request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "roll engine is not configured")
	}

	req, locale, err := decodeRequest(in)
	if err != nil {
		return nil, err
	}
	if header := grpcmeta.LocaleFromContext(ctx); header != "" {
		locale = header
	}

	res, err := s.engine.Roll(ctx, req)
	if err != nil {
		return nil, statusFromError(err, locale)
	}
	return encodeReport(roller.NewReport(res))
}

func decodeRequest(in *structpb.Struct) (roller.Request, string, error) {
	fields := in.GetFields()
	req := roller.Request{
		Expression: fields["expression"].GetStringValue(),
		Tier:       limits.Tier(fields["tier"].GetStringValue()),
	}
	locale := strings.TrimSpace(fields["locale"].GetStringValue())

	if v, ok := fields["seed"]; ok {
		seed, err := roller.ParseSeed(strings.TrimSpace(v.GetStringValue()))
		if err != nil {
			return roller.Request{}, "", status.Errorf(codes.InvalidArgument, "seed must be a decimal integer: %v", err)
		}
		req.Seed = seed
	}
	if v, ok := fields["difficulty"]; ok {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return roller.Request{}, "", status.Error(codes.InvalidArgument, "difficulty must be a number")
		}
		difficulty := n.NumberValue
		req.Difficulty = &difficulty
	}
	return req, locale, nil
}

func encodeReport(report roller.Report) (*structpb.Struct, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode roll report: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode roll report: %v", err)
	}
	return out, nil
}

// statusFromError converts engine errors. Caller cancellation is not a roll
// failure and keeps its context status.
func statusFromError(err error, locale string) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return status.FromContextError(err).Err()
	}
	return apperrors.HandleError(err, locale)
}
