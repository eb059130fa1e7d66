package roll

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "rollplayer.v1.RollService"
	// RollFullMethodName is the full method name of RollService.Roll.
	RollFullMethodName = "/" + ServiceName + "/Roll"
)

// RollServiceServer is the server API for RollService.
//
// Requests and responses are structpb.Struct documents; see decodeRequest
// and encodeReport for their fields.
type RollServiceServer interface {
	Roll(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterRollServiceServer registers srv on s.
func RegisterRollServiceServer(s grpc.ServiceRegistrar, srv RollServiceServer) {
	s.RegisterService(&RollService_ServiceDesc, srv)
}

func rollHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RollServiceServer).Roll(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RollFullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RollServiceServer).Roll(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RollService_ServiceDesc is the grpc.ServiceDesc for RollService.
var RollService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RollServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Roll",
			Handler:    rollHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// Client calls RollService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a RollService client on cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Roll invokes RollService.Roll.
func (c *Client) Roll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RollFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
