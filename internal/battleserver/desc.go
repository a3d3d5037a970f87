package battleserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "battlesim.v1.BattleService"

// BattleServiceServer is the server API for the battle service. Every RPC
// takes and returns a google.protobuf.Struct.
type BattleServiceServer interface {
	StartBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PerformAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExecuteCpuTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWinner(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LoadBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryFn func(BattleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(method string, call unaryFn) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BattleServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(BattleServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes the battle service for grpc.Server.RegisterService.
// It mirrors api/proto/battlesim/v1/battle.proto.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		handler("StartBattle", BattleServiceServer.StartBattle),
		handler("PerformAction", BattleServiceServer.PerformAction),
		handler("ExecuteCpuTurn", BattleServiceServer.ExecuteCpuTurn),
		handler("GetWinner", BattleServiceServer.GetWinner),
		handler("SaveBattle", BattleServiceServer.SaveBattle),
		handler("LoadBattle", BattleServiceServer.LoadBattle),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "battlesim/v1/battle.proto",
}

// RegisterBattleServiceServer registers srv on s.
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a thin client for the battle service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StartBattle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "StartBattle", in, opts...)
}

func (c *Client) PerformAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "PerformAction", in, opts...)
}

func (c *Client) ExecuteCpuTurn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ExecuteCpuTurn", in, opts...)
}

func (c *Client) GetWinner(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetWinner", in, opts...)
}

func (c *Client) SaveBattle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SaveBattle", in, opts...)
}

func (c *Client) LoadBattle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "LoadBattle", in, opts...)
}
