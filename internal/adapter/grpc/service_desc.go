package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "folio.v1.PortfolioService"

// Method names
const (
	MethodGetPortfolioStatistics   = "GetPortfolioStatistics"
	MethodGetPortfolioAnalytics    = "GetPortfolioAnalytics"
	MethodGetAccountTrend          = "GetAccountTrend"
	MethodGetAccountsCorrelation   = "GetAccountsCorrelation"
	MethodConvertCurrency          = "ConvertCurrency"
	MethodCreateAccount            = "CreateAccount"
	MethodListAccounts             = "ListAccounts"
	MethodDeleteAccount            = "DeleteAccount"
	MethodRecordSnapshot           = "RecordSnapshot"
	MethodWatchPortfolioStatistics = "WatchPortfolioStatistics"
)

// FullMethod returns "/folio.v1.PortfolioService/<method>"
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PortfolioServiceServer is the server API. Requests and responses are google.protobuf.Struct.
type PortfolioServiceServer interface {
	GetPortfolioStatistics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPortfolioAnalytics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccountTrend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccountsCorrelation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConvertCurrency(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAccounts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchPortfolioStatistics(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

type unaryCall func(PortfolioServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PortfolioServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PortfolioServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(PortfolioServiceServer).WatchPortfolioStatistics(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// ServiceDesc describes PortfolioService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodGetPortfolioStatistics, PortfolioServiceServer.GetPortfolioStatistics),
		unaryHandler(MethodGetPortfolioAnalytics, PortfolioServiceServer.GetPortfolioAnalytics),
		unaryHandler(MethodGetAccountTrend, PortfolioServiceServer.GetAccountTrend),
		unaryHandler(MethodGetAccountsCorrelation, PortfolioServiceServer.GetAccountsCorrelation),
		unaryHandler(MethodConvertCurrency, PortfolioServiceServer.ConvertCurrency),
		unaryHandler(MethodCreateAccount, PortfolioServiceServer.CreateAccount),
		unaryHandler(MethodListAccounts, PortfolioServiceServer.ListAccounts),
		unaryHandler(MethodDeleteAccount, PortfolioServiceServer.DeleteAccount),
		unaryHandler(MethodRecordSnapshot, PortfolioServiceServer.RecordSnapshot),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatchPortfolioStatistics,
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "folio/v1/portfolio.proto",
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// PortfolioServiceClient calls PortfolioService over a client connection
type PortfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPortfolioServiceClient(cc grpc.ClientConnInterface) *PortfolioServiceClient {
	return &PortfolioServiceClient{cc: cc}
}

// Call invokes a unary method by name
func (c *PortfolioServiceClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchPortfolioStatistics opens the statistics stream
func (c *PortfolioServiceClient) WatchPortfolioStatistics(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod(MethodWatchPortfolioStatistics), opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
