package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rirroutes.v1.RouteService"

// GenerateMethod is the full method name of RouteService.Generate.
const GenerateMethod = "/" + ServiceName + "/Generate"

// RouteServiceServer is the server API for RouteService. Requests are
// structs with string fields "countries", "registry" and "family"; the
// response is the route table text.
type RouteServiceServer interface {
	Generate(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

// RouteServiceDesc describes RouteService for grpc.Server.
var RouteServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RouteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Generate",
			Handler:    generateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rirroutes/v1/routes.proto",
}

// RegisterRouteServiceServer registers srv on s.
func RegisterRouteServiceServer(s grpc.ServiceRegistrar, srv RouteServiceServer) {
	s.RegisterService(&RouteServiceDesc, srv)
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GenerateMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RouteServiceServer).Generate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
