package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "fieldops.trends.v1.TrendService"

// TrendServer is the server API of fieldops.trends.v1.TrendService. Requests
// and responses are google.protobuf.Struct documents.
type TrendServer interface {
	GetWeeklyTrend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTeamReports(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTeamReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLeaderboards(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPriorityBreakdown(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(TrendServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TrendServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(name),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TrendServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FullMethod returns the wire name of a TrendService method.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

var TrendServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrendServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetWeeklyTrend", Handler: unaryHandler("GetWeeklyTrend", TrendServer.GetWeeklyTrend)},
		{MethodName: "GetTeamReports", Handler: unaryHandler("GetTeamReports", TrendServer.GetTeamReports)},
		{MethodName: "GetTeamReport", Handler: unaryHandler("GetTeamReport", TrendServer.GetTeamReport)},
		{MethodName: "GetLeaderboards", Handler: unaryHandler("GetLeaderboards", TrendServer.GetLeaderboards)},
		{MethodName: "GetPriorityBreakdown", Handler: unaryHandler("GetPriorityBreakdown", TrendServer.GetPriorityBreakdown)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fieldops/trends/v1/trends.proto",
}

func RegisterTrendServer(s grpc.ServiceRegistrar, srv TrendServer) {
	s.RegisterService(&TrendServiceDesc, srv)
}
