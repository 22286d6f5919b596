package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "nfse.v1.NFSeService"

// Full method names.
const (
	MethodInsertInvoice   = "/" + ServiceName + "/InsertInvoice"
	MethodQuery           = "/" + ServiceName + "/Query"
	MethodDictionary      = "/" + ServiceName + "/Dictionary"
	MethodStats           = "/" + ServiceName + "/Stats"
	MethodIngestFile      = "/" + ServiceName + "/IngestFile"
	MethodIngestDirectory = "/" + ServiceName + "/IngestDirectory"
	MethodExportInvoices  = "/" + ServiceName + "/ExportInvoices"
)

// NFSeServiceServer is the server API for the invoice service. Requests and
// responses travel as well-known types so no generated stubs are needed.
type NFSeServiceServer interface {
	InsertInvoice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Query(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Dictionary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	IngestFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportInvoices(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

// RegisterNFSeServiceServer registers srv on s.
func RegisterNFSeServiceServer(s grpc.ServiceRegistrar, srv NFSeServiceServer) {
	s.RegisterService(&NFSeServiceDesc, srv)
}

// unary builds a method handler for request type Req.
func unary[Req any, PReq interface {
	*Req
}, Resp any](fullMethod string, call func(NFSeServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NFSeServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NFSeServiceServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// NFSeServiceDesc is the grpc.ServiceDesc for NFSeService.
var NFSeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NFSeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "InsertInvoice",
			Handler:    unary(MethodInsertInvoice, NFSeServiceServer.InsertInvoice),
		},
		{
			MethodName: "Query",
			Handler:    unary(MethodQuery, NFSeServiceServer.Query),
		},
		{
			MethodName: "Dictionary",
			Handler:    unary(MethodDictionary, NFSeServiceServer.Dictionary),
		},
		{
			MethodName: "Stats",
			Handler:    unary(MethodStats, NFSeServiceServer.Stats),
		},
		{
			MethodName: "IngestFile",
			Handler:    unary(MethodIngestFile, NFSeServiceServer.IngestFile),
		},
		{
			MethodName: "IngestDirectory",
			Handler:    unary(MethodIngestDirectory, NFSeServiceServer.IngestDirectory),
		},
		{
			MethodName: "ExportInvoices",
			Handler:    unary(MethodExportInvoices, NFSeServiceServer.ExportInvoices),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nfse/v1/nfse.proto",
}
