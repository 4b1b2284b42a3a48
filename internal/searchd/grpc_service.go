package searchd

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const searchServiceName = "launchsearch.v1.SearchService"

// SearchServiceServer is the gRPC search API. Requests and responses are
// protobuf well-known types; search records travel as Structs with the same
// fields as the HTTP API.
type SearchServiceServer interface {
	CreateSearch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartSearch(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetSearch(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	StopSearch(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// SearchServiceDesc describes launchsearch.v1.SearchService for grpc.Server
var SearchServiceDesc = grpc.ServiceDesc{
	ServiceName: searchServiceName,
	HandlerType: (*SearchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSearch", Handler: createSearchHandler},
		{MethodName: "StartSearch", Handler: idHandler("StartSearch", SearchServiceServer.StartSearch)},
		{MethodName: "GetSearch", Handler: idHandler("GetSearch", SearchServiceServer.GetSearch)},
		{MethodName: "StopSearch", Handler: idHandler("StopSearch", SearchServiceServer.StopSearch)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "launchsearch/v1/search.proto",
}

// RegisterSearchServiceServer registers srv on s
func RegisterSearchServiceServer(s grpc.ServiceRegistrar, srv SearchServiceServer) {
	s.RegisterService(&SearchServiceDesc, srv)
}

func createSearchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SearchServiceServer).CreateSearch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + searchServiceName + "/CreateSearch",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SearchServiceServer).CreateSearch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// idHandler builds the handler of a method taking a search id
func idHandler(method string, call func(SearchServiceServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SearchServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + searchServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SearchServiceServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SearchServiceClient calls launchsearch.v1.SearchService
type SearchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSearchServiceClient(cc grpc.ClientConnInterface) *SearchServiceClient {
	return &SearchServiceClient{cc: cc}
}

func (c *SearchServiceClient) CreateSearch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+searchServiceName+"/CreateSearch", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SearchServiceClient) StartSearch(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeID(ctx, "StartSearch", id, opts...)
}

func (c *SearchServiceClient) GetSearch(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeID(ctx, "GetSearch", id, opts...)
}

func (c *SearchServiceClient) StopSearch(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeID(ctx, "StopSearch", id, opts...)
}

func (c *SearchServiceClient) invokeID(ctx context.Context, method, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+searchServiceName+"/"+method, wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
