package searchd

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
)

// SearchGRPCServer implements SearchServiceServer on top of a SearchStore
type SearchGRPCServer struct {
	store    *SearchStore
	Executor *SearchExecutor
}

func NewSearchGRPCServer(store *SearchStore, executor *SearchExecutor) *SearchGRPCServer {
	return &SearchGRPCServer{
		store:    store,
		Executor: executor,
	}
}

// CreateSearch expects the fields config_yaml, and optionally id and callback_url
func (s *SearchGRPCServer) CreateSearch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	fields := req.GetFields()
	input := SearchInput{
		ConfigYAML:  fields["config_yaml"].GetStringValue(),
		CallbackURL: fields["callback_url"].GetStringValue(),
	}
	if input.ConfigYAML == "" {
		return nil, status.Error(codes.InvalidArgument, "config_yaml is required")
	}

	rec, err := s.store.Create(fields["id"].GetStringValue(), input)
	if err != nil {
		return nil, grpcError(err)
	}
	logger.Info("search created (gRPC)", "search_id", rec.ID)
	return recordStruct(rec)
}

func (s *SearchGRPCServer) StartSearch(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "search id is required")
	}
	rec, err := s.Executor.Start(req.GetValue())
	if err != nil {
		return nil, grpcError(err)
	}
	logger.Info("search started (gRPC)", "search_id", rec.ID)
	return recordStruct(rec)
}

func (s *SearchGRPCServer) GetSearch(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "search id is required")
	}
	rec, ok := s.store.Get(req.GetValue())
	if !ok {
		return nil, status.Error(codes.NotFound, "search not found")
	}
	return recordStruct(rec)
}

func (s *SearchGRPCServer) StopSearch(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "search id is required")
	}
	rec, err := s.Executor.Stop(req.GetValue())
	if err != nil {
		return nil, grpcError(err)
	}
	return recordStruct(rec)
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, ErrSearchNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrSearchExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrSearchTerminal):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrSearchIDMissing):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// recordStruct converts a record through its JSON form, so gRPC and HTTP
// clients see the same field names
func recordStruct(rec SearchRecord) (*structpb.Struct, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
