package grpc

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// RegisterSentimentServer exposes impl on s.
func RegisterSentimentServer(s grpc.ServiceRegistrar, impl types.SentimentEngine) {
	s.RegisterService(&sentimentServiceDesc, &sentimentServer{impl: impl})
}

// sentimentServer runs inside the plugin process.
type sentimentServer struct {
	impl types.SentimentEngine
}

func (s *sentimentServer) Metadata(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(s.impl.Metadata(), nil)
}

func (s *sentimentServer) ConfigSchema(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(s.impl.ConfigSchema(), nil)
}

func (s *sentimentServer) Initialize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var config sdk.EngineConfig
	if err := decode(in, &config); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return reply(struct{}{}, s.impl.Initialize(ctx, sdk.NewEngineConfig(config.EngineID, config.Raw)))
}

func (s *sentimentServer) HealthCheck(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(s.impl.HealthCheck(ctx), nil)
}

func (s *sentimentServer) Shutdown(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(struct{}{}, s.impl.Shutdown(ctx))
}

func (s *sentimentServer) Score(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var input types.ScoreInput
	if err := decode(in, &input); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	execCtx := sdk.NewExecutionContext(ctx, s.impl.Metadata().ID)
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 {
			execCtx.RequestID = ids[0]
		}
		if ids := md.Get(correlationIDKey); len(ids) > 0 {
			execCtx.CorrelationID = ids[0]
		}
	}

	output, err := s.impl.Score(execCtx, input)
	return reply(output, err)
}

func reply(v any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps engine errors onto gRPC codes so the host can rebuild them.
func toStatus(err error) error {
	switch {
	case sdk.IsConfigInvalid(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, sdk.ErrEngineShutdown):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
