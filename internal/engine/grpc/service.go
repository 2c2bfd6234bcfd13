package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "triage.engine.v1.SentimentEngine"

// Method names.
const (
	MethodMetadata     = "Metadata"
	MethodConfigSchema = "ConfigSchema"
	MethodInitialize   = "Initialize"
	MethodHealthCheck  = "HealthCheck"
	MethodShutdown     = "Shutdown"
	MethodScore        = "Score"
)

// Metadata keys propagated from host to plugin.
const (
	requestIDKey     = "x-request-id"
	correlationIDKey = "x-correlation-id"
)

// FullMethod returns the invoke path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// sentimentService is the server-side handler set.
type sentimentService interface {
	Metadata(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfigSchema(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Initialize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HealthCheck(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Shutdown(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Score(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv sentimentService, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

var sentimentServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*sentimentService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodMetadata, Handler: unaryHandler(MethodMetadata, sentimentService.Metadata)},
		{MethodName: MethodConfigSchema, Handler: unaryHandler(MethodConfigSchema, sentimentService.ConfigSchema)},
		{MethodName: MethodInitialize, Handler: unaryHandler(MethodInitialize, sentimentService.Initialize)},
		{MethodName: MethodHealthCheck, Handler: unaryHandler(MethodHealthCheck, sentimentService.HealthCheck)},
		{MethodName: MethodShutdown, Handler: unaryHandler(MethodShutdown, sentimentService.Shutdown)},
		{MethodName: MethodScore, Handler: unaryHandler(MethodScore, sentimentService.Score)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "triage/engine/v1/sentiment.proto",
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(sentimentService), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(sentimentService), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// encode converts a JSON-tagged Go value into a Struct.
func encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("message is not an object: %w", err)
	}
	return structpb.NewStruct(fields)
}

// decode fills a JSON-tagged Go value from a Struct.
func decode(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}
