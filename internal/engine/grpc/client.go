package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// describeTimeout bounds the context-free Metadata and ConfigSchema calls.
const describeTimeout = 5 * time.Second

// SentimentGRPCClient is the host-side proxy for a plugin engine.
type SentimentGRPCClient struct {
	conn grpc.ClientConnInterface
}

// NewSentimentClient wraps conn.
func NewSentimentClient(conn grpc.ClientConnInterface) *SentimentGRPCClient {
	return &SentimentGRPCClient{conn: conn}
}

var _ types.SentimentEngine = (*SentimentGRPCClient)(nil)

// Metadata returns the remote engine metadata, or zero metadata when the
// plugin cannot be reached.
func (c *SentimentGRPCClient) Metadata() sdk.EngineMetadata {
	ctx, cancel := context.WithTimeout(context.Background(), describeTimeout)
	defer cancel()

	var meta sdk.EngineMetadata
	_ = c.call(ctx, MethodMetadata, struct{}{}, &meta)
	return meta
}

// Type returns the engine type.
func (c *SentimentGRPCClient) Type() sdk.EngineType {
	return sdk.EngineTypeSentiment
}

// ConfigSchema returns the remote configuration schema.
func (c *SentimentGRPCClient) ConfigSchema() sdk.ConfigSchema {
	ctx, cancel := context.WithTimeout(context.Background(), describeTimeout)
	defer cancel()

	var schema sdk.ConfigSchema
	_ = c.call(ctx, MethodConfigSchema, struct{}{}, &schema)
	return schema
}

// Initialize forwards the configuration to the plugin.
func (c *SentimentGRPCClient) Initialize(ctx context.Context, config sdk.EngineConfig) error {
	return c.call(ctx, MethodInitialize, config, nil)
}

// HealthCheck asks the plugin for its health. Transport failures
// report unhealthy.
func (c *SentimentGRPCClient) HealthCheck(ctx context.Context) sdk.HealthStatus {
	var health sdk.HealthStatus
	if err := c.call(ctx, MethodHealthCheck, struct{}{}, &health); err != nil {
		return sdk.NewHealthStatus(false, err.Error())
	}
	return health
}

// Shutdown asks the plugin to release resources.
func (c *SentimentGRPCClient) Shutdown(ctx context.Context) error {
	return c.call(ctx, MethodShutdown, struct{}{}, nil)
}

// Score scores text in the plugin process.
func (c *SentimentGRPCClient) Score(ctx *sdk.ExecutionContext, input types.ScoreInput) (*types.ScoreOutput, error) {
	pairs := []string{requestIDKey, ctx.RequestID}
	if ctx.CorrelationID != "" {
		pairs = append(pairs, correlationIDKey, ctx.CorrelationID)
	}
	callCtx := metadata.AppendToOutgoingContext(ctx.Context(), pairs...)

	var output types.ScoreOutput
	if err := c.call(callCtx, MethodScore, input, &output); err != nil {
		return nil, err
	}
	return &output, nil
}

func (c *SentimentGRPCClient) call(ctx context.Context, method string, in, out any) error {
	req, err := encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), req, resp); err != nil {
		return fromStatus(method, err)
	}
	if out == nil {
		return nil
	}
	return decode(resp, out)
}

// fromStatus rebuilds the sentinel errors that toStatus encoded.
func fromStatus(method string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w", method, err)
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%s: %w: %s", method, sdk.ErrInvalidConfig, st.Message())
	case codes.Unavailable:
		return fmt.Errorf("%s: %w: %s", method, sdk.ErrEngineShutdown, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %s", method, context.DeadlineExceeded, st.Message())
	case codes.Canceled:
		return fmt.Errorf("%s: %w: %s", method, context.Canceled, st.Message())
	default:
		return fmt.Errorf("%s: %s", method, st.Message())
	}
}
