// Package grpc carries sentiment engines across the go-plugin process
// boundary. Messages are google.protobuf.Struct values so no generated
// code is needed on either side.
package grpc

import (
	"context"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
)

// HandshakeConfig must match between host and plugin binaries.
var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TRIAGE_ENGINE_PLUGIN",
	MagicCookieValue: "triage-engine-v1",
}

// DispenseKey is the plugin name the host dispenses.
const DispenseKey = "engine"

// PluginMapForEngine returns the plugin set for an engine type, or nil
// for types that cannot be served over gRPC.
func PluginMapForEngine(engineType sdk.EngineType) map[string]plugin.Plugin {
	switch engineType {
	case sdk.EngineTypeSentiment:
		return map[string]plugin.Plugin{DispenseKey: &SentimentPlugin{}}
	default:
		return nil
	}
}

// SentimentPlugin is the go-plugin binding for sentiment engines.
// Impl is only set on the plugin side.
type SentimentPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl types.SentimentEngine
}

var _ plugin.GRPCPlugin = (*SentimentPlugin)(nil)

// GRPCServer registers Impl on the plugin's gRPC server.
func (p *SentimentPlugin) GRPCServer(_ *plugin.GRPCBroker, s *grpc.Server) error {
	RegisterSentimentServer(s, p.Impl)
	return nil
}

// GRPCClient returns the host-side engine proxy.
func (p *SentimentPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return NewSentimentClient(c), nil
}
