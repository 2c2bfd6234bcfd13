package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/felixgeelhaar/triage/internal/engine/builtin"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainEngine implements sdk.Engine but not SentimentEngine.
type plainEngine struct {
	id          string
	shutdownErr error
	shutdowns   int
}

func (e *plainEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{ID: e.id, Name: "Plain", Version: "1.0.0", MinAPIVersion: "1.0.0"}
}
func (e *plainEngine) Type() sdk.EngineType                               { return sdk.EngineType("plain") }
func (e *plainEngine) ConfigSchema() sdk.ConfigSchema                     { return sdk.ConfigSchema{} }
func (e *plainEngine) Initialize(context.Context, sdk.EngineConfig) error { return nil }
func (e *plainEngine) HealthCheck(context.Context) sdk.HealthStatus       { return sdk.NewHealthStatus(true, "ok") }
func (e *plainEngine) Shutdown(context.Context) error {
	e.shutdowns++
	return e.shutdownErr
}

func TestRegistry_RegisterBuiltin(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.RegisterBuiltin(builtin.NewLexiconSentimentEngine()))
	assert.True(t, r.Has(builtin.LexiconEngineID))
	assert.Equal(t, 1, r.Count())

	status, err := r.Status(builtin.LexiconEngineID)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)

	err = r.RegisterBuiltin(builtin.NewLexiconSentimentEngine())
	assert.ErrorIs(t, err, sdk.ErrEngineAlreadyExists)

	err = r.RegisterBuiltin(&plainEngine{})
	assert.Error(t, err)
}

func TestRegistry_Sentiment(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.RegisterBuiltin(builtin.NewLexiconSentimentEngine()))
	require.NoError(t, r.RegisterBuiltin(&plainEngine{id: "plain"}))

	engine, err := r.Sentiment(context.Background(), builtin.LexiconEngineID)
	require.NoError(t, err)
	assert.Equal(t, builtin.LexiconEngineID, engine.Metadata().ID)

	_, err = r.Sentiment(context.Background(), "plain")
	assert.ErrorIs(t, err, sdk.ErrWrongEngineType)

	_, err = r.Sentiment(context.Background(), "missing")
	assert.True(t, sdk.IsEngineNotFound(err))
}

func TestRegistry_RegisterFactory(t *testing.T) {
	t.Run("loads lazily once", func(t *testing.T) {
		r := NewRegistry(nil)
		var calls atomic.Int32
		require.NoError(t, r.RegisterFactory("lazy", func() (sdk.Engine, error) {
			calls.Add(1)
			return builtin.NewLexiconSentimentEngine(), nil
		}, nil))

		status, _ := r.Status("lazy")
		assert.Equal(t, StatusUnloaded, status)
		assert.Zero(t, calls.Load())

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Get(context.Background(), "lazy")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		status, _ = r.Status("lazy")
		assert.Equal(t, StatusReady, status)
	})

	t.Run("records failure", func(t *testing.T) {
		r := NewRegistry(nil)
		boom := errors.New("boom")
		require.NoError(t, r.RegisterFactory("broken", func() (sdk.Engine, error) {
			return nil, boom
		}, &Manifest{ID: "broken", Type: "sentiment"}))

		_, err := r.Get(context.Background(), "broken")
		assert.ErrorIs(t, err, boom)

		_, err = r.Get(context.Background(), "broken")
		assert.ErrorIs(t, err, boom)

		status, _ := r.Status("broken")
		assert.Equal(t, StatusFailed, status)
	})

	t.Run("validates input", func(t *testing.T) {
		r := NewRegistry(nil)
		assert.Error(t, r.RegisterFactory("", func() (sdk.Engine, error) { return nil, nil }, nil))
		assert.Error(t, r.RegisterFactory("x", nil, nil))

		require.NoError(t, r.RegisterFactory("x", func() (sdk.Engine, error) { return nil, nil }, nil))
		assert.ErrorIs(t, r.RegisterFactory("x", func() (sdk.Engine, error) { return nil, nil }, nil), sdk.ErrEngineAlreadyExists)
	})
}

func TestRegistry_RegisterDiscovered(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.RegisterBuiltin(builtin.NewLexiconSentimentEngine()))

	plugins := []DiscoveredPlugin{
		{Path: "/plugins/acme", Manifest: &Manifest{
			ID: "acme.sentiment", Name: "Acme", Version: "1.0.0", Type: "sentiment",
			MinAPIVersion: "1.0.0", BinaryPath: "/nonexistent/acme-sentiment",
		}},
		{Path: "/plugins/shadow", Manifest: &Manifest{ID: builtin.LexiconEngineID, Type: "sentiment"}},
	}

	assert.Equal(t, 1, r.RegisterDiscovered(plugins, NewLoader(nil)))
	assert.True(t, r.Has("acme.sentiment"))

	meta, err := r.GetMetadata("acme.sentiment")
	require.NoError(t, err)
	assert.Equal(t, "Acme", meta.Name)

	_, err = r.Get(context.Background(), "acme.sentiment")
	var loadErr *sdk.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "binary not found", loadErr.Reason)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.RegisterBuiltin(builtin.NewLexiconSentimentEngine()))
	require.NoError(t, r.RegisterFactory("plugin", func() (sdk.Engine, error) { return nil, nil }, nil))

	assert.Error(t, r.Unregister(builtin.LexiconEngineID))
	assert.NoError(t, r.Unregister("plugin"))
	assert.False(t, r.Has("plugin"))
	assert.True(t, sdk.IsEngineNotFound(r.Unregister("plugin")))
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.RegisterBuiltin(&plainEngine{id: "zeta"}))
	require.NoError(t, r.RegisterBuiltin(&plainEngine{id: "alpha"}))
	require.NoError(t, r.RegisterFactory("mid", func() (sdk.Engine, error) { return nil, nil }, nil))

	entries := r.List()
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Manifest.ID)
	assert.Equal(t, "mid", entries[1].Manifest.ID)
	assert.Equal(t, "zeta", entries[2].Manifest.ID)
	assert.True(t, entries[0].Builtin)
	assert.False(t, entries[1].Builtin)
}

func TestRegistry_Health(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.RegisterBuiltin(builtin.NewLexiconSentimentEngine()))

	status, err := r.Health(context.Background(), builtin.LexiconEngineID)
	require.NoError(t, err)
	assert.True(t, status.Healthy)

	_, err = r.Health(context.Background(), "missing")
	assert.True(t, sdk.IsEngineNotFound(err))
}

func TestRegistry_ShutdownAll(t *testing.T) {
	r := NewRegistry(nil)
	good := &plainEngine{id: "good"}
	bad := &plainEngine{id: "bad", shutdownErr: errors.New("stuck")}
	require.NoError(t, r.RegisterBuiltin(good))
	require.NoError(t, r.RegisterBuiltin(bad))

	err := r.ShutdownAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stuck")
	assert.Equal(t, 1, good.shutdowns)

	status, _ := r.Status("good")
	assert.Equal(t, StatusShutdown, status)

	_, err = r.Get(context.Background(), "good")
	assert.ErrorIs(t, err, sdk.ErrEngineShutdown)

	require.NoError(t, r.ShutdownAll(context.Background()))
	assert.Equal(t, 1, good.shutdowns)
}
