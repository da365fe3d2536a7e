package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderflow/internal/core/domain/model/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryRoot(t *testing.T) *CompositionRoot {
	t.Helper()
	cfg := Config{Store: StoreMemory, LogLevel: "info", LogFormat: LogFormatText, MaxDispatchDepth: 8}
	root, err := NewCompositionRoot(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return root
}

func TestNewCompositionRoot_ShouldSubscribeEveryConsumer(t *testing.T) {
	root := memoryRoot(t)

	assert.Equal(t, []string{"start-admin"}, root.Bus().Handlers(event.CommercialOrderConfirmed))
	assert.ElementsMatch(t,
		[]string{"store-notification", "metrics"},
		root.Bus().Handlers(event.SystemNotificationRequested))
	assert.Contains(t, root.Bus().Handlers(event.SystemStateChanged), "log-state-change")
}

func TestNewCompositionRoot_WhenStoreUnknown_ShouldFail(t *testing.T) {
	_, err := NewCompositionRoot(Config{Store: "redis"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, err)
}

func TestCompositionRoot_CreateHTTPServer_ShouldServeHealthAndMetrics(t *testing.T) {
	root := memoryRoot(t)
	e, err := root.CreateHTTPServer()
	require.NoError(t, err)

	for _, path := range []string{"/health", "/metrics", "/api/openapi.json"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRunDemo_ShouldWalkTheOrderToDelivery(t *testing.T) {
	root := memoryRoot(t)
	var out bytes.Buffer

	err := RunDemo(t.Context(), root, &out)

	require.NoError(t, err)
	rendered := out.String()
	assert.Contains(t, rendered, "total budget")
	assert.Contains(t, rendered, "cannot move from")
	assert.Contains(t, rendered, "deliveryCompleted")
	assert.Contains(t, rendered, "100.00%")
}
