package executor_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bq2kafka/internal/executor"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway mimics the bits of the Flink SQL Gateway REST API the
// client talks to.
type fakeGateway struct {
	mu         sync.Mutex
	statements []string
	properties map[string]string
	statusSeq  []string // statuses returned by successive polls
	polls      int
	rejectSQL  string // statement to reject with 500
}

func (f *fakeGateway) handler() http.Handler {
	// Go 1.21 ServeMux has no method patterns, so dispatch on method
	// inside each path handler.
	requireMethod := func(method string, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				http.NotFound(w, r)
				return
			}
			h(w, r)
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/sessions", requireMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Properties map[string]string `json:"properties"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.properties = body.Properties
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"sessionHandle": "sess-1"})
	}))

	mux.HandleFunc("/v1/sessions/sess-1/statements", requireMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Statement string `json:"statement"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Statement == f.rejectSQL {
			http.Error(w, "could not execute statement", http.StatusInternalServerError)
			return
		}
		f.mu.Lock()
		f.statements = append(f.statements, body.Statement)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"operationHandle": "op-1"})
	}))

	mux.HandleFunc("/v1/sessions/sess-1/operations/op-1/status", requireMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := "FINISHED"
		if f.polls < len(f.statusSeq) {
			status = f.statusSeq[f.polls]
		}
		f.polls++
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}))

	mux.HandleFunc("/v1/sessions/sess-1", requireMethod(http.MethodDelete, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	return mux
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(t *testing.T, fake *fakeGateway, mode string) *executor.Gateway {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	return executor.NewGateway(executor.GatewayConfig{
		URL:          srv.URL,
		Mode:         mode,
		PollInterval: time.Millisecond,
		Timeout:      time.Second,
	}, testLogger())
}

func TestGatewayExecuteSQL(t *testing.T) {
	fake := &fakeGateway{statusSeq: []string{"RUNNING", "FINISHED"}}
	gw := newTestGateway(t, fake, "batch")

	require.NoError(t, gw.ExecuteSQL(context.Background(), "CREATE TABLE t (a STRING)"))
	assert.Equal(t, []string{"CREATE TABLE t (a STRING)"}, fake.statements)
	assert.GreaterOrEqual(t, fake.polls, 2, "expected the client to poll past RUNNING")
}

func TestGatewaySessionCarriesRuntimeMode(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"streaming", "streaming"},
		{"STREAMING", "streaming"},
		{"batch", "batch"},
		{"", "batch"},
		{"bogus", "batch"},
	}

	for _, tt := range tests {
		fake := &fakeGateway{}
		gw := newTestGateway(t, fake, tt.mode)

		require.NoError(t, gw.ExecuteSQL(context.Background(), "SELECT 1"))
		assert.Equal(t, tt.want, fake.properties["execution.runtime-mode"], "mode %q", tt.mode)
	}
}

func TestGatewaySessionReused(t *testing.T) {
	fake := &fakeGateway{}
	gw := newTestGateway(t, fake, "batch")

	ctx := context.Background()
	require.NoError(t, gw.ExecuteSQL(ctx, "first"))
	require.NoError(t, gw.ExecuteSQL(ctx, "second"))

	assert.Equal(t, []string{"first", "second"}, fake.statements)
}

func TestGatewayOperationError(t *testing.T) {
	fake := &fakeGateway{statusSeq: []string{"ERROR"}}
	gw := newTestGateway(t, fake, "batch")

	err := gw.ExecuteSQL(context.Background(), "INSERT INTO broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR")
}

func TestGatewayRejectedStatement(t *testing.T) {
	fake := &fakeGateway{rejectSQL: "bad sql"}
	gw := newTestGateway(t, fake, "batch")

	err := gw.ExecuteSQL(context.Background(), "bad sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not execute statement")
}

func TestGatewayCloseWithoutSession(t *testing.T) {
	gw := executor.NewGateway(executor.GatewayConfig{URL: "http://127.0.0.1:0"}, testLogger())
	assert.NoError(t, gw.Close(context.Background()))
}
