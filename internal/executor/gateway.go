package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// GatewayConfig carries the connection settings for a Flink SQL
// Gateway endpoint.
type GatewayConfig struct {
	URL          string        // base URL, e.g. http://localhost:8083
	Mode         string        // execution mode: "streaming", anything else selects batch
	PollInterval time.Duration // delay between operation status polls
	Timeout      time.Duration // per-statement deadline, 0 disables
}

// Gateway submits statements over the Flink SQL Gateway REST API (v1).
// A session is opened lazily on the first statement and reused for the
// rest of the run, so all three pipeline statements share one catalog.
type Gateway struct {
	cfg    GatewayConfig
	client *http.Client
	log    *slog.Logger

	session string
}

var _ Executor = (*Gateway)(nil)

func NewGateway(cfg GatewayConfig, log *slog.Logger) *Gateway {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{},
		log:    log,
	}
}

// RuntimeMode maps the configured execution mode onto the gateway
// session property. Only "streaming" (case-insensitive) selects
// streaming; every other value falls back to batch.
func (g *Gateway) RuntimeMode() string {
	if strings.EqualFold(g.cfg.Mode, "streaming") {
		return "streaming"
	}
	return "batch"
}

// ExecuteSQL submits one statement and waits until the gateway reports
// the operation FINISHED. An ERROR status, a gateway-level rejection or
// the configured timeout all fail the statement.
func (g *Gateway) ExecuteSQL(ctx context.Context, stmt string) error {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	if g.session == "" {
		if err := g.openSession(ctx); err != nil {
			return err
		}
	}

	var resp struct {
		OperationHandle string `json:"operationHandle"`
	}
	err := g.post(ctx, fmt.Sprintf("/v1/sessions/%s/statements", g.session),
		map[string]any{"statement": stmt}, &resp)
	if err != nil {
		return fmt.Errorf("failed to submit statement: %w", err)
	}
	if resp.OperationHandle == "" {
		return fmt.Errorf("gateway returned no operation handle")
	}

	g.log.Debug("statement submitted", slog.String("operation", resp.OperationHandle))
	return g.awaitOperation(ctx, resp.OperationHandle)
}

// Close releases the gateway session. Safe to call when no session was
// ever opened.
func (g *Gateway) Close(ctx context.Context) error {
	if g.session == "" {
		return nil
	}
	url := fmt.Sprintf("%s/v1/sessions/%s", g.cfg.URL, g.session)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to close gateway session: %w", err)
	}
	defer res.Body.Close()
	g.session = ""
	return nil
}

func (g *Gateway) openSession(ctx context.Context) error {
	body := map[string]any{
		"properties": map[string]string{
			"execution.runtime-mode": g.RuntimeMode(),
		},
	}

	var resp struct {
		SessionHandle string `json:"sessionHandle"`
	}
	if err := g.post(ctx, "/v1/sessions", body, &resp); err != nil {
		return fmt.Errorf("failed to open gateway session: %w", err)
	}
	if resp.SessionHandle == "" {
		return fmt.Errorf("gateway returned no session handle")
	}

	g.session = resp.SessionHandle
	g.log.Info("gateway session opened",
		slog.String("session", g.session),
		slog.String("mode", g.RuntimeMode()),
	)
	return nil
}

func (g *Gateway) awaitOperation(ctx context.Context, op string) error {
	path := fmt.Sprintf("/v1/sessions/%s/operations/%s/status", g.session, op)

	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for {
		var resp struct {
			Status string `json:"status"`
		}
		if err := g.get(ctx, path, &resp); err != nil {
			return fmt.Errorf("failed to poll operation %s: %w", op, err)
		}

		switch resp.Status {
		case "FINISHED":
			return nil
		case "ERROR", "CANCELED":
			return fmt.Errorf("operation %s ended with status %s", op, resp.Status)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("operation %s: %w", op, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (g *Gateway) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, out)
}

func (g *Gateway) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.URL+path, nil)
	if err != nil {
		return err
	}
	return g.do(req, out)
}

func (g *Gateway) do(req *http.Request, out any) error {
	res, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("gateway returned %s: %s", res.Status, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
