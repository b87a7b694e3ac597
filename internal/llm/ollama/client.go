// Package ollama implements llm.Completer against a local Ollama server's
// /api/generate endpoint.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ajibade-k/budgetwise/internal/httpx"
)

// Config for the Ollama client.
type Config struct {
	BaseURL     string  // default http://localhost:11434
	Model       string  // e.g. "llama2"
	Temperature float32 // 0..1
	Timeout     time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama2"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// Complete sends exactly one generate request and returns the flat model
// output. Ollama answers {"response": "..."} when streaming is off.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	body := map[string]any{
		"model":  c.cfg.Model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": c.cfg.Temperature,
			"top_p":       0.9,
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	raw, _, err := httpx.SendJSON(ctx, c.httpClient, endpoint, body, nil, c.log)
	if err != nil {
		c.log.Error("llm.ollama.request_failed",
			"model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.log.Error("llm.ollama.decode_error", "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	c.log.Info("llm.ollama.ok",
		"model", c.cfg.Model,
		"response_bytes", len(envelope.Response),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return envelope.Response, nil
}
