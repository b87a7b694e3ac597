// Package huggingface implements llm.Completer against a hosted
// text-generation inference endpoint.
package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ajibade-k/budgetwise/internal/httpx"
)

// Config for the HuggingFace inference client. BaseURL is the full model
// endpoint; AccessToken is sent as a bearer credential when set.
type Config struct {
	BaseURL     string
	Model       string
	AccessToken string
	Timeout     time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
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

// Complete sends exactly one inference request. Hosted endpoints answer
// either [{"generated_text": "..."}] or {"generated_text": "..."} depending
// on the deployment; both collapse to the same flat string here.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	body := map[string]any{
		"inputs": prompt,
	}
	if c.cfg.Model != "" {
		body["model"] = c.cfg.Model
	}

	headers := map[string]string{}
	if c.cfg.AccessToken != "" {
		headers["Authorization"] = "Bearer " + c.cfg.AccessToken
	}

	raw, _, err := httpx.SendJSON(ctx, c.httpClient, c.cfg.BaseURL, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.huggingface.request_failed",
			"model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	text, err := decodeGeneratedText(raw)
	if err != nil {
		c.log.Error("llm.huggingface.decode_error", "error", err, "raw_bytes", len(raw))
		return "", err
	}

	c.log.Info("llm.huggingface.ok",
		"model", c.cfg.Model,
		"response_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func decodeGeneratedText(raw []byte) (string, error) {
	var list []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", fmt.Errorf("empty generation list")
		}
		return list[0].GeneratedText, nil
	}

	var single struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &single); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	return single.GeneratedText, nil
}
