// Command analyze runs the extraction and analysis pipeline on a local file
// without touching the database: useful for trying prompts and backends.
//
//	analyze <statement.pdf|statement.xlsx> <monthly income>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/extract"
	"github.com/ajibade-k/budgetwise/internal/llm"
	"github.com/ajibade-k/budgetwise/internal/llm/huggingface"
	"github.com/ajibade-k/budgetwise/internal/llm/ollama"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) < 3 {
		logger.Error("usage: analyze <file> <monthly income>")
		os.Exit(2)
	}
	path := os.Args[1]
	income, err := decimal.NewFromString(os.Args[2])
	if err != nil {
		logger.Error("invalid income", "arg", os.Args[2], "error", err)
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	extractor := extract.NewExtractor(logger)
	res, err := extractor.Extract(ctx, path, filepath.Base(path))
	if err != nil {
		logger.Error("extract failed", "error", err)
		os.Exit(1)
	}
	logger.Info("extracted", "format", res.Format, "bytes", len(res.Text))

	var completer llm.Completer
	if cfg.AI.Service == "huggingface" {
		completer = huggingface.NewClient(huggingface.Config{
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			AccessToken: cfg.AI.AccessToken,
			Timeout:     cfg.AI.Timeout,
		}, logger)
	} else {
		completer = ollama.NewClient(ollama.Config{
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}, logger)
	}

	prompt := llm.BuildAnalysisPrompt(res.Text, income)
	raw, err := completer.Complete(ctx, prompt)
	if err != nil {
		logger.Error("completion failed", "error", err)
		os.Exit(1)
	}

	analysis := llm.ParseAnalysisResponse(raw, logger)

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
