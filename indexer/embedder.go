package indexer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"cardsmith/config"
)

// Embedder turns text batches into vectors.
type Embedder interface {
	Embed(text []string) ([][]float32, error)
}

// APIEmbedder calls a HuggingFace-style inference endpoint.
type APIEmbedder struct {
	logger *slog.Logger
	client *http.Client
	cfg    *config.Config
}

func NewAPIEmbedder(l *slog.Logger, cfg *config.Config) *APIEmbedder {
	return &APIEmbedder{
		logger: l,
		client: &http.Client{},
		cfg:    cfg,
	}
}

func (a *APIEmbedder) Embed(text []string) ([][]float32, error) {
	payload, err := json.Marshal(
		map[string]any{"inputs": text, "options": map[string]bool{"wait_for_model": true}},
	)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", a.cfg.EmbedURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	if a.cfg.HFToken != "" {
		req.Header.Add("Authorization", "Bearer "+a.cfg.HFToken)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("failed to embed batch", "error", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		err = fmt.Errorf("non 200 response; code: %v", resp.StatusCode)
		a.logger.Error(err.Error())
		return nil, err
	}
	var emb [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&emb); err != nil {
		a.logger.Error("failed to decode embedding response", "error", err)
		return nil, err
	}
	return emb, nil
}
