// Copyright 2025 VisualFlow Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QueryMode selects the prompt the AI query generator uses.
type QueryMode string

const (
	// QueryModeLiteral asks for concrete visual nouns and adjectives.
	QueryModeLiteral QueryMode = "literal"
	// QueryModeMetaphorical asks for an abstract or emotional visual
	// analogue of the line instead of its surface content.
	QueryModeMetaphorical QueryMode = "metaphorical"
)

const (
	literalPromptTemplate = `You are an expert stock footage researcher. Your task is to convert a line from a video script into a single, highly visual search query.
Input Line: "%s"
Rules: Output ONLY the search query. No quotes. Keep it 2-4 words max. Focus on visual nouns/adjectives.`

	metaphoricalPromptTemplate = `You are an expert stock footage researcher. Your task is to convert a line from a video script into a single search query for an abstract, metaphorical visual that evokes the emotion of the line rather than its literal content.
Input Line: "%s"
Rules: Output ONLY the search query. No quotes. Keep it 2-4 words max. Focus on visual nouns/adjectives.`
)

// GeminiClient wraps the generative AI client with a rate limiter and a
// pre-built generation config so that query generation stays within quota.
// A single failed attempt yields an empty result; the caller is expected to
// fall back to literal keyword extraction, so retries are not worth the
// added latency here.
type GeminiClient struct {
	cfg     GeminiConfig
	client  *genai.Client
	genCfg  *genai.GenerateContentConfig
	limiter *rate.Limiter
}

// NewGeminiClient constructs the client against the Gemini API backend.
// A nil client with no error is returned when the credential is absent so
// callers can treat AI assistance as simply unavailable.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](cfg.Temperature),
		TopP:            genai.Ptr[float32](cfg.TopP),
		TopK:            genai.Ptr[float32](cfg.TopK),
		MaxOutputTokens: cfg.MaxTokens,
	}

	return &GeminiClient{
		cfg:     cfg,
		client:  gc,
		genCfg:  genCfg,
		limiter: newLimiter(cfg.RateLimit),
	}, nil
}

// Enabled reports whether AI query generation can be attempted at all.
func (g *GeminiClient) Enabled() bool {
	return g != nil && g.client != nil
}

// GenerateQuery turns a script line into a short search query using the
// configured model. It returns an empty string whenever the model cannot be
// reached or produces no text; the empty string is the signal for the
// caller to fall back to literal extraction.
func (g *GeminiClient) GenerateQuery(ctx context.Context, line string, mode QueryMode) string {
	if !g.Enabled() {
		return ""
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return ""
	}

	template := literalPromptTemplate
	if mode == QueryModeMetaphorical {
		template = metaphoricalPromptTemplate
	}
	prompt := fmt.Sprintf(template, line)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, g.genCfg)
	if err != nil {
		slog.Warn("gemini query generation failed", "error", err.Error())
		return ""
	}

	value := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += fmt.Sprint(part.Text)
			}
		}
	}
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, `"`, "")
	value = strings.ReplaceAll(value, "'", "")
	return strings.TrimSpace(value)
}
