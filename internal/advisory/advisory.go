// Package advisory wraps the external text-generation service that turns
// calculation results into user-facing guidance. The engine never depends
// on this package; advice is attached opportunistically at the API layer
// and degrades to deterministic fallback text when the service is
// unavailable or not configured.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/internal/engine"
	"github.com/homeready/homeready/pkg/format"
	"go.uber.org/zap"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4o-mini"
	apiKeyEnv       = "ADVISORY_API_KEY"

	systemPrompt = "You are a Korean residential real-estate finance advisor. " +
		"You explain loan limits, taxes, and affordability results in plain Korean, " +
		"in two to three sentences, without giving legal advice. " +
		"All amounts you receive are in millions of KRW."
)

// Generator produces advisory text for calculation results.
type Generator struct {
	apiKey     string
	endpoint   string
	model      string
	enabled    bool
	httpClient *http.Client
	logger     *zap.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// New creates a Generator from configuration. The API key comes from the
// ADVISORY_API_KEY environment variable; without it the generator stays in
// fallback-only mode regardless of configuration.
func New(cfg config.AdvisoryConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	apiKey := os.Getenv(apiKeyEnv)
	return &Generator{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    model,
		enabled:  cfg.Enabled && apiKey != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// LoanLimitAdvice explains a loan limit result.
func (g *Generator) LoanLimitAdvice(ctx context.Context, request engine.LoanRequest, result engine.LoanLimitResult) string {
	fallback := fmt.Sprintf(
		"목표가 %s 기준 최대 대출 한도는 %s이며, %s 규제가 한도를 결정합니다. 예상 월 상환액은 약 %s입니다.",
		format.Amount(request.TargetPrice), format.Amount(result.BindingLimit),
		result.BindingConstraint, format.Amount(result.MonthlyPayment))

	if !g.enabled {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Loan limit result: target price %.1f, LTV limit %.1f, DSR limit %.1f, "+
			"binding constraint %s, monthly payment %.3f. Explain what binds and why.",
		request.TargetPrice, result.LTVLimit, result.DSRLimit,
		result.BindingConstraint, result.MonthlyPayment)

	return g.generate(ctx, prompt, fallback)
}

// AffordabilityAdvice explains an affordability result.
func (g *Generator) AffordabilityAdvice(ctx context.Context, targetPrice float64, result engine.AffordabilityResult) string {
	fallback := fmt.Sprintf(
		"준비도 점수는 %d점(%s등급)입니다. 목표가 %s 대비 부족한 현금은 %s입니다.",
		result.Score, result.Grade, format.Amount(targetPrice), format.Amount(result.GapAmount))

	if !g.enabled {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Affordability result: target price %.1f, score %d, grade %s, cash gap %.1f. "+
			"Suggest one concrete next step.",
		targetPrice, result.Score, result.Grade, result.GapAmount)

	return g.generate(ctx, prompt, fallback)
}

func (g *Generator) generate(ctx context.Context, prompt, fallback string) string {
	text, err := g.callLLM(ctx, prompt)
	if err != nil {
		g.logger.Warn("advisory generation failed, using fallback",
			zap.String("op", "advisory.generate"),
			zap.Error(err),
		)
		return fallback
	}
	return text
}

func (g *Generator) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("advisory API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty advisory response")
	}
	return parsed.Choices[0].Message.Content, nil
}
