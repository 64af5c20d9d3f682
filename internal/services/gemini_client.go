package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/utils"
)

// SamplingParams are the generation knobs sent per call. The two modes use
// different profiles: the one-shot report wants a steadier, longer output,
// the conversational mode a livelier, shorter one.
type SamplingParams struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

func SimpleSamplingParams() SamplingParams {
	return SamplingParams{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 3072}
}

func InteractiveSamplingParams() SamplingParams {
	return SamplingParams{Temperature: 0.8, TopK: 40, TopP: 0.95, MaxOutputTokens: 1536}
}

// GenerationClient wraps a single call to the external text-generation
// service. It never retries; retry policy belongs to the orchestrator.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string, params SamplingParams) (string, error)
	ModelName() string
}

// GenerationServiceError covers transport failures, non-success statuses and
// responses missing the expected content. Safe to retry the same turn: no
// state is mutated on this path.
type GenerationServiceError struct {
	StatusCode int
	Message    string
}

func (e *GenerationServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation service error (http %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation service error: %s", e.Message)
}

func IsGenerationServiceError(err error) bool {
	var gse *GenerationServiceError
	return errors.As(err, &gse)
}

type geminiClient struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewGeminiClient(log *logger.Logger) (GenerationClient, error) {
	serviceLog := log.With("service", "GeminiClient")

	apiKey := utils.GetEnv("GEMINI_API_KEY", "", nil)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	baseURL := utils.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com", log)
	model := utils.GetEnv("GEMINI_MODEL", "gemini-pro", log)
	timeoutSec := utils.GetEnvAsInt("GEMINI_TIMEOUT_SECONDS", 120, log)

	return &geminiClient{
		log:        serviceLog,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}, nil
}

func (c *geminiClient) ModelName() string {
	return c.model
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) Generate(ctx context.Context, prompt string, params SamplingParams) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     params.Temperature,
			TopK:            params.TopK,
			TopP:            params.TopP,
			MaxOutputTokens: params.MaxOutputTokens,
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", &GenerationServiceError{Message: fmt.Sprintf("encode request: %v", err)}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", &GenerationServiceError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GenerationServiceError{Message: err.Error()}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", &GenerationServiceError{Message: readErr.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("Gemini call returned non-success status", "status", resp.StatusCode)
		return "", &GenerationServiceError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &GenerationServiceError{Message: fmt.Sprintf("decode response: %v", err)}
	}

	var text string
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			text += part.Text
		}
	}
	if text == "" {
		return "", &GenerationServiceError{Message: "response missing candidate text"}
	}
	return text, nil
}
