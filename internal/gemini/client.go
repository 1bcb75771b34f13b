// Package gemini implements integration with Google's Gemini AI API.
// It provides the free-form question answering used for general queries.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/yclai/tianqibot/internal/config"
)

var (
	// ErrUnavailable indicates the API call itself failed (network error,
	// timeout, or an error status from the service).
	ErrUnavailable = errors.New("gemini service unavailable")

	// ErrNoContent indicates the API answered but the response carried no
	// usable candidate text. Callers treat this as a fallback condition,
	// not a failure.
	ErrNoContent = errors.New("gemini returned no content")
)

// Client defines the interface for AI reply generation. Each prompt is
// stateless: no conversation context is fed back into the service.
type Client interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	timeout       time.Duration
}

// NewClient creates a new Gemini AI client with the provided configuration.
// It initializes the connection to the Gemini API and sets up generation
// parameters and safety settings.
func NewClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.GeminiBaseURL
	}

	gi, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.GeminiTemperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,

		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		},
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.GeminiModel)
	return &sdkClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: contentConfig,
		modelName:     cfg.GeminiModel,
		timeout:       cfg.GeminiTimeout,
	}, nil
}

// GenerateReply sends the prompt to the model and extracts the first
// candidate's text. The call is bounded by the configured timeout; a
// transport or service failure (the timeout included) is reported as
// ErrUnavailable, an empty or candidate-less response as ErrNoContent.
func (c *sdkClient) GenerateReply(ctx context.Context, prompt string) (string, error) {
	c.log.DebugContext(ctx, "Generating reply", "prompt_length", len(prompt))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return c.extractTextFromResponse(ctx, resp)
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.WarnContext(ctx, "Gemini request blocked by safety filter", "reason", reasonMsg)
		return "", fmt.Errorf("%w: blocked by safety filter: %s", ErrNoContent, reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("%w: finish reason %s", ErrNoContent, finishReason)
	}

	text := resp.Text()
	if text == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty")
		return "", ErrNoContent
	}

	return text, nil
}
