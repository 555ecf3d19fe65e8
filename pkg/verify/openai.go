package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/config"
)

const systemPrompt = `You are a strict but fair accountability judge. You are shown a proof image a user submitted for their challenge. Answer ONLY with a JSON object of the form {"verified": bool, "message": "one short sentence for the user", "extracted_data": {}}. Put any stats you can read from the image (distance, duration, pages, etc.) into extracted_data.`

// OpenAIOracle judges proof images with a vision-capable chat model.
type OpenAIOracle struct {
	client     *openai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	logger     *zap.Logger
}

// NewOpenAIOracle builds an oracle from config. Returns nil when no API key
// is configured, which callers treat as "auto-verify everything".
func NewOpenAIOracle(cfg *config.VerifierConfig, logger *zap.Logger) *OpenAIOracle {
	if cfg.APIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIOracle{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.RequestTimeout,
		logger:     logger,
	}
}

// Verify sends the proof image to the model and parses its verdict. Transient
// upstream failures (rate limits, 5xx) are retried with a fixed delay; when
// retries are exhausted the last error is returned wrapped in TransientError
// so callers can park the submission as pending.
func (o *OpenAIOracle) Verify(ctx context.Context, req *Request) (*Result, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: o.userPrompt(req),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    req.ImageDataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		MaxTokens: 300,
	}

	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			o.logger.Warn("retrying proof verification",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(o.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		callCtx := ctx
		if o.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}

		resp, err := o.client.CreateChatCompletion(callCtx, chatReq)
		if err != nil {
			if !isTransient(err) {
				return nil, fmt.Errorf("oracle call failed: %w", err)
			}
			lastErr = err
			continue
		}

		if len(resp.Choices) == 0 {
			return nil, errors.New("oracle returned no choices")
		}
		return parseVerdict(resp.Choices[0].Message.Content)
	}

	return nil, &TransientError{Err: fmt.Errorf("oracle unavailable after %d retries: %w", o.maxRetries, lastErr)}
}

func (o *OpenAIOracle) userPrompt(req *Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Challenge: %s\n", req.ChallengeName)
	if req.ChallengeDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.ChallengeDescription)
	}
	b.WriteString(req.Prompt)
	return b.String()
}

// isTransient reports whether the upstream failure is worth retrying.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	// Timeouts and connection resets come through as plain errors.
	return errors.Is(err, context.DeadlineExceeded)
}

// parseVerdict extracts the JSON verdict from the model output, tolerating
// markdown fences around it.
func parseVerdict(content string) (*Result, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	// Some models wrap the object in prose. Cut to the outermost braces.
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			trimmed = trimmed[start : end+1]
		}
	}

	var result Result
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return nil, fmt.Errorf("failed to parse oracle verdict %q: %w", content, err)
	}
	return &result, nil
}
