package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"NovaStream/logger"
	"NovaStream/model"

	"github.com/sashabaranov/go-openai"
)

// FallbackDescription is used when no suggestion could be obtained.
const FallbackDescription = "A great video uploaded to NovaStream."

const suggestPrompt = `Suggest a catchy title and a professional description for a video named %q. Focus on engagement and SEO.
Reply with a JSON object with exactly these string fields: "title", "description", "category".`

// Suggester proposes upload metadata from a file name.
type Suggester interface {
	Suggest(ctx context.Context, fileName string) (model.Suggestion, error)
}

// SuggesterConfig configures the OpenAI-compatible suggester.
type SuggesterConfig struct {
	APIKey  string
	BaseURL string // empty uses the public endpoint
	Model   string
	Timeout time.Duration
}

// OpenAISuggester asks a chat completion model for upload metadata.
type OpenAISuggester struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAISuggester returns nil when no API key is configured, which
// SuggestOrFallback treats as "always fall back".
func NewOpenAISuggester(cfg SuggesterConfig) *OpenAISuggester {
	if cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &OpenAISuggester{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// Suggest makes a single completion request. There is no retry.
func (s *OpenAISuggester) Suggest(ctx context.Context, fileName string) (model.Suggestion, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(suggestPrompt, fileName),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("failed to fetch suggestion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Suggestion{}, errors.New("no response choices returned")
	}

	var suggestion model.Suggestion
	content := resp.Choices[len(resp.Choices)-1].Message.Content
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return model.Suggestion{}, fmt.Errorf("failed to decode suggestion: %w", err)
	}
	if suggestion.Title == "" || suggestion.Description == "" || suggestion.Category == "" {
		return model.Suggestion{}, errors.New("suggestion is missing a field")
	}
	return suggestion, nil
}

// Fallback derives metadata locally: the part of fileName before the first
// '.' becomes the title.
func Fallback(fileName string) model.Suggestion {
	title := fileName
	if i := strings.Index(fileName, "."); i >= 0 {
		title = fileName[:i]
	}
	return model.Suggestion{
		Title:       title,
		Description: FallbackDescription,
		Category:    model.DefaultCategory,
	}
}

// SuggestOrFallback never fails. The bool reports whether the fallback was used.
func SuggestOrFallback(ctx context.Context, s Suggester, fileName string) (model.Suggestion, bool) {
	if isNil(s) {
		return Fallback(fileName), true
	}
	suggestion, err := s.Suggest(ctx, fileName)
	if err != nil {
		logger.Warn("[Suggest] falling back to file name",
			logger.String("fileName", fileName),
			logger.ErrorField(err))
		return Fallback(fileName), true
	}
	return suggestion, false
}

func isNil(s Suggester) bool {
	if s == nil {
		return true
	}
	o, ok := s.(*OpenAISuggester)
	return ok && o == nil
}
