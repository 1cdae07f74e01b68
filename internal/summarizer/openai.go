package summarizer

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/wechat-daily-report/internal/models"
	"github.com/wechat-daily-report/internal/transcript"
)

var errNoChoices = errors.New("no response choices")

// OpenAI is a summarizer backed by the OpenAI chat completions API
type OpenAI struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAI creates an OpenAI summarizer. The given HTTP client carries
// any proxy configuration for the outbound calls.
func NewOpenAI(apiKey, model string, httpClient *http.Client, logger zerolog.Logger) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger.With().Str("component", "summarizer_openai").Logger(),
	}
}

// Name implements Summarizer
func (o *OpenAI) Name() string { return "openai" }

// Summarize implements Summarizer
func (o *OpenAI) Summarize(ctx context.Context, logs []models.RawMessage, groupName string) (string, error) {
	if len(logs) == 0 {
		return emptyGroupDigest(groupName), nil
	}

	windowed := transcript.Assemble(logs, transcriptWindow)
	prompt := buildPrompt(groupName, windowed)

	o.logger.Debug().
		Str("group", groupName).
		Str("model", o.model).
		Int("records", len(logs)).
		Msg("Sending summarization request to OpenAI")

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		o.logger.Error().Err(err).Str("group", groupName).Msg("OpenAI API error")
		return "", &Error{Service: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Service: "openai", Err: errNoChoices}
	}

	digest := resp.Choices[0].Message.Content
	o.logger.Info().
		Str("group", groupName).
		Int("digest_length", len(digest)).
		Msg("OpenAI summary generated")

	// The model only saw the truncated window; the audit block always
	// carries the full transcript.
	return digest + auditBlock(transcript.Assemble(logs, 0)), nil
}

// TestConnection implements Summarizer
func (o *OpenAI) TestConnection(ctx context.Context) bool {
	_, err := o.client.ListModels(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("OpenAI connection test failed")
		return false
	}
	return true
}
