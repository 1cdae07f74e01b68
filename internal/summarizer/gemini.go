package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
	"github.com/wechat-daily-report/internal/transcript"
	"google.golang.org/api/option"
)

var errNoCandidates = errors.New("no response candidates")

// Gemini is a summarizer backed by the Google Gemini API
type Gemini struct {
	apiKey     string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger

	genaiClient *genai.Client
	mu          sync.Mutex
}

// NewGemini creates a Gemini summarizer. The given HTTP client carries
// any proxy configuration for the outbound calls.
func NewGemini(apiKey, model string, httpClient *http.Client, logger zerolog.Logger) *Gemini {
	return &Gemini{
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "summarizer_gemini").Logger(),
	}
}

// Name implements Summarizer
func (g *Gemini) Name() string { return "gemini" }

// getClient returns or creates a genai client (thread-safe)
func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.genaiClient != nil {
		return g.genaiClient, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(g.apiKey)}
	if g.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(g.httpClient))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	g.genaiClient = client
	g.logger.Info().Msg("Gemini client created and cached")
	return g.genaiClient, nil
}

// Close closes the Gemini client and releases resources
func (g *Gemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.genaiClient != nil {
		err := g.genaiClient.Close()
		g.genaiClient = nil
		if err != nil {
			g.logger.Error().Err(err).Msg("Failed to close Gemini client")
			return err
		}
		g.logger.Info().Msg("Gemini client closed")
	}
	return nil
}

// Summarize implements Summarizer
func (g *Gemini) Summarize(ctx context.Context, logs []models.RawMessage, groupName string) (string, error) {
	if len(logs) == 0 {
		return emptyGroupDigest(groupName), nil
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return "", &Error{Service: "gemini", Err: err}
	}

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(1000)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	windowed := transcript.Assemble(logs, transcriptWindow)
	prompt := buildPrompt(groupName, windowed)

	g.logger.Debug().
		Str("group", groupName).
		Str("model", g.model).
		Int("records", len(logs)).
		Msg("Sending summarization request to Gemini")

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Error().Err(err).Str("group", groupName).Msg("Gemini API error")
		return "", &Error{Service: "gemini", Err: err}
	}

	digest, err := extractText(resp)
	if err != nil {
		return "", &Error{Service: "gemini", Err: err}
	}

	g.logger.Info().
		Str("group", groupName).
		Int("digest_length", len(digest)).
		Msg("Gemini summary generated")

	// The model only saw the truncated window; the audit block always
	// carries the full transcript.
	return digest + auditBlock(transcript.Assemble(logs, 0)), nil
}

// extractText concatenates the text parts of the first response candidate
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errNoCandidates
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errNoCandidates
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// TestConnection implements Summarizer
func (g *Gemini) TestConnection(ctx context.Context) bool {
	client, err := g.getClient(ctx)
	if err != nil {
		g.logger.Error().Err(err).Msg("Gemini connection test failed")
		return false
	}

	model := client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(8)
	if _, err := model.GenerateContent(ctx, genai.Text("ping")); err != nil {
		g.logger.Error().Err(err).Msg("Gemini connection test failed")
		return false
	}
	return true
}
