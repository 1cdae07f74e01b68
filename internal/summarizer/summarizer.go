package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
	"github.com/wechat-daily-report/internal/proxy"
)

// transcriptWindow bounds the number of transcript lines fed to remote
// models to keep requests within token limits
const transcriptWindow = 50

// Summarizer produces a natural-language digest of a group's chat logs.
// The active variant is selected once at startup from configuration.
type Summarizer interface {
	// Summarize returns a digest for the given chat records.
	// Remote variants fail with a *Error on upstream problems;
	// the local variant never fails.
	Summarize(ctx context.Context, logs []models.RawMessage, groupName string) (string, error)

	// TestConnection probes reachability of the backing service without
	// mutating any state
	TestConnection(ctx context.Context) bool

	// Name identifies the variant for logging and diagnostics
	Name() string
}

// Error wraps a summarization backend failure. It is deliberately fatal
// to a report run: a report with silently missing digests is worse than
// no report.
type Error struct {
	Service string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s summarization failed: %v", e.Service, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates the summarizer variant selected by configuration
func New(cfg *models.Config, logger zerolog.Logger) (Summarizer, error) {
	timeout := time.Duration(cfg.APITimeout) * time.Second
	httpClient, err := proxy.NewHTTPClient(cfg.ProxyEnabled, cfg.ProxyHTTP, cfg.ProxyHTTPS, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build summarizer HTTP client: %w", err)
	}

	switch cfg.AIService {
	case "local":
		return NewLocal(logger), nil
	case "openai":
		key := cfg.OpenAIKey()
		if key == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAI(key, cfg.OpenAIModel, httpClient, logger), nil
	case "gemini":
		key := cfg.GeminiKey()
		if key == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGemini(key, cfg.GeminiModel, httpClient, logger), nil
	default:
		return nil, fmt.Errorf("unsupported AI service: %s", cfg.AIService)
	}
}
