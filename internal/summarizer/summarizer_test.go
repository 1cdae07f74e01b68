package summarizer

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wechat-daily-report/internal/models"
)

func TestNew_SelectsVariant(t *testing.T) {
	tests := []struct {
		name     string
		cfg      models.Config
		wantName string
		wantErr  string
	}{
		{
			name:     "local",
			cfg:      models.Config{AIService: "local"},
			wantName: "local",
		},
		{
			name:     "openai",
			cfg:      models.Config{AIService: "openai", OpenAIKeys: []string{"sk-test"}, OpenAIModel: "gpt-4o-mini"},
			wantName: "openai",
		},
		{
			name:     "gemini",
			cfg:      models.Config{AIService: "gemini", GeminiKeys: []string{"g-test"}, GeminiModel: "gemini-1.5-flash"},
			wantName: "gemini",
		},
		{
			name:    "openai without key",
			cfg:     models.Config{AIService: "openai"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:    "gemini without key",
			cfg:     models.Config{AIService: "gemini"},
			wantErr: "Gemini API key is required",
		},
		{
			name:    "unknown service",
			cfg:     models.Config{AIService: "llama"},
			wantErr: "unsupported AI service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(&tt.cfg, zerolog.Nop())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("rate limited")
	err := &Error{Service: "openai", Err: cause}

	assert.Equal(t, "openai summarization failed: rate limited", err.Error())
	assert.True(t, errors.Is(err, cause))

	var svcErr *Error
	assert.True(t, errors.As(error(err), &svcErr))
	assert.Equal(t, "openai", svcErr.Service)
}

func TestAuditBlock(t *testing.T) {
	block := auditBlock("[01-10 10:00] 张三: 早上好")
	assert.Contains(t, block, "<details>")
	assert.Contains(t, block, "📜 完整聊天记录")
	assert.Contains(t, block, "[01-10 10:00] 张三: 早上好")
	assert.Contains(t, block, "</details>")
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("技术群", "[01-10 10:00] 张三: 早上好")
	assert.Contains(t, prompt, "请分析群聊 '技术群' 的聊天记录")
	assert.Contains(t, prompt, "[01-10 10:00] 张三: 早上好")
	assert.Contains(t, prompt, "## 🔥 核心话题")
}
