package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wechat-daily-report/internal/models"
)

type createDocRequest struct {
	Notebook string `json:"notebook"`
	Path     string `json:"path"`
	Markdown string `json:"markdown"`
}

func TestSiyuanClient_SaveDailyReport(t *testing.T) {
	var got createDocRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/filetree/createDocWithMd", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "msg": ""})
	}))
	defer server.Close()

	client := NewSiyuanClient(server.URL, "notebook-1", "secret-token", zerolog.Nop())
	summaries := []models.GroupSummary{
		{GroupName: "技术群", Summary: "digest", MessageCount: 42},
		{GroupName: "闲聊群", Summary: "", MessageCount: 0},
	}

	err := client.SaveDailyReport(context.Background(), "# report body", "2025-01-10", summaries)
	require.NoError(t, err)

	assert.Equal(t, "Token secret-token", gotAuth)
	assert.Equal(t, "notebook-1", got.Notebook)
	assert.Equal(t, "/微信群聊日报/2025-01-10-日报", got.Path)
	assert.Contains(t, got.Markdown, "# report body")
	assert.Contains(t, got.Markdown, "| 技术群 | 42 | ✅ 已分析 |")
	assert.Contains(t, got.Markdown, "| 闲聊群 | 0 | ⚠️ 无数据 |")
	assert.Contains(t, got.Markdown, "#20250110")
}

func TestSiyuanClient_SaveGroupReport(t *testing.T) {
	var got createDocRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "msg": ""})
	}))
	defer server.Close()

	client := NewSiyuanClient(server.URL, "notebook-1", "", zerolog.Nop())
	err := client.SaveGroupReport(context.Background(), `产品/设计群`, "group digest", "2025-01-10")
	require.NoError(t, err)

	assert.Equal(t, "/微信群聊日报/群聊报告/产品_设计群/2025-01-10", got.Path)
	assert.Contains(t, got.Markdown, "group digest")
	assert.Contains(t, got.Markdown, "# 产品/设计群 - 2025-01-10")
}

func TestSiyuanClient_RejectedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": -1, "msg": "notebook not found"})
	}))
	defer server.Close()

	client := NewSiyuanClient(server.URL, "bad-notebook", "", zerolog.Nop())
	err := client.CreateDocWithMd(context.Background(), "/微信群聊日报/doc", "content")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notebook not found")
}

func TestSiyuanClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewSiyuanClient(server.URL, "notebook-1", "wrong", zerolog.Nop())
	err := client.CreateDocWithMd(context.Background(), "/微信群聊日报/doc", "content")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSiyuanClient_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/system/getConf", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"code": 0})
	}))
	defer server.Close()

	client := NewSiyuanClient(server.URL, "notebook-1", "", zerolog.Nop())
	assert.True(t, client.TestConnection(context.Background()))

	server.Close()
	assert.False(t, client.TestConnection(context.Background()))
}

func TestFormatDailyDocument(t *testing.T) {
	now := time.Date(2025, 1, 11, 8, 0, 0, 0, time.UTC)
	doc := formatDailyDocument("body", "2025-01-10", nil, now)

	assert.Contains(t, doc, "# 微信群聊日报 - 2025-01-10")
	assert.Contains(t, doc, "生成时间: 2025-01-11 08:00:00")
	assert.NotContains(t, doc, "| 群聊名称 |", "no table without summaries")
}
