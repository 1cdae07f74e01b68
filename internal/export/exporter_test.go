package export

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wechat-daily-report/internal/chatlog"
	"github.com/wechat-daily-report/internal/models"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		arg       string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{name: "single day", arg: "2025-01-10", wantStart: "2025-01-10", wantEnd: "2025-01-10"},
		{name: "range", arg: "2025-01-01:2025-01-10", wantStart: "2025-01-01", wantEnd: "2025-01-10"},
		{name: "range with spaces", arg: "2025-01-01 : 2025-01-10", wantStart: "2025-01-01", wantEnd: "2025-01-10"},
		{name: "reversed range", arg: "2025-01-10:2025-01-01", wantErr: true},
		{name: "bad start", arg: "01/10/2025", wantErr: true},
		{name: "bad end", arg: "2025-01-01:sometime", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseDateRange(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, ValidateDateRange("2025-01-01", "2025-01-01"))
	assert.NoError(t, ValidateDateRange("2025-01-01", "2025-12-31"))
	assert.Error(t, ValidateDateRange("2025-02-30", "2025-03-01"))
	assert.Error(t, ValidateDateRange("2025-03-01", "2025-02-01"))
}

func TestExporter_Export(t *testing.T) {
	var gotTime string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTime = r.URL.Query().Get("time")
		json.NewEncoder(w).Encode([]models.RawMessage{
			{
				Time:       "2025-01-10T10:00:00+08:00",
				SenderName: "张三",
				Content:    "早上好",
				Type:       models.MsgTypeText,
			},
		})
	}))
	defer server.Close()

	dir := t.TempDir()
	exporter := NewExporter(chatlog.NewClient(server.URL, 30, zerolog.Nop()), zerolog.Nop())

	path, err := exporter.Export(context.Background(), "技术群", "2025-01-10", "2025-01-10", dir, 1000)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", gotTime, "single day collapses to one value")
	assert.Equal(t, filepath.Join(dir, "技术群_2025-01-10.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[2025-01-10 10:00] 张三: 早上好")
}

func TestExporter_ExportRange(t *testing.T) {
	var gotTime string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTime = r.URL.Query().Get("time")
		json.NewEncoder(w).Encode([]models.RawMessage{
			{Time: "2025-01-10T10:00:00+08:00", SenderName: "张三", Content: "hi", Type: models.MsgTypeText},
		})
	}))
	defer server.Close()

	dir := t.TempDir()
	exporter := NewExporter(chatlog.NewClient(server.URL, 30, zerolog.Nop()), zerolog.Nop())

	path, err := exporter.Export(context.Background(), "技术群", "2025-01-01", "2025-01-10", dir, 1000)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01~2025-01-10", gotTime)
	assert.Equal(t, filepath.Join(dir, "技术群_2025-01-01_to_2025-01-10.md"), path)
}

func TestExporter_ExportNoRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.RawMessage{})
	}))
	defer server.Close()

	dir := t.TempDir()
	exporter := NewExporter(chatlog.NewClient(server.URL, 30, zerolog.Nop()), zerolog.Nop())

	path, err := exporter.Export(context.Background(), "技术群", "2025-01-10", "2025-01-10", dir, 1000)
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file written when the group has no records")
}
