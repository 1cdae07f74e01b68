package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
	"github.com/wechat-daily-report/internal/report"
)

// siyuanRoot is the notebook-relative folder all report documents live in
const siyuanRoot = "/微信群聊日报"

// SiyuanClient talks to a SiYuan notes instance
type SiyuanClient struct {
	baseURL    string
	notebookID string
	authToken  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewSiyuanClient creates a SiYuan notes client
func NewSiyuanClient(baseURL, notebookID, authToken string, logger zerolog.Logger) *SiyuanClient {
	return &SiyuanClient{
		baseURL:    baseURL,
		notebookID: notebookID,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "siyuan").Logger(),
	}
}

// CreateDocWithMd creates a document at the given notebook path.
// Success is indicated by a code==0 envelope field, not by HTTP status
// alone.
func (c *SiyuanClient) CreateDocWithMd(ctx context.Context, path, markdownContent string) error {
	payload, err := json.Marshal(map[string]string{
		"notebook": c.notebookID,
		"path":     path,
		"markdown": markdownContent,
	})
	if err != nil {
		return fmt.Errorf("failed to encode document payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/filetree/createDocWithMd", bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Token "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach SiYuan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("SiYuan returned status %d", resp.StatusCode)
	}

	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode SiYuan response: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("SiYuan rejected document %s: %s", path, result.Msg)
	}

	c.logger.Info().Str("path", path).Msg("Document created in SiYuan")
	return nil
}

// SaveDailyReport stores the combined report as /<root>/<date>-日报
func (c *SiyuanClient) SaveDailyReport(
	ctx context.Context, content, reportDate string, summaries []models.GroupSummary,
) error {
	docPath := fmt.Sprintf("%s/%s-日报", siyuanRoot, reportDate)
	return c.CreateDocWithMd(ctx, docPath, formatDailyDocument(content, reportDate, summaries, time.Now()))
}

// SaveGroupReport stores one group's digest as
// /<root>/群聊报告/<sanitized-group-name>/<date>
func (c *SiyuanClient) SaveGroupReport(ctx context.Context, groupName, summary, reportDate string) error {
	docPath := fmt.Sprintf("%s/群聊报告/%s/%s", siyuanRoot, report.SanitizeFilename(groupName), reportDate)
	return c.CreateDocWithMd(ctx, docPath, formatGroupDocument(groupName, summary, reportDate, time.Now()))
}

// TestConnection probes the SiYuan instance without mutating anything
func (c *SiyuanClient) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/system/getConf", nil,
	)
	if err != nil {
		return false
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Token "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// formatDailyDocument wraps the report with SiYuan-friendly metadata and
// a per-group statistics table
func formatDailyDocument(
	content, reportDate string, summaries []models.GroupSummary, now time.Time,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 微信群聊日报 - %s\n\n", reportDate)
	fmt.Fprintf(&b, "> 📅 报告日期: %s  \n", reportDate)
	fmt.Fprintf(&b, "> 🕐 生成时间: %s  \n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("> 🤖 分析引擎: AI智能总结\n\n")
	b.WriteString(content)
	b.WriteString("\n\n## 📊 数据统计\n\n")

	if len(summaries) > 0 {
		b.WriteString("| 群聊名称 | 消息数量 | 状态 |\n")
		b.WriteString("|----------|----------|------|\n")
		for _, s := range summaries {
			status := "✅ 已分析"
			if s.Summary == "" {
				status = "⚠️ 无数据"
			}
			fmt.Fprintf(&b, "| %s | %d | %s |\n", s.GroupName, s.MessageCount, status)
		}
	}

	fmt.Fprintf(&b, "\n**标签**: #微信群聊 #日报 #%s #AI分析\n\n", strings.ReplaceAll(reportDate, "-", ""))
	b.WriteString("*本文档由微信聊天记录自动分析系统生成，保存于思源笔记*\n")
	return b.String()
}

// formatGroupDocument wraps one group's digest with a metadata header
func formatGroupDocument(groupName, summary, reportDate string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s - %s\n\n", groupName, reportDate)
	fmt.Fprintf(&b, "> 📅 日期: %s  \n", reportDate)
	fmt.Fprintf(&b, "> 🕐 生成时间: %s  \n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "> 📱 群聊: %s\n\n", groupName)
	b.WriteString(summary)
	b.WriteString("\n\n---\n*本报告由微信聊天记录自动分析系统生成*\n")
	return b.String()
}
