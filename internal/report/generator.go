package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
)

const (
	timestampLayout = "2006-01-02 15:04:05"

	sectionSeparator = "\n\n---\n\n"

	reportFooter = "---\n\n*本报告由微信聊天记录自动分析系统生成*"
)

// Generator assembles and persists daily reports
type Generator struct {
	outputDir string
	logger    zerolog.Logger
}

// NewGenerator creates a report generator writing under outputDir
func NewGenerator(outputDir string, logger zerolog.Logger) *Generator {
	return &Generator{
		outputDir: outputDir,
		logger:    logger.With().Str("component", "report").Logger(),
	}
}

// Assemble combines per-group summaries into a dated report.
// Section order follows the input order; counters are derived, never
// stored. The generation timestamp is a parameter so rendering stays a
// pure function of its inputs.
func Assemble(summaries []models.GroupSummary, reportDate string, generatedAt time.Time) models.DailyReport {
	total := 0
	for _, s := range summaries {
		total += s.MessageCount
	}
	return models.DailyReport{
		ReportDate:    reportDate,
		GeneratedAt:   generatedAt,
		GroupCount:    len(summaries),
		TotalMessages: total,
		Sections:      summaries,
	}
}

// Render produces the canonical Markdown form of a daily report.
// Identical inputs render identically.
func Render(report models.DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 微信群聊每日报告\n\n")
	fmt.Fprintf(&b, "**报告日期**: %s  \n", report.ReportDate)
	fmt.Fprintf(&b, "**生成时间**: %s  \n", report.GeneratedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "**监控群数**: %d  \n", report.GroupCount)
	fmt.Fprintf(&b, "**消息总数**: %d\n\n---\n\n", report.TotalMessages)

	sections := make([]string, 0, len(report.Sections))
	for _, record := range report.Sections {
		sections = append(sections, renderSection(record))
	}
	b.WriteString(strings.Join(sections, sectionSeparator))

	b.WriteString("\n\n")
	b.WriteString(reportFooter)
	b.WriteString("\n")
	return b.String()
}

// renderSection renders one group's section. A record without a digest
// contributes only its header line, never an empty body.
func renderSection(record models.GroupSummary) string {
	if strings.TrimSpace(record.Summary) == "" {
		return fmt.Sprintf("## 群聊：%s", record.GroupName)
	}
	return record.Summary
}

// Generate assembles and renders a report in one step
func (g *Generator) Generate(summaries []models.GroupSummary, reportDate string, generatedAt time.Time) string {
	return Render(Assemble(summaries, reportDate, generatedAt))
}

// Save writes the combined report, keyed only by date so re-running the
// same date overwrites the previous file
func (g *Generator) Save(content, reportDate string) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("wechat_daily_report_%s.md", reportDate))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	g.logger.Info().Str("path", path).Msg("Report saved")
	return path, nil
}

// SaveGroupReport writes one group's digest under the groups subpath,
// same date key, same overwrite semantics as Save
func (g *Generator) SaveGroupReport(groupName, summary, reportDate string) (string, error) {
	dir := filepath.Join(g.outputDir, "groups")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create group report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.md", SanitizeFilename(groupName), reportDate))
	if err := os.WriteFile(path, []byte(summary), 0o644); err != nil {
		return "", fmt.Errorf("failed to save group report: %w", err)
	}

	g.logger.Debug().Str("path", path).Str("group", groupName).Msg("Group report saved")
	return path, nil
}
