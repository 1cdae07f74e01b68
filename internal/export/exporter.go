// Package export writes raw group transcripts to dated Markdown files,
// without any summarization.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/chatlog"
	"github.com/wechat-daily-report/internal/report"
	"github.com/wechat-daily-report/internal/transcript"
)

const dateLayout = "2006-01-02"

// Exporter fetches a group's records for a date range and writes the
// formatted transcript to a file
type Exporter struct {
	client *chatlog.Client
	logger zerolog.Logger
}

// NewExporter creates a transcript exporter
func NewExporter(client *chatlog.Client, logger zerolog.Logger) *Exporter {
	return &Exporter{
		client: client,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// Export fetches all records for the group between startDate and endDate
// (inclusive calendar days) and writes the untruncated transcript to
// <outputDir>/<sanitized-group>_<date-or-range>.md. It returns the path
// of the written file, or an empty path when no records were found.
func (e *Exporter) Export(
	ctx context.Context, groupName, startDate, endDate, outputDir string, pageSize int,
) (string, error) {
	timeRange := startDate
	if startDate != endDate {
		timeRange = startDate + "~" + endDate
	}

	e.logger.Info().
		Str("group", groupName).
		Str("time_range", timeRange).
		Msg("Exporting chat logs")

	logs, err := e.client.FetchAll(ctx, groupName, timeRange, pageSize)
	if err != nil {
		// Partial results still produce an export; the error was logged
		// by the pager.
		e.logger.Warn().Err(err).Int("partial", len(logs)).Msg("Export retrieval incomplete")
	}
	if len(logs) == 0 {
		e.logger.Warn().Str("group", groupName).Msg("No chat logs found for export")
		return "", nil
	}

	content := transcript.AssembleExport(logs)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	dateRange := startDate
	if startDate != endDate {
		dateRange = startDate + "_to_" + endDate
	}
	path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.md", report.SanitizeFilename(groupName), dateRange))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	e.logger.Info().Str("path", path).Int("records", len(logs)).Msg("Export saved")
	return path, nil
}

// ParseDateRange parses a date argument that is either a single
// YYYY-MM-DD value or a YYYY-MM-DD:YYYY-MM-DD range. The range is
// validated before any work begins.
func ParseDateRange(arg string) (string, string, error) {
	var startDate, endDate string
	if strings.Contains(arg, ":") {
		parts := strings.SplitN(arg, ":", 2)
		startDate = strings.TrimSpace(parts[0])
		endDate = strings.TrimSpace(parts[1])
	} else {
		startDate = strings.TrimSpace(arg)
		endDate = startDate
	}
	return startDate, endDate, ValidateDateRange(startDate, endDate)
}

// ValidateDateRange checks both dates parse and start is not after end
func ValidateDateRange(startDate, endDate string) error {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q, expected YYYY-MM-DD: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q, expected YYYY-MM-DD: %w", endDate, err)
	}
	if start.After(end) {
		return fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}
	return nil
}
