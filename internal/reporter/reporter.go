package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/chatlog"
	"github.com/wechat-daily-report/internal/models"
	"github.com/wechat-daily-report/internal/notify"
	"github.com/wechat-daily-report/internal/report"
	"github.com/wechat-daily-report/internal/summarizer"
	"github.com/wechat-daily-report/internal/transcript"
)

// dateLayout is the calendar date format accepted on the command line
const dateLayout = "2006-01-02"

// placeholderSummary is the section body for groups without any records
const placeholderSummary = "## 群聊：%s\n\n暂无聊天记录"

// Reporter drives the daily report pipeline: per-group fetch, summarize,
// assemble, persist and notify. Groups are processed sequentially in
// configured order.
type Reporter struct {
	cfg        *models.Config
	client     *chatlog.Client
	summarizer summarizer.Summarizer
	generator  *report.Generator
	notifier   *notify.Service
	logger     zerolog.Logger
}

// New wires a reporter from configuration
func New(cfg *models.Config, logger zerolog.Logger) (*Reporter, error) {
	summ, err := summarizer.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}
	return NewWithComponents(
		cfg,
		chatlog.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger),
		summ,
		report.NewGenerator(cfg.ReportDir, logger),
		notify.NewService(cfg, logger),
		logger,
	), nil
}

// NewWithComponents wires a reporter from prebuilt components
func NewWithComponents(
	cfg *models.Config,
	client *chatlog.Client,
	summ summarizer.Summarizer,
	generator *report.Generator,
	notifier *notify.Service,
	logger zerolog.Logger,
) *Reporter {
	return &Reporter{
		cfg:        cfg,
		client:     client,
		summarizer: summ,
		generator:  generator,
		notifier:   notifier,
		logger:     logger.With().Str("component", "reporter").Logger(),
	}
}

// Summarizer returns the active summarization variant
func (r *Reporter) Summarizer() summarizer.Summarizer {
	return r.summarizer
}

// Client returns the chatlog client
func (r *Reporter) Client() *chatlog.Client {
	return r.client
}

// Notifier returns the notification service
func (r *Reporter) Notifier() *notify.Service {
	return r.notifier
}

// Run generates, persists and fans out the report for one date.
// An empty reportDate defaults to yesterday. It returns the path of the
// persisted report file.
//
// Failure semantics are deliberately asymmetric: retrieval problems
// degrade to partial or empty sections and the run continues, while a
// summarization failure aborts the whole run, because a report with
// silently missing digests would break its completeness guarantee.
func (r *Reporter) Run(ctx context.Context, reportDate string) (string, error) {
	if reportDate == "" {
		reportDate = time.Now().AddDate(0, 0, -1).Format(dateLayout)
	}
	date, err := ParseDate(reportDate)
	if err != nil {
		return "", err
	}

	r.logger.Info().Str("date", reportDate).Msg("Starting daily report generation")

	if !r.client.HealthCheck(ctx) {
		return "", fmt.Errorf("chatlog API service is not available")
	}

	summaries := make([]models.GroupSummary, 0, len(r.cfg.TargetGroups))
	for _, group := range r.cfg.TargetGroups {
		summary, err := r.processGroup(ctx, group, date)
		if err != nil {
			return "", fmt.Errorf("report generation aborted: %w", err)
		}
		summaries = append(summaries, summary)
	}

	content := r.generator.Generate(summaries, reportDate, time.Now())

	path, err := r.generator.Save(content, reportDate)
	if err != nil {
		return "", err
	}
	for _, summary := range summaries {
		if summary.Summary == "" {
			continue
		}
		if _, err := r.generator.SaveGroupReport(summary.GroupName, summary.Summary, reportDate); err != nil {
			r.logger.Error().Err(err).Str("group", summary.GroupName).Msg("Failed to save group report file")
		}
	}

	r.notifier.Send(ctx, content, reportDate, summaries)

	r.logger.Info().Str("path", path).Msg("Daily report completed")
	return path, nil
}

// processGroup builds the summary record for one group.
// A returned error is always a summarization failure and fatal to the run.
func (r *Reporter) processGroup(ctx context.Context, group string, date time.Time) (models.GroupSummary, error) {
	logger := r.logger.With().Str("group", group).Logger()
	logger.Info().Msg("Processing group")

	window := chatlog.ResolveWindow(date, r.cfg.BoundaryHour)
	logs, err := r.client.FetchAll(ctx, group, window.QueryRange(), r.cfg.MaxMessages)
	if err != nil {
		// Transport failures degrade: keep whatever was fetched and
		// carry on with the other groups.
		logger.Warn().Err(err).Int("partial", len(logs)).Msg("Chat log retrieval incomplete")
	}

	if len(logs) == 0 {
		logger.Warn().Msg("No chat logs found")
		return models.GroupSummary{
			GroupName: group,
			Summary:   fmt.Sprintf(placeholderSummary, group),
		}, nil
	}

	digest, err := r.summarizer.Summarize(ctx, logs, group)
	if err != nil {
		logger.Error().Err(err).Msg("Summarization failed, aborting run")
		return models.GroupSummary{}, err
	}

	messageCount := transcript.CountText(logs)
	logger.Info().Int("message_count", messageCount).Msg("Generated group summary")

	return models.GroupSummary{
		GroupName:    group,
		Summary:      digest,
		MessageCount: messageCount,
	}, nil
}

// RangeResult aggregates the outcome of a date-range run
type RangeResult struct {
	Generated int
	Skipped   int
}

// RunRange generates one report per date in [startDate, endDate],
// continuing past individual-date failures. The range itself is
// validated before any work begins.
func (r *Reporter) RunRange(ctx context.Context, startDate, endDate string) (RangeResult, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return RangeResult{}, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return RangeResult{}, err
	}
	if start.After(end) {
		return RangeResult{}, fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}

	var result RangeResult
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		dateStr := date.Format(dateLayout)
		path, err := r.Run(ctx, dateStr)
		if err != nil {
			result.Skipped++
			r.logger.Error().Err(err).Str("date", dateStr).Msg("Report generation failed for date")
			fmt.Printf("❌ %s: %v\n", dateStr, err)
			continue
		}
		result.Generated++
		fmt.Printf("✅ %s: %s\n", dateStr, path)
	}

	r.logger.Info().
		Int("generated", result.Generated).
		Int("skipped", result.Skipped).
		Msg("Date range run completed")
	return result, nil
}

// ParseDate validates and parses a YYYY-MM-DD calendar date
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}
