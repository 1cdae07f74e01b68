// Package notify fans a rendered report out to the configured sinks.
// Sink failures are logged and swallowed: the persisted report file is
// the contract, notification is best effort.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
)

// Service fans out daily reports to console, email and SiYuan
type Service struct {
	cfg    *models.Config
	email  *EmailSender
	siyuan *SiyuanClient
	logger zerolog.Logger
}

// NewService creates a notification service from configuration.
// Sinks without configuration stay nil and are skipped.
func NewService(cfg *models.Config, logger zerolog.Logger) *Service {
	s := &Service{
		cfg:    cfg,
		logger: logger.With().Str("component", "notify").Logger(),
	}
	if cfg.NotificationEmail != "" && cfg.SMTPPassword != "" {
		s.email = NewEmailSender(cfg, logger)
	}
	if cfg.SiyuanEnabled {
		s.siyuan = NewSiyuanClient(cfg.SiyuanBaseURL, cfg.SiyuanNotebookID, cfg.SiyuanAuthToken, logger)
	}
	return s
}

// Siyuan exposes the notes client for diagnostic tooling; nil when the
// sink is disabled
func (s *Service) Siyuan() *SiyuanClient {
	return s.siyuan
}

// EmailConfigured reports whether the email sink is active
func (s *Service) EmailConfigured() bool {
	return s.email != nil
}

// Send fans the report out to every configured sink. Failures are logged
// per sink and never propagated.
func (s *Service) Send(ctx context.Context, content, reportDate string, summaries []models.GroupSummary) {
	s.SendConsole(content, reportDate)

	if s.email != nil {
		if err := s.email.SendReport(content, reportDate, s.cfg.NotificationEmail); err != nil {
			s.logger.Error().Err(err).Msg("Failed to send email report")
		}
	}

	if s.siyuan != nil {
		if err := s.siyuan.SaveDailyReport(ctx, content, reportDate, summaries); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save report to SiYuan")
		} else if s.cfg.SiyuanSaveGroups {
			for _, summary := range summaries {
				if summary.Summary == "" {
					continue
				}
				if err := s.siyuan.SaveGroupReport(ctx, summary.GroupName, summary.Summary, reportDate); err != nil {
					s.logger.Error().
						Err(err).
						Str("group", summary.GroupName).
						Msg("Failed to save group report to SiYuan")
				}
			}
		}
	}
}

// SendConsole echoes the report to stdout
func (s *Service) SendConsole(content, reportDate string) {
	rule := strings.Repeat("=", 60)
	fmt.Println("\n" + rule)
	fmt.Printf("微信群聊每日报告 - %s\n", reportDate)
	fmt.Println(rule)
	fmt.Println(content)
	fmt.Println(rule)
}
