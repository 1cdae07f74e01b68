package notify

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
	simplemail "github.com/xhit/go-simple-mail/v2"
)

// EmailSender delivers the daily report over SMTP. The defaults target
// Resend's SMTP endpoint but any server works.
type EmailSender struct {
	server    *simplemail.SMTPServer
	fromEmail string
	logger    zerolog.Logger
}

// NewEmailSender creates an email sender from configuration
func NewEmailSender(cfg *models.Config, logger zerolog.Logger) *EmailSender {
	server := simplemail.NewSMTPClient()
	server.Host = cfg.SMTPHost
	server.Port = cfg.SMTPPort
	server.Username = cfg.SMTPUsername
	server.Password = cfg.SMTPPassword
	server.Encryption = simplemail.EncryptionSSLTLS
	return &EmailSender{
		server:    server,
		fromEmail: cfg.FromEmail,
		logger:    logger.With().Str("component", "email").Logger(),
	}
}

// SendReport sends one report email: HTML body derived from the Markdown
// report, with the raw Markdown as the plain-text alternative
func (e *EmailSender) SendReport(content, reportDate, recipient string) error {
	client, err := e.server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	msg := simplemail.NewMSG().
		SetFrom(fmt.Sprintf("微信日报 <%s>", e.fromEmail)).
		AddTo(recipient).
		SetSubject(fmt.Sprintf("微信群聊每日报告 - %s", reportDate)).
		SetBody(simplemail.TextHTML, renderHTML(content)).
		AddAlternative(simplemail.TextPlain, content)

	if msg.Error != nil {
		return fmt.Errorf("failed to build report email: %w", msg.Error)
	}
	if err := msg.Send(client); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}

	e.logger.Info().Str("recipient", recipient).Str("date", reportDate).Msg("Email report sent")
	return nil
}
