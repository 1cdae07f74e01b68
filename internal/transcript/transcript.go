// Package transcript turns raw chat records into clean display transcripts.
//
// Normalization is pure and total: malformed records never fail the
// pipeline, they either degrade (bad timestamps render as-is) or drop
// (images, empty bodies).
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/wechat-daily-report/internal/models"
)

const (
	// shortTimeLayout is used when feeding a summarizer
	shortTimeLayout = "01-02 15:04"

	// longTimeLayout keeps the year for human-readable exports
	longTimeLayout = "2006-01-02 15:04"

	// selfMarker is appended to sender names of messages sent by the
	// account owner
	selfMarker = " [我]"

	// otherMessagePlaceholder stands in for structured messages without
	// any usable text
	otherMessagePlaceholder = "[其他消息]"
)

// FormatMessage normalizes one raw record into a display line.
// The second return value reports whether the record produced a line;
// images and records without renderable text are dropped.
func FormatMessage(msg models.RawMessage) (string, bool) {
	return formatMessage(msg, shortTimeLayout)
}

func formatMessage(msg models.RawMessage, layout string) (string, bool) {
	body, ok := formatBody(msg)
	if !ok || strings.TrimSpace(body) == "" {
		return "", false
	}

	sender := msg.SenderName
	if msg.IsSelf {
		sender += selfMarker
	}

	return fmt.Sprintf("[%s] %s: %s", formatTime(msg.Time, layout), sender, body), true
}

// formatBody dispatches on the message type tag
func formatBody(msg models.RawMessage) (string, bool) {
	switch msg.Type {
	case models.MsgTypeText:
		return msg.Content, true

	case models.MsgTypeImage:
		return "", false

	case models.MsgTypeApp:
		switch {
		case msg.SubType == models.SubTypeLinkShare:
			body := fmt.Sprintf("[分享] [%s]", msg.Contents.Title)
			if msg.Contents.URL != "" {
				body += fmt.Sprintf("(%s)", msg.Contents.URL)
			}
			return body, true

		case msg.SubType == models.SubTypeQuoteReply && msg.Contents.Refer != nil:
			refer := msg.Contents.Refer
			referSender := refer.SenderName
			if refer.IsSelf {
				referSender += selfMarker
			}
			return fmt.Sprintf("%s\n  └ 回复 %s: %s", msg.Content, referSender, refer.Content), true

		default:
			if msg.Content != "" {
				return msg.Content, true
			}
			return otherMessagePlaceholder, true
		}

	default:
		// Other kinds only survive when they carry actual text
		if strings.TrimSpace(msg.Content) != "" {
			return msg.Content, true
		}
		return "", false
	}
}

// formatTime reduces an ISO-8601 timestamp to the given layout.
// A timestamp that fails to parse is passed through unmodified rather
// than failing the record.
func formatTime(value, layout string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format(layout)
}

// Assemble normalizes an ordered sequence of raw records into a single
// transcript. When window is positive only the last window surviving
// lines are retained (oldest first), which bounds the request size fed
// to remote summarizers; window <= 0 keeps everything.
func Assemble(logs []models.RawMessage, window int) string {
	return assemble(logs, window, shortTimeLayout)
}

// AssembleExport builds the untruncated, year-qualified transcript used
// for human-readable exports.
func AssembleExport(logs []models.RawMessage) string {
	return assemble(logs, 0, longTimeLayout)
}

func assemble(logs []models.RawMessage, window int, layout string) string {
	lines := make([]string, 0, len(logs))
	for _, msg := range logs {
		if line, ok := formatMessage(msg, layout); ok {
			lines = append(lines, line)
		}
	}
	if window > 0 && len(lines) > window {
		lines = lines[len(lines)-window:]
	}
	return strings.Join(lines, "\n")
}

// CountText counts plain text messages, the figure reported as a group's
// message count
func CountText(logs []models.RawMessage) int {
	count := 0
	for _, msg := range logs {
		if msg.Type == models.MsgTypeText {
			count++
		}
	}
	return count
}
