package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wechat-daily-report/internal/models"
)

func textMessage(ts, sender, content string) models.RawMessage {
	return models.RawMessage{
		Time:       ts,
		SenderName: sender,
		Content:    content,
		Type:       models.MsgTypeText,
	}
}

func TestFormatMessage_TextVerbatim(t *testing.T) {
	line, ok := FormatMessage(textMessage("2025-01-10T10:05:32+08:00", "张三", "大家早上好"))
	require.True(t, ok)
	assert.Equal(t, "[01-10 10:05] 张三: 大家早上好", line)
}

func TestFormatMessage_SelfMarker(t *testing.T) {
	msg := textMessage("2025-01-10T10:05:32+08:00", "李四", "收到")
	msg.IsSelf = true
	line, ok := FormatMessage(msg)
	require.True(t, ok)
	assert.Equal(t, "[01-10 10:05] 李四 [我]: 收到", line)
}

func TestFormatMessage_ImageDropped(t *testing.T) {
	msg := models.RawMessage{
		Time:       "2025-01-10T10:05:32+08:00",
		SenderName: "张三",
		Content:    "should never render",
		Type:       models.MsgTypeImage,
	}
	_, ok := FormatMessage(msg)
	assert.False(t, ok)
}

func TestFormatMessage_WhitespaceOnlyDropped(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t"} {
		_, ok := FormatMessage(textMessage("2025-01-10T10:05:32+08:00", "张三", content))
		assert.False(t, ok, "content %q should be dropped", content)
	}
}

func TestFormatMessage_UnknownTypeNeedsText(t *testing.T) {
	msg := models.RawMessage{
		Time:       "2025-01-10T10:05:32+08:00",
		SenderName: "系统",
		Type:       10000,
	}
	_, ok := FormatMessage(msg)
	assert.False(t, ok)

	msg.Content = "你邀请了新成员"
	line, ok := FormatMessage(msg)
	require.True(t, ok)
	assert.Contains(t, line, "你邀请了新成员")
}

func TestFormatMessage_LinkShare(t *testing.T) {
	msg := models.RawMessage{
		Time:       "2025-01-10T10:05:32+08:00",
		SenderName: "张三",
		Type:       models.MsgTypeApp,
		SubType:    models.SubTypeLinkShare,
		Contents: models.MessageContents{
			Title: "Go 并发模式",
			URL:   "https://example.com/post",
		},
	}
	line, ok := FormatMessage(msg)
	require.True(t, ok)
	assert.Equal(t, "[01-10 10:05] 张三: [分享] [Go 并发模式](https://example.com/post)", line)
}

func TestFormatMessage_LinkShareWithoutURL(t *testing.T) {
	msg := models.RawMessage{
		Time:       "2025-01-10T10:05:32+08:00",
		SenderName: "张三",
		Type:       models.MsgTypeApp,
		SubType:    models.SubTypeLinkShare,
		Contents:   models.MessageContents{Title: "Go 并发模式"},
	}
	line, ok := FormatMessage(msg)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(line, "[分享] [Go 并发模式]"))
}

func TestFormatMessage_QuoteReply(t *testing.T) {
	msg := models.RawMessage{
		Time:       "2025-01-10T10:05:32+08:00",
		SenderName: "李四",
		Content:    "我觉得可行",
		Type:       models.MsgTypeApp,
		SubType:    models.SubTypeQuoteReply,
		Contents: models.MessageContents{
			Refer: &models.ReferencedMessage{
				SenderName: "张三",
				Content:    "下周上线怎么样",
				IsSelf:     true,
			},
		},
	}
	line, ok := FormatMessage(msg)
	require.True(t, ok)
	assert.Equal(t, "[01-10 10:05] 李四: 我觉得可行\n  └ 回复 张三 [我]: 下周上线怎么样", line)
}

func TestFormatMessage_AppFallback(t *testing.T) {
	msg := models.RawMessage{
		Time:       "2025-01-10T10:05:32+08:00",
		SenderName: "张三",
		Type:       models.MsgTypeApp,
		SubType:    33,
	}
	line, ok := FormatMessage(msg)
	require.True(t, ok)
	assert.Contains(t, line, "[其他消息]")

	msg.Content = "小程序卡片文字"
	line, ok = FormatMessage(msg)
	require.True(t, ok)
	assert.Contains(t, line, "小程序卡片文字")
}

func TestFormatMessage_MalformedTimestampPassedThrough(t *testing.T) {
	line, ok := FormatMessage(textMessage("not-a-timestamp", "张三", "hello"))
	require.True(t, ok)
	assert.Equal(t, "[not-a-timestamp] 张三: hello", line)
}

func TestAssemble_WindowKeepsLastLinesInOrder(t *testing.T) {
	logs := make([]models.RawMessage, 10)
	for i := range logs {
		logs[i] = textMessage("2025-01-10T10:05:32+08:00", "张三", fmt.Sprintf("msg-%d", i))
	}

	out := Assemble(logs, 3)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "msg-7")
	assert.Contains(t, lines[1], "msg-8")
	assert.Contains(t, lines[2], "msg-9")
}

func TestAssemble_UnlimitedAndDrops(t *testing.T) {
	logs := []models.RawMessage{
		textMessage("2025-01-10T08:00:00+08:00", "张三", "first"),
		{Time: "2025-01-10T08:01:00+08:00", SenderName: "张三", Type: models.MsgTypeImage},
		textMessage("2025-01-10T08:02:00+08:00", "李四", "second"),
	}

	out := Assemble(logs, 0)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")
}

func TestAssembleExport_KeepsYear(t *testing.T) {
	out := AssembleExport([]models.RawMessage{
		textMessage("2025-01-10T10:05:32+08:00", "张三", "hello"),
	})
	assert.Equal(t, "[2025-01-10 10:05] 张三: hello", out)
}

func TestCountText(t *testing.T) {
	logs := []models.RawMessage{
		textMessage("2025-01-10T08:00:00+08:00", "张三", "a"),
		textMessage("2025-01-10T08:01:00+08:00", "李四", "b"),
		{Time: "2025-01-10T08:02:00+08:00", SenderName: "张三", Type: models.MsgTypeImage},
		{Time: "2025-01-10T08:03:00+08:00", SenderName: "张三", Type: models.MsgTypeApp, Content: "link"},
	}
	assert.Equal(t, 2, CountText(logs))
}
