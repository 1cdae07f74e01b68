package summarizer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
	"github.com/wechat-daily-report/internal/transcript"
)

// topicKeywords is the fixed vocabulary the local heuristic counts
var topicKeywords = []string{"会议", "时间", "地点", "明天", "今天", "项目", "工作"}

// Local is a summarizer that does no network I/O. It extracts a bounded
// statistical digest: participant count, text message count and the
// frequency of a small fixed topic vocabulary.
type Local struct {
	logger zerolog.Logger
}

// NewLocal creates a local heuristic summarizer
func NewLocal(logger zerolog.Logger) *Local {
	return &Local{
		logger: logger.With().Str("component", "summarizer_local").Logger(),
	}
}

// Name implements Summarizer
func (l *Local) Name() string { return "local" }

// TestConnection implements Summarizer. The local variant has nothing to
// reach, so it always reports success.
func (l *Local) TestConnection(ctx context.Context) bool { return true }

// Summarize implements Summarizer. It never fails.
func (l *Local) Summarize(ctx context.Context, logs []models.RawMessage, groupName string) (string, error) {
	if len(logs) == 0 {
		return emptyGroupDigest(groupName), nil
	}

	totalMessages := transcript.CountText(logs)
	senders := make(map[string]struct{})
	keywords := make(map[string]int)

	for _, msg := range logs {
		if msg.Type != models.MsgTypeText {
			continue
		}
		senders[msg.SenderName] = struct{}{}
		content := strings.ToLower(msg.Content)
		for _, word := range topicKeywords {
			if strings.Contains(content, word) {
				keywords[word]++
			}
		}
	}

	l.logger.Debug().
		Str("group", groupName).
		Int("messages", totalMessages).
		Int("senders", len(senders)).
		Msg("Built local summary")

	return fmt.Sprintf(`## 群聊总结：%s

### 基本信息
- 参与人数：%d人
- 消息总数：%d条

### 参与成员
%s

### 热门关键词
%s

*注：这是简单统计总结，如需详细分析请配置AI服务*
`, groupName, len(senders), totalMessages, memberList(senders), keywordList(keywords)), nil
}

// memberList renders up to 10 participant names, sorted for determinism
func memberList(senders map[string]struct{}) string {
	names := make([]string, 0, len(senders))
	for name := range senders {
		names = append(names, name)
	}
	sort.Strings(names)

	suffix := ""
	if len(names) > 10 {
		names = names[:10]
		suffix = "..."
	}
	return strings.Join(names, ", ") + suffix
}

// keywordList renders the top 5 keywords by frequency
func keywordList(keywords map[string]int) string {
	type freq struct {
		word  string
		count int
	}
	frequencies := make([]freq, 0, len(keywords))
	for word, count := range keywords {
		frequencies = append(frequencies, freq{word, count})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].count != frequencies[j].count {
			return frequencies[i].count > frequencies[j].count
		}
		return frequencies[i].word < frequencies[j].word
	})

	if len(frequencies) > 5 {
		frequencies = frequencies[:5]
	}
	parts := make([]string, len(frequencies))
	for i, f := range frequencies {
		parts[i] = fmt.Sprintf("%s(%d次)", f.word, f.count)
	}
	return strings.Join(parts, ", ")
}
