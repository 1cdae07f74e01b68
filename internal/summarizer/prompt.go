package summarizer

import "fmt"

// systemPrompt frames the model as a chat-record analyst
const systemPrompt = "你是一个专业的聊天记录分析师，善于从群聊记录中提取关键信息并生成简洁有用的总结。"

// promptTemplate is the structured analysis request sent to remote models.
// %s slots: group name, formatted transcript, group name again.
const promptTemplate = `
请分析群聊 '%s' 的聊天记录，重点关注核心话题、有价值的观点和重要信息分享。忽略没有意义的图片链接、表情符号等内容。

聊天记录：
%s

请按以下格式输出结构化总结：

## 📊 群聊概况
- **群聊名称**: %s
- **活跃成员**: [统计发言人数]
- **消息总数**: [统计有效消息数量]
- **时间跨度**: [记录时间范围]

## 🔥 核心话题
[按重要性排序，列出3-5个主要讨论话题，每个话题包含关键观点]

1. **话题一**:
   - 核心内容:
   - 主要观点:
   - 参与讨论:

2. **话题二**:
   - 核心内容:
   - 主要观点:
   - 参与讨论:

## 💡 有价值信息
[提取重要的信息分享、资源推荐、经验总结等]

- **重要通知**:
- **资源分享**:
- **经验分享**:
- **决策事项**:

## ❓ FAQ 常见问题
[尽可能多的整理群内讨论的有价值的问题和解答]

**Q1**: [问题描述]
**A1**: [解答内容]

**Q2**: [问题描述]
**A2**: [解答内容]

## 🎯 待跟进事项
[需要后续关注或行动的事项]

- [ ] [待办事项1]
- [ ] [待办事项2]

## 📝 备注
[其他值得关注的信息或观察]

---
*本总结基于AI分析生成，如有遗漏请参考原始聊天记录*
`

// buildPrompt renders the analysis request for one group
func buildPrompt(groupName, formattedMessages string) string {
	return fmt.Sprintf(promptTemplate, groupName, formattedMessages, groupName)
}

// auditBlock renders the collapsed full-transcript block appended to every
// remote digest. The model only saw a truncated window; the block always
// carries the complete transcript for audit and traceability.
func auditBlock(fullTranscript string) string {
	return fmt.Sprintf(
		"\n\n<details>\n<summary>📜 完整聊天记录</summary>\n\n```\n%s\n```\n\n</details>",
		fullTranscript,
	)
}

// emptyGroupDigest is returned when a group has no records at all
func emptyGroupDigest(groupName string) string {
	return fmt.Sprintf("群聊 '%s' 暂无聊天记录", groupName)
}
