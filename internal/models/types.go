package models

import "time"

// Message type tags used by the chatlog service.
const (
	// MsgTypeText is a plain text message
	MsgTypeText = 1

	// MsgTypeImage is an image message (not renderable as text)
	MsgTypeImage = 3

	// MsgTypeApp is a structured message (link share, quote reply, ...)
	// whose meaning depends on SubType
	MsgTypeApp = 49
)

// Sub types of MsgTypeApp messages.
const (
	// SubTypeLinkShare is a shared link with title and url
	SubTypeLinkShare = 51

	// SubTypeQuoteReply is a reply quoting an earlier message
	SubTypeQuoteReply = 57
)

// ReferencedMessage is the quoted message embedded in a quote reply
type ReferencedMessage struct {
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	IsSelf     bool   `json:"isSelf"`
}

// MessageContents carries the structured payload of MsgTypeApp messages.
// It is only meaningful when Type == MsgTypeApp.
type MessageContents struct {
	Title string             `json:"title,omitempty"`
	URL   string             `json:"url,omitempty"`
	Refer *ReferencedMessage `json:"refer,omitempty"`
}

// RawMessage represents one chat record as returned by the chatlog API
type RawMessage struct {
	Time       string          `json:"time"` // ISO-8601 with offset
	SenderName string          `json:"senderName"`
	IsSelf     bool            `json:"isSelf"`
	Content    string          `json:"content"`
	Type       int             `json:"type"`
	SubType    int             `json:"subType"`
	Contents   MessageContents `json:"contents"`
}

// ChatRoom represents a group chat listed by the chatlog API
type ChatRoom struct {
	Name     string `json:"name"`
	NickName string `json:"nickName"`
	Remark   string `json:"remark,omitempty"`
}

// ReportWindow is the half-open [Start, End) interval a daily report covers.
// It always spans 24 hours anchored at the configured boundary hour.
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

// windowLayout is the minute-precision format used in the chatlog
// time query parameter
const windowLayout = "2006-01-02 15:04"

// QueryRange renders the window in the chatlog API time-range syntax.
// When both bounds format identically the single value is returned on its
// own: the service treats a lone date string as "that whole day", and the
// collapse keeps the query compatible with that convention.
func (w ReportWindow) QueryRange() string {
	start := w.Start.Format(windowLayout)
	end := w.End.Format(windowLayout)
	if start == end {
		return start
	}
	return start + "~" + end
}

// GroupSummary holds the digest produced for one group during a report run
type GroupSummary struct {
	GroupName    string `json:"group_name"`
	Summary      string `json:"summary"`
	MessageCount int    `json:"message_count"`
}

// DailyReport is the assembled multi-group report for one date
type DailyReport struct {
	ReportDate    string
	GeneratedAt   time.Time
	GroupCount    int
	TotalMessages int
	Sections      []GroupSummary
}

// Config represents reporter configuration
type Config struct {
	// Chatlog service settings
	APIBaseURL string
	APITimeout int

	// Groups to report on, in configured order
	TargetGroups []string

	// Summarization settings
	AIService    string // local, openai or gemini
	OpenAIKeys   []string
	OpenAIModel  string
	GeminiKeys   []string
	GeminiModel  string
	MaxMessages  int
	BoundaryHour int

	// Proxy settings for summarizer calls
	ProxyEnabled bool
	ProxyHTTP    string
	ProxyHTTPS   string

	// Email notification settings
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	FromEmail         string

	// SiYuan notes settings
	SiyuanEnabled    bool
	SiyuanBaseURL    string
	SiyuanNotebookID string
	SiyuanAuthToken  string
	SiyuanSaveGroups bool

	// Output settings
	ReportDir string

	// Schedule settings (schedule command)
	ScheduleTime string // HH:MM

	// App settings
	LogLevel    string
	Environment string
}

// OpenAIKey returns the first configured OpenAI credential.
// Multiple keys may be configured as an interchangeable pool; only the
// first non-empty one is used.
func (c *Config) OpenAIKey() string {
	return firstKey(c.OpenAIKeys)
}

// GeminiKey returns the first configured Gemini credential
func (c *Config) GeminiKey() string {
	return firstKey(c.GeminiKeys)
}

func firstKey(keys []string) string {
	for _, k := range keys {
		if k != "" {
			return k
		}
	}
	return ""
}
