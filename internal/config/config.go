package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/wechat-daily-report/internal/models"
)

// Load loads configuration from environment variables.
// It first attempts to load the given dotenv file (optional), then reads
// environment variables. Validation happens before any network activity.
func Load(envFile string) (*models.Config, error) {
	// Try to load .env file (optional, ignore error if not found)
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	config := &models.Config{
		// Chatlog service settings
		APIBaseURL: strings.TrimRight(getEnv("WECHAT_API_BASE_URL", "http://127.0.0.1:5030"), "/"),
		APITimeout: getEnvInt("WECHAT_API_TIMEOUT", 30),

		// Groups
		TargetGroups: getEnvList("TARGET_GROUPS"),

		// Summarization settings
		AIService:    strings.ToLower(getEnv("AI_SERVICE", "local")),
		OpenAIKeys:   getEnvList("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKeys:   getEnvList("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		MaxMessages:  getEnvInt("MAX_MESSAGES_PER_GROUP", 200),
		BoundaryHour: getEnvInt("REPORT_BOUNDARY_HOUR", 5),

		// Proxy settings
		ProxyEnabled: getEnvBool("PROXY_ENABLED", false),
		ProxyHTTP:    getEnv("PROXY_HTTP", ""),
		ProxyHTTPS:   getEnv("PROXY_HTTPS", ""),

		// Email settings (Resend SMTP endpoint by default)
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.resend.com"),
		SMTPPort:          getEnvInt("SMTP_PORT", 465),
		SMTPUsername:      getEnv("SMTP_USERNAME", "resend"),
		SMTPPassword:      getEnv("SMTP_PASSWORD", os.Getenv("RESEND_API_KEY")),
		FromEmail:         getEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev"),

		// SiYuan settings
		SiyuanEnabled:    getEnvBool("SIYUAN_ENABLED", false),
		SiyuanBaseURL:    strings.TrimRight(getEnv("SIYUAN_BASE_URL", "http://127.0.0.1:6806"), "/"),
		SiyuanNotebookID: getEnv("SIYUAN_NOTEBOOK_ID", "20250207155248-so9nz4m"),
		SiyuanAuthToken:  getEnv("SIYUAN_AUTH_TOKEN", ""),
		SiyuanSaveGroups: getEnvBool("SIYUAN_SAVE_INDIVIDUAL_GROUPS", false),

		// Output settings
		ReportDir: getEnv("REPORT_OUTPUT_DIR", "reports"),

		// Schedule settings
		ScheduleTime: getEnv("SCHEDULE_TIME", "08:00"),

		// App settings
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "production"),
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks if all required configuration values are set
func validate(cfg *models.Config) error {
	if len(cfg.TargetGroups) == 0 {
		return fmt.Errorf("TARGET_GROUPS must be configured")
	}
	if cfg.APITimeout <= 0 {
		return fmt.Errorf("WECHAT_API_TIMEOUT must be positive, got %d", cfg.APITimeout)
	}
	if cfg.MaxMessages <= 0 {
		return fmt.Errorf("MAX_MESSAGES_PER_GROUP must be positive, got %d", cfg.MaxMessages)
	}
	if cfg.BoundaryHour < 0 || cfg.BoundaryHour > 23 {
		return fmt.Errorf("REPORT_BOUNDARY_HOUR must be between 0 and 23, got %d", cfg.BoundaryHour)
	}

	switch cfg.AIService {
	case "local":
		// no credentials needed
	case "openai":
		if cfg.OpenAIKey() == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for AI_SERVICE=openai")
		}
		if cfg.OpenAIModel == "" {
			return fmt.Errorf("OPENAI_MODEL is required for AI_SERVICE=openai")
		}
	case "gemini":
		if cfg.GeminiKey() == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for AI_SERVICE=gemini")
		}
		if cfg.GeminiModel == "" {
			return fmt.Errorf("GEMINI_MODEL is required for AI_SERVICE=gemini")
		}
	default:
		return fmt.Errorf("unsupported AI service: %s", cfg.AIService)
	}

	if cfg.ProxyEnabled && cfg.ProxyHTTP == "" && cfg.ProxyHTTPS == "" {
		return fmt.Errorf("PROXY_ENABLED is set but no proxy URL is configured")
	}

	if cfg.SiyuanEnabled && cfg.SiyuanNotebookID == "" {
		return fmt.Errorf("SIYUAN_NOTEBOOK_ID is required when SIYUAN_ENABLED is set")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %s", cfg.LogLevel)
	}

	return nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves environment variable as integer or returns default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvBool retrieves environment variable as boolean or returns default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.EqualFold(valueStr, "true") || valueStr == "1"
}

// getEnvList splits a comma separated environment variable,
// trimming whitespace and dropping empty entries. Order is preserved.
func getEnvList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
