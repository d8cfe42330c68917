package parser

import (
	"os"
	"strconv"
	"time"
)

// Config gates and bounds the LLM fallback path. Both EnableLLMFallback
// and ComplianceAcknowledged must be true for the fallback to run at
// all — a single flag is not enough to turn on a path that ships
// arbitrary inventory content to a third-party model.
type Config struct {
	EnableLLMFallback      bool
	ComplianceAcknowledged bool
	TruncateLimit          int
	Timeout                time.Duration
}

// LoadConfigFromEnv reads ENABLE_LLM_FALLBACK, LLM_COMPLIANCE_ACKNOWLEDGED,
// LLM_FALLBACK_TRUNCATE_LIMIT (default 8000), and LLM_FALLBACK_TIMEOUT
// (default 60s), mirroring pkg/database/config.go's env-driven loading.
func LoadConfigFromEnv() Config {
	return Config{
		EnableLLMFallback:      getEnvBool("ENABLE_LLM_FALLBACK", false),
		ComplianceAcknowledged: getEnvBool("LLM_COMPLIANCE_ACKNOWLEDGED", false),
		TruncateLimit:          getEnvInt("LLM_FALLBACK_TRUNCATE_LIMIT", 8000),
		Timeout:                getEnvDuration("LLM_FALLBACK_TIMEOUT", 60*time.Second),
	}
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
