package config

import (
	"os"
	"strings"
	"time"
)

const (
	baseURLEnvKey = "EASEABILL_API_URL"

	// Android emulators cannot reach the host via localhost; they use the
	// magic 10.0.2.2 loopback alias instead.
	emulatorBaseURL = "http://10.0.2.2:8000/api"
	defaultBaseURL  = "http://localhost:8000/api"

	defaultTimeoutSeconds = 30
)

type ApiConfig struct {
	URL            string `yaml:"base-url"`
	TimeoutSeconds int64  `yaml:"timeout-seconds"`
	Emulator       bool   `yaml:"emulator"`
}

// BaseURL resolves the remote API root once at startup: environment
// override first, then the config file, then the platform default.
func (c *ApiConfig) BaseURL() string {
	if env := os.Getenv(baseURLEnvKey); env != "" {
		return strings.TrimRight(env, "/")
	}
	if c.URL != "" {
		return strings.TrimRight(c.URL, "/")
	}
	if c.Emulator {
		return emulatorBaseURL
	}
	return defaultBaseURL
}

func (c *ApiConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
