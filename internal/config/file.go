package config

import "time"

// fileConfig mirrors Config for YAML. Pointers distinguish "absent" from zero
// so a file only overrides the keys it sets.
type fileConfig struct {
	Host                       *string  `yaml:"host"`
	ContentPort                *int     `yaml:"content_port"`
	ForbiddenPort              *int     `yaml:"forbidden_port"`
	TLSPort                    *int     `yaml:"tls_port"`
	MaxReadinessAttempts       *int     `yaml:"max_readiness_attempts"`
	ReadinessRetryDelaySeconds *float64 `yaml:"readiness_retry_delay_seconds"`
	ReadinessTimeoutSeconds    *float64 `yaml:"readiness_timeout_seconds"`
	ReadinessJitterMS          *int     `yaml:"readiness_jitter_ms"`
	RequestTimeoutSeconds      *float64 `yaml:"request_timeout_seconds"`
	ContentStatusCode          *int     `yaml:"content_status_code"`
	ExpectedBodySubstring      *string  `yaml:"expected_body_substring"`
	ForbiddenStatusCode        *int     `yaml:"forbidden_status_code"`
	BurstSize                  *int     `yaml:"burst_size"`
	RateLimitStatusCode        *int     `yaml:"rate_limit_status_code"`
	CooldownSeconds            *float64 `yaml:"cooldown_seconds"`
	VerifyTLS                  *bool    `yaml:"verify_tls"`
	LogDir                     *string  `yaml:"log_dir"`
	SlackWebhookURL            *string  `yaml:"slack_webhook_url"`
}

func (f fileConfig) apply(c *Config) {
	setString(f.Host, &c.Host)
	setInt(f.ContentPort, &c.ContentPort)
	setInt(f.ForbiddenPort, &c.ForbiddenPort)
	setInt(f.TLSPort, &c.TLSPort)
	setInt(f.MaxReadinessAttempts, &c.ReadinessAttempts)
	setSeconds(f.ReadinessRetryDelaySeconds, &c.ReadinessDelay)
	setSeconds(f.ReadinessTimeoutSeconds, &c.ReadinessTimeout)
	if f.ReadinessJitterMS != nil {
		c.ReadinessJitter = time.Duration(*f.ReadinessJitterMS) * time.Millisecond
	}
	setSeconds(f.RequestTimeoutSeconds, &c.RequestTimeout)
	setInt(f.ContentStatusCode, &c.ContentStatus)
	setString(f.ExpectedBodySubstring, &c.ExpectedContent)
	setInt(f.ForbiddenStatusCode, &c.ForbiddenStatus)
	setInt(f.BurstSize, &c.BurstSize)
	setInt(f.RateLimitStatusCode, &c.RateLimitStatus)
	setSeconds(f.CooldownSeconds, &c.Cooldown)
	if f.VerifyTLS != nil {
		c.VerifyTLS = *f.VerifyTLS
	}
	setString(f.LogDir, &c.LogDir)
	setString(f.SlackWebhookURL, &c.SlackWebhookURL)
}

func setString(src *string, dst *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(src *int, dst *int) {
	if src != nil {
		*dst = *src
	}
}

func setSeconds(src *float64, dst *time.Duration) {
	if src != nil {
		*dst = time.Duration(*src * float64(time.Second))
	}
}
