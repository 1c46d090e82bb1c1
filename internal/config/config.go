package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/edgecheck/internal/domain"
)

// Config is built once at startup and passed to every component. Nothing
// mutates it after Load returns.
type Config struct {
	Host          string // server under test, e.g. "nginx" (compose service name)
	ContentPort   int    // plain content vhost
	ForbiddenPort int    // vhost that must deny access
	TLSPort       int    // TLS-terminated content vhost

	ReadinessAttempts int           // connection attempts before giving up
	ReadinessDelay    time.Duration // sleep between readiness attempts
	ReadinessTimeout  time.Duration // per-attempt timeout
	ReadinessJitter   time.Duration // random extra delay added to ReadinessDelay

	RequestTimeout time.Duration // per-request timeout for endpoint and burst requests

	ContentStatus   int    // status the content vhosts must return
	ExpectedContent string // substring the content body must contain
	ForbiddenStatus int    // status the forbidden vhost must return

	BurstSize       int           // sequential requests per rate-limit probe
	RateLimitStatus int           // status the limiter answers with
	Cooldown        time.Duration // wait for the limiter window to drain

	VerifyTLS bool // verify the TLS vhost certificate; off for self-signed setups

	LogDir          string
	SlackWebhookURL string
}

func Defaults() Config {
	return Config{
		Host:              "nginx",
		ContentPort:       8080,
		ForbiddenPort:     8081,
		TLSPort:           8443,
		ReadinessAttempts: 10,
		ReadinessDelay:    2 * time.Second,
		ReadinessTimeout:  2 * time.Second,
		RequestTimeout:    5 * time.Second,
		ContentStatus:     200,
		ExpectedContent:   "Hello from Nginx!",
		ForbiddenStatus:   403,
		BurstSize:         20,
		RateLimitStatus:   429,
		Cooldown:          3 * time.Second,
		LogDir:            "logs",
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() Config {
	cfg := Defaults()
	applyEnv(&cfg)
	return cfg
}

// Load reads the optional YAML file at path, then applies environment
// overrides on top. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		fc.apply(&cfg)
	}
	applyEnv(&cfg)
	return cfg, nil
}

type namedInt struct {
	name  string
	value int
}

// Validate reports every problem at once rather than stopping at the first.
func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Host) == "" {
		err = multierr.Append(err, errors.New("host is empty"))
	}
	for _, p := range []namedInt{
		{"content_port", c.ContentPort},
		{"forbidden_port", c.ForbiddenPort},
		{"tls_port", c.TLSPort},
	} {
		if p.value < 1 || p.value > 65535 {
			err = multierr.Append(err, fmt.Errorf("%s %d out of range", p.name, p.value))
		}
	}
	if c.ReadinessAttempts < 1 {
		err = multierr.Append(err, fmt.Errorf("readiness_attempts must be >= 1, got %d", c.ReadinessAttempts))
	}
	if c.ReadinessTimeout <= 0 {
		err = multierr.Append(err, errors.New("readiness_timeout must be positive"))
	}
	if c.RequestTimeout <= 0 {
		err = multierr.Append(err, errors.New("request_timeout must be positive"))
	}
	if c.BurstSize < 2 {
		// one request can never be both allowed and limited
		err = multierr.Append(err, fmt.Errorf("burst_size must be >= 2, got %d", c.BurstSize))
	}
	for _, s := range []namedInt{
		{"content_status", c.ContentStatus},
		{"forbidden_status", c.ForbiddenStatus},
		{"rate_limit_status", c.RateLimitStatus},
	} {
		if s.value < 100 || s.value > 599 {
			err = multierr.Append(err, fmt.Errorf("%s %d is not an HTTP status", s.name, s.value))
		}
	}
	if c.RateLimitStatus == 200 {
		err = multierr.Append(err, errors.New("rate_limit_status must differ from 200"))
	}
	if c.ReadinessDelay < 0 || c.Cooldown < 0 || c.ReadinessJitter < 0 {
		err = multierr.Append(err, errors.New("delays must not be negative"))
	}
	return err
}

func (c Config) ContentTarget() domain.ProbeTarget {
	return domain.ProbeTarget{Host: c.Host, Port: c.ContentPort, Scheme: domain.SchemeHTTP, VerifyCertificate: true}
}

func (c Config) ForbiddenTarget() domain.ProbeTarget {
	return domain.ProbeTarget{Host: c.Host, Port: c.ForbiddenPort, Scheme: domain.SchemeHTTP, VerifyCertificate: true}
}

func (c Config) TLSTarget() domain.ProbeTarget {
	return domain.ProbeTarget{Host: c.Host, Port: c.TLSPort, Scheme: domain.SchemeHTTPS, VerifyCertificate: c.VerifyTLS}
}

func (c Config) ContentExpectation() domain.ContentExpectation {
	return domain.ContentExpectation{StatusCode: c.ContentStatus, BodySubstring: c.ExpectedContent}
}

func (c Config) ForbiddenExpectation() domain.ContentExpectation {
	return domain.ContentExpectation{StatusCode: c.ForbiddenStatus}
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv("EDGECHECK_HOST")); v != "" {
		c.Host = v
	}
	envInt("CONTENT_PORT", &c.ContentPort)
	envInt("FORBIDDEN_PORT", &c.ForbiddenPort)
	envInt("TLS_PORT", &c.TLSPort)
	envInt("READINESS_ATTEMPTS", &c.ReadinessAttempts)
	envSeconds("READINESS_DELAY_SECONDS", &c.ReadinessDelay)
	envSeconds("READINESS_TIMEOUT_SECONDS", &c.ReadinessTimeout)
	envMillis("READINESS_JITTER_MS", &c.ReadinessJitter)
	envSeconds("REQUEST_TIMEOUT_SECONDS", &c.RequestTimeout)
	envInt("CONTENT_STATUS", &c.ContentStatus)
	if v, ok := os.LookupEnv("EXPECTED_CONTENT"); ok {
		c.ExpectedContent = v
	}
	envInt("FORBIDDEN_STATUS", &c.ForbiddenStatus)
	envInt("BURST_SIZE", &c.BurstSize)
	envInt("RATE_LIMIT_STATUS", &c.RateLimitStatus)
	envSeconds("COOLDOWN_SECONDS", &c.Cooldown)
	if v := os.Getenv("VERIFY_TLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.VerifyTLS = b
		}
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		c.SlackWebhookURL = v
	}
}

// unparsable values keep the current setting, like the rest of the env layer
func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envSeconds(name string, dst *time.Duration) {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			*dst = time.Duration(f * float64(time.Second))
		}
	}
}

func envMillis(name string, dst *time.Duration) {
	if v := os.Getenv(name); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			*dst = time.Duration(ms) * time.Millisecond
		}
	}
}
