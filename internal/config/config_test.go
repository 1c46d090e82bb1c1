package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/hamed0406/edgecheck/internal/domain"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("EDGECHECK_HOST", "proxy")
	t.Setenv("CONTENT_PORT", "9080")
	t.Setenv("TLS_PORT", "9443")
	t.Setenv("READINESS_ATTEMPTS", "5")
	t.Setenv("READINESS_DELAY_SECONDS", "0.5")
	t.Setenv("READINESS_JITTER_MS", "250")
	t.Setenv("BURST_SIZE", "30")
	t.Setenv("COOLDOWN_SECONDS", "1")
	t.Setenv("EXPECTED_CONTENT", "Welcome")
	t.Setenv("VERIFY_TLS", "true")
	t.Setenv("FORBIDDEN_STATUS", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "proxy", cfg.Host)
	assert.Equal(t, 9080, cfg.ContentPort)
	assert.Equal(t, 8081, cfg.ForbiddenPort, "unset port keeps default")
	assert.Equal(t, 9443, cfg.TLSPort)
	assert.Equal(t, 5, cfg.ReadinessAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.ReadinessDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadinessJitter)
	assert.Equal(t, 30, cfg.BurstSize)
	assert.Equal(t, time.Second, cfg.Cooldown)
	assert.Equal(t, "Welcome", cfg.ExpectedContent)
	assert.True(t, cfg.VerifyTLS)
	assert.Equal(t, 403, cfg.ForbiddenStatus, "bad value keeps default")
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edgecheck.yaml")
	yml := `
host: staging-proxy
forbidden_port: 9081
burst_size: 50
cooldown_seconds: 0.25
expected_body_substring: "It works"
verify_tls: false
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("BURST_SIZE", "40")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging-proxy", cfg.Host)
	assert.Equal(t, 9081, cfg.ForbiddenPort)
	assert.Equal(t, 40, cfg.BurstSize, "env wins over file")
	assert.Equal(t, 250*time.Millisecond, cfg.Cooldown)
	assert.Equal(t, "It works", cfg.ExpectedContent)
	assert.Equal(t, 8080, cfg.ContentPort, "keys absent from the file keep defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Host, cfg.Host)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Host = " "
	cfg.TLSPort = 70000
	cfg.BurstSize = 1
	cfg.RateLimitStatus = 200

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
}

func TestValidate_StableOrder(t *testing.T) {
	cfg := Defaults()
	cfg.ContentPort = 0
	cfg.ForbiddenPort = -1
	cfg.TLSPort = 70000
	cfg.ContentStatus = 1
	cfg.ForbiddenStatus = 700
	cfg.RateLimitStatus = 99

	want := []string{
		"content_port 0 out of range",
		"forbidden_port -1 out of range",
		"tls_port 70000 out of range",
		"content_status 1 is not an HTTP status",
		"forbidden_status 700 is not an HTTP status",
		"rate_limit_status 99 is not an HTTP status",
	}
	for i := 0; i < 20; i++ {
		var got []string
		for _, err := range multierr.Errors(cfg.Validate()) {
			got = append(got, err.Error())
		}
		require.Equal(t, want, got)
	}
}

func TestTargets(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "http://nginx:8080/", cfg.ContentTarget().URL())
	assert.Equal(t, "http://nginx:8081/", cfg.ForbiddenTarget().URL())

	tls := cfg.TLSTarget()
	assert.Equal(t, domain.SchemeHTTPS, tls.Scheme)
	assert.False(t, tls.VerifyCertificate, "self-signed certs are tolerated by default")

	assert.Equal(t, domain.ContentExpectation{StatusCode: 200, BodySubstring: "Hello from Nginx!"}, cfg.ContentExpectation())
	assert.Equal(t, domain.ContentExpectation{StatusCode: 403}, cfg.ForbiddenExpectation())
}
