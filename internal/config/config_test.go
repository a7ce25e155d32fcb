package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty file gets defaults",
			yaml: ``,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, "craigslist.org", cfg.Craigslist.Domain)
				assert.Equal(t, "newyork", cfg.Craigslist.DefaultLocation)
				assert.Equal(t, "sss", cfg.Craigslist.DefaultCategory)
				assert.Equal(t, 20, cfg.Craigslist.MinPageRows)
				assert.Equal(t, 120, cfg.Craigslist.MaxResults)
				assert.Equal(t, 25, cfg.Craigslist.DefaultResults)
				assert.Equal(t, 4, cfg.Craigslist.MaxConcurrency)
				assert.Equal(t, 30*time.Second, cfg.Craigslist.RequestTimeout)
				assert.Equal(t, "resty", cfg.Craigslist.Backend)
				assert.Equal(t, "US", cfg.Craigslist.PhoneRegion)
				assert.InDelta(t, 2.0, cfg.Craigslist.RateLimit.PerSecond, 0.001)
				assert.Equal(t, 4, cfg.Craigslist.RateLimit.Burst)
				assert.Zero(t, cfg.Craigslist.RateLimit.MaxPerHour)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, "craigslist-search", cfg.Telemetry.ServiceName)
				assert.False(t, cfg.Telemetry.Enabled())
			},
		},
		{
			name: "partial section keeps other defaults",
			yaml: `
craigslist:
  backend: colly
  rate_limit:
    max_per_hour: 600
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "colly", cfg.Craigslist.Backend)
				assert.Equal(t, int64(600), cfg.Craigslist.RateLimit.MaxPerHour)
				assert.Equal(t, 4, cfg.Craigslist.RateLimit.Burst)
				assert.Equal(t, "craigslist.org", cfg.Craigslist.Domain)
			},
		},
		{
			name: "env var substitution",
			yaml: `
craigslist:
  user_agent: "${TEST_CLS_USER_AGENT}"
telemetry:
  otlp_endpoint: "${TEST_CLS_OTLP}"
`,
			envVars: map[string]string{
				"TEST_CLS_USER_AGENT": "research-bot/1.0",
				"TEST_CLS_OTLP":       "otel-collector:4317",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "research-bot/1.0", cfg.Craigslist.UserAgent)
				assert.Equal(t, "otel-collector:4317", cfg.Telemetry.OTLPEndpoint)
				assert.True(t, cfg.Telemetry.Enabled())
			},
		},
		{
			name: "invalid backend",
			yaml: `
craigslist:
  backend: chromedp
`,
			wantErr: `craigslist.backend must be one of: resty, colly (got "chromedp")`,
		},
		{
			name: "default results above max results",
			yaml: `
craigslist:
  max_results: 50
  default_results: 60
`,
			wantErr: "craigslist.default_results must be between 1 and max_results 50 (got 60)",
		},
		{
			name: "negative concurrency",
			yaml: `
craigslist:
  max_concurrency: -2
`,
			wantErr: "craigslist.max_concurrency must be positive",
		},
		{
			name: "domain with scheme",
			yaml: `
craigslist:
  domain: https://craigslist.org
`,
			wantErr: "craigslist.domain must be a bare host name",
		},
		{
			name: "negative hourly budget",
			yaml: `
craigslist:
  rate_limit:
    max_per_hour: -1
`,
			wantErr: "craigslist.rate_limit.max_per_hour must not be negative",
		},
		{
			name: "invalid port",
			yaml: `
server:
  port: 70000
`,
			wantErr: "server.port must be between 1 and 65535",
		},
		{
			name: "invalid logging level",
			yaml: `
logging:
  level: verbose
`,
			wantErr: `logging.level must be one of: debug, info, warn, error (got "verbose")`,
		},
		{
			name: "invalid sample ratio",
			yaml: `
telemetry:
  sample_ratio: 1.5
`,
			wantErr: "telemetry.sample_ratio must be between 0 and 1",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 5m
craigslist:
  domain: craigslist.example
  default_location: seattle
  default_category: bik
  min_page_rows: 60
  max_results: 240
  default_results: 40
  max_concurrency: 2
  request_timeout: 10s
  user_agent: custom-agent
  backend: colly
  phone_region: CA
  rate_limit:
    per_second: 0.5
    burst: 1
    max_per_hour: 1000
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  insecure: true
  service_name: cls-dev
  sample_ratio: 0.25
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 5*time.Minute, cfg.Server.WriteTimeout)
				assert.Equal(t, "craigslist.example", cfg.Craigslist.Domain)
				assert.Equal(t, "seattle", cfg.Craigslist.DefaultLocation)
				assert.Equal(t, "bik", cfg.Craigslist.DefaultCategory)
				assert.Equal(t, 60, cfg.Craigslist.MinPageRows)
				assert.Equal(t, 240, cfg.Craigslist.MaxResults)
				assert.Equal(t, 40, cfg.Craigslist.DefaultResults)
				assert.Equal(t, 2, cfg.Craigslist.MaxConcurrency)
				assert.Equal(t, 10*time.Second, cfg.Craigslist.RequestTimeout)
				assert.Equal(t, "custom-agent", cfg.Craigslist.UserAgent)
				assert.Equal(t, "CA", cfg.Craigslist.PhoneRegion)
				assert.InDelta(t, 0.5, cfg.Craigslist.RateLimit.PerSecond, 0.001)
				assert.Equal(t, 1, cfg.Craigslist.RateLimit.Burst)
				assert.Equal(t, int64(1000), cfg.Craigslist.RateLimit.MaxPerHour)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.True(t, cfg.Telemetry.Insecure)
				assert.Equal(t, "cls-dev", cfg.Telemetry.ServiceName)
				assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 0.001)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_JoinsAllErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
craigslist:
  backend: wget
  min_page_rows: -1
logging:
  format: xml
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "craigslist.backend")
	assert.Contains(t, err.Error(), "craigslist.min_page_rows")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestLoad_LocalOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  port: 9000
craigslist:
  default_location: seattle
  backend: resty
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.yaml"), []byte(`
craigslist:
  backend: colly
logging:
  level: debug
`), 0o644))

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "seattle", cfg.Craigslist.DefaultLocation)
	assert.Equal(t, "colly", cfg.Craigslist.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_NoPath(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLocalPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/etc/cls/config.local.yaml", localPath("/etc/cls/config.yaml"))
	assert.Equal(t, "cls.local", localPath("cls"))
}
