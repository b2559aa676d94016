package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "toml",
			file: "reconciler.toml",
			body: `
target_auto_acceptance_rate = 0.9

[caps]
narratives = 5

[fields]
client_id = ["ClientRef"]

[sources]
actual_url = "https://workflow.example.com/invoices"
timeout = "5s"

[sources.s3]
bucket = "billing-drafts"
archive_reports = true

[log]
level = "debug"
format = "json"
`,
		},
		{
			name: "yaml",
			file: "reconciler.yaml",
			body: `
target_auto_acceptance_rate: 0.9
caps:
  narratives: 5
fields:
  client_id: [ClientRef]
sources:
  actual_url: https://workflow.example.com/invoices
  timeout: 5s
  s3:
    bucket: billing-drafts
    archive_reports: true
log:
  level: debug
  format: json
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.body))
			require.NoError(t, err)

			assert.Equal(t, 0.9, cfg.TargetAutoAcceptanceRate)
			assert.Equal(t, 5, cfg.Caps.Narratives)
			assert.Equal(t, 20, cfg.Caps.Partners, "unset caps keep their defaults")
			assert.Equal(t, []string{"ClientRef"}, cfg.Fields.ClientID)
			assert.Equal(t, Default().Fields.Narrative, cfg.Fields.Narrative)
			assert.Equal(t, "https://workflow.example.com/invoices", cfg.Sources.ActualURL)
			assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
			assert.Equal(t, "billing-drafts", cfg.Sources.S3.Bucket)
			assert.True(t, cfg.Sources.S3.ArchiveReports)
			assert.Equal(t, "json", cfg.Log.Format)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{name: "rate above one", file: "c.toml", body: "target_auto_acceptance_rate = 1.5"},
		{name: "zero cap", file: "c.toml", body: "[caps]\noffices = 0"},
		{name: "empty candidates", file: "c.yaml", body: "fields:\n  service: []"},
		{name: "archive without bucket", file: "c.toml", body: "[sources.s3]\narchive_reports = true"},
		{name: "bad log level", file: "c.toml", body: "[log]\nlevel = \"loud\""},
		{name: "bad log format", file: "c.toml", body: "[log]\nformat = \"xml\""},
		{name: "unsupported extension", file: "c.ini", body: "x=1"},
		{name: "broken toml", file: "c.toml", body: "caps = ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RECON_DRAFT_DIR":                   "/srv/drafts",
		"RECON_ACTUAL_URL":                  "https://workflow.example.com",
		"RECON_TARGET_AUTO_ACCEPTANCE_RATE": "0.75",
		"RECON_SOURCE_TIMEOUT":              "1m",
		"RECON_S3_ARCHIVE_REPORTS":          "true",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookup))

	assert.Equal(t, "/srv/drafts", cfg.Sources.DraftDir)
	assert.Equal(t, "data", cfg.Sources.ActualDir)
	assert.Equal(t, "https://workflow.example.com", cfg.Sources.ActualURL)
	assert.Equal(t, 0.75, cfg.TargetAutoAcceptanceRate)
	assert.Equal(t, time.Minute, cfg.Sources.Timeout)
	assert.True(t, cfg.Sources.S3.ArchiveReports)

	env["RECON_TARGET_AUTO_ACCEPTANCE_RATE"] = "most"
	assert.Error(t, applyEnv(&cfg, lookup))
}

func TestLoadDotEnv(t *testing.T) {
	const key = "RECON_TEST_DOTENV_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeConfig(t, ".env", key+"=from-file\n")
	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLog_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "period", "2025-03-31")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"period":"2025-03-31"`)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
