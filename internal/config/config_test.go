package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/llm"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9000,
		"llm_provider": "anthropic",
		"render_timeout": "45s",
		"llm_timeout": 90,
		"tailor_policy": "keep_original",
		"use_browser": true
	}`

	cfg, err := LoadConfig(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, Duration(45*time.Second), cfg.RenderTimeout)
	assert.Equal(t, Duration(90*time.Second), cfg.LLMTimeout)
	assert.Equal(t, "keep_original", cfg.TailorPolicy)
	assert.True(t, cfg.UseBrowser)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"render_timeout": "soon"}`))
	assert.Error(t, err)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Port: 9000, LLMProvider: "gemini"}
	err := cfg.ApplyEnv(env(map[string]string{
		"PORT":               "7070",
		"DATABASE_URL":       "postgres://localhost/resume",
		"LLM_PROVIDER":       "anthropic",
		"ANTHROPIC_API_KEY":  "sk-test",
		"RENDER_TIMEOUT":     "10s",
		"LLM_TIMEOUT":        "15",
		"TAILOR_CONCURRENCY": "8",
		"TAILOR_POLICY":      "keep_original",
		"ALLOWED_ORIGINS":    "https://a.example.com, https://b.example.com,",
		"USE_BROWSER":        "true",
		"RATE_LIMIT":         "2.5",
		"SCRATCH_DIR":        "",
	}))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "postgres://localhost/resume", cfg.DatabaseURL)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, Duration(10*time.Second), cfg.RenderTimeout)
	assert.Equal(t, Duration(15*time.Second), cfg.LLMTimeout)
	assert.Equal(t, 8, cfg.TailorConcurrency)
	assert.Equal(t, "keep_original", cfg.TailorPolicy)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Empty(t, cfg.ScratchDir)
}

func TestApplyEnv_Invalid(t *testing.T) {
	for _, vars := range []map[string]string{
		{"PORT": "eighty"},
		{"RENDER_TIMEOUT": "later"},
		{"USE_BROWSER": "maybe"},
		{"RATE_LIMIT": "fast"},
	} {
		cfg := &Config{}
		assert.Error(t, cfg.ApplyEnv(env(vars)), "%v", vars)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"port", Config{Port: 70000}, "port"},
		{"concurrency", Config{TailorConcurrency: -1}, "tailor_concurrency"},
		{"provider", Config{LLMProvider: "openai"}, "llm_provider"},
		{"policy", Config{TailorPolicy: "lenient"}, "tailoring policy"},
		{"log format", Config{LogFormat: "xml"}, "log_format"},
		{"timeout", Config{RenderTimeout: Duration(-time.Second)}, "timeouts"},
		{"template", Config{Template: "/nonexistent/resume.tex.tmpl"}, "template file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Port:        9000,
		LLMProvider: "anthropic",
	}

	merged := partial.MergeWithDefaults(Defaults())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "anthropic", merged.LLMProvider)
	assert.Equal(t, "pdflatex", merged.PDFLatexPath)
	assert.Equal(t, "strict", merged.TailorPolicy)
	assert.Equal(t, Duration(30*time.Second), merged.RenderTimeout)
	assert.Equal(t, Duration(llm.DefaultTimeout), merged.LLMTimeout)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Port: 1234}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, 1234, merged.Port)
	assert.Empty(t, merged.ScratchDir)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `{"port": 9000, "tailor_concurrency": 2}`)
	t.Setenv("PORT", "9100")
	t.Setenv("LLM_PROVIDER", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 2, cfg.TailorConcurrency)
	assert.Equal(t, "gemini", cfg.LLMProvider)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("TAILOR_POLICY", "bogus")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLLMConfig(t *testing.T) {
	cfg := Defaults()
	cfg.LLMProvider = "anthropic"
	cfg.LLMTimeout = Duration(5 * time.Second)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderAnthropic, lc.Provider)
	assert.Equal(t, 5*time.Second, lc.Timeout)
}

func TestScratchDirs(t *testing.T) {
	cfg := Config{ScratchDir: "/tmp/ra"}
	assert.Equal(t, filepath.Join("/tmp/ra", "resumes"), cfg.ResumeScratchDir())
	assert.Equal(t, filepath.Join("/tmp/ra", "cover_letters"), cfg.LetterScratchDir())
}
