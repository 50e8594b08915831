package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var managedEnv = []string{
	"NEWS_API_KEY", "TODOIST_API_KEY", "WEATHER_API_KEY", "EMAIL_SENDER", "EMAIL_PASSWORD",
	"BRIEFING_CITY", "BRIEFING_COUNTRY", "BRIEFING_NEWS_KEYWORDS", "BRIEFING_NEWS_LANGUAGES",
	"BRIEFING_NEWS_LIMIT", "BRIEFING_INCLUDE_TASKS", "BRIEFING_SMTP_HOST", "BRIEFING_SMTP_PORT",
	"BRIEFING_REQUEST_TIMEOUT", "BRIEFING_LOG_LEVEL",
}

// clearEnv unsets the variables Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedEnv {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(&CLIOverrides{EnvFile: missingEnvFile(t)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.City != "Rio de Janeiro" || cfg.Country != "BR" {
		t.Fatalf("unexpected default location: %s, %s", cfg.City, cfg.Country)
	}
	if cfg.NewsKeywords != "tecnologia" || cfg.NewsLanguages != "pt" || cfg.NewsSort != "published_desc" || cfg.NewsLimit != 3 {
		t.Fatalf("unexpected default news query: %+v", cfg)
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Fatalf("unexpected default SMTP relay: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.IncludeTasks {
		t.Fatalf("tasks should be disabled by default")
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("unexpected request timeout: %s", cfg.RequestTimeout)
	}
	if cfg.Secrets != (Secrets{}) {
		t.Fatalf("expected empty secrets, got %+v", cfg.Secrets)
	}
}

func TestLoadNilOverrides(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if _, err := Load(nil); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
}

func TestLoadReadsSecretsFromEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "NEWS_API_KEY=news\nWEATHER_API_KEY=weather\nEMAIL_SENDER=me@example.com\nEMAIL_PASSWORD=pw\n")

	cfg, err := Load(&CLIOverrides{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := Secrets{
		NewsAPIKey:    "news",
		WeatherAPIKey: "weather",
		EmailSender:   "me@example.com",
		EmailPassword: "pw",
	}
	if cfg.Secrets != want {
		t.Fatalf("unexpected secrets: %+v", cfg.Secrets)
	}
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWS_API_KEY", "from-process")
	envFile := writeFile(t, ".env", "NEWS_API_KEY=from-file\n")

	cfg, err := Load(&CLIOverrides{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Secrets.NewsAPIKey != "from-process" {
		t.Fatalf("expected process environment to win, got %q", cfg.Secrets.NewsAPIKey)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	yamlFile := writeFile(t, "briefing.yaml", `
weather:
  city: Lisboa
news:
  limit: 5
request_timeout: 5s
rate_limit:
  rps: 0
  burst: 0
tasks:
  enabled: true
`)
	t.Setenv("BRIEFING_CITY", "Porto")
	t.Setenv("BRIEFING_COUNTRY", "PT")
	t.Setenv("BRIEFING_NEWS_LIMIT", "9")

	cfg, err := Load(&CLIOverrides{ConfigFile: yamlFile, EnvFile: missingEnvFile(t)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.City != "Lisboa" {
		t.Fatalf("expected YAML to override environment city, got %s", cfg.City)
	}
	if cfg.Country != "PT" {
		t.Fatalf("expected environment country when YAML omits it, got %s", cfg.Country)
	}
	if cfg.NewsLimit != 5 || cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("expected YAML values, got limit=%d timeout=%s", cfg.NewsLimit, cfg.RequestTimeout)
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != 0 {
		t.Fatalf("expected YAML to disable rate limiting, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.IncludeTasks {
		t.Fatalf("expected YAML to enable tasks")
	}

	city := "Recife"
	noTasks := false
	cfg, err = Load(&CLIOverrides{
		ConfigFile:   yamlFile,
		EnvFile:      missingEnvFile(t),
		City:         &city,
		IncludeTasks: &noTasks,
		DryRun:       true,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.City != "Recife" {
		t.Fatalf("expected CLI to override YAML, got %s", cfg.City)
	}
	if cfg.IncludeTasks {
		t.Fatalf("expected CLI to disable tasks")
	}
	if !cfg.DryRun {
		t.Fatalf("expected dry run to be set")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BRIEFING_INCLUDE_TASKS", "true")
	t.Setenv("BRIEFING_SMTP_PORT", "2525")
	t.Setenv("BRIEFING_REQUEST_TIMEOUT", "3s")
	t.Setenv("BRIEFING_NEWS_LIMIT", "7")
	t.Setenv("BRIEFING_COUNTRY", "PT")
	t.Setenv("BRIEFING_NEWS_KEYWORDS", "inteligência artificial")
	t.Setenv("BRIEFING_NEWS_LANGUAGES", "en")
	t.Setenv("BRIEFING_LOG_LEVEL", "debug")

	cfg, err := Load(&CLIOverrides{EnvFile: missingEnvFile(t)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.IncludeTasks || cfg.SMTPPort != 2525 || cfg.RequestTimeout != 3*time.Second || cfg.NewsLimit != 7 {
		t.Fatalf("environment overrides not applied: %+v", cfg)
	}
	if cfg.Country != "PT" {
		t.Fatalf("expected country PT, got %s", cfg.Country)
	}
	if cfg.NewsKeywords != "inteligência artificial" || cfg.NewsLanguages != "en" {
		t.Fatalf("expected news query overrides, got keywords=%q languages=%q", cfg.NewsKeywords, cfg.NewsLanguages)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("news limit", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BRIEFING_NEWS_LIMIT", "500")
		if _, err := Load(&CLIOverrides{EnvFile: missingEnvFile(t)}); err == nil {
			t.Fatalf("expected error for news limit above maximum")
		}
	})

	t.Run("smtp port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BRIEFING_SMTP_PORT", "70000")
		if _, err := Load(&CLIOverrides{EnvFile: missingEnvFile(t)}); err == nil {
			t.Fatalf("expected error for out of range port")
		}
	})

	t.Run("malformed environment value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BRIEFING_NEWS_LIMIT", "three")
		if _, err := Load(&CLIOverrides{EnvFile: missingEnvFile(t)}); err == nil {
			t.Fatalf("expected error for non-numeric limit")
		}
	})

	t.Run("yaml duration", func(t *testing.T) {
		clearEnv(t)
		yamlFile := writeFile(t, "bad.yaml", "request_timeout: soon\n")
		if _, err := Load(&CLIOverrides{ConfigFile: yamlFile, EnvFile: missingEnvFile(t)}); err == nil {
			t.Fatalf("expected error for invalid duration")
		}
	})

	t.Run("missing yaml", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: missingEnvFile(t)}); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})
}
