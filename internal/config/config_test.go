package config

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("CFG_VALUE", "custom")
	if got := getEnv("CFG_VALUE", "default"); got != "custom" {
		t.Fatalf("getEnv returned %q, want custom", got)
	}

	// Empty environment value should fall back to default
	t.Setenv("CFG_EMPTY", "")
	if got := getEnv("CFG_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("getEnv returned %q, want fallback", got)
	}
}

func TestGetEnvNumeric(t *testing.T) {
	t.Setenv("CFG_INT", "7")
	if got := getEnvInt("CFG_INT", 3); got != 7 {
		t.Fatalf("getEnvInt returned %d, want 7", got)
	}
	t.Setenv("CFG_INT_BAD", "seven")
	if got := getEnvInt("CFG_INT_BAD", 3); got != 3 {
		t.Fatalf("getEnvInt returned %d, want fallback 3", got)
	}

	t.Setenv("CFG_FLOAT", "0.01")
	if got := getEnvFloat("CFG_FLOAT", 0.05); got != 0.01 {
		t.Fatalf("getEnvFloat returned %v, want 0.01", got)
	}

	t.Setenv("CFG_INT64", "12345")
	if got := getEnvInt64("CFG_INT64", 42); got != 12345 {
		t.Fatalf("getEnvInt64 returned %d, want 12345", got)
	}
}

func TestLoad(t *testing.T) {
	// Ensure defaults when env vars are empty.
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SEED", "")
	t.Setenv("ENGINE_SEED", "")
	t.Setenv("ENGINE_LEARNING_RATE", "")
	t.Setenv("ENGINE_MIN_HISTORY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_FORECAST_MODEL", "")

	cfg := Load()
	if cfg.Port != "8080" || cfg.DatabaseURL == "" || cfg.LogLevel != "info" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Seed {
		t.Fatalf("expected Seed default false")
	}
	if cfg.EngineSeed != 42 || cfg.LearningRate != 0.05 || cfg.MinHistoryEntries != 3 {
		t.Fatalf("engine defaults not applied: %+v", cfg)
	}

	// Custom values override defaults
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED", "true")
	t.Setenv("ENGINE_SEED", "7")
	t.Setenv("ENGINE_LEARNING_RATE", "0.01")
	t.Setenv("ENGINE_MIN_HISTORY", "5")
	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("OPENAI_FORECAST_MODEL", "model")

	cfg = Load()
	if cfg.Port != "9090" || cfg.DatabaseURL != "postgres://example" || cfg.LogLevel != "debug" || !cfg.Seed {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.EngineSeed != 7 || cfg.LearningRate != 0.01 || cfg.MinHistoryEntries != 5 {
		t.Fatalf("engine env overrides missing: %+v", cfg)
	}
	if cfg.OpenAIAPIKey != "key" || cfg.OpenAIForecastModel != "model" {
		t.Fatalf("openai env overrides missing: %+v", cfg)
	}
}
