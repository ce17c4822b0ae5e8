package config

import (
	"testing"
	"time"

	"github.com/concave-dev/thinkmap/internal/auth"
)

func resetConfig() {
	Global = Config{
		APIAddr:         DefaultAPI,
		DataDir:         DefaultDataDir,
		LogLevel:        DefaultLogLevel,
		AccessTTL:       DefaultAccessTTL,
		RefreshTTL:      DefaultRefreshTTL,
		Feedback:        GeneratorAuto,
		FeedbackTimeout: DefaultFeedbackTimeout,
	}
}

func TestValidateConfig_Defaults(t *testing.T) {
	resetConfig()
	if err := ValidateConfig(); err != nil {
		t.Fatalf("ValidateConfig() error = %v", err)
	}
	if Global.APIAddr != "127.0.0.1" || Global.APIPort != 8008 {
		t.Errorf("API = %s:%d, want 127.0.0.1:8008", Global.APIAddr, Global.APIPort)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func()
	}{
		{"bad log level", func() { Global.LogLevel = "TRACE" }},
		{"bad api address", func() { Global.APIAddr = "localhost" }},
		{"explicit zero port", func() {
			Global.APIAddr = "127.0.0.1:0"
			Global.SetExplicitlySet(APIAddrField, true)
		}},
		{"empty data dir", func() { Global.DataDir = "" }},
		{"data dir with in-memory", func() {
			Global.InMemory = true
			Global.SetExplicitlySet(DataDirField, true)
		}},
		{"short secret", func() {
			Global.JWTSecret = "short"
			Global.SetExplicitlySet(JWTSecretField, true)
		}},
		{"zero access ttl", func() { Global.AccessTTL = 0 }},
		{"access ttl inside refresh leeway", func() { Global.AccessTTL = auth.ExpiryLeeway }},
		{"access ttl below minimum", func() { Global.AccessTTL = 30 * time.Second }},
		{"refresh shorter than access", func() {
			Global.AccessTTL = time.Hour
			Global.RefreshTTL = time.Minute
		}},
		{"unknown generator", func() { Global.Feedback = "magic" }},
		{"zero feedback timeout", func() { Global.FeedbackTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig()
			tt.mutate()
			if err := ValidateConfig(); err == nil {
				t.Error("ValidateConfig() expected error")
			}
		})
	}
}

func TestValidateConfig_InMemoryWithoutDataDir(t *testing.T) {
	resetConfig()
	Global.InMemory = true
	Global.DataDir = ""
	if err := ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig() error = %v", err)
	}
}

func TestValidateConfig_OpenAIRequiresKey(t *testing.T) {
	resetConfig()
	t.Setenv("OPENAI_API_KEY", "")
	Global.Feedback = GeneratorOpenAI
	if err := ValidateConfig(); err == nil {
		t.Error("expected error without OPENAI_API_KEY")
	}

	resetConfig()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	Global.Feedback = GeneratorOpenAI
	if err := ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig() error = %v", err)
	}
}

func TestInitializeConfig_Environment(t *testing.T) {
	resetConfig()
	t.Setenv("DEBUG", "true")
	t.Setenv("THINKMAP_JWT_SECRET", "env-secret-0123456789")
	InitializeConfig()

	if Global.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %s, want DEBUG", Global.LogLevel)
	}
	if Global.JWTSecret != "env-secret-0123456789" || !Global.IsExplicitlySet(JWTSecretField) {
		t.Errorf("JWTSecret = %q, explicit %v", Global.JWTSecret, Global.IsExplicitlySet(JWTSecretField))
	}

	resetConfig()
	Global.JWTSecret = "flag-secret-0123456789"
	Global.SetExplicitlySet(JWTSecretField, true)
	InitializeConfig()
	if Global.JWTSecret != "flag-secret-0123456789" {
		t.Error("environment overrode an explicit --jwt-secret")
	}
}

func TestValidateConfig_MinimumAccessTTL(t *testing.T) {
	if MinAccessTTL <= auth.ExpiryLeeway {
		t.Fatalf("MinAccessTTL %v must exceed the client expiry leeway %v", MinAccessTTL, auth.ExpiryLeeway)
	}

	resetConfig()
	Global.AccessTTL = MinAccessTTL
	if err := ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig() with AccessTTL = MinAccessTTL error = %v", err)
	}
}
