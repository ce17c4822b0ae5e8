package daemon

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/concave-dev/thinkmap/cmd/thinkmapd/config"
	"github.com/concave-dev/thinkmap/internal/feedback"
)

func testConfig(t *testing.T) {
	t.Helper()
	config.Global = config.Config{
		APIAddr:         "127.0.0.1",
		APIPort:         0,
		InMemory:        true,
		LogLevel:        "ERROR",
		AccessTTL:       config.DefaultAccessTTL,
		RefreshTTL:      config.DefaultRefreshTTL,
		Feedback:        config.GeneratorRules,
		FeedbackTimeout: config.DefaultFeedbackTimeout,
	}
}

func TestDaemonServesAndShutsDown(t *testing.T) {
	testConfig(t)

	d, err := Start()
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	resp, err := http.Get("http://" + d.Addr() + "/api/v1/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(ShutdownTimeout + 5*time.Second):
		t.Fatal("daemon did not shut down")
	}
}

func TestStartPersistentStoreAndSecret(t *testing.T) {
	testConfig(t)
	config.Global.InMemory = false
	config.Global.DataDir = t.TempDir()

	d, err := Start()
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(config.Global.DataDir, config.SecretFileName))
	if err != nil {
		t.Fatalf("secret file not written: %v", err)
	}

	// A second start reuses the same secret.
	secret, err := resolveSecret()
	if err != nil {
		t.Fatal(err)
	}
	if secret+"\n" != string(data) {
		t.Error("secret changed between starts")
	}
}

func TestLoadOrCreateSecretRejectsShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SecretFileName)
	os.WriteFile(path, []byte("tiny\n"), 0o600)
	if _, err := loadOrCreateSecret(path); err == nil {
		t.Error("short secret accepted")
	}
}

func TestResolveSecretPrefersConfigured(t *testing.T) {
	testConfig(t)
	config.Global.JWTSecret = "configured-secret-0123456789"
	got, err := resolveSecret()
	if err != nil || got != "configured-secret-0123456789" {
		t.Errorf("resolveSecret() = %q, %v", got, err)
	}
}

func TestBuildGenerator(t *testing.T) {
	testConfig(t)
	t.Setenv("OPENAI_API_KEY", "")

	config.Global.Feedback = config.GeneratorAuto
	gen, err := buildGenerator()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := gen.(feedback.RuleGenerator); !ok {
		t.Errorf("auto without key = %T, want RuleGenerator", gen)
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	config.Global.FeedbackModel = "gpt-4o"
	gen, err = buildGenerator()
	if err != nil {
		t.Fatal(err)
	}
	if gen.Name() != "openai:gpt-4o" {
		t.Errorf("auto with key = %s", gen.Name())
	}

	config.Global.Feedback = config.GeneratorRules
	gen, _ = buildGenerator()
	if gen.Name() != "rules" {
		t.Errorf("rules = %s", gen.Name())
	}
}

func TestExplicitPortConflict(t *testing.T) {
	testConfig(t)
	first, err := Start()
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		first.Run(ctx)
	}()

	config.Global.APIPort = first.port
	config.Global.SetExplicitlySet(config.APIAddrField, true)
	if _, err := Start(); err == nil {
		t.Error("Start() on a busy explicit port succeeded")
	}
}
