// Package daemon wires and runs the thinkmap daemon.
//
// STARTUP ORDER:
// 1. Open the badger store (on disk, or in memory for development)
// 2. Resolve the token signing secret and build the JWT issuer
// 3. Pick the feedback generator (OpenAI or offline rules)
// 4. Pre-bind the API listener so port conflicts fail startup
// 5. Run the HTTP server and store GC under one errgroup
//
// Shutdown is driven by the context: the server drains in-flight requests
// for up to ShutdownTimeout, then the store is closed.
package daemon

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/concave-dev/thinkmap/cmd/thinkmapd/config"
	"github.com/concave-dev/thinkmap/internal/api"
	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/netutil"
	"github.com/concave-dev/thinkmap/internal/store"
	"github.com/concave-dev/thinkmap/internal/tokens"
	"github.com/concave-dev/thinkmap/internal/version"
)

// ShutdownTimeout bounds the HTTP drain on shutdown.
const ShutdownTimeout = 15 * time.Second

// Daemon is a started but not yet running thinkmapd.
type Daemon struct {
	store    *store.Store
	server   *api.Server
	listener net.Listener
	port     int
}

// Run starts the daemon from config.Global and blocks until SIGINT or
// SIGTERM.
func Run() error {
	logging.Info("Starting thinkmap daemon v%s", version.ThinkmapdVersion)

	d, err := Start()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Success("thinkmap daemon started successfully")
	logging.Info("Daemon running... Press Ctrl+C to shutdown")

	return d.Run(ctx)
}

// Start opens storage and binds the API listener. The caller must call Run
// to serve and release resources.
func Start() (*Daemon, error) {
	st, err := store.Open(buildStoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	d, err := start(st)
	if err != nil {
		st.Close()
		return nil, err
	}
	return d, nil
}

func start(st *store.Store) (*Daemon, error) {
	secret, err := resolveSecret()
	if err != nil {
		return nil, err
	}

	issuer, err := tokens.NewIssuer(tokens.Config{
		Secret:     secret,
		AccessTTL:  config.Global.AccessTTL,
		RefreshTTL: config.Global.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	generator, err := buildGenerator()
	if err != nil {
		return nil, err
	}
	logging.Info("Feedback generator: %s", generator.Name())

	listener, port, err := bindAPIListener()
	if err != nil {
		return nil, err
	}

	apiConfig := api.DefaultConfig()
	apiConfig.BindAddr = config.Global.APIAddr
	apiConfig.BindPort = port
	apiConfig.FeedbackTimeout = config.Global.FeedbackTimeout
	apiConfig.Store = st
	apiConfig.Issuer = issuer
	apiConfig.Generator = generator

	server, err := api.NewServer(apiConfig)
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to create API server: %w", err)
	}

	return &Daemon{
		store:    st,
		server:   server,
		listener: listener,
		port:     port,
	}, nil
}

// Addr returns the address the API listens on.
func (d *Daemon) Addr() string {
	return net.JoinHostPort(config.Global.APIAddr, fmt.Sprint(d.port))
}

// Run serves until ctx is done or a component fails, then shuts down.
func (d *Daemon) Run(ctx context.Context) error {
	defer func() {
		if err := d.store.Close(); err != nil {
			logging.Error("Error closing store: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.server.Serve(d.listener)
	})

	g.Go(func() error {
		return d.store.RunGC(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			logging.Error("Error shutting down API server: %v", err)
			return err
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		logging.Error("Daemon stopped with error: %v", err)
		return err
	}

	logging.Success("thinkmap daemon shutdown completed")
	return nil
}

func buildStoreConfig() *store.Config {
	if config.Global.InMemory {
		logging.Warn("Running with in-memory storage; data is lost on exit")
		return store.InMemoryConfig()
	}
	cfg := store.DefaultConfig()
	cfg.Path = config.Global.DataDir
	return cfg
}

// bindAPIListener binds the configured port, or the next free one when the
// default port is busy and the user did not ask for it explicitly.
func bindAPIListener() (net.Listener, int, error) {
	addr, port := config.Global.APIAddr, config.Global.APIPort

	if config.Global.IsExplicitlySet(config.APIAddrField) {
		logging.Info("Pre-binding API listener to explicit port %d", port)
		listener, err := netutil.BindTCP(addr, port)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to pre-bind API listener to %s:%d: %w", addr, port, err)
		}
		return listener, port, nil
	}

	listener, actual, err := netutil.BindTCPWithFallback(addr, port)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to pre-bind API listener: %w", err)
	}
	if bound, err := netutil.ListenerPort(listener); err == nil {
		actual = bound
	}
	if actual != port && port != 0 {
		logging.Warn("Default API port %d was busy, pre-bound to port %d", port, actual)
	}
	return listener, actual, nil
}

// buildGenerator picks the feedback generator from --feedback.
func buildGenerator() (feedback.Generator, error) {
	useOpenAI := config.Global.Feedback == config.GeneratorOpenAI ||
		(config.Global.Feedback == config.GeneratorAuto && os.Getenv("OPENAI_API_KEY") != "")

	if !useOpenAI {
		return feedback.RuleGenerator{}, nil
	}
	gen, err := feedback.NewOpenAIGeneratorFromEnv(config.Global.FeedbackModel)
	if err != nil {
		return nil, fmt.Errorf("failed to configure OpenAI feedback: %w", err)
	}
	return gen, nil
}

// resolveSecret returns the configured secret, or loads (creating on first
// start) a random one from the data directory. In-memory daemons get a
// fresh secret each start.
func resolveSecret() (string, error) {
	if config.Global.JWTSecret != "" {
		return config.Global.JWTSecret, nil
	}
	if config.Global.InMemory {
		return randomSecret()
	}
	return loadOrCreateSecret(filepath.Join(config.Global.DataDir, config.SecretFileName))
}

func loadOrCreateSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		secret := strings.TrimSpace(string(data))
		if len(secret) < 16 {
			return "", fmt.Errorf("token secret in %s is too short", path)
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read token secret: %w", err)
	}

	secret, err := randomSecret()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to write token secret: %w", err)
	}
	logging.Info("Generated token signing secret in %s", path)
	return secret, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
