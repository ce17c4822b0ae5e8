package config

import (
	"net"
	"strings"
	"testing"
)

// TestDefaultBindAddrIsLoopback validates that the default bind address is a
// loopback IPv4 address
func TestDefaultBindAddrIsLoopback(t *testing.T) {
	ip := net.ParseIP(DefaultBindAddr)
	if ip == nil {
		t.Fatalf("DefaultBindAddr %q is not a valid IP address", DefaultBindAddr)
	}

	if ip.To4() == nil {
		t.Errorf("DefaultBindAddr %q is not a valid IPv4 address", DefaultBindAddr)
	}

	if !ip.IsLoopback() {
		t.Errorf("DefaultBindAddr %q is not a loopback address", DefaultBindAddr)
	}
}

// TestDefaultAPIPort validates the default API port is usable
func TestDefaultAPIPort(t *testing.T) {
	if DefaultAPIPort < 1 || DefaultAPIPort > 65535 {
		t.Errorf("DefaultAPIPort = %d, want 1-65535", DefaultAPIPort)
	}
}

// TestDefaultLogLevel validates the default log level constant
func TestDefaultLogLevel(t *testing.T) {
	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}

	found := false
	for _, level := range validLevels {
		if DefaultLogLevel == level {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("DefaultLogLevel %q is not one of %v", DefaultLogLevel, validLevels)
	}

	if strings.ToUpper(DefaultLogLevel) != DefaultLogLevel {
		t.Errorf("DefaultLogLevel %q should be uppercase", DefaultLogLevel)
	}
}

// TestDefaultDataDir validates the default data directory is relative
func TestDefaultDataDir(t *testing.T) {
	if DefaultDataDir == "" {
		t.Fatal("DefaultDataDir should not be empty")
	}
	if !strings.HasPrefix(DefaultDataDir, "./") {
		t.Errorf("DefaultDataDir = %q, want a relative path", DefaultDataDir)
	}
}
