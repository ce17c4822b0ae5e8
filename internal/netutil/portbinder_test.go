package netutil

import (
	"errors"
	"testing"
)

func TestBindTCPEphemeral(t *testing.T) {
	l, err := BindTCP("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("BindTCP() error: %v", err)
	}
	defer l.Close()

	port, err := ListenerPort(l)
	if err != nil {
		t.Fatalf("ListenerPort() error: %v", err)
	}
	if port == 0 {
		t.Error("expected OS-assigned port, got 0")
	}
}

func TestBindTCPAddressInUse(t *testing.T) {
	first, err := BindTCP("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("BindTCP() error: %v", err)
	}
	defer first.Close()
	port, _ := ListenerPort(first)

	_, err = BindTCP("127.0.0.1", port)
	var inUse *AddressInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("expected AddressInUseError, got %v", err)
	}
	if !IsAddressInUseError(err) {
		t.Error("IsAddressInUseError() should see through the wrapper")
	}
}

func TestBindTCPWithFallback(t *testing.T) {
	first, err := BindTCP("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("BindTCP() error: %v", err)
	}
	defer first.Close()
	busy, _ := ListenerPort(first)

	l, port, err := BindTCPWithFallback("127.0.0.1", busy)
	if err != nil {
		t.Fatalf("BindTCPWithFallback() error: %v", err)
	}
	defer l.Close()
	if port == busy {
		t.Errorf("fallback returned the busy port %d", port)
	}
}

func TestIsConnectionRefusedErrorNil(t *testing.T) {
	if IsConnectionRefusedError(nil) || IsAddressInUseError(nil) {
		t.Error("nil error should not match")
	}
}
