package tokens

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestIssuer(t *testing.T, now time.Time) *Issuer {
	t.Helper()
	iss, err := NewIssuer(Config{
		Secret:     testSecret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}
	iss.now = func() time.Time { return now }
	return iss
}

func TestNewIssuerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"short secret", Config{Secret: "short", AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{"zero access ttl", Config{Secret: testSecret, RefreshTTL: time.Hour}},
		{"refresh shorter", Config{Secret: testSecret, AccessTTL: time.Hour, RefreshTTL: time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewIssuer(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	iss := newTestIssuer(t, now)

	pair, err := iss.IssuePair("user-1", "ada")
	if err != nil {
		t.Fatalf("IssuePair() error: %v", err)
	}

	claims, err := iss.Verify("Bearer "+pair.Access, KindAccess)
	if err != nil {
		t.Fatalf("Verify(access) error: %v", err)
	}
	if claims.Subject != "user-1" || claims.Username != "ada" || claims.ID == "" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	refresh, err := iss.Verify(pair.Refresh, KindRefresh)
	if err != nil {
		t.Fatalf("Verify(refresh) error: %v", err)
	}
	if refresh.ID == claims.ID {
		t.Error("access and refresh tokens share a jti")
	}
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	iss := newTestIssuer(t, time.Now())
	pair, _ := iss.IssuePair("user-1", "ada")

	if _, err := iss.Verify(pair.Refresh, KindAccess); !errors.Is(err, ErrWrongKind) {
		t.Errorf("refresh used as access: error = %v, want ErrWrongKind", err)
	}
	if _, err := iss.Verify(pair.Access, KindRefresh); !errors.Is(err, ErrWrongKind) {
		t.Errorf("access used as refresh: error = %v, want ErrWrongKind", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	iss := newTestIssuer(t, issued)
	access, _ := iss.IssueAccess("user-1", "ada")

	iss.now = time.Now
	if _, err := iss.Verify(access, KindAccess); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	iss := newTestIssuer(t, time.Now())
	other, err := NewIssuer(Config{Secret: "another-secret-of-32-bytes-long!", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	token, _ := other.IssueAccess("user-1", "ada")

	if _, err := iss.Verify(token, KindAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
	if _, err := iss.Verify("", KindAccess); !errors.Is(err, ErrMissingToken) {
		t.Errorf("Verify(\"\") error = %v, want ErrMissingToken", err)
	}
}

func TestExpiresAt(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	iss := newTestIssuer(t, now)
	access, _ := iss.IssueAccess("user-1", "ada")

	exp, err := ExpiresAt(access)
	if err != nil {
		t.Fatalf("ExpiresAt() error: %v", err)
	}
	if !exp.Equal(now.Add(15 * time.Minute)) {
		t.Errorf("ExpiresAt() = %v, want %v", exp, now.Add(15*time.Minute))
	}

	if _, err := ExpiresAt("not.a.jwt"); err == nil {
		t.Error("expected error for garbage token")
	}

	sub, name, err := Subject(access)
	if err != nil || sub != "user-1" || name != "ada" {
		t.Errorf("Subject() = %q, %q, %v", sub, name, err)
	}
}
