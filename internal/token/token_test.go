package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-signing-secret"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewCodec_RequiresSecretAndTTL(t *testing.T) {
	t.Parallel()

	if _, err := NewCodec("", 10*time.Minute); err == nil {
		t.Error("expected error for empty secret")
	}

	if _, err := NewCodec(testSecret, 0); err == nil {
		t.Error("expected error for zero TTL")
	}

	if _, err := NewCodec(testSecret, -time.Minute); err == nil {
		t.Error("expected error for negative TTL")
	}
}

func TestCodec_IssueAndVerify(t *testing.T) {
	t.Parallel()

	c, err := NewCodec(testSecret, 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	tok, err := c.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}

	subject, err := c.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("Verify subject = %q, want alice@example.com", subject)
	}
}

func TestCodec_Issue_EmptySubject(t *testing.T) {
	t.Parallel()

	c, err := NewCodec(testSecret, 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	if _, err := c.Issue(""); err == nil {
		t.Error("expected error for empty subject")
	}
}

func TestCodec_Verify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"immediately after issue", issuedAt.Add(time.Second), nil},
		{"one second before expiry", issuedAt.Add(ttl - time.Second), nil},
		{"exactly at expiry", issuedAt.Add(ttl), ErrExpired},
		{"after expiry", issuedAt.Add(ttl + time.Second), ErrExpired},
	}

	issuer, err := NewCodec(testSecret, ttl, WithClock(fixedClock(issuedAt)))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	tok, err := issuer.Issue("bob@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			verifier, err := NewCodec(testSecret, ttl, WithClock(fixedClock(tt.now)))
			if err != nil {
				t.Fatalf("NewCodec failed: %v", err)
			}

			subject, err := verifier.Verify(tok)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Verify failed: %v", err)
				}
				if subject != "bob@example.com" {
					t.Errorf("subject = %q, want bob@example.com", subject)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCodec_Verify_BadSignature(t *testing.T) {
	t.Parallel()

	issuer, err := NewCodec(testSecret, 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	tok, err := issuer.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	other, err := NewCodec("a-different-secret", 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	if _, err := other.Verify(tok); !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify error = %v, want ErrBadSignature", err)
	}
}

func TestCodec_Verify_TamperedPayload(t *testing.T) {
	t.Parallel()

	c, err := NewCodec(testSecret, 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	tok, err := c.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character inside the payload segment.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := c.Verify(tampered); err == nil {
		t.Error("expected error for tampered token")
	}
}

func TestCodec_Verify_Malformed(t *testing.T) {
	t.Parallel()

	c, err := NewCodec(testSecret, 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "abc.def"},
		{"random segments", "aaa.bbb.ccc"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := c.Verify(tt.token); !errors.Is(err, ErrMalformed) {
				t.Errorf("Verify(%q) error = %v, want ErrMalformed", tt.token, err)
			}
		})
	}
}

func TestCodec_Verify_DifferentSubjects(t *testing.T) {
	t.Parallel()

	c, err := NewCodec(testSecret, 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	for _, subject := range []string{"a@x.com", "b@x.com", "c@y.org"} {
		tok, err := c.Issue(subject)
		if err != nil {
			t.Fatalf("Issue(%q) failed: %v", subject, err)
		}
		got, err := c.Verify(tok)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if got != subject {
			t.Errorf("Verify subject = %q, want %q", got, subject)
		}
	}
}
