package api

import (
	"regexp"
	"testing"
	"time"
)

var testCreds = Credentials{Key: "test-key", Secret: "test-secret"}

func TestSignature(t *testing.T) {
	tests := []struct {
		ts    int64
		nonce string
		want  string
	}{
		{1700000000, "0123456789abcdef0123456789abcdef", "953c0b6b57543040490e9e7218d471a8e3e9a763"},
		{1700000001, "fedcba9876543210fedcba9876543210", "0f96bd8e387a67633a6ce3f8222cd3a15619098e"},
	}
	for _, tt := range tests {
		if got := Signature(testCreds, tt.ts, tt.nonce); got != tt.want {
			t.Errorf("Signature(%d, %q) = %q, want %q", tt.ts, tt.nonce, got, tt.want)
		}
	}
}

func TestSignatureKeyedByPublicKey(t *testing.T) {
	swapped := Credentials{Key: testCreds.Secret, Secret: testCreds.Key}
	a := Signature(testCreds, 1700000000, "n")
	b := Signature(swapped, 1700000000, "n")
	if a == b {
		t.Fatal("Signature ignores key/secret roles")
	}
}

func TestSignerSign(t *testing.T) {
	now := func() time.Time { return time.Unix(1700000000, 0) }
	nonce := func() string { return "0123456789abcdef0123456789abcdef" }
	s := NewSigner(testCreds, now, nonce)

	got := s.Sign("203.0.113.7", "track-1")
	want := AuthFields{
		Key:    "test-key",
		Time:   1700000000,
		Nonce:  "0123456789abcdef0123456789abcdef",
		IP:     "203.0.113.7",
		APIKey: "953c0b6b57543040490e9e7218d471a8e3e9a763",
		ABCID:  "track-1",
	}
	if got != want {
		t.Errorf("Sign() = %+v, want %+v", got, want)
	}
}

func TestAuthFieldsApplyOverwritesReserved(t *testing.T) {
	p := NewParams().
		SetString("zip", "9000").
		SetString("key", "spoofed").
		SetString("apikey", "spoofed")

	AuthFields{Key: "k", Time: 1, Nonce: "n", APIKey: "sig"}.Apply(p)

	if v, _ := p.Get("key"); v.Scalar() != "k" {
		t.Errorf("key = %q, want %q", v.Scalar(), "k")
	}
	if v, _ := p.Get("apikey"); v.Scalar() != "sig" {
		t.Errorf("apikey = %q, want %q", v.Scalar(), "sig")
	}
	wantKeys := []string{"zip", "key", "apikey", "time", "nonce", "ip", "abcid"}
	gotKeys := p.Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("Keys() = %v, want %v", gotKeys, wantKeys)
	}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, gotKeys[i], wantKeys[i])
		}
	}
}

func TestNewNonce(t *testing.T) {
	hex32 := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewNonce()
		if !hex32.MatchString(n) {
			t.Fatalf("NewNonce() = %q, want 32 hex chars", n)
		}
		if seen[n] {
			t.Fatalf("NewNonce() repeated %q", n)
		}
		seen[n] = true
	}
}

func TestNewSignerDefaults(t *testing.T) {
	s := NewSigner(testCreds, nil, nil)
	a := s.Sign("", "")
	b := s.Sign("", "")
	if a.Nonce == b.Nonce {
		t.Error("default nonce source repeated a nonce")
	}
	if a.Time == 0 {
		t.Error("default clock returned zero time")
	}
}
