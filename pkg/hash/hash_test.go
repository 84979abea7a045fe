package hash

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestIteratedSHA256(t *testing.T) {
	// 1 iteration should equal a single SHA256
	oneIter := IteratedSHA256("test", 1)
	single := SHA256Hex("test")
	if oneIter != single {
		t.Errorf("IteratedSHA256(\"test\", 1) = %s, want %s", oneIter, single)
	}

	multiIter := IteratedSHA256("test", 5000)
	if multiIter == single {
		t.Error("5000 iterations should differ from single iteration")
	}
	if multiIter != IteratedSHA256("test", 5000) {
		t.Error("IteratedSHA256 should be deterministic")
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "hunter22" || !strings.HasPrefix(h, "$2a$") {
		t.Errorf("hash = %q, want a bcrypt hash", h)
	}

	again, _ := HashPassword("hunter22", bcrypt.MinCost)
	if h == again {
		t.Error("two hashes of the same password should carry different salts")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+1), bcrypt.MinCost); err == nil {
		t.Error("expected an error for a password over 72 bytes")
	}
}

func TestVerifyPassword(t *testing.T) {
	stored, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword("correct horse", stored) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong horse", stored) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("correct horse", "not-a-hash") {
		t.Error("malformed stored hash accepted")
	}
}

func TestShortIPHash(t *testing.T) {
	h := ShortIPHash("192.168.1.1")
	if len(h) != 12 {
		t.Errorf("length = %d, want 12", len(h))
	}
	if h == ShortIPHash("10.0.0.1") {
		t.Error("different IPs should produce different hashes")
	}
}
