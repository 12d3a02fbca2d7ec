package utils

import (
	"strings"
	"testing"
)

func TestGenerateTempPassword(t *testing.T) {
	p, err := GenerateTempPassword(12)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(p) != 12 {
		t.Fatalf("expected 12 chars, got %d", len(p))
	}
	for _, c := range p {
		if !strings.ContainsRune(tempPasswordAlphabet, c) {
			t.Fatalf("unexpected character %q in %q", c, p)
		}
	}

	// Ambiguous glyphs are deliberately absent from the alphabet.
	for _, c := range "0O1lIo" {
		if strings.ContainsRune(tempPasswordAlphabet, c) {
			t.Fatalf("alphabet must not contain %q", c)
		}
	}
}

func TestGenerateTempPassword_DefaultLength(t *testing.T) {
	p, err := GenerateTempPassword(0)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(p) != 12 {
		t.Fatalf("zero length should fall back to 12, got %d", len(p))
	}
}
