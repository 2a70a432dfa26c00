package claims

import (
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if len(code) != CodeLength {
		t.Errorf("expected %d characters, got %d (%q)", CodeLength, len(code), code)
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("code %q contains %q, outside the alphabet", code, c)
		}
	}
}

func TestGenerateCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		seen[code] = true
	}
	// 20 draws from a 36^8 space colliding down to one value means the
	// random source is broken.
	if len(seen) < 2 {
		t.Errorf("expected varied codes, got %d distinct from 20 draws", len(seen))
	}
}
