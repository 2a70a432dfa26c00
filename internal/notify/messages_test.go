package notify

import (
	"strings"
	"testing"
)

func TestFinderMessage(t *testing.T) {
	subject, body := FinderMessage("Fiona", "Black Wallet", "ABCD1234")

	if subject == "" {
		t.Error("expected non-empty subject")
	}
	for _, want := range []string{"Fiona", "Black Wallet", "ABCD1234", "Admin Office"} {
		if !strings.Contains(body, want) {
			t.Errorf("finder body missing %q", want)
		}
	}
}

func TestClaimerMessage(t *testing.T) {
	subject, body := ClaimerMessage("Carl", "Black Wallet", "ABCD1234")

	if !strings.Contains(subject, "Approved") {
		t.Errorf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Carl", "Black Wallet", "ABCD1234"} {
		if !strings.Contains(body, want) {
			t.Errorf("claimer body missing %q", want)
		}
	}
}
