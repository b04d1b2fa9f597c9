package engine

import (
	"errors"
	"testing"
)

func TestCursorRoundTrip(t *testing.T) {
	for _, id := range []string{"p-001", "a", "id:with:colons", "971f4d5e-8db4-4c0e-a7a2-1c7bba3ff001"} {
		token := encodeCursor(id)
		got, err := decodeCursor(token)
		if err != nil {
			t.Fatalf("decodeCursor(encodeCursor(%q)): %v", id, err)
		}
		if got != id {
			t.Errorf("round trip = %q, want %q", got, id)
		}
	}
}

func TestDecodeCursorErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"wrong prefix", "bm9wZQ"}, // "nope"
		{"empty id", "ZjE6"},       // "f1:"
		{"empty token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeCursor(tt.token); !errors.Is(err, ErrBadCursor) {
				t.Errorf("decodeCursor(%q) = %v, want ErrBadCursor", tt.token, err)
			}
		})
	}
}
