package engine

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrBadCursor is returned when a cursor token cannot be decoded.
var ErrBadCursor = errors.New("malformed cursor")

// cursorPrefix versions the encoding so it can change without breaking
// clients that echo tokens back.
const cursorPrefix = "f1:"

// encodeCursor builds an opaque resume token from the last returned
// resource id. Clients must not interpret the token.
func encodeCursor(lastID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + lastID))
}

// decodeCursor extracts the last returned resource id from a token.
func decodeCursor(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrBadCursor
	}
	lastID, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok || lastID == "" {
		return "", ErrBadCursor
	}
	return lastID, nil
}
