package app

import (
	"strings"

	"github.com/google/uuid"
)

// newGameID returns a random id that is safe to embed in URLs.
func newGameID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewPlayerID returns a random id for a player cookie.
func NewPlayerID() string { return uuid.NewString() }
