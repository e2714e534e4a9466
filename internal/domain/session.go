package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Session owns one graph. Callers create one session per client and pass
// its ID explicitly; there is no shared global graph.
type Session struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Version     int64     `json:"version" yaml:"version"`
	MarkerCount int       `json:"marker_count" yaml:"marker_count"`
	EdgeCount   int       `json:"edge_count" yaml:"edge_count"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewSession creates a session with a random ID
func NewSession(name string) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateSessionID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateSessionID returns 16 random hex characters
func GenerateSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
