package services

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const stateTTL = 10 * time.Minute

// OAuthStateService issues one-time CSRF state tokens for the login redirect.
// Login happens before any session exists, so a state carries no user — it
// only proves the callback belongs to a flow this server started.
type OAuthStateService struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func NewOAuthStateService() *OAuthStateService {
	service := &OAuthStateService{
		states: make(map[string]time.Time),
	}

	go service.cleanupExpired()

	return service
}

// GenerateState creates and stores a new random state token.
func (s *OAuthStateService) GenerateState() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	state := hex.EncodeToString(bytes)

	s.mu.Lock()
	s.states[state] = time.Now()
	s.mu.Unlock()

	return state
}

// ValidateState consumes a state token. It returns false for unknown or
// expired tokens; a token validates at most once.
func (s *OAuthStateService) ValidateState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt, exists := s.states[state]
	if !exists {
		return false
	}
	delete(s.states, state)

	return time.Since(createdAt) <= stateTTL
}

func (s *OAuthStateService) cleanupExpired() {
	ticker := time.NewTicker(stateTTL)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for state, createdAt := range s.states {
			if now.Sub(createdAt) > stateTTL {
				delete(s.states, state)
			}
		}
		s.mu.Unlock()
	}
}
