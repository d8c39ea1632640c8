package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pscheid92/memorytrail/internal/domain"
)

const tokenPrefix = "sess_"

// TokenSource produces visit tokens. Tokens identify nothing outside the process.
type TokenSource func() string

// NewToken returns "sess_" followed by 32 random hex characters.
func NewToken() string {
	return tokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Store is the single-visit session store. Mutations are issued by the screen
// controller goroutine; the lock only protects readers outside it.
type Store struct {
	quiz     domain.Quiz
	newToken TokenSource

	mu      sync.RWMutex
	current domain.Session
}

// Option configures a Store.
type Option func(*Store)

// WithTokenSource replaces the default token generator.
func WithTokenSource(src TokenSource) Option {
	return func(s *Store) { s.newToken = src }
}

func NewStore(quiz domain.Quiz, opts ...Option) *Store {
	s := &Store{
		quiz:     quiz,
		newToken: NewToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin discards any previous visit and installs a new one carrying only a token.
func (s *Store) Begin() domain.Session {
	token := s.newToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = domain.Session{Token: token}
	return s.current.Clone()
}

func (s *Store) SetSchool(school string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current.Active() {
		return fmt.Errorf("set school: %w", domain.ErrNoActiveSession)
	}
	s.current.School = school
	return nil
}

// RecordAnswer stores the answer and its correctness together.
func (s *Store) RecordAnswer(answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current.Active() {
		return fmt.Errorf("record answer: %w", domain.ErrNoActiveSession)
	}
	if !s.quiz.HasOption(answer) {
		return fmt.Errorf("record answer %q: %w", answer, domain.ErrUnknownOption)
	}

	correct := s.quiz.IsCorrect(answer)
	s.current.QuizAnswer = answer
	s.current.IsCorrect = &correct
	return nil
}

// Clear resets every field at once. Clearing an empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()
}

// Current returns a snapshot the caller may keep; it never aliases store memory.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}
