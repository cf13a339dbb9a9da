// Package memory provides an in-memory CredentialStore for tests and local
// development.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	ftauth "github.com/mrra1yan/FootballTalento"
)

// Store keeps accounts in process memory. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	byID       map[string]ftauth.Account
	byEmail    map[string]string
	byUsername map[string]string
}

func New() *Store {
	return &Store{
		byID:       make(map[string]ftauth.Account),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (s *Store) GetByID(_ context.Context, id string) (ftauth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return ftauth.Account{}, ftauth.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (ftauth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return ftauth.Account{}, ftauth.ErrAccountNotFound
	}
	return s.byID[id], nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (ftauth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return ftauth.Account{}, ftauth.ErrAccountNotFound
	}
	return s.byID[id], nil
}

func (s *Store) Create(_ context.Context, input ftauth.CreateAccountInput) (ftauth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(input.Email)
	if _, ok := s.byEmail[email]; ok {
		return ftauth.Account{}, ftauth.ErrDuplicateEmail
	}
	if _, ok := s.byUsername[input.Username]; ok {
		return ftauth.Account{}, ftauth.ErrDuplicateUsername
	}

	account := ftauth.Account{
		ID:            uuid.NewString(),
		Email:         email,
		Username:      input.Username,
		PasswordHash:  input.PasswordHash,
		DisplayName:   input.DisplayName,
		Type:          input.Type,
		Country:       input.Country,
		Currency:      input.Currency,
		Language:      input.Language,
		ParentConsent: input.ParentConsent,
		CreatedAt:     time.Now().UTC(),
	}

	s.byID[account.ID] = account
	s.byEmail[email] = account.ID
	s.byUsername[account.Username] = account.ID

	return account, nil
}

func (s *Store) UpdatePasswordHash(_ context.Context, id, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return ftauth.ErrAccountNotFound
	}
	account.PasswordHash = newHash
	s.byID[id] = account
	return nil
}

func (s *Store) SetEmailVerified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return ftauth.ErrAccountNotFound
	}
	account.EmailVerified = true
	s.byID[id] = account
	return nil
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (s *Store) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byUsername[username]
	return ok, nil
}
