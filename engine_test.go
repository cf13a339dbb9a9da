package ftauth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mrra1yan/FootballTalento/notify"
	"github.com/mrra1yan/FootballTalento/password"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Password = password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	cfg.PasswordReset.EnumerationDelay = time.Millisecond
	return cfg
}

// mockCredentialStore is an in-memory CredentialStore for engine tests.
type mockCredentialStore struct {
	mu         sync.Mutex
	accounts   map[string]Account
	byEmail    map[string]string
	byUsername map[string]string
	failWith   error
}

func newMockStore() *mockCredentialStore {
	return &mockCredentialStore{
		accounts:   make(map[string]Account),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (m *mockCredentialStore) seed(t *testing.T, account Account) Account {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	m.accounts[account.ID] = account
	m.byEmail[strings.ToLower(account.Email)] = account.ID
	m.byUsername[account.Username] = account.ID
	return account
}

func (m *mockCredentialStore) GetByID(_ context.Context, id string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return Account{}, m.failWith
	}
	account, ok := m.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (m *mockCredentialStore) GetByEmail(_ context.Context, email string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return Account{}, m.failWith
	}
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return m.accounts[id], nil
}

func (m *mockCredentialStore) GetByUsername(_ context.Context, username string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return Account{}, m.failWith
	}
	id, ok := m.byUsername[username]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return m.accounts[id], nil
}

func (m *mockCredentialStore) Create(_ context.Context, input CreateAccountInput) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return Account{}, m.failWith
	}

	email := strings.ToLower(input.Email)
	if _, ok := m.byEmail[email]; ok {
		return Account{}, ErrDuplicateEmail
	}
	if _, ok := m.byUsername[input.Username]; ok {
		return Account{}, ErrDuplicateUsername
	}

	account := Account{
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

	m.accounts[account.ID] = account
	m.byEmail[email] = account.ID
	m.byUsername[account.Username] = account.ID
	return account, nil
}

func (m *mockCredentialStore) UpdatePasswordHash(_ context.Context, id, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.PasswordHash = newHash
	m.accounts[id] = account
	return nil
}

func (m *mockCredentialStore) SetEmailVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.EmailVerified = true
	m.accounts[id] = account
	return nil
}

func (m *mockCredentialStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (m *mockCredentialStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.byUsername[username]
	return ok, nil
}

// captureNotifier records every message instead of delivering it.
type captureNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (c *captureNotifier) Send(_ context.Context, msg notify.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

// waitForMessage polls for an async notification of the given kind.
func (c *captureNotifier) waitForMessage(t *testing.T, kind notify.Kind) notify.Message {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		for _, msg := range c.messages {
			if msg.Kind == kind {
				c.mu.Unlock()
				return msg
			}
		}
		c.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("no %q notification arrived", kind)
	return notify.Message{}
}

func (c *captureNotifier) count(kind notify.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, msg := range c.messages {
		if msg.Kind == kind {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T, rdb *redis.Client, store CredentialStore, notifier notify.Notifier) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithCredentialStore(store).
		WithNotifier(notifier).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

// tokenFromLink pulls the token query parameter out of an emailed link.
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()

	i := strings.Index(link, "?token=")
	if i < 0 {
		t.Fatalf("link %q carries no token", link)
	}
	return link[i+len("?token="):]
}

func seedVerifiedAccount(t *testing.T, store *mockCredentialStore, hasher *password.Hasher, email, username, pass string) Account {
	t.Helper()

	hash, err := hasher.Hash(pass)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	return store.seed(t, Account{
		Email:         email,
		Username:      username,
		PasswordHash:  hash,
		DisplayName:   "Test User",
		Type:          AccountPlayer,
		Country:       "FR",
		Currency:      "EUR",
		Language:      "fr",
		EmailVerified: true,
	})
}

func newTestHasher(t *testing.T) *password.Hasher {
	t.Helper()

	hasher, err := password.NewHasher(testConfig().Password)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return hasher
}
