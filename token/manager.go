package token

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrra1yan/FootballTalento/internal"
)

const recordVersionV1 = 1

var (
	// ErrNotFound is returned when the presented token matches no live record.
	ErrNotFound = errors.New("auth token not found")
	// ErrExpired is returned when the presented token exists but its deadline passed.
	ErrExpired = errors.New("auth token expired")
	// ErrRedisUnavailable wraps Redis backend failures.
	ErrRedisUnavailable = errors.New("token redis unavailable")
)

// Record is the server-side state of an issued token. Timestamps are unix
// nanoseconds so expiry does not carry second-granularity slack.
type Record struct {
	AccountID string
	IssuedAt  int64
	ExpiresAt int64
	Remember  bool
}

// Manager issues, validates, and revokes bearer tokens against Redis.
type Manager struct {
	redis  redis.UniversalClient
	prefix string
}

// NewManager creates a [Manager]. prefix namespaces the token keys.
func NewManager(redisClient redis.UniversalClient, prefix string) *Manager {
	return &Manager{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (m *Manager) tokenKey(digest string) string {
	return m.prefix + ":at:" + digest
}

func (m *Manager) accountKey(accountID string) string {
	return m.prefix + ":atu:" + accountID
}

// Issue mints a fresh token for accountID valid for ttl and registers it in
// the account's session set. remember is recorded so audits can tell a
// long-lived session apart from a default one. Returns the cleartext token
// exactly once; only its digest is stored.
func (m *Manager) Issue(ctx context.Context, accountID string, ttl time.Duration, remember bool) (string, error) {
	if accountID == "" {
		return "", errors.New("issue requires an account id")
	}
	if ttl <= 0 {
		return "", errors.New("issue requires a positive ttl")
	}

	cleartext, err := internal.NewAuthToken()
	if err != nil {
		return "", err
	}
	digest := internal.HashToken(cleartext)

	now := time.Now()
	record := &Record{
		AccountID: accountID,
		IssuedAt:  now.UnixNano(),
		ExpiresAt: now.Add(ttl).UnixNano(),
		Remember:  remember,
	}
	encoded, err := encodeRecord(record)
	if err != nil {
		return "", err
	}

	// Keep the key past the deadline so Validate can report expiry instead
	// of an unknown token; the record's ExpiresAt is authoritative.
	_, err = m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, m.tokenKey(digest), encoded, 2*ttl)
		pipe.SAdd(ctx, m.accountKey(accountID), digest)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return cleartext, nil
}

// Validate resolves a presented token to its [Record]. Expired tokens are
// deleted on sight and reported as [ErrExpired]; unknown tokens return
// [ErrNotFound].
func (m *Manager) Validate(ctx context.Context, cleartext string) (*Record, error) {
	digest := internal.HashToken(cleartext)

	data, err := m.redis.Get(ctx, m.tokenKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}

	if time.Now().UnixNano() > record.ExpiresAt {
		if err := m.remove(ctx, digest, record.AccountID); err != nil {
			return nil, err
		}
		return nil, ErrExpired
	}

	return record, nil
}

// Invalidate revokes a single presented token. Revoking a token that is
// already gone is not an error.
func (m *Manager) Invalidate(ctx context.Context, cleartext string) error {
	digest := internal.HashToken(cleartext)

	data, err := m.redis.GetDel(ctx, m.tokenKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		return err
	}

	if err := m.redis.SRem(ctx, m.accountKey(record.AccountID), digest).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// InvalidateAll revokes every live token of the account and returns how
// many were removed.
func (m *Manager) InvalidateAll(ctx context.Context, accountID string) (int, error) {
	digests, err := m.redis.SMembers(ctx, m.accountKey(accountID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	keys := make([]string, 0, len(digests)+1)
	for _, digest := range digests {
		keys = append(keys, m.tokenKey(digest))
	}
	keys = append(keys, m.accountKey(accountID))

	if err := m.redis.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return len(digests), nil
}

func (m *Manager) remove(ctx context.Context, digest, accountID string) error {
	_, err := m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, m.tokenKey(digest))
		pipe.SRem(ctx, m.accountKey(accountID), digest)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func encodeRecord(record *Record) ([]byte, error) {
	if record == nil {
		return nil, errors.New("nil token record")
	}
	if record.AccountID == "" {
		return nil, errors.New("token record missing account id")
	}

	var buf bytes.Buffer
	buf.WriteByte(recordVersionV1)

	if err := binary.Write(&buf, binary.BigEndian, record.IssuedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	var remember byte
	if record.Remember {
		remember = 1
	}
	buf.WriteByte(remember)

	idBytes := []byte(record.AccountID)
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(idBytes))); err != nil {
		return nil, err
	}
	buf.Write(idBytes)

	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, errors.New("token record truncated")
	}
	if version != recordVersionV1 {
		return nil, errors.New("unsupported token record version")
	}

	var record Record
	if err := binary.Read(reader, binary.BigEndian, &record.IssuedAt); err != nil {
		return nil, errors.New("token record truncated")
	}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, errors.New("token record truncated")
	}

	remember, err := reader.ReadByte()
	if err != nil {
		return nil, errors.New("token record truncated")
	}
	record.Remember = remember == 1

	var idLen uint16
	if err := binary.Read(reader, binary.BigEndian, &idLen); err != nil {
		return nil, errors.New("token record truncated")
	}

	idBytes := make([]byte, idLen)
	if _, err := io.ReadFull(reader, idBytes); err != nil {
		return nil, errors.New("token record truncated")
	}
	record.AccountID = string(idBytes)

	return &record, nil
}
