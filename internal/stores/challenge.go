package stores

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeRecordVersionV1 = 1

var (
	// ErrChallengeNotFound is returned when no live record exists for a digest.
	ErrChallengeNotFound = errors.New("challenge record not found")
	// ErrChallengeExpired is returned when the record exists but its deadline passed.
	ErrChallengeExpired = errors.New("challenge record expired")
	// ErrChallengeRedisUnavailable wraps Redis backend failures.
	ErrChallengeRedisUnavailable = errors.New("challenge redis unavailable")
)

// ChallengeRecord is the stored payload of a single-use token.
// ExpiresAt is unix nanoseconds; zero means the token never expires.
type ChallengeRecord struct {
	AccountID string
	ExpiresAt int64
}

// ChallengeStore persists single-use tokens in Redis under a namespace
// such as "vt" (verification) or "rt" (reset).
type ChallengeStore struct {
	redis     redis.UniversalClient
	prefix    string
	namespace string
}

// New creates a [ChallengeStore]. prefix scopes all keys for the deployment
// and namespace separates token kinds within it.
func New(redisClient redis.UniversalClient, prefix, namespace string) *ChallengeStore {
	return &ChallengeStore{
		redis:     redisClient,
		prefix:    prefix,
		namespace: namespace,
	}
}

func (s *ChallengeStore) tokenKey(digest string) string {
	return s.prefix + ":" + s.namespace + ":" + digest
}

func (s *ChallengeStore) accountKey(accountID string) string {
	return s.prefix + ":" + s.namespace + "a:" + accountID
}

// Save stores a new challenge for record.AccountID keyed by digest,
// discarding any previous challenge of the same kind for that account.
// ttl bounds the Redis key lifetime; pass zero for no expiry. Records that
// carry an ExpiresAt are kept past the deadline (double ttl) so a late
// redemption can be distinguished from an unknown token.
func (s *ChallengeStore) Save(ctx context.Context, digest string, record *ChallengeRecord, ttl time.Duration) error {
	encoded, err := encodeChallengeRecord(record)
	if err != nil {
		return err
	}

	keyTTL := ttl
	if record.ExpiresAt > 0 && ttl > 0 {
		keyTTL = 2 * ttl
	}

	accountKey := s.accountKey(record.AccountID)

	prior, err := s.redis.Get(ctx, accountKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %v", ErrChallengeRedisUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prior != "" {
			pipe.Del(ctx, s.tokenKey(prior))
		}
		pipe.Set(ctx, s.tokenKey(digest), encoded, keyTTL)
		pipe.Set(ctx, accountKey, digest, keyTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChallengeRedisUnavailable, err)
	}

	return nil
}

// Consume redeems the challenge stored under digest and deletes it. Returns
// [ErrChallengeNotFound] for unknown digests and [ErrChallengeExpired] when
// the record's deadline has passed; the record is removed in both cases.
func (s *ChallengeStore) Consume(ctx context.Context, digest string) (*ChallengeRecord, error) {
	data, err := s.redis.GetDel(ctx, s.tokenKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrChallengeRedisUnavailable, err)
	}

	record, err := decodeChallengeRecord(data)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Del(ctx, s.accountKey(record.AccountID)).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChallengeRedisUnavailable, err)
	}

	if record.ExpiresAt > 0 && time.Now().UnixNano() > record.ExpiresAt {
		return nil, ErrChallengeExpired
	}

	return record, nil
}

// Drop removes any live challenge for the account without redeeming it.
func (s *ChallengeStore) Drop(ctx context.Context, accountID string) error {
	digest, err := s.redis.GetDel(ctx, s.accountKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrChallengeRedisUnavailable, err)
	}

	if err := s.redis.Del(ctx, s.tokenKey(digest)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrChallengeRedisUnavailable, err)
	}

	return nil
}

func encodeChallengeRecord(record *ChallengeRecord) ([]byte, error) {
	if record == nil {
		return nil, errors.New("nil challenge record")
	}
	if record.AccountID == "" {
		return nil, errors.New("challenge record missing account id")
	}

	var buf bytes.Buffer
	buf.WriteByte(challengeRecordVersionV1)

	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	idBytes := []byte(record.AccountID)
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(idBytes))); err != nil {
		return nil, err
	}
	buf.Write(idBytes)

	return buf.Bytes(), nil
}

func decodeChallengeRecord(data []byte) (*ChallengeRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, errors.New("challenge record truncated")
	}
	if version != challengeRecordVersionV1 {
		return nil, errors.New("unsupported challenge record version")
	}

	var record ChallengeRecord
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, errors.New("challenge record truncated")
	}

	var idLen uint16
	if err := binary.Read(reader, binary.BigEndian, &idLen); err != nil {
		return nil, errors.New("challenge record truncated")
	}

	idBytes := make([]byte, idLen)
	if _, err := io.ReadFull(reader, idBytes); err != nil {
		return nil, errors.New("challenge record truncated")
	}
	record.AccountID = string(idBytes)

	return &record, nil
}
