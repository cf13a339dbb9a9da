package ftauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mrra1yan/FootballTalento/internal/rate"
	"github.com/mrra1yan/FootballTalento/internal/stores"
	"github.com/mrra1yan/FootballTalento/notify"
	"github.com/mrra1yan/FootballTalento/password"
	"github.com/mrra1yan/FootballTalento/token"
)

// Builder assembles an [Engine]. Obtain one with [New], chain the With
// methods, and call Build once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store     CredentialStore
	notifier  notify.Notifier
	auditSink AuditSink

	built bool
}

func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

func (b *Builder) WithNotifier(n notify.Notifier) *Builder {
	b.notifier = n
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.store == nil {
		return nil, errors.New("credential store required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(cfg.Password)
	if err != nil {
		return nil, err
	}

	prefix := cfg.Token.RedisPrefix

	engine := &Engine{
		config:        cfg,
		store:         b.store,
		limiter:       rate.New(b.redis, prefix),
		tokens:        token.NewManager(b.redis, prefix),
		verifications: stores.New(b.redis, prefix, "vt"),
		resets:        stores.New(b.redis, prefix, "rt"),
		hasher:        hasher,
		notifier:      b.notifier,
		audit:         newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:       newMetrics(cfg.Metrics),
	}

	b.built = true
	return engine, nil
}
