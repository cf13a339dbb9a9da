package rate

import "errors"

// ErrRedisUnavailable wraps counter failures caused by the Redis backend.
var ErrRedisUnavailable = errors.New("redis unavailable")
