package cache

import (
	"context"
	"strconv"
	"time"
)

// Cache stores JSON values. A ttl <= 0 on Set means the configured default.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	ProductKeyPrefix = "product"
	TokenKeyPrefix   = "token"
)

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

func ProductKey(id int64) string {
	return Key(ProductKeyPrefix, strconv.FormatInt(id, 10))
}

func TokenKey(jti string) string {
	return Key(TokenKeyPrefix, jti)
}
