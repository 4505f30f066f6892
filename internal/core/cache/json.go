package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// GetOrLoadJSON 以 JSON 存取的读穿缓存；缓存内容损坏时删掉并回源一次
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if !c.enabled() {
		return load(ctx)
	}
	fetch := func() ([]byte, error) {
		return c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
			v, e := load(ctx)
			if e != nil {
				return nil, e
			}
			return json.Marshal(v)
		})
	}
	b, err := fetch()
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[T](b)
	if err == nil {
		return out, nil
	}
	if e := c.Invalidate(ctx, key); e != nil {
		return nil, e
	}
	if b, err = fetch(); err != nil {
		return nil, err
	}
	return decodeJSON[T](b)
}

func decodeJSON[T any](b []byte) (*T, error) {
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
