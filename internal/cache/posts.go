package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"inkwell/internal/model"

	"github.com/redis/go-redis/v9"
)

const postKeyPrefix = "post:"

// PostCache 公開文章頁的 cache-aside，nil receiver 代表未啟用快取。
// 快取失敗只記 log，不影響請求結果。
type PostCache struct {
	c   Cache
	ttl time.Duration
}

func NewPostCache(c Cache, ttl time.Duration) *PostCache {
	if c == nil {
		return nil
	}
	return &PostCache{c: c, ttl: ttl}
}

func postKey(slug string) string { return postKeyPrefix + slug }

// Get 命中時回傳文章與 true
func (pc *PostCache) Get(ctx context.Context, slug string) (*model.Post, bool) {
	if pc == nil {
		return nil, false
	}
	raw, err := pc.c.Get(ctx, postKey(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "post cache get failed", "slug", slug, "err", err)
		}
		return nil, false
	}
	var p model.Post
	if err := json.Unmarshal(raw, &p); err != nil {
		slog.WarnContext(ctx, "post cache decode failed", "slug", slug, "err", err)
		return nil, false
	}
	return &p, true
}

func (pc *PostCache) Set(ctx context.Context, p *model.Post) {
	if pc == nil || p == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := pc.c.Set(ctx, postKey(p.Slug), raw, pc.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "post cache set failed", "slug", p.Slug, "err", err)
	}
}

// Invalidate 刪除一或多個 slug 的快取，空字串會略過
func (pc *PostCache) Invalidate(ctx context.Context, slugs ...string) {
	if pc == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, postKey(s))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := pc.c.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "post cache invalidate failed", "keys", keys, "err", err)
	}
}
