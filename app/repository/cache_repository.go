package repository

import (
	"context"
	"sort"
	"time"

	"github.com/finsightlabs/finsight/internal/pkg/cache"
)

// scanBatchSize bounds both SCAN pages and DEL batches so a large purge
// never blocks redis on a single command.
const scanBatchSize = 500

// cacheKeyRepository operates directly on the redis cache client; it has no
// GORM backing.
type cacheKeyRepository struct{}

// NewCacheKeyRepository creates a cache key repository instance
func NewCacheKeyRepository() CacheKeyRepository {
	return &cacheKeyRepository{}
}

func (r *cacheKeyRepository) GetValue(key string) (string, error) {
	return cache.GetClient().Get(context.Background(), key).Result()
}

func (r *cacheKeyRepository) GetTTL(key string) (time.Duration, error) {
	return cache.GetClient().TTL(context.Background(), key).Result()
}

// FindKeysByPatterns collects the keys matching any of the given redis MATCH
// patterns via SCAN, deduplicated and sorted.
func (r *cacheKeyRepository) FindKeysByPatterns(patterns []string) ([]string, error) {
	client := cache.GetClient()
	ctx := context.Background()

	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		var cursor uint64
		for {
			page, next, err := client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
			if err != nil {
				return nil, err
			}
			for _, key := range page {
				seen[key] = struct{}{}
			}
			if cursor = next; cursor == 0 {
				break
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteKeys deletes keys in batches and returns how many existed.
func (r *cacheKeyRepository) DeleteKeys(keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	client := cache.GetClient()
	ctx := context.Background()

	var total int64
	for i := 0; i < len(keys); i += scanBatchSize {
		end := i + scanBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		deleted, err := client.Del(ctx, keys[i:end]...).Result()
		if err != nil {
			return total, err
		}
		total += deleted
	}
	return total, nil
}
