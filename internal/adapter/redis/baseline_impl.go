package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	baselineSchemaKey = "blacklist:baseline:schema"
	baselineRowsKey   = "blacklist:baseline:rows"

	// SADD argument batches; a full feed snapshot can carry 10^5 row keys.
	saddChunkSize = 5000
)

// BaselineRepoImpl persists the diff baseline in Redis: the canonical
// snapshot schema as a string key and the row-hash set as a Redis set.
// With it, a restarted watcher resumes diffing against the last observed
// snapshot instead of the live feed.
type BaselineRepoImpl struct {
	client *redis.Client
}

// NewBaselineRepo creates a new instance of BaselineRepoImpl.
func NewBaselineRepo(client *redis.Client) *BaselineRepoImpl {
	return &BaselineRepoImpl{client: client}
}

// Replace atomically swaps the stored baseline for the given one.
func (r *BaselineRepoImpl) Replace(ctx context.Context, schema string, rowKeys []string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, baselineRowsKey)
	for start := 0; start < len(rowKeys); start += saddChunkSize {
		end := start + saddChunkSize
		if end > len(rowKeys) {
			end = len(rowKeys)
		}
		chunk := rowKeys[start:end]
		members := make([]interface{}, len(chunk))
		for i, k := range chunk {
			members[i] = k
		}
		pipe.SAdd(ctx, baselineRowsKey, members...)
	}
	pipe.Set(ctx, baselineSchemaKey, schema, 0)
	_, err := pipe.Exec(ctx)
	return err
}

// Load returns the stored baseline; an empty schema means none exists.
func (r *BaselineRepoImpl) Load(ctx context.Context) (string, map[string]struct{}, error) {
	schema, err := r.client.Get(ctx, baselineSchemaKey).Result()
	if err == redis.Nil {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	members, err := r.client.SMembers(ctx, baselineRowsKey).Result()
	if err != nil {
		return "", nil, err
	}
	keys := make(map[string]struct{}, len(members))
	for _, m := range members {
		keys[m] = struct{}{}
	}
	return schema, keys, nil
}
