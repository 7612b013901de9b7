package scenes

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	// Key patterns
	snapshotKeyPrefix = "scene:"
	snapshotIndexKey  = "scenes:all"

	// listConcurrency bounds the parallel reads of List
	listConcurrency = 8
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
	TimeProvider  TimeProvider
	// TTL expires snapshots; zero keeps them until deleted
	TTL time.Duration
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
	timeProvider  TimeProvider
	ttl           time.Duration
}

// NewRedisRepository creates a Redis-backed snapshot repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	r := &redisRepository{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
		timeProvider:  cfg.TimeProvider,
		ttl:           cfg.TTL,
	}
	if r.uuidGenerator == nil {
		r.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if r.timeProvider == nil {
		r.timeProvider = systemClock{}
	}
	return r
}

func snapshotKey(id string) string {
	return snapshotKeyPrefix + id
}

// Put stores the snapshot and indexes its id
func (r *redisRepository) Put(ctx context.Context, snap *Snapshot) error {
	if err := validate(snap); err != nil {
		return err
	}
	if snap.ID == "" {
		snap.ID = r.uuidGenerator.New()
	}
	snap.SavedAt = r.timeProvider.Now()

	data, err := json.Marshal(snap)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal snapshot")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, snapshotKey(snap.ID), string(data), r.ttl)
	pipe.SAdd(ctx, snapshotIndexKey, snap.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrapf(err, "failed to store snapshot %s", snap.ID)
	}
	return nil
}

// Get retrieves a snapshot by id
func (r *redisRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("snapshot id is required")
	}

	data, err := r.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dnderr.NotFoundf("snapshot %s not found", id)
		}
		return nil, dnderr.Wrapf(err, "failed to get snapshot %s", id)
	}
	return decode(id, data)
}

// Delete removes a snapshot and its index entry
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("snapshot id is required")
	}

	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, snapshotKey(id))
	pipe.SRem(ctx, snapshotIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrapf(err, "failed to delete snapshot %s", id)
	}
	if del.Val() == 0 {
		return dnderr.NotFoundf("snapshot %s not found", id)
	}
	return nil
}

// List reads every indexed snapshot. Ids whose snapshot expired are skipped.
func (r *redisRepository) List(ctx context.Context) ([]*Snapshot, error) {
	ids, err := r.client.SMembers(ctx, snapshotIndexKey).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list snapshots")
	}
	sort.Strings(ids)

	snaps := make([]*Snapshot, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			snap, err := r.Get(gctx, id)
			if err != nil {
				if dnderr.IsNotFound(err) {
					return nil
				}
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		if snap != nil {
			out = append(out, snap)
		}
	}
	return out, nil
}
