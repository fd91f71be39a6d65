package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// L2 is a Redis-backed store. Each generation owns a flat set of entry keys
// ("<prefix>:keys:<gen>") alongside the entries themselves
// ("<prefix>:entry:<gen>:<key>"); generation names are tracked in a single
// membership set. Unlike a read-through cache layer, store failures here
// surface to the caller: a failed Put or purge is an unrecoverable condition
// for that operation, not a soft miss.
type L2 struct {
	rdb    *redis.Client
	prefix string
	closed atomic.Bool
}

// NewL2 creates a Redis-backed store. prefix namespaces all keys; when empty
// it defaults to "nuthoard".
func NewL2(addr, password string, db int, prefix string) *L2 {
	if prefix == "" {
		prefix = "nuthoard"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &L2{rdb: rdb, prefix: prefix}
}

func (l *L2) gensKey() string           { return l.prefix + ":generations" }
func (l *L2) keysKey(gen string) string { return l.prefix + ":keys:" + gen }
func (l *L2) entryKey(gen, key string) string {
	return l.prefix + ":entry:" + gen + ":" + key
}

// Open registers the named generation and returns a handle to it.
func (l *L2) Open(ctx context.Context, name string) (Generation, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	if err := l.rdb.SAdd(ctx, l.gensKey(), name).Err(); err != nil {
		return nil, fmt.Errorf("store: open generation %q: %w", name, err)
	}
	return &l2Gen{store: l, name: name}, nil
}

// Names lists all generation names.
func (l *L2) Names(ctx context.Context) ([]string, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	names, err := l.rdb.SMembers(ctx, l.gensKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list generations: %w", err)
	}
	return names, nil
}

// DeleteAllExcept destroys every generation other than keep, including all
// entries and bookkeeping sets.
func (l *L2) DeleteAllExcept(ctx context.Context, keep string) error {
	if l.closed.Load() {
		return ErrClosed
	}
	names, err := l.Names(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == keep {
			continue
		}
		keys, err := l.rdb.SMembers(ctx, l.keysKey(name)).Result()
		if err != nil {
			return fmt.Errorf("store: enumerate generation %q: %w", name, err)
		}
		entryKeys := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			entryKeys = append(entryKeys, l.entryKey(name, k))
		}
		entryKeys = append(entryKeys, l.keysKey(name))
		if err := l.rdb.Del(ctx, entryKeys...).Err(); err != nil {
			return fmt.Errorf("store: delete generation %q: %w", name, err)
		}
		if err := l.rdb.SRem(ctx, l.gensKey(), name).Err(); err != nil {
			return fmt.Errorf("store: unregister generation %q: %w", name, err)
		}
	}
	return nil
}

// Ping checks the Redis connection.
func (l *L2) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client. Subsequent store operations
// return [ErrClosed].
func (l *L2) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	return l.rdb.Close()
}

// l2Gen is a handle to one generation inside an L2 store.
type l2Gen struct {
	store *L2
	name  string
}

func (g *l2Gen) Name() string { return g.name }

func (g *l2Gen) Get(ctx context.Context, key string) (*Snapshot, bool, error) {
	if g.store.closed.Load() {
		return nil, false, ErrClosed
	}
	raw, err := g.store.rdb.Get(ctx, g.store.entryKey(g.name, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: get %q: %w", key, err)
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

func (g *l2Gen) Put(ctx context.Context, key string, snap *Snapshot) error {
	if g.store.closed.Load() {
		return ErrClosed
	}
	raw, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	pipe := g.store.rdb.TxPipeline()
	pipe.Set(ctx, g.store.entryKey(g.name, key), raw, 0)
	pipe.SAdd(ctx, g.store.keysKey(g.name), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: put %q: %w", key, err)
	}
	return nil
}
