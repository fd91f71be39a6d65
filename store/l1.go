package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

// genSep separates the generation name from the entry key inside the backing
// cache. It cannot occur in either part.
const genSep = "\x1f"

// L1 is an in-process store backed by ristretto. Because ristretto cannot
// enumerate its keys, L1 maintains a per-generation key index so that whole
// generations can be purged.
type L1 struct {
	rc *ristretto.Cache[string, []byte]

	mu   sync.Mutex
	gens map[string]map[string]struct{} // generation name → set of entry keys
}

// NewL1 creates a new L1 store. maxCost controls the maximum number of
// entries the backing cache can hold (each entry has a cost of 1).
func NewL1(maxCost int64) (*L1, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &L1{
		rc:   rc,
		gens: make(map[string]map[string]struct{}),
	}, nil
}

// Open returns a handle to the named generation, creating it if needed.
func (l *L1) Open(_ context.Context, name string) (Generation, error) {
	l.mu.Lock()
	if _, ok := l.gens[name]; !ok {
		l.gens[name] = make(map[string]struct{})
	}
	l.mu.Unlock()
	return &l1Gen{store: l, name: name}, nil
}

// Names lists all generation names in lexical order.
func (l *L1) Names(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.gens))
	for n := range l.gens {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteAllExcept destroys every generation other than keep.
func (l *L1) DeleteAllExcept(_ context.Context, keep string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, keys := range l.gens {
		if name == keep {
			continue
		}
		for k := range keys {
			l.rc.Del(name + genSep + k)
		}
		delete(l.gens, name)
	}
	return nil
}

// l1Gen is a handle to one generation inside an L1 store.
type l1Gen struct {
	store *L1
	name  string
}

func (g *l1Gen) Name() string { return g.name }

func (g *l1Gen) Get(_ context.Context, key string) (*Snapshot, bool, error) {
	raw, ok := g.store.rc.Get(g.name + genSep + key)
	if !ok {
		return nil, false, nil
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

func (g *l1Gen) Put(_ context.Context, key string, snap *Snapshot) error {
	raw, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	g.store.mu.Lock()
	if set, ok := g.store.gens[g.name]; ok {
		set[key] = struct{}{}
	} else {
		g.store.gens[g.name] = map[string]struct{}{key: {}}
	}
	g.store.mu.Unlock()

	g.store.rc.Set(g.name+genSep+key, raw, 1)
	g.store.rc.Wait()
	return nil
}
