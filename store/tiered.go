package store

import "context"

// Tiered layers an in-process L1 store in front of a Redis-backed L2. Reads
// check L1 first and promote L2 hits; writes populate both layers. Generation
// membership is taken from L2, which outlives the process.
type Tiered struct {
	l1 *L1
	l2 *L2
}

// NewTiered creates a two-level store.
func NewTiered(l1 *L1, l2 *L2) *Tiered {
	return &Tiered{l1: l1, l2: l2}
}

// Open opens the named generation in both layers.
func (t *Tiered) Open(ctx context.Context, name string) (Generation, error) {
	g2, err := t.l2.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	g1, err := t.l1.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &tieredGen{name: name, l1: g1, l2: g2}, nil
}

// Names lists generation names from the durable layer.
func (t *Tiered) Names(ctx context.Context) ([]string, error) {
	return t.l2.Names(ctx)
}

// DeleteAllExcept purges stale generations from both layers.
func (t *Tiered) DeleteAllExcept(ctx context.Context, keep string) error {
	if err := t.l2.DeleteAllExcept(ctx, keep); err != nil {
		return err
	}
	return t.l1.DeleteAllExcept(ctx, keep)
}

// tieredGen is a handle to one generation spanning both layers.
type tieredGen struct {
	name string
	l1   Generation
	l2   Generation
}

func (g *tieredGen) Name() string { return g.name }

// Get checks L1, then L2. On an L2 hit the snapshot is promoted into L1.
func (g *tieredGen) Get(ctx context.Context, key string) (*Snapshot, bool, error) {
	if snap, ok, err := g.l1.Get(ctx, key); err != nil || ok {
		return snap, ok, err
	}
	snap, ok, err := g.l2.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = g.l1.Put(ctx, key, snap)
	return snap, true, nil
}

// Put writes the snapshot to L2, then L1.
func (g *tieredGen) Put(ctx context.Context, key string, snap *Snapshot) error {
	if err := g.l2.Put(ctx, key, snap); err != nil {
		return err
	}
	return g.l1.Put(ctx, key, snap)
}
