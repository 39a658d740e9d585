package tx

import "context"

// Snapshotter is implemented by in-memory stores that can capture their
// state and hand back a restore function.
type Snapshotter interface {
	Snapshot() (restore func())
}

// InMemory is a StoreTx for in-memory stores. It snapshots every registered
// store before running the function and restores them all if it fails, which
// gives tests the same rollback semantics the SQL implementation provides.
type InMemory struct {
	stores []Snapshotter
}

func NewInMemory(stores ...Snapshotter) *InMemory {
	return &InMemory{stores: stores}
}

func (m *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.Snapshot())
	}
	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}
