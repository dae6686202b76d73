package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serializes fn against the store and discards its writes when it
// returns an error or panics.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.begin()
	defer func() {
		if r := recover(); r != nil {
			t.store.rollback()
			panic(r)
		}
	}()
	if err := fn(ctx); err != nil {
		t.store.rollback()
		return err
	}
	t.store.commit()
	return nil
}
