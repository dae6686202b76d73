package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepo_PutAndGet(t *testing.T) {
	store := NewStore()
	repo := NewGameRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		_, ok, err := repo.TryGet(ctx, "creator")
		require.NoError(t, err)
		assert.False(t, ok)
		return repo.Put(ctx, game.NewSession("creator", "someone", game.MoveRock))
	})
	require.NoError(t, err)

	err = tx.RunInTx(ctx, func(ctx context.Context) error {
		got, err := repo.Get(ctx, "creator")
		require.NoError(t, err)
		assert.Equal(t, game.NewSession("creator", "someone", game.MoveRock), got)
		return nil
	})
	require.NoError(t, err)
}

func TestGameRepo_GetMissing(t *testing.T) {
	repo := NewGameRepo(NewStore())
	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGameRepo_PutOverwrites(t *testing.T) {
	store := NewStore()
	repo := NewGameRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, game.NewSession("a", "b", game.MoveRock)))
	require.NoError(t, repo.Put(ctx, game.NewSession("a", "c", game.MovePaper)))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "c", got.Opponent)
	assert.Equal(t, game.MovePaper, got.HostMove)
}

func TestStateRepo_ConfigLifecycle(t *testing.T) {
	repo := NewStateRepo(NewStore())
	ctx := context.Background()

	_, err := repo.GetConfig(ctx)
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.GetContractInfo(ctx)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.PutConfig(ctx, game.Configuration{Owner: "first"}))
	require.NoError(t, repo.PutConfig(ctx, game.Configuration{Owner: "second"}))
	require.NoError(t, repo.PutContractInfo(ctx, game.ContractInfo{Name: "rpsarena", Version: "1.0.0"}))

	cfg, err := repo.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.Owner)

	info, err := repo.GetContractInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	store := NewStore()
	games := NewGameRepo(store)
	states := NewStateRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		require.NoError(t, games.Put(ctx, game.NewSession("a", "b", game.MoveRock)))
		require.NoError(t, states.PutConfig(ctx, game.Configuration{Owner: "a"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := games.TryGet(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "session write must be rolled back")
	_, err = states.GetConfig(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound, "config write must be rolled back")
}

func TestTxManager_RollbackRestoresOverwrittenSession(t *testing.T) {
	store := NewStore()
	games := NewGameRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	require.NoError(t, tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := games.Put(ctx, game.NewSession("a", "b", game.MoveRock)); err != nil {
			return err
		}
		return games.Put(ctx, game.NewSession("c", "d", game.MovePaper))
	}))

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		require.NoError(t, games.Put(ctx, game.NewSession("a", "x", game.MoveScissors)))
		require.NoError(t, games.Put(ctx, game.NewSession("a", "y", game.MoveScissors)))
		require.NoError(t, games.Put(ctx, game.NewSession("e", "f", game.MoveRock)))
		return errors.New("boom")
	})
	require.Error(t, err)

	a, err := games.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, game.NewSession("a", "b", game.MoveRock), a)
	c, err := games.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, game.NewSession("c", "d", game.MovePaper), c)
	_, err = games.Get(ctx, "e")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Nil(t, store.undo)
}

func TestTxManager_RollsBackOnPanic(t *testing.T) {
	store := NewStore()
	games := NewGameRepo(store)
	states := NewStateRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = tx.RunInTx(ctx, func(ctx context.Context) error {
			_ = games.Put(ctx, game.NewSession("a", "b", game.MoveRock))
			_ = states.PutConfig(ctx, game.Configuration{Owner: "a"})
			panic("boom")
		})
	})

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		_, ok, _ := games.TryGet(ctx, "a")
		assert.False(t, ok, "session write must be rolled back")
		_, err := states.GetConfig(ctx)
		assert.ErrorIs(t, err, ports.ErrNotFound)
		return nil
	})
	require.NoError(t, err, "store lock must be released after a panic")
}

func TestTxManager_ReadOnlyTxRecordsNothing(t *testing.T) {
	store := NewStore()
	games := NewGameRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	require.NoError(t, tx.RunInTx(ctx, func(ctx context.Context) error {
		return games.Put(ctx, game.NewSession("a", "b", game.MoveRock))
	}))
	require.NoError(t, tx.RunInTx(ctx, func(ctx context.Context) error {
		_, err := games.Get(ctx, "a")
		assert.Empty(t, store.undo.games)
		return err
	}))
	assert.Nil(t, store.undo)
}

func TestTxManager_CanceledContext(t *testing.T) {
	tx := NewTxManager(NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := tx.RunInTx(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTxManager_SerializesCheckThenPut(t *testing.T) {
	store := NewStore()
	games := NewGameRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tx.RunInTx(ctx, func(ctx context.Context) error {
				if _, ok, _ := games.TryGet(ctx, "host"); ok {
					return nil
				}
				mu.Lock()
				created++
				mu.Unlock()
				return games.Put(ctx, game.NewSession("host", "opp", game.MoveRock))
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}
