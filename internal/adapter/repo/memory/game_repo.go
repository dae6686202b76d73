package memory

import (
	"context"

	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"
)

type GameRepo struct {
	store *Store
}

func NewGameRepo(store *Store) GameRepo {
	return GameRepo{store: store}
}

func (r GameRepo) TryGet(_ context.Context, host string) (game.Session, bool, error) {
	s, ok := r.store.games[host]
	return s, ok, nil
}

func (r GameRepo) Get(ctx context.Context, host string) (game.Session, error) {
	s, ok, _ := r.TryGet(ctx, host)
	if !ok {
		return game.Session{}, ports.ErrNotFound
	}
	return s, nil
}

func (r GameRepo) Put(_ context.Context, session game.Session) error {
	r.store.putGame(session)
	return nil
}
