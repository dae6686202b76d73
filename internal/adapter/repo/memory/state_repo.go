package memory

import (
	"context"

	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"
)

type StateRepo struct {
	store *Store
}

func NewStateRepo(store *Store) StateRepo {
	return StateRepo{store: store}
}

func (r StateRepo) PutConfig(_ context.Context, cfg game.Configuration) error {
	r.store.config = &cfg
	return nil
}

func (r StateRepo) GetConfig(_ context.Context) (game.Configuration, error) {
	if r.store.config == nil {
		return game.Configuration{}, ports.ErrNotFound
	}
	return *r.store.config, nil
}

func (r StateRepo) PutContractInfo(_ context.Context, info game.ContractInfo) error {
	r.store.info = &info
	return nil
}

func (r StateRepo) GetContractInfo(_ context.Context) (game.ContractInfo, error) {
	if r.store.info == nil {
		return game.ContractInfo{}, ports.ErrNotFound
	}
	return *r.store.info, nil
}
