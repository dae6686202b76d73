package ports

import (
	"context"

	"rpsarena/internal/domain/game"
)

// StateRepository owns the singleton records written at initialization.
type StateRepository interface {
	PutConfig(ctx context.Context, cfg game.Configuration) error
	GetConfig(ctx context.Context) (game.Configuration, error)
	PutContractInfo(ctx context.Context, info game.ContractInfo) error
	GetContractInfo(ctx context.Context) (game.ContractInfo, error)
}

// GameRepository maps a host to its session. It does not enforce one
// session per host; callers check TryGet first.
type GameRepository interface {
	TryGet(ctx context.Context, host string) (game.Session, bool, error)
	Get(ctx context.Context, host string) (game.Session, error)
	Put(ctx context.Context, session game.Session) error
}
