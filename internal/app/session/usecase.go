// Package session implements the session service: initialization, starting a
// session, and reading it back.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"

	"github.com/rs/zerolog"
)

// Policy switches optional checks on top of the reference behavior.
type Policy struct {
	// GuardInitialize rejects a second Initialize instead of overwriting the owner.
	GuardInitialize bool
	// StrictMoves rejects Waiting as the host's own move.
	StrictMoves bool
}

type UseCase struct {
	TxManager ports.TxManager
	States    ports.StateRepository
	Games     ports.GameRepository
	Metrics   ports.GameMetrics
	Log       zerolog.Logger
	Contract  game.ContractInfo
	Policy    Policy
}

func (u UseCase) Initialize(ctx context.Context, req InitializeRequest) (CommandResponse, error) {
	caller := req.Caller
	if blank(caller) {
		return CommandResponse{}, ErrInvalidRequest
	}

	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if u.Policy.GuardInitialize {
			_, err := u.States.GetConfig(txCtx)
			switch {
			case err == nil:
				return ErrAlreadyInitialized
			case !errors.Is(err, ports.ErrNotFound):
				return err
			}
		}
		if err := u.States.PutContractInfo(txCtx, u.Contract); err != nil {
			return fmt.Errorf("save contract info: %w", err)
		}
		if err := u.States.PutConfig(txCtx, game.Configuration{Owner: caller}); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		return nil
	})
	if err != nil {
		u.Log.Warn().Err(err).Str("caller", caller).Msg("initialize failed")
		return CommandResponse{}, err
	}

	u.Log.Info().Str("owner", caller).Str("contract", u.Contract.Name).Str("version", u.Contract.Version).Msg("store initialized")
	return CommandResponse{Attributes: []Attribute{
		{Key: "method", Value: "instantiate"},
		{Key: "owner", Value: caller},
	}}, nil
}

func (u UseCase) StartGame(ctx context.Context, req StartGameRequest) (CommandResponse, error) {
	caller, opponent := req.Caller, req.Opponent
	err := u.validateStart(req)
	if err == nil {
		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			_, exists, err := u.Games.TryGet(txCtx, caller)
			if err != nil {
				return err
			}
			if exists {
				return ErrGameInSession
			}
			return u.Games.Put(txCtx, game.NewSession(caller, opponent, req.HostMove))
		})
	}
	if err != nil {
		u.recordStartError(err)
		u.Log.Debug().Err(err).Str("host", caller).Str("opponent", opponent).Msg("start game rejected")
		return CommandResponse{}, err
	}

	if u.Metrics != nil {
		u.Metrics.RecordStarted()
	}
	u.Log.Info().Str("host", caller).Str("opponent", opponent).Str("host_move", req.HostMove.String()).Msg("game started")
	return CommandResponse{Attributes: []Attribute{
		{Key: "method", Value: "start_game"},
	}}, nil
}

// validateStart checks the request shape. Party ids are opaque: they are
// stored and keyed exactly as given, only all-blank ids are rejected.
func (u UseCase) validateStart(req StartGameRequest) error {
	if blank(req.Caller) || blank(req.Opponent) {
		return ErrInvalidRequest
	}
	if _, err := game.ParseMove(string(req.HostMove)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if u.Policy.StrictMoves && !req.HostMove.Submitted() {
		return fmt.Errorf("%w: host must submit a move", ErrInvalidMove)
	}
	return nil
}

func blank(id string) bool {
	return strings.TrimSpace(id) == ""
}

func (u UseCase) GetGame(ctx context.Context, req GetGameRequest) (GetGameResponse, error) {
	u.recordQuery()
	var session game.Session
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		session, err = u.Games.Get(txCtx, req.Host)
		return err
	})
	if err != nil {
		return GetGameResponse{}, err
	}
	return GetGameResponse{Game: session}, nil
}

func (u UseCase) GetConfig(ctx context.Context) (ConfigResponse, error) {
	u.recordQuery()
	var cfg game.Configuration
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		cfg, err = u.States.GetConfig(txCtx)
		return err
	})
	if err != nil {
		return ConfigResponse{}, err
	}
	return ConfigResponse{Owner: cfg.Owner}, nil
}

func (u UseCase) ContractInfo(ctx context.Context) (game.ContractInfo, error) {
	u.recordQuery()
	var info game.ContractInfo
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		info, err = u.States.GetContractInfo(txCtx)
		return err
	})
	return info, err
}

func (u UseCase) recordStartError(err error) {
	if u.Metrics == nil {
		return
	}
	switch {
	case errors.Is(err, ErrGameInSession),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidMove),
		errors.Is(err, ports.ErrConflict):
		u.Metrics.RecordRejected(ports.Code(err))
		return
	}
	u.Metrics.RecordFailure()
}

func (u UseCase) recordQuery() {
	if u.Metrics != nil {
		u.Metrics.RecordQuery()
	}
}
