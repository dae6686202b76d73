package session

import (
	"context"

	"rpsarena/internal/domain/game"
)

// ExecuteMsg is the command envelope. Exactly one variant is set.
type ExecuteMsg struct {
	StartGame *StartGameMsg `json:"start_game,omitempty"`
}

type StartGameMsg struct {
	Opponent string    `json:"opponent"`
	HostMove game.Move `json:"host_move"`
}

// QueryMsg is the query envelope. Exactly one variant is set.
type QueryMsg struct {
	GetGame      *GetGameMsg `json:"get_game,omitempty"`
	GetConfig    *struct{}   `json:"get_config,omitempty"`
	ContractInfo *struct{}   `json:"contract_info,omitempty"`
}

type GetGameMsg struct {
	Host string `json:"host"`
}

func (u UseCase) Execute(ctx context.Context, caller string, msg ExecuteMsg) (CommandResponse, error) {
	switch {
	case msg.StartGame != nil:
		return u.StartGame(ctx, StartGameRequest{
			Caller:   caller,
			Opponent: msg.StartGame.Opponent,
			HostMove: msg.StartGame.HostMove,
		})
	default:
		return CommandResponse{}, ErrInvalidRequest
	}
}

func (u UseCase) Query(ctx context.Context, msg QueryMsg) (any, error) {
	set := 0
	for _, present := range []bool{msg.GetGame != nil, msg.GetConfig != nil, msg.ContractInfo != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, ErrInvalidRequest
	}

	switch {
	case msg.GetGame != nil:
		return u.GetGame(ctx, GetGameRequest{Host: msg.GetGame.Host})
	case msg.GetConfig != nil:
		return u.GetConfig(ctx)
	default:
		return u.ContractInfo(ctx)
	}
}
