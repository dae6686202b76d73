package session

import "rpsarena/internal/domain/game"

type InitializeRequest struct {
	Caller string
}

type StartGameRequest struct {
	Caller   string
	Opponent string
	HostMove game.Move
}

type GetGameRequest struct {
	Host string
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CommandResponse carries the attributes a command emitted. Commands return
// no other payload.
type CommandResponse struct {
	Attributes []Attribute `json:"attributes"`
}

func (r CommandResponse) Attr(key string) string {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

type GetGameResponse struct {
	Game game.Session `json:"game"`
}

type ConfigResponse struct {
	Owner string `json:"owner"`
}
