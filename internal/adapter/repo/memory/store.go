package memory

import (
	"sync"

	"rpsarena/internal/domain/game"
)

// Store holds the "state" slot and the "game_data" map in process memory.
// Repositories built on it must be used inside TxManager.RunInTx.
type Store struct {
	mu     sync.Mutex
	config *game.Configuration
	info   *game.ContractInfo
	games  map[string]game.Session
	undo   *journal
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]game.Session),
	}
}

// journal records the prior value of every slot the open transaction wrote,
// so rollback costs only what was touched.
type journal struct {
	config *game.Configuration
	info   *game.ContractInfo
	games  map[string]priorSession
}

type priorSession struct {
	session game.Session
	existed bool
}

func (s *Store) begin() {
	s.undo = &journal{
		config: s.config,
		info:   s.info,
		games:  map[string]priorSession{},
	}
}

func (s *Store) commit() {
	s.undo = nil
}

func (s *Store) rollback() {
	if s.undo == nil {
		return
	}
	s.config = s.undo.config
	s.info = s.undo.info
	for host, prior := range s.undo.games {
		if prior.existed {
			s.games[host] = prior.session
		} else {
			delete(s.games, host)
		}
	}
	s.undo = nil
}

func (s *Store) putGame(session game.Session) {
	if s.undo != nil {
		if _, seen := s.undo.games[session.Host]; !seen {
			prev, ok := s.games[session.Host]
			s.undo.games[session.Host] = priorSession{session: prev, existed: ok}
		}
	}
	s.games[session.Host] = session
}
