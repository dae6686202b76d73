package game

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMove    = errors.New("unknown move")
	ErrUnknownOutcome = errors.New("unknown outcome")
)

// Move is a participant's action for a round. MoveWaiting marks a move that
// has not been submitted yet.
type Move string

const (
	MoveWaiting  Move = "Waiting"
	MoveRock     Move = "Rock"
	MovePaper    Move = "Paper"
	MoveScissors Move = "Scissors"
)

// Outcome is the resolution state of a session.
type Outcome string

const (
	OutcomeInProgress   Outcome = "InProgress"
	OutcomeHostWins     Outcome = "HostWins"
	OutcomeOpponentWins Outcome = "OpponentWins"
	OutcomeTie          Outcome = "Tie"
)

func ParseMove(raw string) (Move, error) {
	switch m := Move(raw); m {
	case MoveWaiting, MoveRock, MovePaper, MoveScissors:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMove, raw)
}

func ParseOutcome(raw string) (Outcome, error) {
	switch o := Outcome(raw); o {
	case OutcomeInProgress, OutcomeHostWins, OutcomeOpponentWins, OutcomeTie:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, raw)
}

// Submitted reports whether m is a real move rather than the placeholder.
func (m Move) Submitted() bool {
	return m != MoveWaiting
}

func (m Move) String() string { return string(m) }

func (o Outcome) String() string { return string(o) }

func (m *Move) UnmarshalText(b []byte) error {
	parsed, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	parsed, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Configuration is the process-wide record written once by Initialize.
type Configuration struct {
	Owner string `json:"owner"`
}

// ContractInfo identifies the build that initialized the store.
type ContractInfo struct {
	Name    string `json:"contract"`
	Version string `json:"version"`
}

// Session is one game between a host and an opponent, keyed by host.
type Session struct {
	Host         string  `json:"host"`
	Opponent     string  `json:"opponent"`
	HostMove     Move    `json:"host_move"`
	OpponentMove Move    `json:"opponent_move"`
	Outcome      Outcome `json:"outcome"`
}

// NewSession opens a session with the opponent still to move.
func NewSession(host, opponent string, hostMove Move) Session {
	return Session{
		Host:         host,
		Opponent:     opponent,
		HostMove:     hostMove,
		OpponentMove: MoveWaiting,
		Outcome:      OutcomeInProgress,
	}
}
