package session

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func (e *codedError) Code() string { return e.code }

var (
	ErrInvalidRequest     = &codedError{code: "bad_request", msg: "invalid game request"}
	ErrInvalidMove        = &codedError{code: "invalid_move", msg: "invalid host move"}
	ErrGameInSession      = &codedError{code: "game_in_session", msg: "a game is already in session"}
	ErrAlreadyInitialized = &codedError{code: "already_initialized", msg: "store already initialized"}
	// ErrUnauthorized is reserved for access checks; no operation raises it yet.
	ErrUnauthorized = &codedError{code: "unauthorized", msg: "unauthorized"}
)
