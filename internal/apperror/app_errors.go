package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrInvalidMark     = errors.New("invalid mark")
	ErrInvalidMove     = errors.New("move is not in history")
	ErrSideLocked      = errors.New("side can't be changed after the first move")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSinglePlayer = errors.New("side can only be chosen against the bot")
)
