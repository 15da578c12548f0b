package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
)

// ApplyMove returns a copy of board with mark placed on cell. The input board is never changed;
// on error the zero board is returned together with the reason.
func ApplyMove(board Board, cell int, mark Mark) (Board, error) {
	if err := validateMove(board, cell, mark); err != nil {
		return Board{}, fmt.Errorf("invalid move: %w", err)
	}

	next := board
	next[cell] = mark

	return next, nil
}

// validateMove - checks if the move is valid.
func validateMove(board Board, cell int, mark Mark) error {
	if cell < 0 || cell >= len(board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !mark.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if Evaluate(board).IsTerminal() {
		return apperror.ErrGameFinished
	}

	if board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	if board.NextMark() != mark {
		return apperror.ErrNotYourTurn
	}

	return nil
}
