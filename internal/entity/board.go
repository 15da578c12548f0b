package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
)

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const (
	BoardSize  = 9
	CenterCell = 4
)

var (
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	CornerCells = [4]int{0, 2, 6, 8}
)

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsValid() bool {
	return that == PlayerX || that == PlayerO
}

// ParseMark - converts user input into a player mark.
func ParseMark(value string) (Mark, error) {
	mark := Mark(value)
	if !mark.IsValid() {
		return EmptyCell, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, value)
	}

	return mark, nil
}

// Board is a value type, so every assignment is a copy and a move never touches the caller's board.
type Board [BoardSize]Mark

func NewBoard() Board {
	return Board{}
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) IsEmpty() bool {
	return that == Board{}
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// NextMark - X moves first, so X is next whenever both marks are even.
func (that Board) NextMark() Mark {
	if that.Count(PlayerX) == that.Count(PlayerO) {
		return PlayerX
	}

	return PlayerO
}
