package service

import (
	"math/rand"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

// Rand is the randomness the bot uses to break ties between corners and remaining cells.
type Rand interface {
	Intn(n int) int
}

// BotService picks the bot's next cell: win now, block now, center, random corner, random cell.
// The ladder is a heuristic and can lose to a fork.
type BotService interface {
	ChooseCell(board entity.Board, mark entity.Mark) (int, bool)
}

type botService struct {
	rnd Rand
}

func NewBotService(rnd Rand) BotService {
	return &botService{
		rnd: rnd,
	}
}

// NewSeededRand - seed 0 means seeded from the clock.
func NewSeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)) //nolint: gosec // it's ok
}

// ChooseCell returns false when the board has no empty cell.
func (that *botService) ChooseCell(board entity.Board, mark entity.Mark) (int, bool) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return 0, false
	}

	if cell, ok := winningCell(board, mark); ok {
		return cell, true
	}

	if cell, ok := winningCell(board, mark.Opponent()); ok {
		return cell, true
	}

	if board[entity.CenterCell] == entity.EmptyCell {
		return entity.CenterCell, true
	}

	corners := make([]int, 0, len(entity.CornerCells))
	for _, cell := range entity.CornerCells {
		if board[cell] == entity.EmptyCell {
			corners = append(corners, cell)
		}
	}

	if len(corners) > 0 {
		return corners[that.rnd.Intn(len(corners))], true
	}

	return availableCells[that.rnd.Intn(len(availableCells))], true
}

// winningCell - the lowest empty cell that completes a line for mark.
func winningCell(board entity.Board, mark entity.Mark) (int, bool) {
	for _, cell := range board.EmptyCells() {
		trial := board
		trial[cell] = mark

		if outcome := entity.Evaluate(trial); outcome.IsWin() && outcome.Winner == mark {
			return cell, true
		}
	}

	return 0, false
}
