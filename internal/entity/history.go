package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
)

// NoMove marks the initial entry, which was not reached by playing a cell.
const NoMove = -1

type HistoryEntry struct {
	Board Board `json:"board"`
	Move  int   `json:"move"`
}

// History is an undo log with a cursor. Appending after moving the cursor back drops the
// entries that were ahead of it. Methods return a new History; the entries slice is never
// written in place, so older History values stay valid.
type History struct {
	entries []HistoryEntry
	cursor  int
}

func NewHistory() History {
	return History{
		entries: []HistoryEntry{{Board: NewBoard(), Move: NoMove}},
		cursor:  0,
	}
}

// Append - truncates everything after the cursor, appends the entry and moves the cursor onto it.
func (that History) Append(board Board, move int) History {
	kept := that.normalized()

	entries := make([]HistoryEntry, 0, kept.cursor+2)
	entries = append(entries, kept.entries[:kept.cursor+1]...)
	entries = append(entries, HistoryEntry{Board: board, Move: move})

	return History{
		entries: entries,
		cursor:  len(entries) - 1,
	}
}

func (that History) Reset() History {
	return NewHistory()
}

func (that History) Current() HistoryEntry {
	kept := that.normalized()

	return kept.entries[kept.cursor]
}

// JumpTo moves the cursor without dropping any entries.
func (that History) JumpTo(move int) (History, error) {
	kept := that.normalized()

	if move < 0 || move >= len(kept.entries) {
		return that, fmt.Errorf("%w: %d of %d", apperror.ErrInvalidMove, move, len(kept.entries))
	}

	return History{
		entries: kept.entries,
		cursor:  move,
	}, nil
}

func (that History) Cursor() int {
	return that.normalized().cursor
}

func (that History) Len() int {
	return len(that.normalized().entries)
}

func (that History) Entries() []HistoryEntry {
	kept := that.normalized()

	entries := make([]HistoryEntry, len(kept.entries))
	copy(entries, kept.entries)

	return entries
}

// XIsNext follows the cursor parity: entry 0 is the empty board and X plays from every even entry.
func (that History) XIsNext() bool {
	return that.Cursor()%2 == 0
}

func (that History) NextMark() Mark {
	if that.XIsNext() {
		return PlayerX
	}

	return PlayerO
}

// normalized lets the zero value behave like NewHistory.
func (that History) normalized() History {
	if len(that.entries) == 0 {
		return NewHistory()
	}

	return that
}
