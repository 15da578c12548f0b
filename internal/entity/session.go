package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
)

const (
	BotName      = "Bot"
	DefaultNameX = "Player X"
	DefaultNameO = "Player O"
)

type Scores struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

type Settings struct {
	SinglePlayer bool   `json:"single_player"`
	HumanMark    Mark   `json:"human_mark"`
	NameX        string `json:"name_x"`
	NameO        string `json:"name_o"`
}

func DefaultSettings() Settings {
	return Settings{
		SinglePlayer: false,
		HumanMark:    PlayerX,
		NameX:        DefaultNameX,
		NameO:        DefaultNameO,
	}
}

// Session is the whole game state of one table. Every transition returns a new value.
type Session struct {
	ID       string
	History  History
	Scores   Scores
	Settings Settings

	// Scored is true once the terminal board of the current game has been tallied.
	Scored bool
}

func NewSession(id string, settings Settings) Session {
	if !settings.HumanMark.IsValid() {
		settings.HumanMark = PlayerX
	}

	return Session{
		ID:       id,
		History:  NewHistory(),
		Settings: settings,
	}
}

func (that Session) Board() Board {
	return that.History.Current().Board
}

func (that Session) Outcome() Outcome {
	return Evaluate(that.Board())
}

func (that Session) NextMark() Mark {
	return that.History.NextMark()
}

func (that Session) BotMark() Mark {
	if !that.Settings.SinglePlayer {
		return EmptyCell
	}

	return that.Settings.HumanMark.Opponent()
}

// IsBotTurn reports whether the bot should move on the current board.
func (that Session) IsBotTurn() bool {
	if !that.Settings.SinglePlayer || that.Outcome().IsTerminal() {
		return false
	}

	return that.NextMark() == that.BotMark()
}

// Play applies the next mark on cell, appends the board to the history and tallies a terminal result.
func (that Session) Play(cell int) (Session, error) {
	board, err := ApplyMove(that.Board(), cell, that.NextMark())
	if err != nil {
		return that, err
	}

	next := that
	next.History = that.History.Append(board, cell)
	next.Scored = false

	return next.settle(), nil
}

func (that Session) JumpTo(move int) (Session, error) {
	history, err := that.History.JumpTo(move)
	if err != nil {
		return that, err
	}

	next := that
	next.History = history

	return next.settle(), nil
}

// Restart - starts a new game and keeps the scores.
func (that Session) Restart() Session {
	next := that
	next.History = that.History.Reset()
	next.Scored = false

	return next
}

// ResetAll - starts a new game and zeroes the scores.
func (that Session) ResetAll() Session {
	next := that.Restart()
	next.Scores = Scores{}

	return next
}

// WithSinglePlayer switches the mode and restarts the game. Setting the current mode changes nothing.
func (that Session) WithSinglePlayer(enabled bool) Session {
	if that.Settings.SinglePlayer == enabled {
		return that
	}

	next := that.Restart()
	next.Settings.SinglePlayer = enabled

	return next
}

func (that Session) WithHumanMark(mark Mark) (Session, error) {
	if !mark.IsValid() {
		return that, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if !that.Settings.SinglePlayer {
		return that, apperror.ErrNotSinglePlayer
	}

	if that.History.Len() > 1 || !that.Board().IsEmpty() {
		return that, apperror.ErrSideLocked
	}

	next := that.Restart()
	next.Settings.HumanMark = mark

	return next, nil
}

func (that Session) WithNames(nameX, nameO string) Session {
	next := that
	next.Settings.NameX = nameX
	next.Settings.NameO = nameO

	return next
}

// DisplayName - the bot side is always shown as BotName, empty names fall back to defaults.
func (that Session) DisplayName(mark Mark) string {
	if that.Settings.SinglePlayer && mark == that.BotMark() {
		return BotName
	}

	switch mark {
	case PlayerX:
		if that.Settings.NameX == "" {
			return DefaultNameX
		}
		return that.Settings.NameX
	case PlayerO:
		if that.Settings.NameO == "" {
			return DefaultNameO
		}
		return that.Settings.NameO
	default:
		return ""
	}
}

// settle tallies the current board once per game instance.
func (that Session) settle() Session {
	outcome := that.Outcome()
	if !outcome.IsTerminal() || that.Scored {
		return that
	}

	next := that
	switch {
	case outcome.IsDraw():
		next.Scores.Draws++
	case outcome.Winner == PlayerX:
		next.Scores.X++
	case outcome.Winner == PlayerO:
		next.Scores.O++
	}
	next.Scored = true

	return next
}
