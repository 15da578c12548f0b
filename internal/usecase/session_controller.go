package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/pkg"
)

const publishTimeout = 2 * time.Second

// errUnchanged tells transition the action would not change the session.
var errUnchanged = errors.New("unchanged")

type Bot interface {
	ChooseCell(board entity.Board, mark entity.Mark) (int, bool)
}

type eventPublisher interface {
	Publish(ctx context.Context, event entity.SessionEvent) error
}

// BotTiming - delays of the single-player bot. The bot is armed for an arming period after a
// restart or a settings change and moves MoveDelay after it becomes eligible.
type BotTiming struct {
	ArmDelay        time.Duration
	RestartArmDelay time.Duration
	ToggleArmDelay  time.Duration
	MoveDelay       time.Duration
}

// SessionController owns one Session. Every accepted action replaces the session value as a
// whole under the lock, then publishes it and reschedules the bot.
type SessionController struct {
	logger    *slog.Logger
	bot       Bot
	publisher eventPublisher
	timing    BotTiming
	timer     *pkg.Timer

	mu         sync.Mutex
	session    entity.Session
	armedUntil time.Time
	generation uint64
	closed     bool
}

// NewSessionController arms the bot with timing.ArmDelay. publisher may be nil.
func NewSessionController(logger *slog.Logger, session entity.Session, bot Bot, publisher eventPublisher, timing BotTiming) *SessionController {
	controller := &SessionController{
		logger:    logger.With("component", "session", "session_id", session.ID),
		bot:       bot,
		publisher: publisher,
		timing:    timing,
		timer:     pkg.NewTimer(),
		session:   session,
	}

	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.armLocked(timing.ArmDelay)
	controller.scheduleLocked()

	return controller
}

func (that *SessionController) ID() string {
	return that.Session().ID
}

// Session returns a copy of the current state.
func (that *SessionController) Session() entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session
}

func (that *SessionController) View() entity.View {
	return that.Session().View()
}

// Play - the human places the next mark on cell. Illegal moves leave the session untouched.
func (that *SessionController) Play(ctx context.Context, cell int) (entity.View, error) {
	log := that.logger.With("method", "Play", "cell", cell)

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return that.session.View(), apperror.ErrSessionNotFound
	}

	if that.session.IsBotTurn() {
		log.Debug("move rejected", "error", apperror.ErrNotYourTurn)
		return that.session.View(), apperror.ErrNotYourTurn
	}

	next, err := that.session.Play(cell)
	if err != nil {
		log.Debug("move rejected", "error", err)
		return that.session.View(), fmt.Errorf("failed make turn: %w", err)
	}

	that.commitLocked(ctx, next, entity.EventMove)
	that.scheduleLocked()

	return that.session.View(), nil
}

// JumpTo moves the history cursor. The next move from there drops the later entries.
func (that *SessionController) JumpTo(ctx context.Context, move int) (entity.View, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return that.session.View(), apperror.ErrSessionNotFound
	}

	next, err := that.session.JumpTo(move)
	if err != nil {
		that.logger.Debug("jump rejected", "method", "JumpTo", "move", move, "error", err)
		return that.session.View(), fmt.Errorf("failed jump to move: %w", err)
	}

	that.commitLocked(ctx, next, entity.EventJump)
	that.scheduleLocked()

	return that.session.View(), nil
}

// Restart - new game, scores kept.
func (that *SessionController) Restart(ctx context.Context) (entity.View, error) {
	return that.transition(ctx, entity.EventRestart, that.timing.RestartArmDelay, func(session entity.Session) (entity.Session, error) {
		return session.Restart(), nil
	})
}

// ResetAll - new game, scores zeroed.
func (that *SessionController) ResetAll(ctx context.Context) (entity.View, error) {
	return that.transition(ctx, entity.EventReset, that.timing.RestartArmDelay, func(session entity.Session) (entity.Session, error) {
		return session.ResetAll(), nil
	})
}

func (that *SessionController) SetSinglePlayer(ctx context.Context, enabled bool) (entity.View, error) {
	return that.transition(ctx, entity.EventMode, that.timing.ToggleArmDelay, func(session entity.Session) (entity.Session, error) {
		if session.Settings.SinglePlayer == enabled {
			return session, errUnchanged
		}

		return session.WithSinglePlayer(enabled), nil
	})
}

// ChooseSide sets the human's mark. Only allowed before the first move of a game.
func (that *SessionController) ChooseSide(ctx context.Context, mark entity.Mark) (entity.View, error) {
	return that.transition(ctx, entity.EventSide, that.timing.ToggleArmDelay, func(session entity.Session) (entity.Session, error) {
		next, err := session.WithHumanMark(mark)
		if err != nil {
			return session, fmt.Errorf("failed choose side: %w", err)
		}

		return next, nil
	})
}

func (that *SessionController) SetNames(ctx context.Context, nameX, nameO string) (entity.View, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return that.session.View(), apperror.ErrSessionNotFound
	}

	that.commitLocked(ctx, that.session.WithNames(nameX, nameO), entity.EventNames)

	return that.session.View(), nil
}

// Close disarms the bot. A closed controller rejects every action.
func (that *SessionController) Close(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	that.generation++
	that.timer.Disarm()

	that.publishLocked(ctx, entity.EventClosed)
	that.logger.Info("session closed")
}

// transition applies a settings or lifecycle change: the pending bot move is cancelled, the bot is
// re-armed for armDelay and scheduled again if it has the turn. An apply returning errUnchanged
// leaves the session, the bot and subscribers alone.
func (that *SessionController) transition(
	ctx context.Context,
	kind entity.EventKind,
	armDelay time.Duration,
	apply func(entity.Session) (entity.Session, error),
) (entity.View, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return that.session.View(), apperror.ErrSessionNotFound
	}

	next, err := apply(that.session)
	if errors.Is(err, errUnchanged) {
		return that.session.View(), nil
	}

	if err != nil {
		that.logger.Debug("action rejected", "kind", kind, "error", err)
		return that.session.View(), err
	}

	that.armLocked(armDelay)

	that.commitLocked(ctx, next, kind)
	that.scheduleLocked()

	return that.session.View(), nil
}

// fireBot runs on the timer goroutine. A stale generation means the move was cancelled.
func (that *SessionController) fireBot(generation uint64) {
	log := that.logger.With("method", "fireBot")

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed || generation != that.generation || !that.session.IsBotTurn() {
		return
	}

	cell, ok := that.bot.ChooseCell(that.session.Board(), that.session.BotMark())
	if !ok {
		return
	}

	next, err := that.session.Play(cell)
	if err != nil {
		log.Error("bot failed to make turn", "cell", cell, "error", err)
		return
	}

	log.Debug("bot made turn", "cell", cell)

	that.commitLocked(ctx, next, entity.EventBotMove)
	that.scheduleLocked()
}

func (that *SessionController) armLocked(delay time.Duration) {
	that.armedUntil = time.Now().Add(delay)
}

// scheduleLocked replaces any pending bot move with one for the current board, if the bot is to move.
func (that *SessionController) scheduleLocked() {
	that.generation++
	that.timer.Disarm()

	if that.closed || !that.session.IsBotTurn() {
		return
	}

	wait := time.Until(that.armedUntil)
	if wait < 0 {
		wait = 0
	}

	generation := that.generation
	that.timer.Arm(wait+that.timing.MoveDelay, func() {
		that.fireBot(generation)
	})
}

func (that *SessionController) commitLocked(ctx context.Context, next entity.Session, kind entity.EventKind) {
	scoredBefore := that.session.Scored
	that.session = next

	if next.Scored && !scoredBefore {
		outcome := next.Outcome()
		that.logger.Info("game finished", "outcome", outcome.Kind, "winner", outcome.Winner, "scores", next.Scores)
	}

	that.publishLocked(ctx, kind)
}

func (that *SessionController) publishLocked(ctx context.Context, kind entity.EventKind) {
	if that.publisher == nil {
		return
	}

	event := entity.SessionEvent{
		Kind: kind,
		At:   time.Now(),
		View: that.session.View(),
	}

	if err := that.publisher.Publish(ctx, event); err != nil {
		that.logger.Error("failed to publish session event", "kind", kind, "error", err)
	}
}
