package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/pkg"
)

type managedSession struct {
	controller *SessionController
	lastSeen   time.Time
}

// SessionManager keeps one SessionController per user session. Ids are always generated here,
// and sessions nobody touched for longer than the idle limit are closed by Sweep.
type SessionManager struct {
	logger    *slog.Logger
	publisher eventPublisher
	newBot    func() Bot
	timing    BotTiming
	defaults  entity.Settings
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*managedSession
}

func NewSessionManager(logger *slog.Logger, publisher eventPublisher, newBot func() Bot, timing BotTiming, defaults entity.Settings) *SessionManager {
	return &SessionManager{
		logger:    logger.With("component", "session_manager"),
		publisher: publisher,
		newBot:    newBot,
		timing:    timing,
		defaults:  defaults,
		now:       time.Now,
		sessions:  make(map[string]*managedSession),
	}
}

// GetOrCreate - returns the session for id. An empty or unknown id gets a new session under a
// freshly generated id, so callers can't choose ids.
func (that *SessionManager) GetOrCreate(id string) *SessionController {
	that.mu.Lock()
	defer that.mu.Unlock()

	if managed, ok := that.sessions[id]; ok && id != "" {
		managed.lastSeen = that.now()
		return managed.controller
	}

	newID := pkg.GenerateNewSessionID()
	session := entity.NewSession(newID, that.defaults)
	controller := NewSessionController(that.logger, session, that.newBot(), that.publisher, that.timing)
	that.sessions[newID] = &managedSession{
		controller: controller,
		lastSeen:   that.now(),
	}

	that.logger.Info("session created", "session_id", newID)

	return controller
}

func (that *SessionManager) Get(id string) (*SessionController, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	managed, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}
	managed.lastSeen = that.now()

	return managed.controller, nil
}

// Close tears down a session and cancels its pending bot move.
func (that *SessionManager) Close(ctx context.Context, id string) error {
	that.mu.Lock()
	managed, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	managed.controller.Close(ctx)

	return nil
}

// EvictIdle closes every session last seen before idleSince and returns how many were closed.
func (that *SessionManager) EvictIdle(ctx context.Context, idleSince time.Time) int {
	that.mu.Lock()
	evicted := make([]*SessionController, 0)
	for id, managed := range that.sessions {
		if managed.lastSeen.Before(idleSince) {
			evicted = append(evicted, managed.controller)
			delete(that.sessions, id)
		}
	}
	that.mu.Unlock()

	for _, controller := range evicted {
		controller.Close(ctx)
	}

	return len(evicted)
}

// Sweep evicts sessions idle for longer than ttl every interval until ctx is done.
func (that *SessionManager) Sweep(ctx context.Context, ttl, interval time.Duration) {
	log := that.logger.With("method", "Sweep")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.EvictIdle(ctx, that.now().Add(-ttl)); evicted > 0 {
				log.Info("idle sessions evicted", "count", evicted)
			}
		}
	}
}

func (that *SessionManager) CloseAll(ctx context.Context) {
	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]*managedSession)
	that.mu.Unlock()

	for _, managed := range sessions {
		managed.controller.Close(ctx)
	}
}

func (that *SessionManager) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}
