package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

const sessionCookie = "user_session"

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	GetSession(w http.ResponseWriter, r *http.Request)
	CloseSession(w http.ResponseWriter, r *http.Request)

	Move(w http.ResponseWriter, r *http.Request)
	Jump(w http.ResponseWriter, r *http.Request)
	Restart(w http.ResponseWriter, r *http.Request)
	ResetAll(w http.ResponseWriter, r *http.Request)

	SetMode(w http.ResponseWriter, r *http.Request)
	ChooseSide(w http.ResponseWriter, r *http.Request)
	SetNames(w http.ResponseWriter, r *http.Request)
}

type sessionManager interface {
	GetOrCreate(id string) *usecase.SessionController
	Close(ctx context.Context, id string) error
}

type handlers struct {
	logger   *slog.Logger
	sessions sessionManager
	lifetime time.Duration
}

// NewHandlers - lifetime is how long the session cookie stays valid; it should match the idle
// limit after which the session manager evicts the session.
func NewHandlers(logger *slog.Logger, sessions sessionManager, lifetime time.Duration) Handlers {
	return &handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		lifetime: lifetime,
	}
}

// Response - Rejected carries the reason an action was refused; Session is then unchanged.
type Response struct {
	Session  entity.View `json:"session"`
	Rejected string      `json:"rejected,omitempty"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Move *int `json:"move"`
}

type modeRequest struct {
	SinglePlayer bool `json:"single_player"`
}

type sideRequest struct {
	Mark string `json:"mark"`
}

type namesRequest struct {
	X string `json:"x"`
	O string `json:"o"`
}

func (that *handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	controller := that.session(w, r)

	that.respond(w, controller.View(), nil)
}

func (that *handlers) CloseSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err = that.sessions.Close(r.Context(), cookie.Value); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		that.logger.Error("failed to close session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Cell == nil {
		http.Error(w, "cell is required", http.StatusBadRequest)
		return
	}

	controller := that.session(w, r)
	view, err := controller.Play(r.Context(), *req.Cell)
	that.respond(w, view, err)
}

func (that *handlers) Jump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Move == nil {
		http.Error(w, "move is required", http.StatusBadRequest)
		return
	}

	controller := that.session(w, r)
	view, err := controller.JumpTo(r.Context(), *req.Move)
	that.respond(w, view, err)
}

func (that *handlers) Restart(w http.ResponseWriter, r *http.Request) {
	controller := that.session(w, r)
	view, err := controller.Restart(r.Context())
	that.respond(w, view, err)
}

func (that *handlers) ResetAll(w http.ResponseWriter, r *http.Request) {
	controller := that.session(w, r)
	view, err := controller.ResetAll(r.Context())
	that.respond(w, view, err)
}

func (that *handlers) SetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !that.decode(w, r, &req) {
		return
	}

	controller := that.session(w, r)
	view, err := controller.SetSinglePlayer(r.Context(), req.SinglePlayer)
	that.respond(w, view, err)
}

func (that *handlers) ChooseSide(w http.ResponseWriter, r *http.Request) {
	var req sideRequest
	if !that.decode(w, r, &req) {
		return
	}

	controller := that.session(w, r)

	mark, err := entity.ParseMark(req.Mark)
	if err != nil {
		that.respond(w, controller.View(), err)
		return
	}

	view, err := controller.ChooseSide(r.Context(), mark)
	that.respond(w, view, err)
}

func (that *handlers) SetNames(w http.ResponseWriter, r *http.Request) {
	var req namesRequest
	if !that.decode(w, r, &req) {
		return
	}

	controller := that.session(w, r)
	view, err := controller.SetNames(r.Context(), req.X, req.O)
	that.respond(w, view, err)
}

// session - finds the caller's session by cookie. A missing, expired or forged cookie gets a new
// session and a cookie carrying the id the manager generated.
func (that *handlers) session(w http.ResponseWriter, r *http.Request) *usecase.SessionController {
	id := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		id = cookie.Value
	}

	controller := that.sessions.GetOrCreate(id)
	if controller.ID() != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    controller.ID(),
			Expires:  time.Now().Add(that.lifetime),
			Path:     "/",
			HttpOnly: true,
		})
		that.logger.Info("session cookie not found, new one created", "cookie", controller.ID())
	}

	return controller
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.logger.Debug("failed to decode request", "path", r.URL.Path, "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}

	return true
}

// respond reports refused actions in the body. They are not HTTP errors: the view just redraws.
func (that *handlers) respond(w http.ResponseWriter, view entity.View, err error) {
	response := Response{Session: view}
	if err != nil {
		response.Rejected = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(response); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
