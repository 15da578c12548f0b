package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
)

type client struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T, timing usecase.BotTiming) *client {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	newBot := func() usecase.Bot {
		return service.NewBotService(service.NewSeededRand(3))
	}
	manager := usecase.NewSessionManager(logger, nil, newBot, timing, entity.DefaultSettings())
	t.Cleanup(func() { manager.CloseAll(context.Background()) })

	return &client{
		t:      t,
		router: NewRouter(NewHandlers(logger, manager, time.Hour)),
	}
}

func (that *client) do(method, path, body string) *httptest.ResponseRecorder {
	that.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if that.cookie != nil {
		req.AddCookie(that.cookie)
	}

	rec := httptest.NewRecorder()
	that.router.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie {
			that.cookie = cookie
		}
	}

	return rec
}

func (that *client) call(method, path, body string) Response {
	that.t.Helper()

	rec := that.do(method, path, body)
	require.Equal(that.t, http.StatusOK, rec.Code, rec.Body.String())

	var response Response
	require.NoError(that.t, json.NewDecoder(rec.Body).Decode(&response))

	return response
}

var slowTiming = usecase.BotTiming{
	ArmDelay:        time.Hour,
	RestartArmDelay: time.Hour,
	ToggleArmDelay:  time.Hour,
	MoveDelay:       time.Hour,
}

func TestPing(t *testing.T) {
	c := newClient(t, slowTiming)

	rec := c.do(http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestHandlers_Game(t *testing.T) {
	t.Run("Creates a session and sets the cookie", func(t *testing.T) {
		c := newClient(t, slowTiming)

		response := c.call(http.MethodGet, "/api/session", "")

		require.NotNil(t, c.cookie)
		assert.Equal(t, c.cookie.Value, response.Session.ID)
		assert.Equal(t, entity.PlayerX, response.Session.Next)
		assert.Empty(t, response.Rejected)
	})

	t.Run("Plays a game to a win", func(t *testing.T) {
		// Given: a client with a session
		c := newClient(t, slowTiming)
		c.call(http.MethodGet, "/api/session", "")

		// When: X plays 0, O 4, X 1, O 5, X 2
		var response Response
		for _, cell := range []string{"0", "4", "1", "5", "2"} {
			response = c.call(http.MethodPost, "/api/session/move", `{"cell":`+cell+`}`)
			require.Empty(t, response.Rejected)
		}

		// Then: X wins and is counted
		assert.Equal(t, entity.OutcomeWin, response.Session.Outcome.Kind)
		assert.Equal(t, []int{0, 1, 2}, response.Session.Outcome.Line)
		assert.Equal(t, entity.Scores{X: 1}, response.Session.Scores)

		// When: another move is attempted
		response = c.call(http.MethodPost, "/api/session/move", `{"cell":8}`)

		// Then: it is rejected and the board is unchanged
		assert.Contains(t, response.Rejected, "finished")
		assert.Equal(t, entity.EmptyCell, response.Session.Board[8])

		// When: restarting
		response = c.call(http.MethodPost, "/api/session/restart", "")

		// Then: the board is empty and the score kept
		assert.Equal(t, entity.NewBoard(), response.Session.Board)
		assert.Equal(t, entity.Scores{X: 1}, response.Session.Scores)

		response = c.call(http.MethodPost, "/api/session/reset", "")
		assert.Equal(t, entity.Scores{}, response.Session.Scores)
	})

	t.Run("Jumps back and branches", func(t *testing.T) {
		c := newClient(t, slowTiming)
		c.call(http.MethodPost, "/api/session/move", `{"cell":0}`)
		c.call(http.MethodPost, "/api/session/move", `{"cell":4}`)

		response := c.call(http.MethodPost, "/api/session/jump", `{"move":1}`)
		assert.Equal(t, 1, response.Session.Cursor)
		assert.Equal(t, []int{0, 4}, response.Session.Moves)

		response = c.call(http.MethodPost, "/api/session/move", `{"cell":8}`)
		assert.Equal(t, []int{0, 8}, response.Session.Moves)

		response = c.call(http.MethodPost, "/api/session/jump", `{"move":7}`)
		assert.NotEmpty(t, response.Rejected)
	})

	t.Run("Bad requests", func(t *testing.T) {
		c := newClient(t, slowTiming)

		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/session/move", `{}`).Code)
		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/session/move", `nope`).Code)
		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/session/jump", `{}`).Code)
		assert.Equal(t, http.StatusMethodNotAllowed, c.do(http.MethodGet, "/api/session/move", "").Code)
	})
}

func TestHandlers_Settings(t *testing.T) {
	t.Run("Single-player with the human as O", func(t *testing.T) {
		// Given: a session switched to single-player
		c := newClient(t, usecase.BotTiming{MoveDelay: time.Millisecond})
		response := c.call(http.MethodPut, "/api/session/mode", `{"single_player":true}`)
		require.True(t, response.Session.Settings.SinglePlayer)

		// When: the human picks O
		response = c.call(http.MethodPut, "/api/session/side", `{"mark":"O"}`)
		require.Empty(t, response.Rejected)
		assert.Equal(t, entity.BotName, response.Session.Names.X)

		// Then: the bot opens in the center
		require.Eventually(t, func() bool {
			return c.call(http.MethodGet, "/api/session", "").Session.Board[entity.CenterCell] == entity.PlayerX
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Invalid side", func(t *testing.T) {
		c := newClient(t, slowTiming)

		response := c.call(http.MethodPut, "/api/session/side", `{"mark":"Z"}`)

		assert.Contains(t, response.Rejected, "invalid mark")
		assert.Equal(t, entity.PlayerX, response.Session.Settings.HumanMark)
	})

	t.Run("Names", func(t *testing.T) {
		c := newClient(t, slowTiming)

		response := c.call(http.MethodPut, "/api/session/names", `{"x":"Ann","o":""}`)

		assert.Equal(t, entity.Names{X: "Ann", O: entity.DefaultNameO}, response.Session.Names)
	})

	t.Run("Delete drops the session", func(t *testing.T) {
		c := newClient(t, slowTiming)
		first := c.call(http.MethodPost, "/api/session/move", `{"cell":0}`)
		oldCookie := c.cookie

		rec := c.do(http.MethodDelete, "/api/session", "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		c.cookie = oldCookie
		second := c.call(http.MethodGet, "/api/session", "")

		assert.NotEqual(t, first.Session.ID, second.Session.ID)
		assert.Equal(t, second.Session.ID, c.cookie.Value)
		assert.Empty(t, second.Session.Moves)
	})

	t.Run("Forged cookie gets a generated id", func(t *testing.T) {
		// Given: a client sending an id the server never issued
		c := newClient(t, slowTiming)
		c.cookie = &http.Cookie{Name: sessionCookie, Value: "my-own-id"}

		// When: it asks for its session
		response := c.call(http.MethodGet, "/api/session", "")

		// Then: the session and the new cookie carry a server-generated id
		assert.NotEqual(t, "my-own-id", response.Session.ID)
		assert.Equal(t, response.Session.ID, c.cookie.Value)
	})

	t.Run("Side is rejected in two-player mode", func(t *testing.T) {
		c := newClient(t, slowTiming)

		response := c.call(http.MethodPut, "/api/session/side", `{"mark":"O"}`)

		assert.Contains(t, response.Rejected, "against the bot")
		assert.Equal(t, entity.PlayerX, response.Session.Settings.HumanMark)
	})
}
