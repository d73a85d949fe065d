package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/session"
)

const wsReadLimit = 64 << 10

var errTooLarge = fmt.Errorf("%w: field is too large", ErrBadQuery)

type GameHandler struct {
	log      logrus.FieldLogger
	store    *session.Store
	jwt      *config.JWT
	ws       *config.WebSocket
	maxCells int
}

func NewGameHandler(
	log logrus.FieldLogger,
	store *session.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
	maxCells int,
) *GameHandler {
	handler := &GameHandler{
		log:      log,
		store:    store,
		jwt:      jwt,
		ws:       ws,
		maxCells: maxCells,
	}

	return handler
}

// authorize checks that the request carries a token issued for the session.
func (g GameHandler) authorize(r *http.Request, sessionID string) error {
	token, ok := middleware.SessionToken(r.Context())
	if !ok {
		return fmt.Errorf("%w: missing session token", ErrUnauthorized)
	}
	if err := g.jwt.Verify(token, sessionID); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

func (g GameHandler) tooLarge(p mines.GameParams) bool {
	return p.Width > g.maxCells || p.Height > g.maxCells || p.Width*p.Height > g.maxCells
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	params, err := dto.GameParams()
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	if g.tooLarge(params) {
		sendError(w, g.log, errTooLarge)
		return
	}

	snap, err := g.store.Create(params)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	token, err := g.jwt.Issue(snap.ID)
	if err != nil {
		g.store.Delete(snap.ID)
		sendError(w, g.log, fmt.Errorf("unable to issue session token: %w", err))
		return
	}

	sendJSONOrLog(w, g.log, NewGameDTO{
		GameSessionDTO: NewGameSessionDTO(snap),
		Token:          token,
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	snap, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(snap))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if err := g.authorize(r, sessionID); err != nil {
		sendError(w, g.log, err)
		return
	}

	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	snap, err := g.store.Do(sessionID, func(m *mines.Minefield) error {
		return move.Apply(m, pos.X, pos.Y)
	})
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(snap))
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if err := g.authorize(r, sessionID); err != nil {
		sendError(w, g.log, err)
		return
	}

	snap, err := g.store.Do(sessionID, func(m *mines.Minefield) error {
		m.Forfeit()
		return nil
	})
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(snap))
}

func (g GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseHighscoreFilter(r.URL.Query())
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	sendJSONOrLog(w, g.log, g.store.Highscores(filter))
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if err := g.authorize(r, sessionID); err != nil {
		sendError(w, g.log, err)
		return
	}

	snap, err := g.store.Get(sessionID)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.log.WithError(err).Debug("unable to upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	// hijacked connections outlive server shutdown unless closed here
	stop := context.AfterFunc(r.Context(), func() { conn.Close() })
	defer stop()

	log := g.log.WithField("session", sessionID)
	log.Debug("established WS connection")

	err = g.runGameLoop(conn, sessionID, snap.Params)
	if err == nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Debug("WS connection closed")
		return
	}
	log.WithError(err).Warn("error in WS loop")
}

// runGameLoop answers every text frame with the session state after running
// its commands. Bad frames get an error reply and leave the game untouched.
func (g GameHandler) runGameLoop(conn *websocket.Conn, sessionID string, params mines.GameParams) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			if err := conn.WriteJSON(wrapError(errors.New("expected a text message"))); err != nil {
				return err
			}
			continue
		}

		cmds, err := parseCommands(string(buf), params)
		if err != nil {
			if err := conn.WriteJSON(wrapError(err)); err != nil {
				return err
			}
			continue
		}

		snap, err := g.store.Do(sessionID, func(m *mines.Minefield) error {
			return execute(m, cmds)
		})
		if errors.Is(err, session.ErrNotFound) {
			conn.WriteJSON(wrapError(err))
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session expired"))
		}
		if err != nil {
			return fmt.Errorf("unable to execute commands: %w", err)
		}

		if err := conn.WriteJSON(NewGameSessionDTO(snap)); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}
