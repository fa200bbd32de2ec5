package game

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
	"weiqi_client/internal/httpresponse"
	gameuc "weiqi_client/internal/usecase/game"
	"weiqi_client/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096

	noticeOpponentMissing   = "Opponent is not connected"
	noticeOpponentConnected = "Opponent connected"
	noticeOpponentLeft      = "Opponent disconnected"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase

	mu    sync.Mutex
	rooms map[string]map[*peer]struct{}
}

// peer serializes writes; the read loop of one connection broadcasts to the others.
type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) writeJSON(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(v)
}

func (p *peer) writeText(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func NewGameHandler(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		log:    log,
		gameUC: gameUC,
		rooms:  make(map[string]map[*peer]struct{}),
	}
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Get("/health", g.HandleHealth)
	r.Post("/NewGame", g.HandleNewGame)
	r.Get("/startGame", g.HandleStartGame)
}

func (g *GameHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, "ok")
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.GameCreateRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error:", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err)
		return
	}

	resp, err := g.gameUC.CreateGame(r.Context(), req)
	if stderrors.Is(err, errors.ErrInvalidConfig) {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		g.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	g.log.Info("New Game Created with key: " + resp.GameKey)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

// HandleStartGame joins the websocket to a game and sends it the current position.
// Every accepted action is broadcast
// to all players of the game as an Environment; a refused one goes back to its sender
// as a Reject.
func (g *GameHandler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		g.log.Error("game_id is missing")
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, stderrors.New("game_id is required"))
		return
	}

	if _, err := g.gameUC.State(r.Context(), gameID); err != nil {
		if stderrors.Is(err, errors.ErrGameNotFound) {
			httpresponse.WriteErrorWithStatus(w, http.StatusNotFound, err)
			return
		}
		g.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error:", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	ctx := r.Context()
	me := &peer{conn: conn}
	if err = g.join(ctx, gameID, me); err != nil {
		g.log.Error("join error:", err)
		conn.Close()
		return
	}
	defer func() {
		g.leave(gameID, me)
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn("read error:", err)
			}
			return
		}

		var action game.Action
		if err = utils.DecodeStrict(message, &action); err != nil {
			g.reject(me, err)
			continue
		}

		g.log.Info("Action received: ", action.String())

		env, err := g.gameUC.ApplyAction(ctx, gameID, action)
		if err != nil {
			g.reject(me, err)
			continue
		}

		if others := g.broadcast(gameID, env); others == 0 {
			_ = me.writeText(noticeOpponentMissing)
		}
	}
}

func (g *GameHandler) reject(p *peer, reason error) {
	g.log.Warn("action rejected: ", reason)
	if err := p.writeJSON(game.Reject{Error: reason.Error()}); err != nil {
		g.log.Error("write reject error:", err)
	}
}

// join registers the player and sends the current position. The position is read and
// written under the room lock, so no broadcast can overtake it with an older state.
func (g *GameHandler) join(ctx context.Context, gameID string, p *peer) error {
	g.mu.Lock()
	state, err := g.gameUC.State(ctx, gameID)
	if err == nil {
		err = p.writeJSON(game.StateSync{State: state})
	}
	if err == nil {
		room, ok := g.rooms[gameID]
		if !ok {
			room = make(map[*peer]struct{})
			g.rooms[gameID] = room
		}
		room[p] = struct{}{}
	}
	g.mu.Unlock()
	if err != nil {
		return err
	}

	for _, other := range g.peers(gameID) {
		if other != p {
			_ = other.writeText(noticeOpponentConnected)
		}
	}
	return nil
}

func (g *GameHandler) leave(gameID string, p *peer) {
	g.mu.Lock()
	room := g.rooms[gameID]
	delete(room, p)
	if len(room) == 0 {
		delete(g.rooms, gameID)
	}
	g.mu.Unlock()

	for _, other := range g.peers(gameID) {
		_ = other.writeText(noticeOpponentLeft)
	}
}

func (g *GameHandler) peers(gameID string) []*peer {
	g.mu.Lock()
	defer g.mu.Unlock()
	peers := make([]*peer, 0, len(g.rooms[gameID]))
	for p := range g.rooms[gameID] {
		peers = append(peers, p)
	}
	return peers
}

// broadcast returns how many players besides the sender got the environment.
func (g *GameHandler) broadcast(gameID string, env game.Environment) int {
	peers := g.peers(gameID)
	for _, p := range peers {
		if err := p.writeJSON(env); err != nil {
			g.log.Error("Write to player error:", err)
			p.conn.Close()
		}
	}
	return len(peers) - 1
}
