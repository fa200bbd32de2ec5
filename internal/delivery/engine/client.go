// Package engine talks to the remote game engine: games are created over HTTP and
// played over a websocket.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
	"weiqi_client/internal/httpresponse"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 16

	noticeConnectionLost = "Connection to the engine lost"
)

// Events receives what the engine sends. Calls are made on the UI loop.
type Events interface {
	OnState(state game.BoardState) error
	OnEnvironment(env game.Environment) error
	OnReject(reason string)
	ShowMessage(text string)
}

// Poster runs fn on the UI loop and reports false once the loop has stopped.
type Poster func(fn func()) bool

type Client struct {
	log     *zap.SugaredLogger
	baseURL string
	client  *http.Client
	dialer  *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	closing   bool
}

func NewClient(log *zap.SugaredLogger, baseURL string) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		dialer:  websocket.DefaultDialer,
		done:    make(chan struct{}),
	}
}

func (c *Client) CreateGame(ctx context.Context, boardSize int) (game.GameCreateResponse, error) {
	reqBody, err := json.Marshal(game.GameCreateRequest{BoardSize: boardSize})
	if err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/NewGame", bytes.NewBuffer(reqBody))
	if err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return game.GameCreateResponse{}, fmt.Errorf("%w: status %d: %s", errors.ErrEngineResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result httpresponse.Response[game.GameCreateResponse]
	if err = json.Unmarshal(body, &result); err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Body.GameKey == "" {
		return game.GameCreateResponse{}, fmt.Errorf("%w: empty game key", errors.ErrEngineResponse)
	}

	c.log.Infof("game created: %s (%dx%d)", result.Body.GameKey, result.Body.BoardSize, result.Body.BoardSize)
	return result.Body, nil
}

// GameURL is the websocket address of a game.
func (c *Client) GameURL(gameKey string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("engine url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: engine url scheme %q", errors.ErrInvalidConfig, u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/startGame"
	u.RawQuery = url.Values{"game_id": {gameKey}}.Encode()
	return u.String(), nil
}

// Connect joins the game and starts the read and write pumps. Everything the engine
// sends is handed to events through post.
func (c *Client) Connect(ctx context.Context, gameKey string, events Events, post Poster) error {
	gameURL, err := c.GameURL(gameKey)
	if err != nil {
		return err
	}

	conn, resp, err := c.dialer.DialContext(ctx, gameURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("%w: join game %s: status %d", errors.ErrEngineResponse, gameKey, resp.StatusCode)
		}
		return fmt.Errorf("join game %s: %w", gameKey, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.send = make(chan []byte, sendBuffer)
	c.mu.Unlock()

	c.log.Infow("connected to engine", "game", gameKey)
	go c.writePump(conn)
	go c.readPump(conn, events, post)
	return nil
}

// Action queues a for sending. It never waits for the network.
func (c *Client) Action(a game.Action) error {
	message, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.closing {
		return errors.ErrNotConnected
	}
	select {
	case <-c.done:
		return errors.ErrNotConnected
	default:
	}
	select {
	case c.send <- message:
		return nil
	default:
		return errors.ErrSendQueueFull
	}
}

// Done is closed when the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() error {
	c.mu.Lock()
	c.closing = true
	conn := c.conn
	c.mu.Unlock()

	c.shutdown()
	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return conn.Close()
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) readPump(conn *websocket.Conn, events Events, post Poster) {
	defer func() {
		c.shutdown()
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closing := c.closing
			c.mu.Unlock()
			if closing {
				return
			}
			c.log.Warnw("engine connection closed", "error", err)
			post(func() { events.ShowMessage(noticeConnectionLost) })
			return
		}

		c.log.Debugf("engine frame: %s", message)
		post(func() { c.dispatch(events, message) })
	}
}

func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warnw("failed to write action", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Warnw("failed to send ping", "error", err)
				return
			}
		case <-c.done:
			return
		}
	}
}

// frame covers the JSON messages of the engine: a StateSync, an Environment or a Reject.
type frame struct {
	Action *game.Action     `json:"action"`
	State  *game.BoardState `json:"state"`
	Error  *string          `json:"error"`
}

// dispatch routes one engine frame. Anything that is not a JSON object is a notice
// for the player.
func (c *Client) dispatch(events Events, message []byte) {
	trimmed := bytes.TrimSpace(message)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		events.ShowMessage(string(message))
		return
	}

	var f frame
	if err := json.Unmarshal(trimmed, &f); err != nil {
		c.log.Errorw("undecodable engine frame", "frame", string(message), "error", err)
		return
	}
	if f.Error != nil {
		events.OnReject(*f.Error)
		return
	}
	if f.Action == nil && f.State != nil {
		if err := events.OnState(*f.State); err != nil {
			c.log.Errorw("state not applied", "error", err)
		}
		return
	}
	if err := events.OnEnvironment(game.Environment{Action: f.Action, State: f.State}); err != nil {
		c.log.Errorw("environment not applied", "error", err)
	}
}
