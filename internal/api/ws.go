package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/IlyasAtabaev731/ecofinds/internal/lib/jwt"
)

// wsChannel adapts a websocket connection to notify.Channel. Writes from
// Deliver and the ping loop are serialised by mu.
type wsChannel struct {
	conn      *websocket.Conn
	writeWait time.Duration

	mu     sync.Mutex
	closed bool
}

func newWSChannel(conn *websocket.Conn, writeWait time.Duration) *wsChannel {
	return &wsChannel{conn: conn, writeWait: writeWait}
}

func (c *wsChannel) Send(payload []byte) error {
	return c.write(websocket.TextMessage, payload)
}

func (c *wsChannel) ping() error {
	return c.write(websocket.PingMessage, nil)
}

func (c *wsChannel) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, payload)
}

// Close sends a close frame and closes the connection. Calling it again is a no-op.
func (c *wsChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.writeWait),
	)
	return c.conn.Close()
}

func (s *APIServer) wsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["user_id"]

		subject, err := jwt.ParseToken(r.URL.Query().Get("token"), string(s.jwtSecret))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if subject != userID {
			writeError(w, http.StatusForbidden, "Token does not belong to this user")
			return
		}
		if _, err := s.market.User(r.Context(), userID); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("Failed to upgrade connection", slog.String("user_id", userID), "error", err)
			return
		}

		s.serveChannel(userID, conn)
	}
}

// serveChannel binds conn to userID and blocks until the peer goes away or
// stops answering pings.
func (s *APIServer) serveChannel(userID string, conn *websocket.Conn) {
	log := s.logger.With(slog.String("user_id", userID))

	ch := newWSChannel(conn, s.config.WS.WriteWait)
	if prev, replaced := s.registry.Attach(userID, ch); replaced {
		log.Info("Replacing live channel")
		_ = prev.Close()
	}
	log.Info("Live channel connected")

	done := make(chan struct{})
	defer func() {
		close(done)
		s.registry.Release(userID, ch)
		_ = ch.Close()
		log.Info("Live channel disconnected")
	}()

	pongWait := s.config.WS.PongWait
	go s.keepAlive(ch, pongWait*9/10, done)

	conn.SetReadLimit(s.config.WS.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("Live channel read failed", "error", err)
			}
			return
		}
	}
}

func (s *APIServer) keepAlive(ch *wsChannel, period time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := ch.ping(); err != nil {
				s.logger.Debug("Ping failed", "error", fmt.Errorf("api.keepAlive: %w", err))
				return
			}
		}
	}
}
