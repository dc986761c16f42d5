// internal/app/system/livepush/livepush.go
// Package livepush serves live views over WebSockets. A view starts its
// live queries when the socket opens; every result set is pushed to the
// browser as a JSON frame and the queries are stopped when the socket
// closes.
package livepush

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Frame is what the browser receives.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Push queues a frame. Only the latest frame per type is kept while the
// connection is busy. Push never blocks.
type Push func(typ string, data any)

// StartFunc opens a view's subscriptions. Subscriptions added to subs are
// stopped when the socket closes; ctx is canceled at the same time.
type StartFunc func(ctx context.Context, push Push, subs *livequery.Group) error

type Server struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func New(logger *zap.Logger) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		log: logger,
	}
}

// Serve upgrades the request and runs the view until either side closes.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, view string, start StartFunc) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.String("view", view), zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.log.With(zap.String("view", view), zap.String("path", r.URL.Path))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	box := newMailbox()
	subs := &livequery.Group{}
	defer subs.Stop()

	if err := start(ctx, box.put, subs); err != nil {
		log.Error("live view start failed", zap.Error(err))
		_ = conn.WriteJSON(Frame{Type: "error", Data: "failed to start live view"})
		return
	}
	log.Debug("live view started", zap.Int("subscriptions", subs.Len()))

	go readLoop(conn, cancel)
	s.writeLoop(ctx, conn, box, log)
	log.Debug("live view closed")
}

// readLoop discards client messages and cancels when the socket drops.
func readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, box *mailbox, log *zap.Logger) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-box.signal:
			for _, f := range box.take() {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(f); err != nil {
					log.Debug("websocket write failed", zap.Error(err))
					return
				}
			}
		}
	}
}

// mailbox holds the latest undelivered frame per type.
type mailbox struct {
	mu      sync.Mutex
	order   []string
	pending map[string]Frame
	signal  chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{pending: make(map[string]Frame), signal: make(chan struct{}, 1)}
}

func (m *mailbox) put(typ string, data any) {
	m.mu.Lock()
	if _, ok := m.pending[typ]; !ok {
		m.order = append(m.order, typ)
	}
	m.pending[typ] = Frame{Type: typ, Data: data}
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// take drains the mailbox in first-queued order.
func (m *mailbox) take() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Frame, 0, len(m.order))
	for _, typ := range m.order {
		out = append(out, m.pending[typ])
	}
	m.order = m.order[:0]
	clear(m.pending)
	return out
}
