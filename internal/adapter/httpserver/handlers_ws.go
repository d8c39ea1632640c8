package httpserver

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/memorytrail/internal/adapter/metrics"
	"github.com/pscheid92/memorytrail/internal/domain"
)

const (
	writeDeadline = 5 * time.Second
	pingInterval  = 30 * time.Second
	pongDeadline  = 60 * time.Second
)

// handleViewStream pushes every view change to the presentation client.
// The stream is read-only; events still go through POST /api/events.
func (s *Server) handleViewStream(c echo.Context) error {
	views, unsubscribe, err := s.kiosk.Subscribe(c.Request().Context())
	if err != nil {
		return err
	}
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already answered the request.
		slog.Debug("WebSocket upgrade failed", "remote_addr", c.Request().RemoteAddr, "error", err)
		return nil
	}

	s.wsMetrics.ActiveConnections.Inc()
	defer s.wsMetrics.ActiveConnections.Dec()

	w := newViewWriter(conn, s.clock, s.wsMetrics, views)
	defer w.stop()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.wsMetrics.IdleDisconnects.Inc()
			}
			slog.Debug("View stream closed", "remote_addr", c.Request().RemoteAddr, "error", err)
			return nil
		}
	}
}

// viewWriter owns all writes to one connection.
type viewWriter struct {
	conn     *websocket.Conn
	clock    clockwork.Clock
	metrics  *metrics.WebSocketMetrics
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newViewWriter(conn *websocket.Conn, clock clockwork.Clock, m *metrics.WebSocketMetrics, views <-chan domain.View) *viewWriter {
	w := &viewWriter{
		conn:    conn,
		clock:   clock,
		metrics: m,
		done:    make(chan struct{}),
	}
	w.configurePongHandler()
	w.wg.Add(1)
	go w.run(views)
	return w
}

func (w *viewWriter) run(views <-chan domain.View) {
	ticker := w.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer w.wg.Done()

	for {
		select {
		case v, ok := <-views:
			if !ok {
				w.writeClose("kiosk shutting down")
				return
			}
			w.updateWriteDeadline()
			if err := w.conn.WriteJSON(v); err != nil {
				return
			}
			w.metrics.ViewsPushed.Inc()
		case <-ticker.Chan():
			w.updateWriteDeadline()
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				w.metrics.PingFailures.Inc()
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *viewWriter) stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		_ = w.conn.Close()
	})
}

func (w *viewWriter) writeClose(reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
	w.updateWriteDeadline()
	_ = w.conn.WriteMessage(websocket.CloseMessage, msg)
}

func (w *viewWriter) configurePongHandler() {
	w.updateReadDeadline()
	w.conn.SetPongHandler(func(string) error {
		w.updateReadDeadline()
		return nil
	})
}

func (w *viewWriter) updateWriteDeadline() {
	_ = w.conn.SetWriteDeadline(w.clock.Now().Add(writeDeadline))
}

func (w *viewWriter) updateReadDeadline() {
	_ = w.conn.SetReadDeadline(w.clock.Now().Add(pongDeadline))
}
