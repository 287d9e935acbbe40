package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/maigreifinn/internal/engine"
)

const (
	streamBuffer  = 256
	streamCatchUp = 50
	writeTimeout  = 5 * time.Second
	pingInterval  = 15 * time.Second
	readIdleLimit = 60 * time.Second
)

// handleStream upgrades to a websocket and sends the recent log followed by
// every new event as JSON text messages. Clients that fall behind miss
// events; the seq field shows the gap and /events can fill it.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()
	ch, cancel, err := s.Table.Subscribe(ctx, streamBuffer)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "table closed"), time.Now().Add(time.Second))
		return
	}
	defer cancel()

	// Catch-up after subscribing, so nothing falls between the two.
	var recent []engine.Event
	_ = s.Table.View(ctx, func(g *engine.Game) {
		start := len(g.Log) - streamCatchUp
		if start < 0 {
			start = 0
		}
		recent = append(recent, g.Log[start:]...)
	})
	var last uint64
	for _, e := range recent {
		if err := writeEvent(conn, e); err != nil {
			return
		}
		last = e.Seq
	}

	slog.Info("stream client connected", "remote", r.RemoteAddr)

	// Reader: only control frames are expected; a read error ends the stream.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readIdleLimit))
		})
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readIdleLimit))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "table closed"), time.Now().Add(time.Second))
				return
			}
			if e.Seq <= last {
				continue
			}
			if err := writeEvent(conn, e); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-closed:
			slog.Info("stream client disconnected", "remote", r.RemoteAddr)
			return
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, e engine.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(e)
}
