package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-timelineform/pkg/prediction"
)

const (
	liveWriteWait = 10 * time.Second
	livePongWait  = 60 * time.Second
	livePingEvery = (livePongWait * 9) / 10
)

// The default origin check applies: the session rides on a cookie, so only
// same-host pages may subscribe.
var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleLive streams the session's prediction snapshots. The cached
// prediction, if any, is sent on connect.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.lookup(r)
	if !ok {
		http.Error(w, "no form session", http.StatusNotFound)
		return
	}

	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.serveLive(r.Context(), conn, sess.id, sess.cache.Subscribe)
}

// serveLive pumps snapshots to conn until either side stops. A writer that
// gives up closes conn so the reader is released at once.
func (s *Server) serveLive(parent context.Context, conn *websocket.Conn, sessionID string, subscribe func(context.Context) <-chan prediction.Snapshot) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(livePongWait)); err != nil {
		s.logger.Warn("live set read deadline failed", "session", sessionID, "err", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer conn.Close()
		defer cancel()
		s.writeLive(ctx, conn, subscribe(ctx))
	}()

	// Inbound messages are ignored; reading drives pong handling and
	// notices the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	cancel()
	<-writerDone
	s.logger.Debug("live connection closed", "session", sessionID)
}

func (s *Server) writeLive(ctx context.Context, conn *websocket.Conn, snapshots <-chan prediction.Snapshot) {
	ticker := time.NewTicker(livePingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
