package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rustyeddy/kellysim/session"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// wsMessage is the only frame type the server sends.
type wsMessage struct {
	Type     string            `json:"type"`
	Snapshot *session.Snapshot `json:"snapshot"`
}

// serveWS sends the current snapshot, then every later one as it lands.
// Unread snapshots are replaced rather than queued.
func (s *Server) serveWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := s.sess.Subscribe()
	defer cancel()

	if s.metrics != nil {
		s.metrics.WSClients.Inc()
		defer s.metrics.WSClients.Dec()
	}
	s.log.Info("websocket client connected", zap.String("remote", c.Request.RemoteAddr))
	defer s.log.Info("websocket client gone", zap.String("remote", c.Request.RemoteAddr))

	snap, _, err := s.current()
	if err != nil {
		s.log.Warn("no snapshot for websocket client", zap.Error(err))
		return
	}
	if err := send(conn, snap); err != nil {
		return
	}
	last := snap.RunID

	// the client never sends anything meaningful; reading just notices close
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if snap.RunID == last {
				continue
			}
			last = snap.RunID
			if err := send(conn, snap); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func send(conn *websocket.Conn, snap *session.Snapshot) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(wsMessage{Type: "snapshot", Snapshot: snap})
}
