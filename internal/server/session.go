package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
	"github.com/SmitUplenchwar2687/Trailmark/internal/sink"
)

// Messages the server sends to the page bridge.
const (
	replySession = "session"
	replyResults = "results"
)

type reply struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session"`
	Results   *behavior.Results `json:"results,omitempty"`
}

// session is one PageView connection with its own page and recorder.
type session struct {
	id     string
	conn   *websocket.Conn
	page   *dom.Page
	rec    *behavior.Recorder
	logger *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (s *Server) handleBehavior(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	sess := &session{
		id:     id,
		conn:   conn,
		page:   dom.NewPage(dom.Navigator{UserAgent: r.UserAgent()}),
		logger: s.logger.With("session", id),
	}
	for _, sel := range s.selectors() {
		sess.page.Register(sel)
	}

	opts := s.opts.Recorder
	opts.Clock = s.clock
	opts.Logger = sess.logger
	opts.OnFlush = s.flushConsumer(sess)
	sess.rec = behavior.New(sess.page, opts)

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.sessions[id] = sess
	s.wg.Add(1)
	s.mu.Unlock()

	sess.logger.Info("session opened", "remote", r.RemoteAddr)
	go s.serveSession(sess)
}

func (s *Server) selectors() []string {
	out := append([]string{}, PageSelectors...)
	out = append(out, s.opts.ActionSelectors...)
	if trig := s.opts.Recorder.ActionTrigger; trig != nil && trig.Enabled && trig.Selector != "" {
		out = append(out, trig.Selector)
	}
	return out
}

// flushConsumer persists, broadcasts and echoes every flush of sess.
func (s *Server) flushConsumer(sess *session) behavior.FlushFunc {
	var store behavior.FlushFunc
	if s.opts.Sink != nil {
		store = sink.Consumer(s.opts.Sink, sess.id)
	}
	return sink.LoggingConsumer(sess.logger, sess.id, func(res behavior.Results) error {
		var err error
		if store != nil {
			err = store(res)
		}
		if s.opts.Hub != nil {
			s.opts.Hub.Broadcast(&FlushEvent{SessionID: sess.id, Time: s.clock.Now(), Results: res})
		}
		if werr := sess.send(reply{Type: replyResults, SessionID: sess.id, Results: &res}); werr != nil {
			sess.logger.Debug("results reply failed", "error", werr)
		}
		return err
	})
}

func (s *Server) serveSession(sess *session) {
	defer func() {
		sess.rec.Stop()
		sess.close()
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		sess.logger.Info("session closed")
		s.wg.Done()
	}()

	if err := sess.send(reply{Type: replySession, SessionID: sess.id}); err != nil {
		sess.logger.Debug("session reply failed", "error", err)
		return
	}

	started := false
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Warn("session read failed", "error", err)
			}
			return
		}

		var m dom.Message
		if err := json.Unmarshal(data, &m); err != nil {
			sess.logger.Debug("dropping malformed message", "error", err)
			continue
		}
		if err := m.Validate(); err != nil {
			sess.logger.Debug("dropping invalid message", "error", err)
			continue
		}
		if m.TS == 0 {
			m.TS = s.clock.Now().UnixMilli()
		}

		if s.opts.EventLog != nil {
			if err := s.opts.EventLog.Record(eventlog.Entry{SessionID: sess.id, Message: m}); err != nil {
				sess.logger.Warn("event log write failed", "error", err)
			}
		}

		if !started {
			if m.Type == dom.MessageHello && m.Navigator != nil {
				sess.page.SetNavigator(*m.Navigator)
			}
			if err := sess.rec.Start(); err != nil {
				sess.logger.Error("recorder start failed", "error", err)
				return
			}
			started = true
		}

		switch m.Type {
		case dom.MessageHello:
		case dom.MessageFlush:
			if err := sess.rec.Flush(); err != nil {
				sess.logger.Error("flush failed", "error", err)
			}
		default:
			if !sess.page.Apply(m) {
				sess.logger.Debug("no element for message", "type", m.Type, "selector", m.Selector)
			}
		}
	}
}

func (sess *session) send(v reply) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sess.conn.WriteMessage(websocket.TextMessage, data)
}

func (sess *session) close() {
	sess.closeOnce.Do(func() {
		sess.conn.Close()
	})
}
