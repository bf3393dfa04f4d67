package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/raysh454/phishview/internal/logging"
	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/render"
	"github.com/raysh454/phishview/internal/submit"
)

const (
	wsWriteWait    = 10 * time.Second
	wsMaxMessage   = 8 << 10
	wsCloseTimeout = time.Second
)

// session is one websocket client. It owns a private view; the controller
// serialises every mutation of it, and every push happens under that same
// lock, so clients see events in view order.
type session struct {
	id     string
	conn   *websocket.Conn
	logger logging.Logger

	state *render.State
	ctrl  *submit.Controller

	writeMu sync.Mutex
	closed  bool
}

// handleWS upgrades to a websocket session. Every client message
// {"url": "..."} is a submission; see Event for what is pushed back.
//
//	@Summary	Live analysis session
//	@Description	Send {"url": "..."} messages. The server pushes hello, busy, idle, invalid, alert and result events; results of superseded submissions are never pushed.
//	@Success	101	{object}	Event
//	@Router		/ws [get]
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	sess := &session{
		id:     id,
		conn:   conn,
		logger: s.logger.With(logging.Field{Key: "session", Value: id}),
		state:  render.NewState(),
	}
	sess.ctrl, err = submit.NewController(s.cfg.Analyzer, sess, sess.state.Renderer(), sess,
		submit.WithLogger(sess.logger),
		submit.WithRenderHook(sess.pushResult),
	)
	if err != nil {
		s.logger.Error("creating session controller", logging.Field{Key: "error", Value: err.Error()})
		return
	}

	sess.logger.Info("websocket session opened")
	sess.push(Event{Type: EventHello, Session: id})

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		sess.shutdown()
		sess.logger.Info("websocket session closed")
	}()

	conn.SetReadLimit(wsMaxMessage)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg RenderRequest
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.push(Event{Type: EventError, Seq: sess.ctrl.Latest(), Message: "invalid JSON"})
			continue
		}

		wg.Add(1)
		go func(raw string) {
			defer wg.Done()
			sub, err := sess.ctrl.Submit(ctx, raw)
			if err != nil {
				sess.logger.Debug("submission ended with error",
					logging.Field{Key: "seq", Value: sub.Seq},
					logging.Field{Key: "outcome", Value: sub.Outcome.String()},
					logging.Field{Key: "error", Value: err.Error()},
				)
			}
		}(msg.URL)
	}
}

// Controls and Alerter; called by the controller with its view lock held.

func (ss *session) MarkInvalid() {
	ss.push(Event{Type: EventInvalid, Seq: ss.ctrl.Latest(), Message: "Please enter a URL."})
}

func (ss *session) ClearInvalid() {}

func (ss *session) SetBusy(busy bool) {
	typ := EventIdle
	if busy {
		typ = EventBusy
	}
	ss.push(Event{Type: typ, Seq: ss.ctrl.Latest()})
}

func (ss *session) Alert(msg string) {
	ss.push(Event{Type: EventAlert, Seq: ss.ctrl.Latest(), Message: msg})
}

func (ss *session) pushResult(seq uint64, _ *model.Result) {
	view := ss.state.Snapshot()
	ss.push(Event{Type: EventResult, Seq: seq, View: &view})
}

func (ss *session) push(ev Event) {
	ss.writeMu.Lock()
	defer ss.writeMu.Unlock()
	if ss.closed {
		return
	}
	_ = ss.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := ss.conn.WriteJSON(ev); err != nil {
		ss.logger.Debug("websocket write failed", logging.Field{Key: "error", Value: err.Error()})
		ss.closed = true
	}
}

func (ss *session) shutdown() {
	ss.writeMu.Lock()
	defer ss.writeMu.Unlock()
	if ss.closed {
		return
	}
	ss.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = ss.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseTimeout))
}
