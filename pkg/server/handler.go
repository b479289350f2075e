package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/protocol"
)

const writeTimeout = 10 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleRender renders a YAML tree document and returns the HTML.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxDocumentBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	ss, err := newSession(s)
	if err != nil {
		s.metrics.RecordError(err)
		http.Error(w, compact(err), http.StatusInternalServerError)
		return
	}
	defer func() { _ = ss.Close(r.Context()) }()

	reply, err := ss.Apply(r.Context(), data)
	if reply.Err != nil {
		s.metrics.RecordError(reply.Err)
		status := http.StatusUnprocessableEntity
		if err != nil {
			status = http.StatusInternalServerError
		}
		http.Error(w, compact(reply.Err), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, ss.HTML())
}

// handleLive upgrades to a websocket and serves one live session.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ss, err := newSession(s)
	if err != nil {
		s.metrics.RecordError(err)
		http.Error(w, compact(err), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxDocumentBytes)

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	s.open(ss, conn)
	defer s.close(ctx, ss, conn)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ss.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var reply Reply
		var fatal error
		if mt != websocket.TextMessage {
			ss.seq++
			reply = ss.errorReply(ss.seq, errors.New("E230").WithDetail("tree documents must be sent as text messages"))
		} else {
			reply, fatal = ss.Apply(ctx, data)
		}
		if reply.Err != nil {
			s.metrics.RecordError(reply.Err)
		}

		if err := s.write(conn, reply); err != nil {
			ss.logger.Warn("websocket write failed", "error", err)
			return
		}
		if fatal != nil {
			ss.logger.Error("render failed, closing session", "error", fatal)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "render failed"),
				time.Now().Add(writeTimeout))
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, reply Reply) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, reply.Data); err != nil {
		return err
	}
	frameType := "mutations"
	if reply.Type == protocol.FrameError {
		frameType = "error"
	}
	s.metrics.RecordFrame(frameType, len(reply.Data))
	return nil
}

func (s *Server) open(ss *Session, conn *websocket.Conn) {
	s.mu.Lock()
	s.sessions[ss.ID] = conn
	s.mu.Unlock()
	s.metrics.SessionOpened()
	ss.logger.Info("session opened", "remote", conn.RemoteAddr().String())
}

func (s *Server) close(ctx context.Context, ss *Session, conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.sessions, ss.ID)
	s.mu.Unlock()
	s.metrics.SessionClosed()

	if err := ss.Close(ctx); err != nil {
		ss.logger.Warn("session teardown failed", "error", err)
	}
	_ = conn.Close()
	ss.logger.Info("session closed", "documents", ss.Seq())
}

// compact renders err on one line for HTTP error bodies.
func compact(err error) string {
	var ge *errors.GraftError
	if stderrors.As(err, &ge) {
		s := ge.FormatCompact()
		if ge.Detail != "" {
			s += ": " + ge.Detail
		}
		return s
	}
	return err.Error()
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(writeTimeout)
}
