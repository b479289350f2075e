package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	graferrors "github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/host/memdom"
	"github.com/vango-dev/graft/pkg/island"
	"github.com/vango-dev/graft/pkg/protocol"
	"github.com/vango-dev/graft/pkg/reconcile"
	"github.com/vango-dev/graft/pkg/treedoc"
	"github.com/vango-dev/graft/pkg/vdom"
)

// ContainerTag is the tag of every session's root container. The container
// is the first node of the session document, so its node ID is always 1.
const ContainerTag = "main"

// ErrSessionBroken is returned by Apply after a failed reconciliation.
var ErrSessionBroken = errors.New("server: session tree is inconsistent after a failed render")

// Session renders successive tree documents into one host document.
// It is not safe for concurrent use.
type Session struct {
	ID uuid.UUID

	doc       *memdom.Document
	container *memdom.Node
	log       memdom.Log
	root      *reconcile.Root
	rt        *island.Runtime
	lib       *treedoc.Library
	seq       uint64
	broken    bool
	logger    *slog.Logger
}

// Reply is the frame answering one document.
type Reply struct {
	Type protocol.FrameType
	Data []byte

	// Err is the error reported by an error frame.
	Err error
}

func newSession(s *Server) (*Session, error) {
	return openSession(s, ContainerTag)
}

func openSession(s *Server, tag string) (*Session, error) {
	id := uuid.New()
	logger := s.logger.With("session", id.String())

	doc := memdom.NewDocument()
	c, err := doc.CreateElement(tag)
	if err != nil {
		return nil, graferrors.New("E210").WithDetail("create session container").Wrap(err)
	}
	container := c.(*memdom.Node)

	rt := island.NewRuntime(doc, island.WithLogger(logger))
	kit := reconcile.NewKit(doc,
		reconcile.WithForeignAdapter(rt),
		reconcile.WithMetrics(s.renderMetrics),
		reconcile.WithLogger(logger),
	)

	ss := &Session{
		ID:        id,
		doc:       doc,
		container: container,
		root:      reconcile.NewRoot(kit, container),
		rt:        rt,
		lib:       treedoc.NewLibrary(foreignTypes(s.config.Islands)...),
		logger:    logger,
	}
	doc.SetRecorder(&ss.log)
	return ss, nil
}

func foreignTypes(defs map[string]*island.Definition) []vdom.ForeignType {
	out := make([]vdom.ForeignType, 0, len(defs))
	for _, name := range island.Names(defs) {
		out = append(out, defs[name])
	}
	return out
}

// Apply renders one YAML tree document and returns the reply frame.
//
// A document that fails to load or build leaves the tree untouched and is
// answered with an error frame. A non-nil error means reconciliation failed
// part way; the reply still carries the error frame, but the session must
// not be used again.
func (ss *Session) Apply(ctx context.Context, data []byte) (Reply, error) {
	ss.seq++
	seq := ss.seq
	if ss.broken {
		return ss.errorReply(seq, ErrSessionBroken), ErrSessionBroken
	}

	d, err := treedoc.Load(data, treedoc.WithLibrary(ss.lib))
	if err != nil {
		return ss.errorReply(seq, err), nil
	}
	raw, err := d.Build()
	if err != nil {
		return ss.errorReply(seq, err), nil
	}

	if err := ss.root.Render(ctx, raw); err != nil {
		ss.log.Take()
		ss.broken = true
		return ss.errorReply(seq, err), err
	}
	if err := ss.rt.Tick(); err != nil {
		ss.log.Take()
		ss.broken = true
		return ss.errorReply(seq, err), err
	}

	frame := &protocol.MutationsFrame{Seq: seq, Mutations: ss.log.Take()}
	ss.logger.Debug("rendered document", "seq", seq, "mutations", len(frame.Mutations))
	return Reply{Type: protocol.FrameMutations, Data: protocol.EncodeMutations(frame)}, nil
}

func (ss *Session) errorReply(seq uint64, err error) Reply {
	ss.logger.Debug("document failed", "seq", seq, "error", err)
	return Reply{
		Type: protocol.FrameError,
		Data: protocol.EncodeError(protocol.ErrorFrameFor(seq, err)),
		Err:  err,
	}
}

// HTML returns the inner HTML of the session container.
func (ss *Session) HTML() string {
	return memdom.InnerHTML(ss.container)
}

// Seq returns the sequence number of the last document applied.
func (ss *Session) Seq() uint64 { return ss.seq }

// Close unmounts the tree and releases the island runtime. The tree of a
// session whose reconciliation failed is left in place.
func (ss *Session) Close(ctx context.Context) error {
	var err error
	if !ss.broken && ss.root.Current() != nil {
		err = ss.root.Unmount(ctx)
	}
	if cerr := ss.rt.Close(); err == nil {
		err = cerr
	}
	return err
}
