package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/vango-dev/graft/internal/source"
	"github.com/vango-dev/graft/pkg/host/memdom"
	"github.com/vango-dev/graft/pkg/island"
	"github.com/vango-dev/graft/pkg/reconcile"
	"github.com/vango-dev/graft/pkg/treedoc"
	"github.com/vango-dev/graft/pkg/vdom"
)

// stage renders tree documents into an in-memory host document.
type stage struct {
	doc       *memdom.Document
	container *memdom.Node
	root      *reconcile.Root
	rt        *island.Runtime
	lib       *treedoc.Library
	log       memdom.Log
}

func newStage() *stage {
	doc := memdom.NewDocument()
	c, _ := doc.CreateElement("main")

	rt := island.NewRuntime(doc)
	defs := island.Builtins()
	types := make([]vdom.ForeignType, 0, len(defs))
	for _, name := range island.Names(defs) {
		types = append(types, defs[name])
	}

	s := &stage{
		doc:       doc,
		container: c.(*memdom.Node),
		root:      reconcile.NewRoot(reconcile.NewKit(doc, reconcile.WithForeignAdapter(rt)), c),
		rt:        rt,
		lib:       treedoc.NewLibrary(types...),
	}
	doc.SetRecorder(&s.log)
	return s
}

// render loads data and reconciles the root against it.
func (s *stage) render(ctx context.Context, data []byte) error {
	d, err := treedoc.Load(data, treedoc.WithLibrary(s.lib))
	if err != nil {
		return err
	}
	raw, err := d.Build()
	if err != nil {
		return err
	}
	if err := s.root.Render(ctx, raw); err != nil {
		return err
	}
	return s.rt.Tick()
}

func (s *stage) html(pretty bool) string {
	if pretty {
		return memdom.IndentHTML(s.container, "  ")
	}
	return memdom.InnerHTML(s.container)
}

func (s *stage) close(ctx context.Context) {
	_ = s.root.Unmount(ctx)
	_ = s.rt.Close()
}

// documents returns a reader for document locations given on the command line.
func (a *app) documents(cmd *cobra.Command) *source.Reader {
	return source.NewReader(
		source.WithStdin(cmd.InOrStdin()),
		source.WithS3Config(a.cfg.S3),
	)
}
