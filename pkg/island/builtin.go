package island

import (
	"fmt"
	"sort"

	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
)

// Counter is a clickable counter island.
//
// Inputs: start (initial count, re-applied when it changes) and label.
// Outputs: change, emitted with the new count after each click.
var Counter = &Definition{
	Name:     "counter",
	Tag:      "button",
	Inputs:   []string{"start", "label"},
	Outputs:  []string{"change"},
	Strategy: CheckAlways,
	New:      func(*Context) Component { return &counter{} },
}

// Badge shows its text input. It is checked only when the input changes.
var Badge = &Definition{
	Name:     "badge",
	Tag:      "span",
	Inputs:   []string{"text"},
	Strategy: OnPush,
	New:      func(*Context) Component { return &badge{} },
}

// Builtins returns the built-in definitions by name.
func Builtins() map[string]*Definition {
	return map[string]*Definition{
		Counter.Name: Counter,
		Badge.Name:   Badge,
	}
}

// Names returns the sorted names of a definition set.
func Names(defs map[string]*Definition) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type counter struct {
	text  host.Node
	count int
	shown string
}

func (c *counter) Init(ctx *Context) error {
	tree := ctx.Tree()
	text, err := tree.CreateText("")
	if err != nil {
		return err
	}
	if err := tree.InsertBefore(ctx.Root(), text, nil); err != nil {
		return err
	}
	c.text = text
	c.count = toInt(ctx.Input("start"))

	return tree.SetProperty(ctx.Root(), "onclick", func(any) {
		c.count++
		_ = ctx.Emit("change", c.count)
		ctx.MarkForCheck()
	})
}

func (c *counter) Check(ctx *Context) error {
	if ctx.Changed("start") {
		c.count = toInt(ctx.Input("start"))
	}
	s := fmt.Sprint(c.count)
	if label, ok := ctx.Input("label").(string); ok && label != "" {
		s = label + ": " + s
	}
	if s == c.shown {
		return nil
	}
	c.shown = s
	return ctx.Tree().SetText(c.text, s)
}

func (c *counter) Destroy() {}

type badge struct {
	text host.Node
}

func (b *badge) Init(ctx *Context) error {
	text, err := ctx.Tree().CreateText("")
	if err != nil {
		return err
	}
	b.text = text
	return ctx.Tree().InsertBefore(ctx.Root(), text, nil)
}

func (b *badge) Check(ctx *Context) error {
	s, _ := vdom.Stringify(ctx.Input("text"))
	return ctx.Tree().SetText(b.text, s)
}

func (b *badge) Destroy() {}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
