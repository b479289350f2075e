package memdom

import "fmt"

// MutationOp is the type of a recorded host mutation.
type MutationOp uint8

const (
	OpCreateElement MutationOp = 0x01 // Name: tag
	OpCreateText    MutationOp = 0x02 // Value: text
	OpCreateMarker  MutationOp = 0x03
	OpInsert        MutationOp = 0x04 // Parent, Ref (0 = append)
	OpRemove        MutationOp = 0x05 // Parent
	OpSetAttr       MutationOp = 0x06 // Name, Value
	OpSetProp       MutationOp = 0x07 // Name, Value: type description
	OpRemoveAttr    MutationOp = 0x08 // Name
	OpSetText       MutationOp = 0x09 // Value
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateMarker:
		return "CreateMarker"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetAttr:
		return "SetAttr"
	case OpSetProp:
		return "SetProp"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetText:
		return "SetText"
	default:
		return "Unknown"
	}
}

// Mutation is one host-tree operation, expressed in node IDs.
type Mutation struct {
	Op     MutationOp
	Node   uint64
	Parent uint64
	Ref    uint64
	Name   string
	Value  string
}

// String renders the mutation as a single log line.
func (m Mutation) String() string {
	switch m.Op {
	case OpCreateElement:
		return fmt.Sprintf("create #%d <%s>", m.Node, m.Name)
	case OpCreateText:
		return fmt.Sprintf("create #%d text %q", m.Node, m.Value)
	case OpCreateMarker:
		return fmt.Sprintf("create #%d marker", m.Node)
	case OpInsert:
		if m.Ref == 0 {
			return fmt.Sprintf("append #%d into #%d", m.Node, m.Parent)
		}
		return fmt.Sprintf("insert #%d into #%d before #%d", m.Node, m.Parent, m.Ref)
	case OpRemove:
		return fmt.Sprintf("remove #%d from #%d", m.Node, m.Parent)
	case OpSetAttr:
		return fmt.Sprintf("set #%d %s=%q", m.Node, m.Name, m.Value)
	case OpSetProp:
		return fmt.Sprintf("prop #%d %s=(%s)", m.Node, m.Name, m.Value)
	case OpRemoveAttr:
		return fmt.Sprintf("unset #%d %s", m.Node, m.Name)
	case OpSetText:
		return fmt.Sprintf("text #%d %q", m.Node, m.Value)
	default:
		return fmt.Sprintf("unknown op %d on #%d", m.Op, m.Node)
	}
}

// Recorder observes document mutations.
type Recorder interface {
	Record(m Mutation)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(m Mutation)

// Record implements Recorder.
func (f RecorderFunc) Record(m Mutation) { f(m) }

// Log is a Recorder that buffers mutations in order.
type Log struct {
	entries []Mutation
}

// Record implements Recorder.
func (l *Log) Record(m Mutation) {
	l.entries = append(l.entries, m)
}

// Entries returns the buffered mutations without clearing them.
func (l *Log) Entries() []Mutation {
	return l.entries
}

// Take returns the buffered mutations and clears the log.
func (l *Log) Take() []Mutation {
	out := l.entries
	l.entries = nil
	return out
}

// Len returns the number of buffered mutations.
func (l *Log) Len() int {
	return len(l.entries)
}

// Count returns how many buffered mutations have the given op.
func (l *Log) Count(op MutationOp) int {
	n := 0
	for _, m := range l.entries {
		if m.Op == op {
			n++
		}
	}
	return n
}
