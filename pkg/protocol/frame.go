package protocol

import (
	"errors"
	"fmt"

	graferrors "github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/host/memdom"
)

// Version is the wire format version written in every frame.
const Version byte = 0x01

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameMutations FrameType = 0x01 // Server → Client host mutations
	FrameError     FrameType = 0x02 // Server → Client error report
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameMutations:
		return "Mutations"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
	ErrInvalidFrameType   = errors.New("protocol: invalid frame type")
	ErrInvalidOp          = errors.New("protocol: invalid mutation op")
	ErrTrailingBytes      = errors.New("protocol: trailing bytes after frame")
)

// MutationsFrame carries the host mutations of one render.
type MutationsFrame struct {
	Seq       uint64
	Mutations []memdom.Mutation
}

// ErrorFrame reports a failed render to the client.
type ErrorFrame struct {
	Seq     uint64
	Code    string
	Message string
}

// PeekType returns the type of an encoded frame without decoding it.
func PeekType(data []byte) (FrameType, error) {
	if len(data) < 2 {
		return 0, frameErr(fmt.Errorf("%w: %d bytes", ErrInvalidFrameType, len(data)))
	}
	if data[0] != Version {
		return 0, frameErr(fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0]))
	}
	return FrameType(data[1]), nil
}

// EncodeMutations encodes a mutations frame.
func EncodeMutations(f *MutationsFrame) []byte {
	e := NewEncoder()
	e.WriteByte(Version)
	e.WriteByte(byte(FrameMutations))
	e.WriteUvarint(f.Seq)
	e.WriteUvarint(uint64(len(f.Mutations)))
	for _, m := range f.Mutations {
		encodeMutation(e, m)
	}
	return e.Bytes()
}

func encodeMutation(e *Encoder, m memdom.Mutation) {
	e.WriteByte(byte(m.Op))
	e.WriteUvarint(m.Node)
	switch m.Op {
	case memdom.OpCreateElement, memdom.OpRemoveAttr:
		e.WriteString(m.Name)
	case memdom.OpCreateText, memdom.OpSetText:
		e.WriteString(m.Value)
	case memdom.OpInsert:
		e.WriteUvarint(m.Parent)
		e.WriteUvarint(m.Ref)
	case memdom.OpRemove:
		e.WriteUvarint(m.Parent)
	case memdom.OpSetAttr, memdom.OpSetProp:
		e.WriteString(m.Name)
		e.WriteString(m.Value)
	}
}

// DecodeMutations decodes a mutations frame with the default limits.
func DecodeMutations(data []byte) (*MutationsFrame, error) {
	return DecodeMutationsWithLimits(data, DefaultLimits())
}

// DecodeMutationsWithLimits decodes a mutations frame.
func DecodeMutationsWithLimits(data []byte, limits Limits) (*MutationsFrame, error) {
	if err := expectType(data, FrameMutations); err != nil {
		return nil, err
	}
	d := NewDecoder(data[2:]).WithLimits(limits)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, frameErr(err)
	}
	// The smallest mutation is an op byte and a one-byte node ID.
	count, err := d.readCount(d.limits.MaxMutations, 2)
	if err != nil {
		return nil, frameErr(err)
	}

	f := &MutationsFrame{Seq: seq, Mutations: make([]memdom.Mutation, 0, count)}
	for i := 0; i < count; i++ {
		m, err := decodeMutation(d)
		if err != nil {
			return nil, frameErr(fmt.Errorf("mutation %d: %w", i, err))
		}
		f.Mutations = append(f.Mutations, m)
	}
	if !d.EOF() {
		return nil, frameErr(ErrTrailingBytes)
	}
	return f, nil
}

func decodeMutation(d *Decoder) (memdom.Mutation, error) {
	var m memdom.Mutation
	op, err := d.ReadByte()
	if err != nil {
		return m, err
	}
	m.Op = memdom.MutationOp(op)
	if m.Node, err = d.ReadUvarint(); err != nil {
		return m, err
	}

	switch m.Op {
	case memdom.OpCreateElement, memdom.OpRemoveAttr:
		m.Name, err = d.ReadString()
	case memdom.OpCreateText, memdom.OpSetText:
		m.Value, err = d.ReadString()
	case memdom.OpCreateMarker:
	case memdom.OpInsert:
		if m.Parent, err = d.ReadUvarint(); err == nil {
			m.Ref, err = d.ReadUvarint()
		}
	case memdom.OpRemove:
		m.Parent, err = d.ReadUvarint()
	case memdom.OpSetAttr, memdom.OpSetProp:
		if m.Name, err = d.ReadString(); err == nil {
			m.Value, err = d.ReadString()
		}
	default:
		return m, fmt.Errorf("%w: 0x%02x", ErrInvalidOp, op)
	}
	return m, err
}

// EncodeError encodes an error frame.
func EncodeError(f *ErrorFrame) []byte {
	e := NewEncoder()
	e.WriteByte(Version)
	e.WriteByte(byte(FrameError))
	e.WriteUvarint(f.Seq)
	e.WriteString(f.Code)
	e.WriteString(f.Message)
	return e.Bytes()
}

// DecodeError decodes an error frame.
func DecodeError(data []byte) (*ErrorFrame, error) {
	if err := expectType(data, FrameError); err != nil {
		return nil, err
	}
	d := NewDecoder(data[2:])

	var f ErrorFrame
	var err error
	if f.Seq, err = d.ReadUvarint(); err != nil {
		return nil, frameErr(err)
	}
	if f.Code, err = d.ReadString(); err != nil {
		return nil, frameErr(err)
	}
	if f.Message, err = d.ReadString(); err != nil {
		return nil, frameErr(err)
	}
	if !d.EOF() {
		return nil, frameErr(ErrTrailingBytes)
	}
	return &f, nil
}

// ErrorFrameFor builds an error frame from err, keeping its graft code when
// it has one.
func ErrorFrameFor(seq uint64, err error) *ErrorFrame {
	ge := graferrors.FromError(err, "E240")
	return &ErrorFrame{Seq: seq, Code: ge.Code, Message: err.Error()}
}

func expectType(data []byte, want FrameType) error {
	got, err := PeekType(data)
	if err != nil {
		return err
	}
	if got != want {
		return frameErr(fmt.Errorf("%w: got %s, want %s", ErrInvalidFrameType, got, want))
	}
	return nil
}

func frameErr(err error) error {
	return graferrors.New("E240").Wrap(err)
}
