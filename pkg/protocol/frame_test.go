package protocol

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	graferrors "github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/host/memdom"
)

func TestMutationsRoundTrip(t *testing.T) {
	frame := &MutationsFrame{
		Seq: 300,
		Mutations: []memdom.Mutation{
			{Op: memdom.OpCreateElement, Node: 2, Name: "div"},
			{Op: memdom.OpCreateText, Node: 3, Value: "héllo"},
			{Op: memdom.OpCreateMarker, Node: 4},
			{Op: memdom.OpInsert, Node: 3, Parent: 2},
			{Op: memdom.OpInsert, Node: 4, Parent: 2, Ref: 3},
			{Op: memdom.OpRemove, Node: 4, Parent: 2},
			{Op: memdom.OpSetAttr, Node: 2, Name: "class", Value: "a b"},
			{Op: memdom.OpSetProp, Node: 2, Name: "onclick", Value: "listener"},
			{Op: memdom.OpRemoveAttr, Node: 2, Name: "class"},
			{Op: memdom.OpSetText, Node: 3, Value: ""},
		},
	}

	data := EncodeMutations(frame)
	if typ, err := PeekType(data); err != nil || typ != FrameMutations {
		t.Fatalf("PeekType() = %v, %v", typ, err)
	}
	got, err := DecodeMutations(data)
	if err != nil {
		t.Fatalf("DecodeMutations() error = %v", err)
	}
	if !reflect.DeepEqual(got, frame) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, frame)
	}
}

func TestEmptyMutationsFrame(t *testing.T) {
	data := EncodeMutations(&MutationsFrame{Seq: 1})
	got, err := DecodeMutations(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seq != 1 || len(got.Mutations) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestErrorFrameRoundTrip(t *testing.T) {
	f := ErrorFrameFor(7, graferrors.New("E230").WithDetail("bad root"))
	if f.Code != "E230" {
		t.Errorf("Code = %q, want E230", f.Code)
	}
	got, err := DecodeError(EncodeError(f))
	if err != nil {
		t.Fatal(err)
	}
	if *got != *f {
		t.Errorf("got %+v, want %+v", got, f)
	}

	plain := ErrorFrameFor(1, errors.New("boom"))
	if plain.Code != "E240" || plain.Message == "" {
		t.Errorf("plain error frame = %+v", plain)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := EncodeMutations(&MutationsFrame{Seq: 1, Mutations: []memdom.Mutation{
		{Op: memdom.OpCreateElement, Node: 1, Name: "p"},
	}})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidFrameType},
		{"bad version", []byte{0x09, byte(FrameMutations), 0, 0}, ErrUnsupportedVersion},
		{"wrong type", EncodeError(&ErrorFrame{}), ErrInvalidFrameType},
		{"truncated", valid[:len(valid)-1], io.ErrUnexpectedEOF},
		{"trailing", append(append([]byte{}, valid...), 0), ErrTrailingBytes},
		{"bad op", []byte{Version, byte(FrameMutations), 0, 1, 0x7f, 1}, ErrInvalidOp},
		{"count beyond input", []byte{Version, byte(FrameMutations), 0, 50, 1, 1}, io.ErrUnexpectedEOF},
		{"varint overflow", append([]byte{Version, byte(FrameMutations)}, bytes.Repeat([]byte{0xff}, 11)...), ErrVarintOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMutations(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !graferrors.HasCode(err, "E240") {
				t.Errorf("error = %v, want E240", err)
			}
		})
	}
}

func TestDecodeLimits(t *testing.T) {
	frame := &MutationsFrame{Mutations: []memdom.Mutation{
		{Op: memdom.OpCreateText, Node: 1, Value: "0123456789"},
		{Op: memdom.OpCreateMarker, Node: 2},
	}}
	data := EncodeMutations(frame)

	_, err := DecodeMutationsWithLimits(data, Limits{MaxString: 4})
	if !errors.Is(err, ErrAllocationTooLarge) {
		t.Errorf("string limit: error = %v", err)
	}
	_, err = DecodeMutationsWithLimits(data, Limits{MaxMutations: 1})
	if !errors.Is(err, ErrCollectionTooLarge) {
		t.Errorf("count limit: error = %v", err)
	}
	if _, err := DecodeMutationsWithLimits(data, Limits{}); err != nil {
		t.Errorf("zero limits should keep defaults: %v", err)
	}
}

func TestEncodeDocumentLog(t *testing.T) {
	doc := memdom.NewDocument()
	log := &memdom.Log{}
	doc.SetRecorder(log)
	root, _ := doc.CreateElement("ul")
	li, _ := doc.CreateElement("li")
	_ = doc.SetAttribute(li, "id", "x")
	_ = doc.InsertBefore(root, li, nil)

	got, err := DecodeMutations(EncodeMutations(&MutationsFrame{Seq: 2, Mutations: log.Entries()}))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Mutations, log.Entries()) {
		t.Errorf("mutations = %v, want %v", got.Mutations, log.Entries())
	}
}

func TestUvarintEncoding(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, tt := range tests {
		e := NewEncoder()
		e.WriteUvarint(tt.v)
		if !bytes.Equal(e.Bytes(), tt.want) {
			t.Errorf("WriteUvarint(%d) = %x, want %x", tt.v, e.Bytes(), tt.want)
		}
		v, err := NewDecoder(e.Bytes()).ReadUvarint()
		if err != nil || v != tt.v {
			t.Errorf("ReadUvarint() = %d, %v, want %d", v, err, tt.v)
		}
	}
}

func TestFrameTypeString(t *testing.T) {
	if FrameMutations.String() != "Mutations" || FrameError.String() != "Error" || FrameType(9).String() != "Unknown" {
		t.Error("unexpected frame type names")
	}
}
