// Package protocol implements the binary wire format used to stream host
// mutations to live clients.
//
// Every message is one frame:
//
//	┌──────────┬────────────┬──────────────────────────────┐
//	│ Version  │ Frame Type │ Body                         │
//	│ (1 byte) │ (1 byte)   │ (type-specific)              │
//	└──────────┴────────────┴──────────────────────────────┘
//
// A mutations frame carries a sequence number and the mutations recorded
// by a memdom document during one render. An error frame carries a graft
// error code and message.
//
// # Encoding
//
//   - Varint: node IDs, counts and sequence numbers (protobuf-style)
//   - Length-prefixed: strings, prefixed with a varint length
//
// The decoder checks every length and count against the remaining input
// and against allocation limits before allocating.
package protocol
