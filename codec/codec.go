/*
Package codec provides a minimal protobuf wire format encoder and decoder
used by all persisted models, messages and transactions.

Only varint and length delimited fields are supported. Zero values are
omitted when encoding, the same way proto3 does it, so that the binary
representation of a model is deterministic.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc/errors"
)

// Wire types supported by this codec.
const (
	WireVarint = 0
	WireBytes  = 2
)

// Marshaller is implemented by any type that can be embedded as a nested
// message.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Encoder serializes fields into the protobuf wire format. Fields must be
// written in ascending order to produce a canonical representation.
type Encoder struct {
	buf *proto.Buffer
}

// NewEncoder returns an encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field, wire int) {
	// Buffer writes never fail.
	_ = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// Uint64 writes an unsigned varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.key(field, WireVarint)
	_ = e.buf.EncodeVarint(v)
	return e
}

// Int64 writes a signed varint field using the proto int64 encoding. Zero
// is omitted.
func (e *Encoder) Int64(field int, v int64) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Bool writes a boolean field. False is omitted.
func (e *Encoder) Bool(field int, v bool) *Encoder {
	if !v {
		return e
	}
	return e.Uint64(field, 1)
}

// Bytes writes a length delimited field. Empty values are omitted.
func (e *Encoder) Bytes(field int, b []byte) *Encoder {
	if len(b) == 0 {
		return e
	}
	e.key(field, WireBytes)
	_ = e.buf.EncodeRawBytes(b)
	return e
}

// RepeatedBytes writes every element as a length delimited field, empty
// elements included, so that the decoded slice keeps its length.
func (e *Encoder) RepeatedBytes(field int, list [][]byte) *Encoder {
	for _, b := range list {
		e.key(field, WireBytes)
		_ = e.buf.EncodeRawBytes(b)
	}
	return e
}

// String writes a length delimited string field. Empty values are omitted.
func (e *Encoder) String(field int, s string) *Encoder {
	return e.Bytes(field, []byte(s))
}

// Message writes a nested message. Nil messages are omitted.
func (e *Encoder) Message(field int, m Marshaller) error {
	if isNil(m) {
		return nil
	}
	raw, err := m.Marshal()
	if err != nil {
		return err
	}
	e.key(field, WireBytes)
	_ = e.buf.EncodeRawBytes(raw)
	return nil
}

// Result returns the serialized bytes.
func (e *Encoder) Result() []byte {
	return e.buf.Bytes()
}

// Decoder reads fields serialized in the protobuf wire format.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder returns a decoder reading given bytes.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{data: raw}
}

// More returns true if there is still data to read.
func (d *Decoder) More() bool {
	return d.pos < len(d.data)
}

func (d *Decoder) varint() (uint64, error) {
	x, n := proto.DecodeVarint(d.data[d.pos:])
	if n == 0 {
		return 0, errors.Wrap(errors.ErrInput, "malformed varint")
	}
	d.pos += n
	return x, nil
}

// Next reads the key of the next field and returns its number and wire type.
func (d *Decoder) Next() (field int, wire int, err error) {
	k, err := d.varint()
	if err != nil {
		return 0, 0, err
	}
	field, wire = int(k>>3), int(k&0x7)
	if field <= 0 {
		return 0, 0, errors.Wrapf(errors.ErrInput, "invalid field number %d", field)
	}
	return field, wire, nil
}

// Uint64 reads a varint value. Given wire type must be WireVarint.
func (d *Decoder) Uint64(wire int) (uint64, error) {
	if wire != WireVarint {
		return 0, errors.Wrapf(errors.ErrInput, "want varint, got wire type %d", wire)
	}
	return d.varint()
}

// Int64 reads a signed varint value.
func (d *Decoder) Int64(wire int) (int64, error) {
	v, err := d.Uint64(wire)
	return int64(v), err
}

// Bool reads a boolean value.
func (d *Decoder) Bool(wire int) (bool, error) {
	v, err := d.Uint64(wire)
	return v != 0, err
}

// Bytes reads a length delimited value. Returned slice is a copy and does
// not share memory with the decoded data.
func (d *Decoder) Bytes(wire int) ([]byte, error) {
	if wire != WireBytes {
		return nil, errors.Wrapf(errors.ErrInput, "want bytes, got wire type %d", wire)
	}
	size, err := d.varint()
	if err != nil {
		return nil, err
	}
	end := d.pos + int(size)
	if size > uint64(len(d.data)) || end > len(d.data) {
		return nil, errors.Wrap(errors.ErrInput, "length out of range")
	}
	b := make([]byte, size)
	copy(b, d.data[d.pos:end])
	d.pos = end
	return b, nil
}

// String reads a length delimited string value.
func (d *Decoder) String(wire int) (string, error) {
	b, err := d.Bytes(wire)
	return string(b), err
}

// Skip discards the value of an unknown field.
func (d *Decoder) Skip(wire int) error {
	switch wire {
	case WireVarint:
		_, err := d.varint()
		return err
	case WireBytes:
		_, err := d.Bytes(wire)
		return err
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", wire)
	}
}
