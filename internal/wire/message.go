// Package wire carries protocol messages between in-process parties. Messages
// are protobuf Structs so that a middlebox sees exactly the bytes a network
// peer would.
package wire

import (
	"encoding/base64"
	"fmt"
	"math/big"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	kindField  = "kind"
	intsField  = "ints"
	bytesField = "bytes"
)

// Message is a typed envelope of named big integers and byte strings.
type Message struct {
	Kind  string
	Ints  map[string]*big.Int
	Bytes map[string][]byte
}

// NewMessage creates an empty message of the given kind.
func NewMessage(kind string) Message {
	return Message{Kind: kind, Ints: map[string]*big.Int{}, Bytes: map[string][]byte{}}
}

// WithInt sets an integer field and returns the message for chaining.
func (m Message) WithInt(name string, v *big.Int) Message {
	m.Ints[name] = new(big.Int).Set(v)

	return m
}

// WithBytes sets a byte-string field and returns the message for chaining.
func (m Message) WithBytes(name string, v []byte) Message {
	m.Bytes[name] = append([]byte(nil), v...)

	return m
}

// Int returns an integer field or ErrMissingField.
func (m Message) Int(name string) (*big.Int, error) {
	v, ok := m.Ints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMissingField, m.Kind, name)
	}

	return v, nil
}

// Byte returns a byte-string field or ErrMissingField.
func (m Message) Byte(name string) ([]byte, error) {
	v, ok := m.Bytes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMissingField, m.Kind, name)
	}

	return v, nil
}

// Marshal encodes the message as a serialized structpb.Struct.
func (m Message) Marshal() ([]byte, error) {
	ints := make(map[string]any, len(m.Ints))
	for k, v := range m.Ints {
		ints[k] = v.Text(16)
	}

	raw := make(map[string]any, len(m.Bytes))
	for k, v := range m.Bytes {
		raw[k] = base64.StdEncoding.EncodeToString(v)
	}

	s, err := structpb.NewStruct(map[string]any{
		kindField:  m.Kind,
		intsField:  ints,
		bytesField: raw,
	})
	if err != nil {
		return nil, fmt.Errorf("building struct: %w", err)
	}

	data, err := proto.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling message: %w", err)
	}

	return data, nil
}

// Unmarshal decodes a message produced by Marshal.
func Unmarshal(data []byte) (Message, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return Message{}, fmt.Errorf("unmarshaling message: %w", err)
	}

	fields := s.GetFields()

	m := NewMessage(fields[kindField].GetStringValue())
	if m.Kind == "" {
		return Message{}, fmt.Errorf("%w: kind", ErrMalformed)
	}

	for k, v := range fields[intsField].GetStructValue().GetFields() {
		n, ok := new(big.Int).SetString(v.GetStringValue(), 16)
		if !ok {
			return Message{}, fmt.Errorf("%w: integer %s", ErrMalformed, k)
		}

		m.Ints[k] = n
	}

	for k, v := range fields[bytesField].GetStructValue().GetFields() {
		b, err := base64.StdEncoding.DecodeString(v.GetStringValue())
		if err != nil {
			return Message{}, fmt.Errorf("%w: bytes %s: %w", ErrMalformed, k, err)
		}

		m.Bytes[k] = b
	}

	return m, nil
}
