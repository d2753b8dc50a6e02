package ws

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes envelopes and payloads for one connection.
type Codec interface {
	Name() string
	// FrameType is the WebSocket frame type the codec writes.
	FrameType() websocket.MessageType
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// CodecByName maps the ?codec= query value to a codec. Empty means JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

type jsonCodec struct{}

type jsonEnvelope struct {
	Type    uint8           `json:"type"`
	Tick    uint32          `json:"tick"`
	Payload json.RawMessage `json:"payload"`
}

func (jsonCodec) Name() string                     { return "json" }
func (jsonCodec) FrameType() websocket.MessageType { return websocket.MessageText }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Encode(msg Message) ([]byte, error) {
	payload := json.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return json.Marshal(jsonEnvelope{Type: msg.Type, Tick: msg.Tick, Payload: payload})
}

func (jsonCodec) Decode(data []byte) (Message, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Message{}, fmt.Errorf("decode json envelope: %w", err)
	}
	return Message{Type: env.Type, Tick: env.Tick, Payload: env.Payload}, nil
}

// msgpackCodec reads the json struct tags so both codecs share field names.
type msgpackCodec struct{}

type msgpackEnvelope struct {
	Type    uint8              `json:"type"`
	Tick    uint32             `json:"tick"`
	Payload msgpack.RawMessage `json:"payload"`
}

// msgpackNil is the encoding of a nil value.
var msgpackNil = []byte{0xc0}

func (msgpackCodec) Name() string                     { return "msgpack" }
func (msgpackCodec) FrameType() websocket.MessageType { return websocket.MessageBinary }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

func (c msgpackCodec) Encode(msg Message) ([]byte, error) {
	payload := msgpack.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = msgpackNil
	}
	return c.Marshal(&msgpackEnvelope{Type: msg.Type, Tick: msg.Tick, Payload: payload})
}

func (c msgpackCodec) Decode(data []byte) (Message, error) {
	var env msgpackEnvelope
	if err := c.Unmarshal(data, &env); err != nil {
		return Message{}, fmt.Errorf("decode msgpack envelope: %w", err)
	}
	return Message{Type: env.Type, Tick: env.Tick, Payload: env.Payload}, nil
}
