// Package message defines the wire protocol spoken over each WebSocket
// connection: the JSON envelope for the shared value and the framed chat
// payloads, plus classification of inbound client messages.
package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message type discriminators on the JSON envelope.
const (
	TypeValor       = "valor"
	TypeUpdateValor = "updateValor"
)

// Valor is the envelope broadcast to every client whenever the shared
// value is replaced, and replayed to each client on join.
type Valor struct {
	Type  string `json:"type"`
	Valor int64  `json:"valor"`
}

// ValorPayload marshals the shared-value envelope for v.
func ValorPayload(v int64) ([]byte, error) {
	return json.Marshal(Valor{Type: TypeValor, Valor: v})
}

// Welcome is the greeting sent to a client right after it connects,
// before the shared value is replayed.
func Welcome(id string) string {
	return fmt.Sprintf("👋 Bem-vindo! Seu id é %s", id)
}

// SelfText frames a chat message echoed back to its author.
func SelfText(id, text string) string {
	return fmt.Sprintf("🟢 Você (%s) disse: %s", id, text)
}

// OtherText frames a chat message delivered to everyone but its author.
func OtherText(id, text string) string {
	return fmt.Sprintf("🔵 %s disse: %s", id, text)
}

// Kind classifies an inbound client message.
type Kind int

const (
	// KindPlainText is any message that is not an unambiguous command.
	KindPlainText Kind = iota
	// KindUpdateValor is a well-formed shared-value replacement command.
	KindUpdateValor
)

// Inbound is a classified client message. Exactly one of Text or Valor
// is meaningful depending on Kind.
type Inbound struct {
	Kind  Kind
	Valor int64
	Text  string
}

// ParseInbound classifies raw client bytes. A message is a value update
// only when it is valid JSON of the shape
// {"type":"updateValor","valor":<integer>}; anything else, including
// invalid JSON, a different type tag, or a non-integer valor, falls back
// to plain text and is forwarded verbatim. Malformed commands are never
// rejected.
func ParseInbound(data []byte) Inbound {
	var cmd struct {
		Type  string      `json:"type"`
		Valor json.Number `json:"valor"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&cmd); err == nil && !dec.More() && cmd.Type == TypeUpdateValor {
		if v, err := cmd.Valor.Int64(); err == nil {
			return Inbound{Kind: KindUpdateValor, Valor: v}
		}
	}

	return Inbound{Kind: KindPlainText, Text: string(data)}
}
