package schema

import "encoding/json"

// Schema is message schema interface
type Schema interface {
	// String returns the prompt representation of the schema
	String() string
}

// Stringify renders a schema for inclusion in a chat message.
// String schemas pass through untouched, everything else is JSON encoded.
func Stringify(s Schema) string {
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ToBytes renders a schema as raw bytes
func ToBytes(s Schema) []byte {
	if v, ok := s.(String); ok {
		return []byte(v)
	}
	bs, _ := json.Marshal(s)
	return bs
}
