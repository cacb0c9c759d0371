package schema

// Base is a base schema for embedding into structured message payloads
type Base struct{}

// String implements Schema interface
func (r Base) String() string {
	return ""
}
