package research

import "errors"

var (
	// ErrGenerationFailed is returned when a model call errors or yields
	// unusable output after retries.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrEmptyInput is returned when a turn is started with blank input.
	ErrEmptyInput = errors.New("empty user input")
)
