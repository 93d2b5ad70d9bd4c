package engine

// Error is an engine-side command rejection. The message is surfaced to the
// operator verbatim; Command records which round trip failed for logging.
type Error struct {
	Command string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
