package intake

import "errors"

// Domain errors for inbound message routing.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, intake.ErrInvalidTopic) {
//	    // drop the message
//	}
//
// None of them is fatal: the worst outcome of any inbound message is that it
// is dropped.
var (
	// ErrInvalidTopic is returned when a topic does not match the
	// devices/<serial>/<action> grammar.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrUnsupportedAction is returned for a well-formed topic whose action
	// segment is not recognised.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrMissingField is returned when a status payload is not an object or
	// carries no online indicator.
	ErrMissingField = errors.New("status payload missing 'online'/'on'")
)
