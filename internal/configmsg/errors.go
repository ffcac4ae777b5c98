package configmsg

import "errors"

// Validation errors surfaced to operators.
//
// The error strings are part of the HTTP API contract: the /api/config
// handler returns them verbatim in the 400 response body, so they must not
// change without coordinating with the frontend.
var (
	// ErrNotAnObject is returned when the top-level request body is not a
	// JSON object.
	ErrNotAnObject = errors.New("payload must be a JSON object")

	// ErrMissingSerial is returned when the serial field is absent or blank
	// after trimming.
	ErrMissingSerial = errors.New("missing 'serial'")

	// ErrInvalidRecipients is returned when recipients is present but not a
	// list.
	ErrInvalidRecipients = errors.New("recipients must be a list")

	// ErrInvalidEvents is returned when events is present but not a list.
	ErrInvalidEvents = errors.New("events must be a list")
)

// IsClientError reports whether err is one of the validation errors whose
// message may be echoed back to the requester. Anything else maps to a
// generic "bad request".
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotAnObject) ||
		errors.Is(err, ErrMissingSerial) ||
		errors.Is(err, ErrInvalidRecipients) ||
		errors.Is(err, ErrInvalidEvents)
}
