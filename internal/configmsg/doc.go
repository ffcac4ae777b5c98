// Package configmsg validates operator configuration requests and produces
// the canonical message handed to the transport dispatcher.
//
// Validation is synchronous, deterministic apart from ID and timestamp
// generation, and free of side effects other than advisory logging. The
// resulting PreparedMessage is owned by the caller.
package configmsg
