// Package intake turns inbound pub/sub messages into device registry
// mutations.
//
// Devices publish on devices/<serial>/<action> topics. Two actions are
// understood: "hello" announces a device (creating or merging its record)
// and "status" flips the online flag of an already-known device. Everything
// else is dropped with a typed error and no side effect.
//
// The router holds no transport state. The MQTT client callback and the HTTP
// simulation endpoint both call Router.HandleMessage with the same topic and
// payload inputs and get identical registry effects, which is what makes the
// routing logic unit-testable by direct invocation.
package intake
