// Package channel implements the inbound notification channel: a websocket
// client that decodes pushed JSON frames into notifications.
//
// This package is internal to SellerDash. The channel only receives; no
// outbound messages are defined. Each text frame must decode to an object
// with type, message and timestamp fields. Frames that do not are dropped
// and logged.
//
// A [Listener] moves through a small state machine:
//
//	Idle -> Connecting -> Open -> Closed | Failed
//
// By default a transport failure ends delivery for the process lifetime.
// [WithReconnect] enables redialing with a doubling backoff.
package channel
