// Package relay provides the WebSocket implementation of domain.Channel used
// to talk to a chat server.
//
// Every event travels as one JSON text frame:
//
//	{"event": "<name>", "data": <payload>, "ack": "<id>"}
//
// The ack field is set only on requests that expect an acknowledgement; the
// server answers with an "ack" event echoing the same id. Ids are random
// UUIDs.
//
// A Conn runs one reader and one writer goroutine. Inbound events are handed
// to subscribers from the reader goroutine, one at a time and in arrival
// order, starting once Start is called; until then frames wait in the socket.
// Outbound events go through a bounded queue; when the queue is full or
// the connection is gone the event is dropped and the caller gets an error.
// Nothing is retried.
package relay
