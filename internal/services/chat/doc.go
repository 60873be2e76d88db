// Package chat runs one chat session at a time against a chat server.
//
// The Controller dials a channel, subscribes the roster and message-log
// handlers for the lifetime of that session, requests history, and remembers
// the endpoint for the next start. Outbound messages are sealed with the
// process keyring and sent fire-and-forget; a message that cannot be sent is
// dropped and the caller is told why.
//
// Switching endpoints tears the previous session down first: every handler it
// subscribed is removed and its channel closed. Handlers that were already
// running when that happened find the session gone and leave state alone.
package chat
