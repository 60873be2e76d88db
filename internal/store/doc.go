// Package store remembers the chat endpoint for the current login session.
//
// Two implementations of domain.EndpointStore are provided:
//   - PebbleStore keeps the endpoint in a PebbleDB key-value store.
//   - FileStore keeps it in a small JSON file written atomically.
//
// Both live under a session-scoped state directory (see SessionDir), so the
// endpoint survives a restart of the client within the same login session but
// not a reboot. Nothing else is persisted: messages and key material never
// touch disk.
package store
