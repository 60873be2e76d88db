// Package codec turns chat text into wire messages and back.
//
// Outgoing text is sealed under the session keyring and sent together with
// the encoded secret. Incoming messages that carry a key are opened with that
// key; messages without a key are plain and pass through untouched, so
// encrypted and plain messages share one log.
package codec
