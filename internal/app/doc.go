// Package app wires application dependencies for the CLI.
//
// It validates Config, builds the logger, and constructs the keyring, endpoint
// store, transport, metrics and chat controller, exposing them via the Wire
// struct for commands to use.
package app
