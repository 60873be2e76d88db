// Package commands defines the sealchat CLI and wires dependencies for subcommands.
//
// Commands
//
//   - connect [endpoint]  Join a chat server; resumes the remembered endpoint
//   - endpoint            Print the remembered endpoint
//   - forget              Clear the remembered endpoint
//   - seal <text>         Encrypt text with a fresh secret and print the payload
//   - open <ciphertext>   Decrypt a payload with --key
//
// # Implementation
//
// The root command validates flags and builds the logger before any
// subcommand runs. Commands that need the network or the endpoint store build
// them on demand through the app package, so the offline commands never touch
// the state directory.
package commands
