// Package domain defines the chat data model and the contracts between the
// client's components. It contains plain wire/state types (in types) and
// interfaces (in interfaces), re-exported here for compact imports.
package domain
